package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bridgy/internal/crypto"
)

// ProviderConfig holds the settings for one LLM provider entry.
// APIKey may be stored encrypted ("enc:aes256:..." from the encryptkey tool);
// it is decrypted transparently by LoadConfig.
type ProviderConfig struct {
	APIKey  string `yaml:"apiKey"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"baseUrl"`
}

// LLMConfig selects which of the configured providers handles requests.
type LLMConfig struct {
	DefaultProvider string                    `yaml:"defaultProvider"`
	Providers       map[string]ProviderConfig `yaml:"providers"`
}

// IntersightConfig holds Cisco Intersight API credentials.
// KeyID and the PEM secret key come from the Intersight settings page.
type IntersightConfig struct {
	Host       string `yaml:"host"`
	KeyID      string `yaml:"keyId"`
	SecretPath string `yaml:"secretPath"`
}

// NexusConfig holds Nexus Dashboard connection settings.
// Password may be stored encrypted like LLM API keys.
type NexusConfig struct {
	URL                string `yaml:"url"`
	Username           string `yaml:"username"`
	Password           string `yaml:"password"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
}

// RedisConfig holds the conversation store connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RetrievalConfig holds the document retrieval settings.
// When PostgresDSN is empty the built-in reference corpus is used instead of pgvector.
type RetrievalConfig struct {
	PostgresDSN  string `yaml:"postgresDsn"`
	EmbeddingDim int    `yaml:"embeddingDim"`
}

// Config holds the application configuration
type Config struct {
	APIPort    int              `yaml:"apiPort"`
	LLM        LLMConfig        `yaml:"llm"`
	Intersight IntersightConfig `yaml:"intersight"`
	Nexus      NexusConfig      `yaml:"nexusDashboard"`
	Redis      RedisConfig      `yaml:"redis"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
}

// LoadConfig loads the configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		// Set defaults
		APIPort: 8090,
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Retrieval: RetrievalConfig{
			EmbeddingDim: 1536,
		},
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// If file doesn't exist, return default config
		// This allows running without a config file if flags are used
		applyEnvFallbacks(config)
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvFallbacks(config)

	if err := decryptSecrets(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvFallbacks fills in credentials from the environment when the config
// file leaves them empty. Env vars never override explicit config values.
func applyEnvFallbacks(c *Config) {
	if c.Intersight.KeyID == "" {
		c.Intersight.KeyID = os.Getenv("INTERSIGHT_API_KEY")
	}
	if c.Intersight.SecretPath == "" {
		c.Intersight.SecretPath = os.Getenv("INTERSIGHT_PEM_PATH")
	}
	if c.Nexus.URL == "" {
		c.Nexus.URL = os.Getenv("NEXUS_DASHBOARD_URL")
	}
	if c.Nexus.Username == "" {
		c.Nexus.Username = os.Getenv("NEXUS_DASHBOARD_USERNAME")
	}
	if c.Nexus.Password == "" {
		c.Nexus.Password = os.Getenv("NEXUS_DASHBOARD_PASSWORD")
	}
}

// decryptSecrets decrypts any "enc:aes256:..." values in place.
// Plain-text values pass through unchanged, so mixed config files work.
func decryptSecrets(c *Config) error {
	for name, pcfg := range c.LLM.Providers {
		key, err := crypto.DecryptValue(pcfg.APIKey)
		if err != nil {
			return fmt.Errorf("config: failed to decrypt apiKey for provider %q: %w", name, err)
		}
		pcfg.APIKey = key
		c.LLM.Providers[name] = pcfg
	}

	pw, err := crypto.DecryptValue(c.Nexus.Password)
	if err != nil {
		return fmt.Errorf("config: failed to decrypt nexusDashboard.password: %w", err)
	}
	c.Nexus.Password = pw

	return nil
}
