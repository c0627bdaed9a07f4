package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.APIPort != 8090 {
		t.Errorf("APIPort = %d, want 8090", cfg.APIPort)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q, want localhost:6379", cfg.Redis.Addr)
	}
	if cfg.Retrieval.EmbeddingDim != 1536 {
		t.Errorf("Retrieval.EmbeddingDim = %d, want 1536", cfg.Retrieval.EmbeddingDim)
	}
}

func TestLoadConfig_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
apiPort: 9000
llm:
  defaultProvider: openai
  providers:
    openai:
      apiKey: sk-plain
      model: gpt-4o
nexusDashboard:
  url: https://nd.example.com
  username: admin
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.APIPort != 9000 {
		t.Errorf("APIPort = %d, want 9000", cfg.APIPort)
	}
	if cfg.LLM.DefaultProvider != "openai" {
		t.Errorf("DefaultProvider = %q, want openai", cfg.LLM.DefaultProvider)
	}
	if got := cfg.LLM.Providers["openai"].APIKey; got != "sk-plain" {
		t.Errorf("apiKey = %q, want sk-plain", got)
	}
	if cfg.Nexus.URL != "https://nd.example.com" {
		t.Errorf("Nexus.URL = %q, want https://nd.example.com", cfg.Nexus.URL)
	}
}

func TestLoadConfig_EnvFallback(t *testing.T) {
	t.Setenv("NEXUS_DASHBOARD_USERNAME", "env-admin")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Nexus.Username != "env-admin" {
		t.Errorf("Nexus.Username = %q, want env-admin", cfg.Nexus.Username)
	}
}
