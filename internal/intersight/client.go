// Package intersight is a minimal read-only client for the Cisco Intersight
// REST API. Every request is signed with the account's ECDSA API key
// (draft-cavage HTTP signatures); see internal/crypto/httpsig.go.
//
// The client exposes typed getters for the handful of inventory collections
// the experts need. Query-language features of the Intersight API ($filter,
// $select) are used sparingly to keep payloads small.
package intersight

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"bridgy/internal/crypto"
)

// DefaultHost is the SaaS Intersight endpoint. Connected Virtual Appliance
// deployments override this via config.
const DefaultHost = "intersight.com"

// Options configures a Client.
type Options struct {
	// Host is the Intersight hostname without scheme. Empty means DefaultHost.
	Host string
	// KeyID is the full API key ID from the Intersight settings page.
	KeyID string
	// SecretPath is the path to the PEM-encoded secret key file.
	SecretPath string
	// HTTPClient overrides the default client (used in tests).
	HTTPClient *http.Client
	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Client is a signed HTTP client for the Intersight API.
type Client struct {
	base   *url.URL
	keyID  string
	key    *ecdsa.PrivateKey
	http   *http.Client
	logger *slog.Logger
}

// NewClient builds a Client from Options. It fails fast when credentials are
// missing or the secret key cannot be parsed, so a misconfigured deployment is
// caught at startup rather than on the first user question.
func NewClient(opts Options) (*Client, error) {
	if opts.KeyID == "" {
		return nil, fmt.Errorf("intersight: keyId is not configured")
	}
	if opts.SecretPath == "" {
		return nil, fmt.Errorf("intersight: secretPath is not configured")
	}

	pemBytes, err := os.ReadFile(opts.SecretPath)
	if err != nil {
		return nil, fmt.Errorf("intersight: failed to read secret key: %w", err)
	}
	key, err := crypto.LoadECPrivateKey(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("intersight: %w", err)
	}

	host := opts.Host
	if host == "" {
		host = DefaultHost
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("intersight: invalid host %q: %w", opts.Host, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:   base,
		keyID:  opts.KeyID,
		key:    key,
		http:   httpClient,
		logger: logger,
	}, nil
}

// get performs a signed GET against path (which may include a query string)
// and decodes the "Results" array of the response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	u, err := c.base.Parse(path)
	if err != nil {
		return fmt.Errorf("intersight: invalid path %q: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("intersight: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if err := crypto.SignRequest(c.key, c.keyID, req, nil); err != nil {
		return fmt.Errorf("intersight: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("intersight: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("intersight: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("intersight api error", "status", resp.StatusCode, "path", path)
		return fmt.Errorf("intersight: api returned status %d for %s", resp.StatusCode, path)
	}

	var envelope struct {
		Results json.RawMessage `json:"Results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("intersight: decode envelope: %w", err)
	}
	if envelope.Results == nil {
		// Some endpoints return a bare array.
		envelope.Results = body
	}
	if err := json.Unmarshal(envelope.Results, out); err != nil {
		return fmt.Errorf("intersight: decode results: %w", err)
	}
	return nil
}
