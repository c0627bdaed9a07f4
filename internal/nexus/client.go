// Package nexus is a read-only client for the Cisco Nexus Dashboard / NDFC
// REST API. Authentication is session-token based: the client logs in lazily,
// caches the bearer token until shortly before expiry, and re-authenticates
// once when the API answers 401 (tokens can be revoked server-side).
package nexus

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	pathLogin    = "/login"
	pathSites    = "/nexus/api/sitemanagement/v4/sites"
	pathFabrics  = "/appcenter/cisco/ndfc/api/v1/lan-fabric/rest/control/fabrics"
	pathSwitches = "/appcenter/cisco/ndfc/api/v1/lan-fabric/rest/inventory/allswitches"
	pathAlarms   = "/nexus/api/alarms/v1/alarms"
)

// tokenLifetime is how long a login token is trusted before we proactively
// re-authenticate. Nexus Dashboard tokens last 20 minutes; renew early.
const tokenLifetime = 15 * time.Minute

// Options configures a Client.
type Options struct {
	// URL is the dashboard base URL, e.g. "https://nd.example.com".
	URL      string
	Username string
	Password string
	// InsecureSkipVerify disables TLS verification. Lab dashboards commonly
	// run with self-signed certificates.
	InsecureSkipVerify bool
	// HTTPClient overrides the default client (used in tests).
	HTTPClient *http.Client
	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Client is an authenticated HTTP client for Nexus Dashboard.
type Client struct {
	base     *url.URL
	username string
	password string
	http     *http.Client
	logger   *slog.Logger

	mu         sync.Mutex
	token      string
	tokenUntil time.Time
}

// NewClient builds a Client from Options, validating that the connection
// settings are present. No network call is made until the first query.
func NewClient(opts Options) (*Client, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("nexus: url is not configured")
	}
	if opts.Username == "" || opts.Password == "" {
		return nil, fmt.Errorf("nexus: username and password are required")
	}

	base, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("nexus: invalid url %q: %w", opts.URL, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.InsecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		httpClient = &http.Client{Timeout: 30 * time.Second, Transport: transport}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:     base,
		username: opts.Username,
		password: opts.Password,
		http:     httpClient,
		logger:   logger,
	}, nil
}

// login authenticates and caches the session token.
func (c *Client) login(ctx context.Context) (string, error) {
	payload, _ := json.Marshal(map[string]string{
		"userName":   c.username,
		"userPasswd": c.password,
		"domain":     "DefaultAuth",
	})

	u, err := c.base.Parse(pathLogin)
	if err != nil {
		return "", fmt.Errorf("nexus: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("nexus: build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("nexus: login failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("nexus: login returned status %d", resp.StatusCode)
	}

	var body struct {
		JWTToken string `json:"jwttoken"`
		Token    string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("nexus: decode login response: %w", err)
	}

	token := body.JWTToken
	if token == "" {
		token = body.Token
	}
	if token == "" {
		return "", fmt.Errorf("nexus: login response contained no token")
	}

	c.mu.Lock()
	c.token = token
	c.tokenUntil = time.Now().Add(tokenLifetime)
	c.mu.Unlock()

	c.logger.Debug("nexus dashboard login ok")
	return token, nil
}

// currentToken returns the cached token, logging in if it is missing or stale.
func (c *Client) currentToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	token, until := c.token, c.tokenUntil
	c.mu.Unlock()

	if token != "" && time.Now().Before(until) {
		return token, nil
	}
	return c.login(ctx)
}

// get performs an authenticated GET, retrying exactly once after a fresh
// login when the API answers 401.
func (c *Client) get(ctx context.Context, path string, out any) error {
	token, err := c.currentToken(ctx)
	if err != nil {
		return err
	}

	status, body, err := c.doGet(ctx, path, token)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		c.logger.Debug("nexus token rejected, re-authenticating")
		token, err = c.login(ctx)
		if err != nil {
			return err
		}
		status, body, err = c.doGet(ctx, path, token)
		if err != nil {
			return err
		}
	}
	if status != http.StatusOK {
		return fmt.Errorf("nexus: api returned status %d for %s", status, path)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("nexus: decode response for %s: %w", path, err)
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, path, token string) (int, []byte, error) {
	u, err := c.base.Parse(path)
	if err != nil {
		return 0, nil, fmt.Errorf("nexus: invalid path %q: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("nexus: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	// NDFC also honours the legacy cookie form.
	req.AddCookie(&http.Cookie{Name: "AuthCookie", Value: token})

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("nexus: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("nexus: read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
