package intersight

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestKey writes a throwaway P-256 secret key PEM and returns its path.
func writeTestKey(t *testing.T) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("MarshalECPrivateKey: %v", err)
	}
	path := filepath.Join(t.TempDir(), "secret.pem")
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
	if err := os.WriteFile(path, pemBytes, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{
		Host:       srv.URL,
		KeyID:      "testkey/testkey/testkey",
		SecretPath: writeTestKey(t),
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, srv
}

func TestNewClient_MissingCredentials(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatal("expected error for missing keyId, got nil")
	}
	if _, err := NewClient(Options{KeyID: "x"}); err == nil {
		t.Fatal("expected error for missing secretPath, got nil")
	}
	if _, err := NewClient(Options{KeyID: "x", SecretPath: "/does/not/exist.pem"}); err == nil {
		t.Fatal("expected error for unreadable secret key, got nil")
	}
}

func TestClient_Servers_SignedRequest(t *testing.T) {
	var gotAuth, gotDigest string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotDigest = r.Header.Get("Digest")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Results":[{"Name":"web-01","Model":"UCSC-C220-M5","OperPowerState":"on"}]}`))
	}))

	servers, err := client.Servers(context.Background())
	if err != nil {
		t.Fatalf("Servers: %v", err)
	}
	if len(servers) != 1 || servers[0].Name != "web-01" {
		t.Errorf("Servers = %+v, want one web-01", servers)
	}
	if servers[0].PowerState != "on" {
		t.Errorf("PowerState = %q, want on", servers[0].PowerState)
	}

	if !strings.HasPrefix(gotAuth, "Signature ") {
		t.Errorf("Authorization = %q, want Signature scheme", gotAuth)
	}
	if !strings.HasPrefix(gotDigest, "SHA-256=") {
		t.Errorf("Digest = %q, want SHA-256 digest", gotDigest)
	}
}

func TestClient_ServerByName_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Results":[]}`))
	}))

	if _, err := client.ServerByName(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for unknown server, got nil")
	}
}

func TestClient_APIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"Unauthorized"}`, http.StatusUnauthorized)
	}))

	if _, err := client.Servers(context.Background()); err == nil {
		t.Fatal("expected error for 401 response, got nil")
	}
}

func TestService_Query_Unknown(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unknown category must not hit the API")
	}))
	svc := NewService(client, nil)

	got, err := svc.Query(context.Background(), "sing me a song")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !strings.Contains(got, "I can help with Intersight questions") {
		t.Errorf("Query = %q, want guidance message", got)
	}
}
