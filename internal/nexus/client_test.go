package nexus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// fakeDashboard is a minimal Nexus Dashboard stand-in that tracks logins and
// can be told to reject the current token.
type fakeDashboard struct {
	logins      atomic.Int64
	rejectToken atomic.Bool
	switches    []Switch
}

func (f *fakeDashboard) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(pathLogin, func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["userName"] != "admin" || creds["userPasswd"] != "secret" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		f.logins.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"jwttoken": "tok"})
	})
	mux.HandleFunc(pathSwitches, func(w http.ResponseWriter, r *http.Request) {
		if f.rejectToken.Load() {
			f.rejectToken.Store(false)
			http.Error(w, "expired", http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			http.Error(w, "no token", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(f.switches)
	})
	return mux
}

func newTestClient(t *testing.T, fake *fakeDashboard) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{
		URL:        srv.URL,
		Username:   "admin",
		Password:   "secret",
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatal("expected error for missing url, got nil")
	}
	if _, err := NewClient(Options{URL: "https://nd.example.com"}); err == nil {
		t.Fatal("expected error for missing credentials, got nil")
	}
}

func TestClient_Switches_LazyLogin(t *testing.T) {
	fake := &fakeDashboard{switches: []Switch{
		{Name: "leaf-101", FabricName: "prod", Status: "ok", Serial: "FDO1"},
	}}
	client := newTestClient(t, fake)

	if got := fake.logins.Load(); got != 0 {
		t.Fatalf("logins before first query = %d, want 0", got)
	}

	switches, err := client.Switches(context.Background())
	if err != nil {
		t.Fatalf("Switches: %v", err)
	}
	if len(switches) != 1 || switches[0].Name != "leaf-101" {
		t.Errorf("Switches = %+v, want one leaf-101", switches)
	}
	if got := fake.logins.Load(); got != 1 {
		t.Errorf("logins = %d, want 1", got)
	}
}

func TestClient_TokenReuseAndReauth(t *testing.T) {
	fake := &fakeDashboard{switches: []Switch{{Name: "leaf-101"}}}
	client := newTestClient(t, fake)

	ctx := context.Background()
	if _, err := client.Switches(ctx); err != nil {
		t.Fatalf("first Switches: %v", err)
	}
	if _, err := client.Switches(ctx); err != nil {
		t.Fatalf("second Switches: %v", err)
	}
	if got := fake.logins.Load(); got != 1 {
		t.Fatalf("logins after two queries = %d, want 1 (token reuse)", got)
	}

	// Server-side revocation: next call hits 401 once, client must re-login.
	fake.rejectToken.Store(true)
	if _, err := client.Switches(ctx); err != nil {
		t.Fatalf("Switches after revocation: %v", err)
	}
	if got := fake.logins.Load(); got != 2 {
		t.Errorf("logins after revocation = %d, want 2", got)
	}
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		question string
		want     string
	}{
		{"what switches are in fabric prod?", categoryFabrics},
		{"list all switches", categorySwitches},
		{"show sites", categorySites},
		{"any critical alarms?", categoryAlarms},
		{"cpu utilization of leaf-101", categoryTelemetry},
		{"hello there", categoryUnknown},
	}
	for _, tc := range cases {
		if got := categorize(tc.question); got != tc.want {
			t.Errorf("categorize(%q) = %q, want %q", tc.question, got, tc.want)
		}
	}
}

func TestFormatSwitches_Header(t *testing.T) {
	// The infrastructure merge keys off this exact header.
	got := FormatSwitches([]Switch{{Name: "leaf-101"}})
	if !strings.HasPrefix(got, "## Nexus Dashboard Switches") {
		t.Errorf("header mismatch: %q", got)
	}
}

func TestFormatAlarms_Empty(t *testing.T) {
	got := FormatAlarms(nil)
	if got != "No active alarms. The fabric looks healthy." {
		t.Errorf("FormatAlarms(nil) = %q", got)
	}
}
