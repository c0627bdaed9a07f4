package expert

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubExpert struct {
	text  string
	err   error
	calls int
	last  string
}

func (s *stubExpert) Answer(ctx context.Context, question string) (string, error) {
	s.calls++
	s.last = question
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func newTestRouter(experts map[Kind]Expert) *Router {
	return NewRouter(NewClassifier(nil, nil), experts, nil)
}

func TestRouteHappyPath(t *testing.T) {
	is := &stubExpert{text: "## Server Inventory\n\n3 servers"}
	r := newTestRouter(map[Kind]Expert{
		KindIntersight: is,
		KindGeneral:    &stubExpert{text: "general answer"},
	})

	ans := r.Route(context.Background(), "What servers do I have?")
	if ans.Label != "Intersight Expert" {
		t.Errorf("label = %q, want %q", ans.Label, "Intersight Expert")
	}
	if ans.Degraded {
		t.Error("happy-path answer marked degraded")
	}
	if ans.Text != is.text {
		t.Errorf("text = %q, want expert output", ans.Text)
	}
}

func TestRouteVendorFallbackToGeneral(t *testing.T) {
	general := &stubExpert{text: "a RAG-free general answer"}
	r := newTestRouter(map[Kind]Expert{
		KindIntersight: &stubExpert{err: errors.New("connection refused")},
		KindGeneral:    general,
	})

	ans := r.Route(context.Background(), "What servers do I have?")
	if ans.Label != LabelGeneralFallback {
		t.Fatalf("label = %q, want %q", ans.Label, LabelGeneralFallback)
	}
	if !ans.Degraded {
		t.Error("fallback answer not marked degraded")
	}
	if !strings.HasPrefix(ans.Text, "Note: Could not connect to the Intersight API.") {
		t.Errorf("missing degradation notice, got %q", ans.Text)
	}
	if !strings.Contains(ans.Text, general.text) {
		t.Errorf("general answer missing from %q", ans.Text)
	}
	// The general expert sees the rephrased prompt, not the raw question.
	if !strings.Contains(general.last, `"What servers do I have?"`) {
		t.Errorf("rephrased prompt missing original question: %q", general.last)
	}
	if !strings.Contains(general.last, "could not be reached") {
		t.Errorf("rephrased prompt missing outage disclosure: %q", general.last)
	}
}

func TestRouteUnavailableExpertFallsBack(t *testing.T) {
	r := newTestRouter(map[Kind]Expert{
		// No Nexus Dashboard entry at all.
		KindGeneral: &stubExpert{text: "general answer"},
	})

	ans := r.Route(context.Background(), "Is VLAN 100 on the fabric?")
	if ans.Label != LabelGeneralFallback {
		t.Fatalf("label = %q, want %q", ans.Label, LabelGeneralFallback)
	}
	if !strings.Contains(ans.Text, "Nexus Dashboard API") {
		t.Errorf("notice does not name the failed system: %q", ans.Text)
	}
}

func TestRouteSurfacesNonVendorErrorsVerbatim(t *testing.T) {
	r := newTestRouter(map[Kind]Expert{
		KindAIPods:  &stubExpert{err: errors.New("embedding dimension mismatch")},
		KindGeneral: &stubExpert{text: "should not be used"},
	})

	ans := r.Route(context.Background(), "Recommend hardware for a 70B parameter model")
	if ans.Label != LabelSystem {
		t.Fatalf("label = %q, want %q", ans.Label, LabelSystem)
	}
	if !strings.Contains(ans.Text, "embedding dimension mismatch") {
		t.Errorf("original error masked: %q", ans.Text)
	}
	if ans.Degraded {
		t.Error("surfaced error marked degraded")
	}
}

func TestRouteFallbackOfFallback(t *testing.T) {
	r := newTestRouter(map[Kind]Expert{
		KindIntersight: &stubExpert{err: errors.New("tls handshake timeout")},
		KindGeneral:    &stubExpert{err: errors.New("llm quota exceeded")},
	})

	ans := r.Route(context.Background(), "What servers do I have?")
	if ans.Label != LabelSystem {
		t.Fatalf("label = %q, want %q", ans.Label, LabelSystem)
	}
	if !strings.HasPrefix(ans.Text, "I'm sorry, I encountered an error:") {
		t.Errorf("apology missing: %q", ans.Text)
	}
	// The apology names the primary expert's failure, not the fallback's.
	if !strings.Contains(ans.Text, "tls handshake timeout") {
		t.Errorf("root cause missing: %q", ans.Text)
	}
	if strings.Contains(ans.Text, "llm quota exceeded") {
		t.Errorf("fallback error leaked into apology: %q", ans.Text)
	}
}

func TestRouteGeneralFailureIsTerminal(t *testing.T) {
	general := &stubExpert{err: errors.New("llm down")}
	r := newTestRouter(map[Kind]Expert{KindGeneral: general})

	ans := r.Route(context.Background(), "hello")
	if ans.Label != LabelSystem {
		t.Fatalf("label = %q, want %q", ans.Label, LabelSystem)
	}
	if general.calls != 1 {
		t.Errorf("general expert called %d times, want 1", general.calls)
	}
}

func TestRouteNeverPanicsOnEmptyTable(t *testing.T) {
	r := newTestRouter(map[Kind]Expert{})
	ans := r.Route(context.Background(), "anything at all")
	if ans.Text == "" {
		t.Error("empty answer text")
	}
	if ans.Label != LabelSystem {
		t.Errorf("label = %q, want %q", ans.Label, LabelSystem)
	}
}

func TestAvailable(t *testing.T) {
	r := newTestRouter(map[Kind]Expert{KindGeneral: &stubExpert{}})
	if !r.Available(KindGeneral) {
		t.Error("general should be available")
	}
	if r.Available(KindIntersight) {
		t.Error("intersight should not be available")
	}
}
