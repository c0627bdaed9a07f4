package expert

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeNexus struct {
	generic  string
	switches string
	err      error
}

func (f *fakeNexus) Query(ctx context.Context, question string) (string, error) {
	return f.generic, f.err
}

func (f *fakeNexus) SwitchReport(ctx context.Context) (string, error) {
	return f.switches, f.err
}

func TestInfrastructureMergesBothSources(t *testing.T) {
	is := &fakeIntersight{network: "## Intersight Network Elements\n\n| FI-A | ... |"}
	nx := &fakeNexus{switches: "## Nexus Dashboard Switches\n\n| leaf-101 | ... |"}
	e := NewInfrastructureExpert(is, nx, nil)

	got, err := e.Answer(context.Background(), "What switches are running in my environment?")
	if err != nil {
		t.Fatal(err)
	}
	// Sections appear verbatim, Intersight first.
	iIdx := strings.Index(got, "## Intersight Network Elements")
	nIdx := strings.Index(got, "## Nexus Dashboard Switches")
	if iIdx < 0 || nIdx < 0 {
		t.Fatalf("missing section headers in %q", got)
	}
	if iIdx > nIdx {
		t.Error("Intersight section should precede Nexus Dashboard section")
	}
	if !strings.Contains(got, "FI-A") || !strings.Contains(got, "leaf-101") {
		t.Errorf("missing source rows in %q", got)
	}
}

func TestInfrastructurePartialFailure(t *testing.T) {
	is := &fakeIntersight{err: errors.New("dial tcp: connection refused")}
	nx := &fakeNexus{switches: "## Nexus Dashboard Switches\n\n| leaf-101 | ... |"}
	e := NewInfrastructureExpert(is, nx, nil)

	got, err := e.Answer(context.Background(), "List network devices in the environment")
	if err != nil {
		t.Fatalf("partial failure must not error: %v", err)
	}
	if !strings.Contains(got, "## Intersight Network Elements") {
		t.Error("failed source still needs its section header")
	}
	if !strings.Contains(got, "connection refused") {
		t.Errorf("inline error missing from %q", got)
	}
	if !strings.Contains(got, "leaf-101") {
		t.Error("healthy source rows missing")
	}
}

func TestInfrastructureMissingSource(t *testing.T) {
	nx := &fakeNexus{switches: "## Nexus Dashboard Switches\n\n| leaf-101 | ... |"}
	e := NewInfrastructureExpert(nil, nx, nil)

	got, err := e.Answer(context.Background(), "switches in my environment")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Intersight is not configured.") {
		t.Errorf("missing-source notice absent from %q", got)
	}
}

func TestInfrastructureNoSources(t *testing.T) {
	e := NewInfrastructureExpert(nil, nil, nil)
	_, err := e.Answer(context.Background(), "anything")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestAIPodsUsesRetrievedContext(t *testing.T) {
	ret := retrieverFunc(func(ctx context.Context, q string) string {
		return "--- BEGIN EXCERPT FROM sizing-guide (Page 4) ---\n70B needs 4x H100"
	})
	llm := &stubLLM{reply: "You need a 4x H100 80GB configuration."}
	e := NewAIPodsExpert(ret, llm, nil)

	got, err := e.Answer(context.Background(), "Recommend hardware for a 70B parameter model")
	if err != nil {
		t.Fatal(err)
	}
	if got != llm.reply {
		t.Errorf("answer = %q", got)
	}
}

func TestAIPodsEmptyContextStillAnswers(t *testing.T) {
	ret := retrieverFunc(func(ctx context.Context, q string) string { return "" })
	e := NewAIPodsExpert(ret, &stubLLM{reply: "best effort answer"}, nil)

	got, err := e.Answer(context.Background(), "obscure question")
	if err != nil {
		t.Fatal(err)
	}
	if got != "best effort answer" {
		t.Errorf("answer = %q", got)
	}
}

func TestAIPodsNoLLM(t *testing.T) {
	e := NewAIPodsExpert(nil, nil, nil)
	_, err := e.Answer(context.Background(), "anything")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

type retrieverFunc func(ctx context.Context, query string) string

func (f retrieverFunc) Retrieve(ctx context.Context, query string) string { return f(ctx, query) }
