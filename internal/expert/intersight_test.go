package expert

import (
	"context"
	"errors"
	"testing"
)

type fakeIntersight struct {
	servers  string
	gpus     string
	network  string
	firmware string
	generic  string
	err      error

	firmwareServer string
	queryCalls     int
}

func (f *fakeIntersight) Query(ctx context.Context, question string) (string, error) {
	f.queryCalls++
	return f.generic, f.err
}

func (f *fakeIntersight) ServerInventory(ctx context.Context) (string, error) {
	return f.servers, f.err
}

func (f *fakeIntersight) GPUInventory(ctx context.Context) (string, error) {
	return f.gpus, f.err
}

func (f *fakeIntersight) NetworkElementsReport(ctx context.Context) (string, error) {
	return f.network, f.err
}

func (f *fakeIntersight) FirmwareForServer(ctx context.Context, serverName string) (string, error) {
	f.firmwareServer = serverName
	return f.firmware, f.err
}

func TestIntersightDetectorsSkipLLM(t *testing.T) {
	src := &fakeIntersight{
		servers:  "## Server Inventory\n\nweb-01",
		gpus:     "## GPU Inventory\n\nA100 x4",
		firmware: "## Firmware Options for web-01",
	}
	failing := &stubLLM{err: errors.New("llm must not be called")}
	e := NewIntersightExpert(src, failing, nil)

	cases := []struct {
		question string
		want     string
	}{
		{"What GPUs are installed in my servers?", src.gpus},
		{"What firmware is available for server web-01?", src.firmware},
		{"What servers do I have?", src.servers},
	}
	for _, tc := range cases {
		got, err := e.Answer(context.Background(), tc.question)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.question, err)
		}
		if got != tc.want {
			t.Errorf("%q: answer = %q, want %q", tc.question, got, tc.want)
		}
	}
	if failing.calls != 0 {
		t.Errorf("llm called %d times on detector paths", failing.calls)
	}
	if src.firmwareServer != "web-01" {
		t.Errorf("firmware server = %q, want web-01", src.firmwareServer)
	}
}

func TestIntersightGenericPathNarrates(t *testing.T) {
	src := &fakeIntersight{generic: "## Alarms\n\nnone"}
	llm := &stubLLM{reply: "All clear, no active alarms."}
	e := NewIntersightExpert(src, llm, nil)

	got, err := e.Answer(context.Background(), "Any active alarms right now?")
	if err != nil {
		t.Fatal(err)
	}
	if got != llm.reply {
		t.Errorf("answer = %q, want narrated reply", got)
	}
	if src.queryCalls != 1 {
		t.Errorf("query calls = %d, want 1", src.queryCalls)
	}
}

func TestIntersightNarrationFailureReturnsRawData(t *testing.T) {
	src := &fakeIntersight{generic: "## Alarms\n\nnone"}
	e := NewIntersightExpert(src, &stubLLM{err: errors.New("quota")}, nil)

	got, err := e.Answer(context.Background(), "Any active alarms?")
	if err != nil {
		t.Fatal(err)
	}
	if got != src.generic {
		t.Errorf("answer = %q, want raw data", got)
	}
}

func TestIntersightSourceErrorPropagates(t *testing.T) {
	src := &fakeIntersight{err: errors.New("401 unauthorized")}
	e := NewIntersightExpert(src, nil, nil)

	if _, err := e.Answer(context.Background(), "Any active alarms?"); err == nil {
		t.Fatal("expected error from failing source")
	}
}

func TestIntersightNilSource(t *testing.T) {
	e := NewIntersightExpert(nil, &stubLLM{reply: "x"}, nil)
	_, err := e.Answer(context.Background(), "anything")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestExtractServerName(t *testing.T) {
	cases := []struct {
		question string
		want     string
	}{
		{"What firmware is available for server web-01?", "web-01"},
		{"On server esx_22 which firmware applies?", "esx_22"},
		{"Can I upgrade db-primary to the latest release?", "db-primary"},
		{"server rack1-node3 what firmware does it run", "rack1-node3"},
		{"Show firmware for the server named web-01", "web-01"},
		{"What firmware versions exist?", ""},
		{"Is the server ok?", "ok"},
	}
	for _, tc := range cases {
		if got := ExtractServerName(tc.question); got != tc.want {
			t.Errorf("ExtractServerName(%q) = %q, want %q", tc.question, got, tc.want)
		}
	}
}
