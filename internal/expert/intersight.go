package expert

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// IntersightSource is the slice of the Intersight service an expert needs.
type IntersightSource interface {
	Query(ctx context.Context, question string) (string, error)
	ServerInventory(ctx context.Context) (string, error)
	GPUInventory(ctx context.Context) (string, error)
	NetworkElementsReport(ctx context.Context) (string, error)
	FirmwareForServer(ctx context.Context, serverName string) (string, error)
}

// IntersightExpert answers UCS/Intersight questions against live inventory.
// A small set of intent detectors short-circuit straight to the relevant
// report without touching the LLM; everything else goes through the generic
// query path with optional LLM narration.
type IntersightExpert struct {
	source IntersightSource
	llm    LLM
	logger *slog.Logger
}

func NewIntersightExpert(source IntersightSource, llm LLM, logger *slog.Logger) *IntersightExpert {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntersightExpert{source: source, llm: llm, logger: logger}
}

func (e *IntersightExpert) Kind() Kind { return KindIntersight }

func (e *IntersightExpert) Answer(ctx context.Context, question string) (string, error) {
	if e.source == nil {
		return "", fmt.Errorf("intersight: %w", ErrUnavailable)
	}
	lower := strings.ToLower(question)

	// Detector results that fail fall through to the generic path instead of
	// erroring: a broken sub-report should not block the whole question.
	if isGPUQuestion(lower) {
		report, err := e.source.GPUInventory(ctx)
		if err == nil {
			return report, nil
		}
		e.logger.Warn("gpu inventory failed, continuing", "error", err)
	}

	if isFirmwareQuestion(lower) {
		if name := ExtractServerName(question); name != "" {
			report, err := e.source.FirmwareForServer(ctx, name)
			if err == nil {
				return report, nil
			}
			e.logger.Warn("firmware lookup failed, continuing", "server", name, "error", err)
		}
	}

	if isInventoryQuestion(lower) {
		report, err := e.source.ServerInventory(ctx)
		if err == nil {
			return report, nil
		}
		e.logger.Warn("server inventory failed, continuing", "error", err)
	}

	data, err := e.source.Query(ctx, question)
	if err != nil {
		return "", fmt.Errorf("intersight query: %w", err)
	}
	return e.narrate(ctx, question, data)
}

// narrate asks the LLM to answer from the fetched data. Without an LLM the
// raw report is the answer.
func (e *IntersightExpert) narrate(ctx context.Context, question, data string) (string, error) {
	if e.llm == nil {
		return data, nil
	}
	prompt := fmt.Sprintf(
		"You are a Cisco Intersight expert. Answer the user's question using only the live inventory data below.\n\nData:\n%s\n\nQuestion: %s",
		data, question)
	text, err := e.llm.Generate(ctx, prompt)
	if err != nil {
		e.logger.Warn("narration failed, returning raw data", "error", err)
		return data, nil
	}
	return text, nil
}

func isGPUQuestion(lower string) bool {
	return strings.Contains(lower, "gpu") || strings.Contains(lower, "graphics card")
}

func isFirmwareQuestion(lower string) bool {
	return strings.Contains(lower, "firmware")
}

func isInventoryQuestion(lower string) bool {
	if !strings.Contains(lower, "server") {
		return false
	}
	for _, marker := range []string{"what servers", "which servers", "list servers", "list my servers", "server inventory", "show me my servers", "do i have"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// serverNamePatterns are tried in order; the first capture wins. The final
// bare "server <name>" pattern is the loosest and deliberately last.
var serverNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:for|on)\s+server\s+([a-zA-Z0-9_\-]+)`),
	regexp.MustCompile(`(?i)server\s+([a-zA-Z0-9_\-]+)\s+(?:what|which)`),
	regexp.MustCompile(`(?i)(?:update|upgrade)\s+([a-zA-Z0-9_\-]+)\s+to`),
	regexp.MustCompile(`(?i)server\s+([a-zA-Z0-9_\-]+)`),
}

// serverNameStopwords are question words that the loose patterns can capture
// by accident.
var serverNameStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "my": {}, "this": {}, "that": {},
	"what": {}, "which": {}, "is": {}, "are": {}, "do": {}, "does": {},
	"can": {}, "should": {}, "named": {}, "called": {},
}

// ExtractServerName pulls a server name out of a firmware-style question,
// for example "what firmware is available for server web-01". It returns ""
// when no plausible name is present.
func ExtractServerName(question string) string {
	for _, re := range serverNamePatterns {
		m := re.FindStringSubmatch(question)
		if m == nil {
			continue
		}
		candidate := strings.ToLower(m[1])
		if _, stop := serverNameStopwords[candidate]; !stop {
			return m[1]
		}
	}

	// Positional fallback: the first non-stopword after "server", so that
	// "server named web-01" still resolves.
	words := strings.Fields(question)
	for i, w := range words {
		if !strings.EqualFold(w, "server") {
			continue
		}
		for _, raw := range words[i+1:] {
			next := strings.Trim(raw, "?,.!:;")
			if next == "" {
				continue
			}
			if _, stop := serverNameStopwords[strings.ToLower(next)]; !stop {
				return next
			}
		}
	}
	return ""
}
