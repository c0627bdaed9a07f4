package expert

import (
	"context"
	"fmt"
	"log/slog"
)

// NexusSource is the slice of the Nexus Dashboard service an expert needs.
type NexusSource interface {
	Query(ctx context.Context, question string) (string, error)
	SwitchReport(ctx context.Context) (string, error)
}

// NexusDashboardExpert answers fabric and switch questions against a live
// Nexus Dashboard.
type NexusDashboardExpert struct {
	source NexusSource
	llm    LLM
	logger *slog.Logger
}

func NewNexusDashboardExpert(source NexusSource, llm LLM, logger *slog.Logger) *NexusDashboardExpert {
	if logger == nil {
		logger = slog.Default()
	}
	return &NexusDashboardExpert{source: source, llm: llm, logger: logger}
}

func (e *NexusDashboardExpert) Kind() Kind { return KindNexusDashboard }

func (e *NexusDashboardExpert) Answer(ctx context.Context, question string) (string, error) {
	if e.source == nil {
		return "", fmt.Errorf("nexus dashboard: %w", ErrUnavailable)
	}

	data, err := e.source.Query(ctx, question)
	if err != nil {
		return "", fmt.Errorf("nexus dashboard query: %w", err)
	}

	if e.llm == nil {
		return data, nil
	}
	prompt := fmt.Sprintf(
		"You are a Cisco Nexus Dashboard expert. Answer the user's question using only the live fabric data below.\n\nData:\n%s\n\nQuestion: %s",
		data, question)
	text, err := e.llm.Generate(ctx, prompt)
	if err != nil {
		e.logger.Warn("narration failed, returning raw data", "error", err)
		return data, nil
	}
	return text, nil
}
