package expert

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// InfrastructureExpert answers cross-system questions by merging the
// Intersight network element report with the Nexus Dashboard switch report.
// The merged tables are returned as-is, no LLM narration: section headers
// and rows stay verbatim so operators can diff them against either console.
// A failed source becomes an inline error section; the expert itself errors
// only when neither source was constructed.
type InfrastructureExpert struct {
	intersight IntersightSource
	nexus      NexusSource
	logger     *slog.Logger
}

func NewInfrastructureExpert(intersight IntersightSource, nexus NexusSource, logger *slog.Logger) *InfrastructureExpert {
	if logger == nil {
		logger = slog.Default()
	}
	return &InfrastructureExpert{intersight: intersight, nexus: nexus, logger: logger}
}

func (e *InfrastructureExpert) Kind() Kind { return KindInfrastructure }

func (e *InfrastructureExpert) Answer(ctx context.Context, question string) (string, error) {
	if e.intersight == nil && e.nexus == nil {
		return "", fmt.Errorf("infrastructure: %w", ErrUnavailable)
	}

	var b strings.Builder
	b.WriteString("# Network Infrastructure Overview\n\n")

	if e.intersight != nil {
		report, err := e.intersight.NetworkElementsReport(ctx)
		if err != nil {
			e.logger.Warn("intersight section failed", "error", err)
			fmt.Fprintf(&b, "## Intersight Network Elements\n\nError retrieving data: %v\n\n", err)
		} else {
			b.WriteString(report)
			b.WriteString("\n")
		}
	} else {
		b.WriteString("## Intersight Network Elements\n\nIntersight is not configured.\n\n")
	}

	if e.nexus != nil {
		report, err := e.nexus.SwitchReport(ctx)
		if err != nil {
			e.logger.Warn("nexus section failed", "error", err)
			fmt.Fprintf(&b, "## Nexus Dashboard Switches\n\nError retrieving data: %v\n", err)
		} else {
			b.WriteString(report)
		}
	} else {
		b.WriteString("## Nexus Dashboard Switches\n\nNexus Dashboard is not configured.\n")
	}

	return b.String(), nil
}
