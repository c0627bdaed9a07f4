package expert

// Router is the orchestration core: classify, dispatch, and recover. The
// per-kind fallback policy is a static table, not a retry loop — each request
// independently re-attempts classification and dispatch from scratch.
//
// Route never returns an error. Vendor-backed experts (Intersight, Nexus
// Dashboard) fall back to a General answer that discloses the outage;
// Infrastructure and AI Pods failures are surfaced verbatim, because a
// partial or missing result from those is itself informative; a General
// failure is the end of the line and becomes a literal apology.

import (
	"context"
	"fmt"
	"log/slog"
)

// Router dispatches questions to experts with per-kind fallback.
type Router struct {
	classifier *Classifier
	// experts maps every Kind to its instance. A nil entry (or absent key)
	// means the expert's downstream client failed to construct; routing to it
	// enters the fallback policy immediately without attempting a call.
	experts map[Kind]Expert
	logger  *slog.Logger
}

// NewRouter builds a Router over an immutable expert table. The table is
// read-only after construction and safe for concurrent use.
func NewRouter(classifier *Classifier, experts map[Kind]Expert, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		classifier: classifier,
		experts:    experts,
		logger:     logger,
	}
}

// Available reports whether the expert for kind was constructed.
func (r *Router) Available(kind Kind) bool {
	return r.experts[kind] != nil
}

// Route classifies the question and dispatches it. It always returns a
// usable Answer.
func (r *Router) Route(ctx context.Context, question string) Answer {
	cls := r.classifier.Classify(ctx, question)
	r.logger.Info("routing question",
		"kind", cls.Kind.String(),
		"confidence", cls.Confidence.String(),
		"question", truncate(question, 80))
	return r.dispatch(ctx, cls.Kind, question)
}

// dispatch calls the chosen expert and applies the per-kind fallback table on
// failure.
func (r *Router) dispatch(ctx context.Context, kind Kind, question string) Answer {
	text, err := r.call(ctx, kind, question)
	if err == nil {
		return Answer{Text: text, Kind: kind, Label: kind.Label()}
	}
	r.logger.Warn("expert failed", "kind", kind.String(), "error", err)

	switch kind {
	case KindIntersight:
		return r.generalFallback(ctx, question, "Intersight", err)

	case KindNexusDashboard:
		return r.generalFallback(ctx, question, "Nexus Dashboard", err)

	case KindGeneral:
		// Last resort already failed; nowhere further to fall back to.
		return Answer{
			Text:  "General Expert Error: " + err.Error(),
			Kind:  KindGeneral,
			Label: LabelSystem,
		}

	default:
		// Infrastructure and AI Pods surface the original error verbatim.
		return Answer{
			Text:  kind.Label() + " Error: " + err.Error(),
			Kind:  kind,
			Label: LabelSystem,
		}
	}
}

// call invokes the expert for kind, treating a missing instance the same as
// a runtime failure.
func (r *Router) call(ctx context.Context, kind Kind, question string) (string, error) {
	e := r.experts[kind]
	if e == nil {
		return "", fmt.Errorf("%s: %w", kind.Label(), ErrUnavailable)
	}
	return e.Answer(ctx, question)
}

// generalFallback re-asks the General expert with a prompt disclosing which
// vendor API was unreachable, and labels the result as a degraded answer.
// cause is the primary expert's failure; when the fallback itself fails, the
// apology names that root cause, and the fallback's own error is only logged.
func (r *Router) generalFallback(ctx context.Context, question, system string, cause error) Answer {
	rephrased := fmt.Sprintf(
		"The user asked %q about %s, but the %s API could not be reached. Please provide a general answer.",
		question, system, system)

	text, err := r.call(ctx, KindGeneral, rephrased)
	if err != nil {
		r.logger.Error("general fallback failed", "system", system, "error", err, "cause", cause)
		return Answer{
			Text:  "I'm sorry, I encountered an error: " + cause.Error(),
			Kind:  KindGeneral,
			Label: LabelSystem,
		}
	}

	return Answer{
		Text: fmt.Sprintf("Note: Could not connect to the %s API. Using general knowledge instead.\n\n%s",
			system, text),
		Kind:     KindGeneral,
		Label:    LabelGeneralFallback,
		Degraded: true,
	}
}
