// Package expert implements the question-routing core: a classifier that maps
// free-text questions to an expert kind, the experts themselves, and a router
// that dispatches to them with per-kind fallback. The router never returns an
// error — every failure mode resolves to a best-effort Answer.
package expert

import (
	"context"
	"errors"
)

// Kind is the closed set of expert identifiers. Routing and fallback tables
// are indexed by this type, never by free-form strings.
type Kind int

const (
	KindGeneral Kind = iota
	KindIntersight
	KindNexusDashboard
	KindInfrastructure
	KindAIPods
)

// String returns the stable identifier used in classification prompts and logs.
func (k Kind) String() string {
	switch k {
	case KindIntersight:
		return "intersight"
	case KindNexusDashboard:
		return "nexus_dashboard"
	case KindInfrastructure:
		return "infrastructure"
	case KindAIPods:
		return "ai_pods"
	default:
		return "general"
	}
}

// Label returns the user-facing expert name shown alongside answers.
func (k Kind) Label() string {
	switch k {
	case KindIntersight:
		return "Intersight Expert"
	case KindNexusDashboard:
		return "Nexus Dashboard Expert"
	case KindInfrastructure:
		return "Infrastructure Expert"
	case KindAIPods:
		return "AI Pods Expert"
	default:
		return "General Expert"
	}
}

// Labels for answers that did not come from the originally selected expert.
const (
	// LabelGeneralFallback marks answers produced by the General expert
	// standing in for a failed vendor-backed expert.
	LabelGeneralFallback = "General Expert (Fallback)"
	// LabelSystem marks answers that are error reports, not expert output.
	LabelSystem = "System"
)

// Kinds lists every kind in dispatch priority order.
func Kinds() []Kind {
	return []Kind{KindGeneral, KindIntersight, KindNexusDashboard, KindInfrastructure, KindAIPods}
}

// ParseKind maps a canonical identifier back to its Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "general":
		return KindGeneral, true
	case "intersight":
		return KindIntersight, true
	case "nexus_dashboard":
		return KindNexusDashboard, true
	case "infrastructure":
		return KindInfrastructure, true
	case "ai_pods":
		return KindAIPods, true
	default:
		return KindGeneral, false
	}
}

// Confidence records how a classification was decided. It is carried for
// logging and tests; routing behaviour never branches on it.
type Confidence int

const (
	// ConfidenceLLMExplicit: the LLM reply was exactly a kind identifier.
	ConfidenceLLMExplicit Confidence = iota
	// ConfidenceLLMInferred: a kind was salvaged from the tail of a wordy LLM reply.
	ConfidenceLLMInferred
	// ConfidenceKeywordHeuristic: the deterministic keyword battery decided.
	ConfidenceKeywordHeuristic
	// ConfidenceDefaultFallback: nothing matched; General by default.
	ConfidenceDefaultFallback
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLLMExplicit:
		return "llm_explicit"
	case ConfidenceLLMInferred:
		return "llm_inferred"
	case ConfidenceKeywordHeuristic:
		return "keyword_heuristic"
	default:
		return "default_fallback"
	}
}

// Classification is the classifier's decision for one question.
type Classification struct {
	Kind       Kind
	Confidence Confidence
}

// Answer is the router's result. Degraded means a fallback expert produced
// the text in place of the one the classifier selected.
type Answer struct {
	Text     string
	Kind     Kind
	Label    string
	Degraded bool
}

// Expert converts a question into an answer. Failure is signalled via the
// error return (never a silent empty string) so the router's fallback policy
// can act on it. Experts hold no conversational state between calls.
type Expert interface {
	Answer(ctx context.Context, question string) (string, error)
}

// LLM is the text-generation collaborator consumed by the classifier and the
// LLM-backed experts. Implementations return the completion as a plain string.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Retriever supplies reference context for the AI Pods expert.
// It never fails; on trouble it returns an explanatory string instead.
type Retriever interface {
	Retrieve(ctx context.Context, query string) string
}

// ErrUnavailable marks an expert whose downstream client was never
// constructed (missing credentials, unreachable host at startup).
var ErrUnavailable = errors.New("expert is not available")
