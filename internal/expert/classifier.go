package expert

// The classifier is a two-stage pipeline. Stage one asks the LLM to pick a
// kind identifier; wordy replies are salvaged by scanning the last few tokens
// for an identifier or alias. Stage two is a deterministic keyword battery
// that must carry the common-case traffic on its own whenever the LLM is
// unavailable or mis-calibrated. Classify is total: it always returns a valid
// Kind, for any input string.

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// tailTokens is how many trailing reply tokens the salvage stage inspects.
const tailTokens = 5

const classifierPrompt = `You are the routing layer of a Cisco infrastructure assistant. Classify the user's question into exactly one category. Respond with only the category identifier and nothing else.

intersight: questions about Cisco Intersight or the hardware it manages — servers, UCS, HyperFlex, blades, server inventory, firmware versions and upgrades, GPUs installed in servers, hardware health and alarms, server profiles.

nexus_dashboard: questions about Cisco Nexus Dashboard or NDFC and the network fabric it manages — fabrics, VLANs, switches, switch telemetry, BGP, VXLAN, EVPN, fabric alarms.

infrastructure: questions that span both systems at once — comparing or combining Intersight and Nexus Dashboard data, or asking about all switches/network devices across the whole environment.

ai_pods: questions about Cisco AI PODs and AI/ML infrastructure sizing — GPU clusters, hardware for large language models of a given parameter size, inference and training capacity planning.

general: anything else — definitions, how-does-it-work questions, and questions without a clear tie to the systems above.

Question: %s

Category:`

// Classifier maps a question to a Kind. A nil LLM skips straight to the
// keyword battery.
type Classifier struct {
	llm    LLM
	logger *slog.Logger
}

// NewClassifier builds a Classifier. llm may be nil.
func NewClassifier(llm LLM, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{llm: llm, logger: logger}
}

// Classify decides the expert kind for question. It never fails: LLM errors
// fall through to the keyword heuristic, and an unmatched question defaults
// to General.
func (c *Classifier) Classify(ctx context.Context, question string) Classification {
	if c.llm != nil {
		reply, err := c.llm.Generate(ctx, fmt.Sprintf(classifierPrompt, question))
		if err == nil {
			norm := strings.ToLower(strings.TrimSpace(reply))
			if kind, ok := ParseKind(norm); ok {
				return Classification{Kind: kind, Confidence: ConfidenceLLMExplicit}
			}
			if kind, ok := kindFromTail(norm); ok {
				return Classification{Kind: kind, Confidence: ConfidenceLLMInferred}
			}
			c.logger.Debug("llm classification unusable", "reply", truncate(reply, 80))
		} else {
			c.logger.Warn("llm classification failed, using keyword heuristic", "error", err)
		}
	}

	if kind, ok := classifyByKeywords(question); ok {
		return Classification{Kind: kind, Confidence: ConfidenceKeywordHeuristic}
	}
	return Classification{Kind: KindGeneral, Confidence: ConfidenceDefaultFallback}
}

// kindAliases maps multi-word and variant spellings to kinds. Longer aliases
// are listed before their substrings so "nexus dashboard" wins over "nexus".
var kindAliases = []struct {
	alias string
	kind  Kind
}{
	{"nexus_dashboard", KindNexusDashboard},
	{"nexus dashboard", KindNexusDashboard},
	{"ndfc", KindNexusDashboard},
	{"infrastructure", KindInfrastructure},
	{"intersight", KindIntersight},
	{"ai_pods", KindAIPods},
	{"ai pods", KindAIPods},
	{"ai pod", KindAIPods},
	{"aipods", KindAIPods},
	{"general", KindGeneral},
}

// kindFromTail scans the final tokens of an LLM reply for a kind identifier
// or alias. LLMs often wrap the classification in preamble; the answer, when
// present, sits at the end.
func kindFromTail(reply string) (Kind, bool) {
	tokens := strings.Fields(reply)
	if len(tokens) > tailTokens {
		tokens = tokens[len(tokens)-tailTokens:]
	}
	tail := strings.Join(tokens, " ")
	tail = strings.Trim(tail, ".,!?:;\"'")

	for _, a := range kindAliases {
		if strings.Contains(tail, a.alias) {
			return a.kind, true
		}
	}
	return KindGeneral, false
}

// generalPhrasings signal a definition/how-does-it-work question. They veto
// vocabulary-based routing unless the question also names a product.
var generalPhrasings = []string{
	"what is", "what are", "how does", "explain", "tell me about",
	"why is", "describe", "definition of",
}

// llmSizeRe matches explicit model-size tokens: "7b", "13 b", "70B",
// "billion parameters".
var llmSizeRe = regexp.MustCompile(`\b\d{1,4}\s*b\b|\bbillion\s+parameters?\b`)

// Vocabulary per kind, matched as substrings of the lowercased question.
var (
	intersightVocab = []string{
		"server", "servers", "ucs", "hyperflex", "blade", "rack-server",
		"firmware", "gpu", "gpus", "hardware",
	}
	aiPodsVocab = []string{
		"ai pod", "ai pods", "aipod", "gpu cluster", "ai infrastructure",
		"ml infrastructure", "inference", "hardware for llm", "gpu for llm",
		"large language model", "llm",
	}
	nexusVocab = []string{
		"fabric", "vlan", "switch", "telemetry", "bgp", "vxlan", "evpn",
	}
)

// classifyByKeywords is the deterministic battery. Predicates run in a fixed
// priority order: the cross-system check first (it is the most specific and
// must not be shadowed), then explicit product/size signals, then per-kind
// vocabulary with the general-knowledge-phrasing veto. Returns false when
// nothing matched and the caller should default to General.
func classifyByKeywords(question string) (Kind, bool) {
	q := strings.ToLower(question)

	if isInfrastructureQuestion(q) {
		return KindInfrastructure, true
	}

	// Explicit signals outrank vocabulary: a question naming a product (or an
	// LLM parameter size) goes to that expert even when it also uses another
	// kind's vocabulary, e.g. "hardware for a 70B parameter model".
	if strings.Contains(q, "intersight") {
		return KindIntersight, true
	}
	if strings.Contains(q, "nexus dashboard") || strings.Contains(q, "ndfc") {
		return KindNexusDashboard, true
	}
	if llmSizeRe.MatchString(q) || containsAny(q, "ai pod", "ai pods", "aipod") {
		return KindAIPods, true
	}

	hasGeneralPhrasing := containsAny(q, generalPhrasings...)

	if containsAny(q, intersightVocab...) {
		if !hasGeneralPhrasing || strings.Contains(q, "cisco") {
			return KindIntersight, true
		}
	}
	if containsAny(q, aiPodsVocab...) {
		// AI-specific terms lift the veto alongside "cisco": a definition-style
		// question that names LLMs or AI Pods is still an AI Pods question.
		if !hasGeneralPhrasing || containsAny(q, "cisco", "llm", "large language model", "ai pod") {
			return KindAIPods, true
		}
	}
	if containsAny(q, nexusVocab...) {
		if !hasGeneralPhrasing || containsAny(q, "cisco", "nexus") {
			return KindNexusDashboard, true
		}
	}

	if hasGeneralPhrasing {
		return KindGeneral, true
	}
	return KindGeneral, false
}

// isInfrastructureQuestion detects cross-system questions. Fabric/VLAN terms
// veto it towards NexusDashboard; server/firmware/GPU terms veto it towards
// Intersight. Without the vetoes, "switches in my environment with server X"
// would ambiguously match both.
func isInfrastructureQuestion(q string) bool {
	if containsAny(q, "fabric", "vlan") {
		return false
	}
	if containsAny(q, "server", "servers", "firmware", "gpu", "gpus") {
		return false
	}

	// Both products named in one question means a cross-system intent.
	if strings.Contains(q, "intersight") && containsAny(q, "nexus", "dashboard", "ndfc") {
		return true
	}

	crossTerm := containsAny(q, "switches", "network device", "network devices")
	envTerm := containsAny(q, "environment", "running")
	return crossTerm && envTerm
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// truncate shortens s for log lines.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
