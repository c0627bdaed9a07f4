package retrieval

import (
	"context"
	"sort"
	"strings"
)

// StaticRetriever serves excerpts from a built-in reference corpus. It is the
// retrieval backend when no PostgreSQL DSN is configured, and the degradation
// path when the vector store is unreachable.
type StaticRetriever struct {
	docs []Excerpt
}

// NewStaticRetriever returns a retriever over the built-in corpus.
func NewStaticRetriever() *StaticRetriever {
	return &StaticRetriever{docs: builtinCorpus}
}

// Retrieve scores corpus entries by query-term overlap and returns the top
// matches formatted for prompt injection. With no term overlap at all, the
// leading corpus entries are returned so the LLM always has some grounding.
func (r *StaticRetriever) Retrieve(_ context.Context, query string) string {
	terms := queryTerms(query)

	type scored struct {
		idx   int
		score int
	}
	var matches []scored
	for i, doc := range r.docs {
		content := strings.ToLower(doc.Content)
		score := 0
		for _, term := range terms {
			score += strings.Count(content, term)
		}
		if score > 0 {
			matches = append(matches, scored{idx: i, score: score})
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].score > matches[b].score
	})

	var picked []Excerpt
	for _, m := range matches {
		if len(picked) == topK {
			break
		}
		picked = append(picked, r.docs[m.idx])
	}
	if len(picked) == 0 {
		n := topK
		if n > len(r.docs) {
			n = len(r.docs)
		}
		picked = r.docs[:n]
	}

	return FormatExcerpts(picked)
}

// queryTerms lowercases the query and keeps words long enough to be selective.
func queryTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.Trim(w, ".,?!:;\"'()")
		if len(w) > 3 {
			terms = append(terms, w)
		}
	}
	return terms
}

// builtinCorpus carries Cisco AI-infrastructure sizing reference material so
// the AI Pods expert still grounds its answers without a document database.
var builtinCorpus = []Excerpt{
	{
		Source: "cisco-ai-pods-design-guide.pdf",
		Page:   4,
		Content: "Cisco AI PODs are pre-validated infrastructure stacks for AI workloads, " +
			"combining UCS X-Series or C-Series compute, NVIDIA GPUs, Nexus 9000 switching, " +
			"and validated storage partners. PODs are sized in four tiers: Edge Inference, " +
			"Scale Inference, RAG-Augmented Inference, and Large Model Training.",
	},
	{
		Source: "cisco-ai-pods-design-guide.pdf",
		Page:   9,
		Content: "Sizing guidance by model scale: models up to 7B parameters run inference " +
			"comfortably on a single UCS C240 M7 with 2x NVIDIA L40S. Models in the 13B-34B " +
			"range need 4x L40S or 2x H100. Models of 70B parameters and above require at " +
			"least 4x H100 80GB with NVLink, or a multi-node POD for concurrent sessions.",
	},
	{
		Source: "cisco-ai-pods-design-guide.pdf",
		Page:   12,
		Content: "Retrieval-augmented generation (RAG) PODs add a vector database node and " +
			"scale GPU memory for embedding models alongside the generation model. A typical " +
			"RAG POD starts at 2x UCS C245 M8 with 4x L40S and 1TB of system memory.",
	},
	{
		Source: "cisco-ai-pods-networking.pdf",
		Page:   3,
		Content: "East-west GPU traffic in multi-node training PODs uses a dedicated non-blocking " +
			"Nexus 9332D-GX2B fabric with RoCEv2. Inference-only PODs can share the standard " +
			"data-center access layer; 100G uplinks per node are recommended for RAG pipelines.",
	},
	{
		Source: "cisco-ai-pods-operations.pdf",
		Page:   7,
		Content: "Intersight manages AI POD lifecycle: firmware bundles for GPU servers, " +
			"profile-based provisioning, and GPU inventory reporting including card model, " +
			"count per server, and driver/firmware versions.",
	},
	{
		Source: "cisco-ai-pods-operations.pdf",
		Page:   15,
		Content: "Power and cooling: an H100-based training POD draws up to 10.2 kW per rack " +
			"unit group; plan 40 kW racks with rear-door heat exchangers. L40S inference nodes " +
			"fit standard 17 kW racks.",
	},
}
