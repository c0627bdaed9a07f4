// Package retrieval supplies document context for the AI Pods expert.
//
// Two implementations exist: VectorStore (pgvector-backed similarity search
// over ingested reference documents) and StaticRetriever (a built-in corpus
// used when no database is configured). Both honour the same contract:
// Retrieve never fails — on any error it degrades to whatever context it can
// produce, because a missing excerpt should never block an answer.
package retrieval

import "context"

// topK is how many excerpts a retrieval returns at most.
const topK = 5

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever returns reference excerpts relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) string
}
