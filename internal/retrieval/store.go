package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

// Excerpt is one retrieved document chunk.
type Excerpt struct {
	Source  string
	Page    int
	Content string
}

// VectorStore implements Retriever using PostgreSQL + pgvector. Reference
// documents are chunked, embedded and stored; queries are answered by cosine
// similarity over the chunk embeddings.
type VectorStore struct {
	pool     *pgxpool.Pool
	embedder Embedder
	dim      int // embedding dimension, must match the embedding model output
	fallback *StaticRetriever
	logger   *slog.Logger
}

// NewVectorStore wraps an existing pgxpool.Pool.
// Use NewVectorStoreFromDSN when you need the pool created here.
func NewVectorStore(pool *pgxpool.Pool, embedder Embedder, dim int, logger *slog.Logger) *VectorStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &VectorStore{
		pool:     pool,
		embedder: embedder,
		dim:      dim,
		fallback: NewStaticRetriever(),
		logger:   logger,
	}
}

// NewVectorStoreFromDSN creates a pgxpool with pgvector type registration
// and returns a VectorStore backed by it.
func NewVectorStoreFromDSN(ctx context.Context, dsn string, embedder Embedder, dim int, logger *slog.Logger) (*VectorStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("retrieval: failed to parse dsn: %w", err)
	}

	// Register the pgvector type codec for every new connection in the pool.
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if err := pgxvector.RegisterTypes(ctx, conn); err != nil {
			return fmt.Errorf("retrieval: pgvector type registration: %w", err)
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("retrieval: failed to create pgx pool: %w", err)
	}

	return NewVectorStore(pool, embedder, dim, logger), nil
}

// InitSchema creates the required PostgreSQL extension and table if they do not exist.
// Safe to call on every startup (idempotent).
func (vs *VectorStore) InitSchema(ctx context.Context) error {
	// dim is an integer from internal config, not user input — safe to interpolate.
	ddl := fmt.Sprintf(`
		CREATE EXTENSION IF NOT EXISTS vector;

		CREATE TABLE IF NOT EXISTS reference_chunks (
			id         UUID DEFAULT gen_random_uuid() PRIMARY KEY,
			source     TEXT NOT NULL,
			page       INT NOT NULL DEFAULT 0,
			content    TEXT NOT NULL,
			embedding  vector(%d),
			created_at TIMESTAMPTZ DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS reference_chunks_embedding_idx
			ON reference_chunks USING ivfflat (embedding vector_cosine_ops)
			WITH (lists = 100);
	`, vs.dim)

	if _, err := vs.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("retrieval: failed to init schema: %w", err)
	}
	return nil
}

// AddChunk embeds a document chunk and inserts it into the store.
func (vs *VectorStore) AddChunk(ctx context.Context, source string, page int, content string) error {
	embedding, err := vs.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("retrieval: failed to embed chunk: %w", err)
	}

	vec := pgvector.NewVector(embedding)
	_, err = vs.pool.Exec(ctx, `
		INSERT INTO reference_chunks (source, page, content, embedding)
		VALUES ($1, $2, $3, $4)
	`, source, page, content, vec)
	if err != nil {
		return fmt.Errorf("retrieval: failed to insert chunk: %w", err)
	}
	return nil
}

// Retrieve embeds the query and returns the top excerpts by cosine distance,
// formatted for prompt injection. It never fails: on any error it logs and
// falls back to the built-in corpus.
func (vs *VectorStore) Retrieve(ctx context.Context, query string) string {
	embedding, err := vs.embedder.Embed(ctx, query)
	if err != nil {
		vs.logger.Warn("query embedding failed, using built-in corpus", "error", err)
		return vs.fallback.Retrieve(ctx, query)
	}

	excerpts, err := vs.searchSimilar(ctx, embedding, topK)
	if err != nil {
		vs.logger.Warn("similarity search failed, using built-in corpus", "error", err)
		return vs.fallback.Retrieve(ctx, query)
	}
	if len(excerpts) == 0 {
		return vs.fallback.Retrieve(ctx, query)
	}

	return FormatExcerpts(excerpts)
}

// searchSimilar returns the top-limit chunks closest to queryEmbedding by cosine distance.
func (vs *VectorStore) searchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]Excerpt, error) {
	vec := pgvector.NewVector(queryEmbedding)

	rows, err := vs.pool.Query(ctx, `
		SELECT source, page, content
		FROM reference_chunks
		ORDER BY embedding <=> $1
		LIMIT $2
	`, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("retrieval: similarity query failed: %w", err)
	}
	defer rows.Close()

	var excerpts []Excerpt
	for rows.Next() {
		var e Excerpt
		if err := rows.Scan(&e.Source, &e.Page, &e.Content); err != nil {
			return nil, fmt.Errorf("retrieval: failed to scan row: %w", err)
		}
		excerpts = append(excerpts, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("retrieval: row iteration error: %w", err)
	}

	return excerpts, nil
}

// Close releases the underlying connection pool.
func (vs *VectorStore) Close() {
	vs.pool.Close()
}

// FormatExcerpts renders excerpts with explicit begin/end markers so the LLM
// can cite which document an answer came from.
func FormatExcerpts(excerpts []Excerpt) string {
	var b strings.Builder
	for i, e := range excerpts {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "--- BEGIN EXCERPT FROM %s (Page %d) ---\n", e.Source, e.Page)
		b.WriteString(e.Content)
		b.WriteString("\n--- END EXCERPT ---")
	}
	return b.String()
}
