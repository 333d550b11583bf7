package domain

import "context"

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	ModelName() string
}

// VectorStore persists documents with their vectors and supports
// similarity search. Reset replaces the whole collection; once built, a
// collection is read-only and safe for concurrent Search calls.
type VectorStore interface {
	Reset(meta CollectionMeta) error
	Upsert(docs []Document, vectors [][]float32) error
	Search(vector []float32, k int) ([]SearchResult, error)
	Meta() (CollectionMeta, error)
	Count() (int, error)
	Close() error
}

// Retriever returns the documents most relevant to a query vector. A
// degraded store yields an empty result, never an error.
type Retriever interface {
	Retrieve(vector []float32, k int) []SearchResult
}

// Generator produces answer text for an assembled prompt. Transport
// failures yield a fixed apology, never an error.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}
