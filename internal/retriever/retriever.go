// Package retriever wraps the vector store with the query-time retrieval
// policy: validated collection metadata at startup, fail-open search at
// request time.
package retriever

import (
	"errors"
	"fmt"
	"log"

	"faqbot/internal/domain"
)

// ErrMetaMismatch indicates the collection was built with a different
// embedding model than the one configured for queries.
var ErrMetaMismatch = errors.New("collection embedding model mismatch")

// Retriever performs top-k nearest-neighbour lookups against a built
// collection.
type Retriever struct {
	store domain.VectorStore
	topK  int
}

// New validates the store's collection metadata against the configured
// embedder and returns a retriever. A missing collection or a model/
// dimension mismatch is fatal: answering against a stale index would make
// every distance meaningless.
func New(store domain.VectorStore, emb domain.Embedder, topK int) (*Retriever, error) {
	meta, err := store.Meta()
	if err != nil {
		return nil, fmt.Errorf("reading collection metadata: %w", err)
	}
	if meta.Model != emb.ModelName() || meta.Dimension != emb.Dimension() {
		return nil, fmt.Errorf("%w: collection built with %q (dim %d), configured embedder is %q (dim %d)",
			ErrMetaMismatch, meta.Model, meta.Dimension, emb.ModelName(), emb.Dimension())
	}
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{store: store, topK: topK}, nil
}

// Retrieve returns up to k documents ordered by descending similarity.
// A store failure degrades answer quality but must not take down the
// answer pipeline, so it is logged and an empty result returned.
func (r *Retriever) Retrieve(vector []float32, k int) []domain.SearchResult {
	if k <= 0 {
		k = r.topK
	}
	results, err := r.store.Search(vector, k)
	if err != nil {
		log.Printf("retriever: vector search failed, continuing without context: %v", err)
		return nil
	}
	return results
}
