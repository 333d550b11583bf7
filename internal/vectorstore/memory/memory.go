package memory

import (
	"errors"
	"math"
	"sort"
	"sync"

	"faqbot/internal/domain"
)

// Store is an in-memory vector store using brute-force cosine similarity.
// Useful for tests and small FAQ sets that fit comfortably in memory.
type Store struct {
	mu      sync.RWMutex
	meta    domain.CollectionMeta
	hasMeta bool
	docs    []domain.Document
	vectors [][]float32
}

// ErrNoCollection is returned by Meta before a collection has been built.
var ErrNoCollection = errors.New("no collection built")

func NewStore() *Store { return &Store{} }

func (s *Store) Reset(meta domain.CollectionMeta) error {
	if meta.Dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = meta
	s.hasMeta = true
	s.docs = nil
	s.vectors = nil
	return nil
}

func (s *Store) Upsert(docs []domain.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return errors.New("documents and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasMeta {
		return ErrNoCollection
	}
	for _, v := range vectors {
		if len(v) != s.meta.Dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.docs = append(s.docs, docs...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

func (s *Store) Search(vector []float32, k int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if k <= 0 {
		k = 3
	}
	results := make([]domain.SearchResult, 0, len(s.docs))
	for i := range s.docs {
		results = append(results, domain.SearchResult{
			Document: s.docs[i],
			Score:    cosine(vector, s.vectors[i]),
		})
	}
	// Ties broken by document id for deterministic ordering.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.ID < results[j].Document.ID
	})
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func (s *Store) Meta() (domain.CollectionMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasMeta {
		return domain.CollectionMeta{}, ErrNoCollection
	}
	return s.meta, nil
}

func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

func (s *Store) Close() error { return nil }

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
