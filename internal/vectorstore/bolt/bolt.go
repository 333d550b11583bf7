package bolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.etcd.io/bbolt"

	"faqbot/internal/domain"
)

var (
	bucketMeta      = []byte("meta")
	bucketDocuments = []byte("documents")
	keyCollection   = []byte("collection")
)

// ErrNoCollection is returned by Meta when the database holds no built
// collection yet.
var ErrNoCollection = errors.New("no collection built")

// Store is a bbolt-backed vector store. Documents and vectors live in a
// single database file; everything is mirrored into memory at open time so
// search is a brute-force cosine scan without touching disk.
type Store struct {
	db *bbolt.DB

	mu      sync.RWMutex
	meta    domain.CollectionMeta
	hasMeta bool
	entries []entry
}

type entry struct {
	doc    domain.Document
	vector []float32
}

type storedDocument struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Vector   []float32         `json:"vector"`
}

// Open opens (creating if necessary) the vector store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening vector store %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketMeta); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketDocuments)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}
	s := &Store{db: db}
	if err := s.load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading vector store: %w", err)
	}
	return s, nil
}

func (s *Store) load() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if raw := tx.Bucket(bucketMeta).Get(keyCollection); raw != nil {
			if err := json.Unmarshal(raw, &s.meta); err != nil {
				return fmt.Errorf("decoding collection metadata: %w", err)
			}
			s.hasMeta = true
		}
		return tx.Bucket(bucketDocuments).ForEach(func(k, v []byte) error {
			var stored storedDocument
			if err := json.Unmarshal(v, &stored); err != nil {
				return fmt.Errorf("decoding document %s: %w", k, err)
			}
			s.entries = append(s.entries, entry{
				doc: domain.Document{
					ID:       string(k),
					Text:     stored.Text,
					Metadata: stored.Metadata,
				},
				vector: stored.Vector,
			})
			return nil
		})
	})
}

// Reset drops any existing collection and starts a new one described by
// meta. Rebuilding is always delete-then-recreate; there is no incremental
// update path.
func (s *Store) Reset(meta domain.CollectionMeta) error {
	if meta.Dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketDocuments); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		if _, err := tx.CreateBucket(bucketDocuments); err != nil {
			return err
		}
		raw, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyCollection, raw)
	})
	if err != nil {
		return fmt.Errorf("resetting collection: %w", err)
	}
	s.meta = meta
	s.hasMeta = true
	s.entries = nil
	return nil
}

// Upsert stores docs with their vectors. Document ids must be unique
// within the collection; an existing id is overwritten.
func (s *Store) Upsert(docs []domain.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return errors.New("documents and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasMeta {
		return ErrNoCollection
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		for i, doc := range docs {
			if len(vectors[i]) != s.meta.Dimension {
				return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.meta.Dimension, len(vectors[i]))
			}
			raw, err := json.Marshal(storedDocument{
				Text:     doc.Text,
				Metadata: doc.Metadata,
				Vector:   vectors[i],
			})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(doc.ID), raw); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upserting documents: %w", err)
	}
	for i, doc := range docs {
		s.put(entry{doc: doc, vector: vectors[i]})
	}
	return nil
}

func (s *Store) put(e entry) {
	for i := range s.entries {
		if s.entries[i].doc.ID == e.doc.ID {
			s.entries[i] = e
			return
		}
	}
	s.entries = append(s.entries, e)
}

// Search returns the k most similar documents by cosine similarity, ties
// broken by document id.
func (s *Store) Search(vector []float32, k int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasMeta {
		return nil, ErrNoCollection
	}
	if len(vector) != s.meta.Dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.meta.Dimension, len(vector))
	}
	if k <= 0 {
		k = 3
	}
	results := make([]domain.SearchResult, 0, len(s.entries))
	for _, e := range s.entries {
		results = append(results, domain.SearchResult{
			Document: e.doc,
			Score:    cosine(vector, e.vector),
		})
	}
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

// Meta returns the collection metadata recorded at build time.
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
	return len(s.entries), nil
}

func (s *Store) Close() error { return s.db.Close() }

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
