package memory

import (
	"errors"
	"testing"

	"faqbot/internal/domain"
)

func testMeta() domain.CollectionMeta {
	return domain.CollectionMeta{Name: "faq_collection", Model: "all-minilm", Dimension: 2}
}

func TestStore_UpsertAndSearch(t *testing.T) {
	s := NewStore()
	if err := s.Reset(testMeta()); err != nil {
		t.Fatal(err)
	}

	docs := []domain.Document{
		{ID: "1", Text: "A"},
		{ID: "2", Text: "B"},
	}
	vectors := [][]float32{{1, 0}, {0, 1}}
	if err := s.Upsert(docs, vectors); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search([]float32{0.9, 0.1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Document.ID != "1" {
		t.Fatalf("expected best match to be document 1, got %s", results[0].Document.ID)
	}
}

func TestStore_SearchTopKBounds(t *testing.T) {
	s := NewStore()
	if err := s.Reset(testMeta()); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(
		[]domain.Document{{ID: "1"}, {ID: "2"}},
		[][]float32{{1, 0}, {0, 1}},
	); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results when k > count, got %d", len(results))
	}
}

func TestStore_TieBreakByID(t *testing.T) {
	s := NewStore()
	if err := s.Reset(testMeta()); err != nil {
		t.Fatal(err)
	}
	// Identical vectors: order must fall back to document id.
	if err := s.Upsert(
		[]domain.Document{{ID: "b"}, {ID: "a"}},
		[][]float32{{1, 0}, {1, 0}},
	); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search([]float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Document.ID != "a" || results[1].Document.ID != "b" {
		t.Fatalf("expected tie broken by id, got %s then %s", results[0].Document.ID, results[1].Document.ID)
	}
}

func TestStore_MetaBeforeReset(t *testing.T) {
	s := NewStore()
	if _, err := s.Meta(); !errors.Is(err, ErrNoCollection) {
		t.Fatalf("expected ErrNoCollection, got %v", err)
	}
}

func TestStore_UpsertDimensionMismatch(t *testing.T) {
	s := NewStore()
	if err := s.Reset(testMeta()); err != nil {
		t.Fatal(err)
	}
	err := s.Upsert([]domain.Document{{ID: "1"}}, [][]float32{{1, 0, 0}})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestStore_ResetClears(t *testing.T) {
	s := NewStore()
	if err := s.Reset(testMeta()); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert([]domain.Document{{ID: "1"}}, [][]float32{{1, 0}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(testMeta()); err != nil {
		t.Fatal(err)
	}
	count, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected empty store after reset, got %d documents", count)
	}
}
