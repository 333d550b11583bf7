package retriever

import (
	"context"
	"errors"
	"testing"

	"faqbot/internal/domain"
)

type fakeEmbedder struct {
	model string
	dim   int
}

func (f fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) { return nil, nil }
func (f fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}
func (f fakeEmbedder) Dimension() int    { return f.dim }
func (f fakeEmbedder) ModelName() string { return f.model }

type fakeStore struct {
	meta      domain.CollectionMeta
	metaErr   error
	results   []domain.SearchResult
	searchErr error
	gotK      int
}

func (f *fakeStore) Reset(meta domain.CollectionMeta) error { return nil }
func (f *fakeStore) Upsert(docs []domain.Document, vectors [][]float32) error {
	return nil
}
func (f *fakeStore) Search(vector []float32, k int) ([]domain.SearchResult, error) {
	f.gotK = k
	return f.results, f.searchErr
}
func (f *fakeStore) Meta() (domain.CollectionMeta, error) { return f.meta, f.metaErr }
func (f *fakeStore) Count() (int, error)                  { return len(f.results), nil }
func (f *fakeStore) Close() error                         { return nil }

func TestNew_MetaMismatchFails(t *testing.T) {
	store := &fakeStore{meta: domain.CollectionMeta{Model: "all-minilm", Dimension: 384}}

	if _, err := New(store, fakeEmbedder{model: "mxbai-embed-large", dim: 1024}, 3); !errors.Is(err, ErrMetaMismatch) {
		t.Fatalf("expected ErrMetaMismatch for model change, got %v", err)
	}
	if _, err := New(store, fakeEmbedder{model: "all-minilm", dim: 768}, 3); !errors.Is(err, ErrMetaMismatch) {
		t.Fatalf("expected ErrMetaMismatch for dimension change, got %v", err)
	}
}

func TestNew_MissingCollectionFails(t *testing.T) {
	store := &fakeStore{metaErr: errors.New("no collection built")}
	if _, err := New(store, fakeEmbedder{model: "all-minilm", dim: 384}, 3); err == nil {
		t.Fatal("expected error for missing collection")
	}
}

func TestRetrieve_StoreFailureReturnsEmpty(t *testing.T) {
	store := &fakeStore{
		meta:      domain.CollectionMeta{Model: "all-minilm", Dimension: 2},
		searchErr: errors.New("index unavailable"),
	}
	r, err := New(store, fakeEmbedder{model: "all-minilm", dim: 2}, 3)
	if err != nil {
		t.Fatal(err)
	}

	results := r.Retrieve([]float32{1, 0}, 3)
	if len(results) != 0 {
		t.Fatalf("expected empty result on store failure, got %d", len(results))
	}
}

func TestRetrieve_DefaultsTopK(t *testing.T) {
	store := &fakeStore{meta: domain.CollectionMeta{Model: "all-minilm", Dimension: 2}}
	r, err := New(store, fakeEmbedder{model: "all-minilm", dim: 2}, 0)
	if err != nil {
		t.Fatal(err)
	}

	r.Retrieve([]float32{1, 0}, 0)
	if store.gotK != 3 {
		t.Fatalf("expected default k=3, got %d", store.gotK)
	}
}

func TestRetrieve_PassesResultsThrough(t *testing.T) {
	want := []domain.SearchResult{
		{Document: domain.Document{ID: "1", Text: "a"}, Score: 0.9},
		{Document: domain.Document{ID: "2", Text: "b"}, Score: 0.5},
	}
	store := &fakeStore{meta: domain.CollectionMeta{Model: "all-minilm", Dimension: 2}, results: want}
	r, err := New(store, fakeEmbedder{model: "all-minilm", dim: 2}, 3)
	if err != nil {
		t.Fatal(err)
	}

	got := r.Retrieve([]float32{1, 0}, 2)
	if len(got) != 2 || got[0].Document.ID != "1" || got[1].Document.ID != "2" {
		t.Fatalf("unexpected results: %+v", got)
	}
}
