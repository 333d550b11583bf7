package qdrant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"faqbot/internal/domain"
)

// Store is a minimal REST client to Qdrant. It uses cosine distance and
// keeps the full document in the point payload.
//
// Qdrant has no native slot for collection-level metadata, so the embedding
// model and dimension come from configuration; they are recorded at Reset
// and trusted at query time.
type Store struct {
	url        string
	apiKey     string
	collection string
	model      string
	dimension  int
	client     *http.Client
}

// Config configures the Qdrant store.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Model      string
	Dimension  int
	Timeout    time.Duration
}

func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		model:      cfg.Model,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: timeout},
	}
}

// Reset drops and recreates the collection with the dimensionality from
// meta.
func (s *Store) Reset(meta domain.CollectionMeta) error {
	if meta.Dimension <= 0 {
		return errors.New("invalid dimension")
	}
	// Best-effort delete; creation below reports real failures.
	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil)
	s.auth(req)
	if resp, err := s.client.Do(req); err == nil {
		resp.Body.Close()
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     meta.Dimension,
			"distance": "Cosine",
		},
	}
	if err := s.putJSON(fmt.Sprintf("%s/collections/%s", s.url, s.collection), body); err != nil {
		return err
	}
	s.model = meta.Model
	s.dimension = meta.Dimension
	return nil
}

func (s *Store) Upsert(docs []domain.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return errors.New("documents and vectors length mismatch")
	}
	points := make([]map[string]any, len(docs))
	for i, doc := range docs {
		payload := map[string]any{
			"doc_id": doc.ID,
			"text":   doc.Text,
		}
		for k, v := range doc.Metadata {
			payload["meta_"+k] = v
		}
		points[i] = map[string]any{
			// Qdrant point ids must be UUIDs or integers.
			"id":      uuid.NewString(),
			"vector":  vectors[i],
			"payload": payload,
		}
	}
	body := map[string]any{"points": points}
	return s.putJSON(fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

func (s *Store) Search(vector []float32, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		k = 3
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		doc := domain.Document{Metadata: map[string]string{}}
		for k, v := range r.Payload {
			sv, ok := v.(string)
			if !ok {
				continue
			}
			switch {
			case k == "doc_id":
				doc.ID = sv
			case k == "text":
				doc.Text = sv
			case len(k) > 5 && k[:5] == "meta_":
				doc.Metadata[k[5:]] = sv
			}
		}
		results = append(results, domain.SearchResult{Document: doc, Score: r.Score})
	}
	return results, nil
}

func (s *Store) Meta() (domain.CollectionMeta, error) {
	if s.dimension <= 0 {
		return domain.CollectionMeta{}, errors.New("qdrant store: model dimension not configured")
	}
	return domain.CollectionMeta{Name: s.collection, Model: s.model, Dimension: s.dimension}, nil
}

func (s *Store) Count() (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	err := s.postJSON(fmt.Sprintf("%s/collections/%s/points/count", s.url, s.collection), map[string]any{"exact": true}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) auth(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
}

func (s *Store) putJSON(url string, body any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	s.auth(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (s *Store) postJSON(url string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	s.auth(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
