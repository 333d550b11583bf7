package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"faqbot/internal/domain"
	"faqbot/internal/llm"
	"faqbot/internal/service"
)

type fakeChat struct {
	answer string
	err    error
}

func (f fakeChat) Answer(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", service.ErrEmptyQuery
	}
	return f.answer, f.err
}

func doChat(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestChat_OK(t *testing.T) {
	h := New(fakeChat{answer: "Credit card, bank transfer."}).Handler()

	rec := doChat(t, h, `{"query": "What are my payment options?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "Credit card, bank transfer." {
		t.Fatalf("unexpected answer %q", resp.Answer)
	}
}

func TestChat_EmptyQuery(t *testing.T) {
	h := New(fakeChat{answer: "x"}).Handler()

	for _, body := range []string{`{"query": ""}`, `{"query": "   "}`, `{}`} {
		rec := doChat(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Query cannot be empty.") {
			t.Errorf("body %s: expected detail message, got %s", body, rec.Body.String())
		}
	}
}

func TestChat_InvalidBody(t *testing.T) {
	h := New(fakeChat{answer: "x"}).Handler()
	rec := doChat(t, h, `{"query": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChat_ServiceUnavailable(t *testing.T) {
	h := New(nil).Handler()
	rec := doChat(t, h, `{"query": "hello"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestChat_UnexpectedErrorIs500(t *testing.T) {
	h := New(fakeChat{err: errors.New("boom")}).Handler()
	rec := doChat(t, h, `{"query": "hello"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "An internal server error occurred.") {
		t.Fatalf("expected generic detail, got %s", rec.Body.String())
	}
}

func TestRoot_Welcome(t *testing.T) {
	h := New(fakeChat{}).Handler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Welcome") {
		t.Fatalf("expected welcome payload, got %s", rec.Body.String())
	}
}

type staticEmbedder struct{}

func (staticEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}
func (staticEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return [][]float32{{1, 0}}, nil
}
func (staticEmbedder) Dimension() int    { return 2 }
func (staticEmbedder) ModelName() string { return "all-minilm" }

type emptyRetriever struct{}

func (emptyRetriever) Retrieve(vector []float32, k int) []domain.SearchResult { return nil }

// A dead LLM endpoint must still produce a 200 with the apology as the
// answer.
func TestChat_LLMDownStillReturns200(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()

	generator := llm.NewClient(llm.Config{BaseURL: url + "/v1", APIKey: "ollama", Model: "llama3", Timeout: time.Second})
	chat := service.New(staticEmbedder{}, emptyRetriever{}, generator, 3)
	h := New(chat).Handler()

	rec := doChat(t, h, `{"query": "What are my payment options?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != llm.Apology {
		t.Fatalf("expected apology answer, got %q", resp.Answer)
	}
}
