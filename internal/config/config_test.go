package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_NonExistentReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got %v", err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("expected addr :8000, got %s", cfg.Server.Addr)
	}
	if cfg.Embedder.Model != "all-minilm" || cfg.Embedder.Dimension != 384 {
		t.Errorf("unexpected embedder defaults: %+v", cfg.Embedder)
	}
	if cfg.LLM.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %v", cfg.LLM.Temperature)
	}
	if cfg.VectorStore.Type != "bolt" || cfg.VectorStore.Collection != "faq_collection" {
		t.Errorf("unexpected vector store defaults: %+v", cfg.VectorStore)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("expected top_k 3, got %d", cfg.Retrieval.TopK)
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9000"
embedder:
  model: mxbai-embed-large
  dimension: 1024
vector_store:
  type: qdrant
  collection: my_faqs
  qdrant:
    url: http://localhost:6333
retrieval:
  top_k: 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("expected addr :9000, got %s", cfg.Server.Addr)
	}
	if cfg.Embedder.Model != "mxbai-embed-large" || cfg.Embedder.Dimension != 1024 {
		t.Errorf("unexpected embedder config: %+v", cfg.Embedder)
	}
	if cfg.VectorStore.Type != "qdrant" || cfg.VectorStore.Qdrant.URL != "http://localhost:6333" {
		t.Errorf("unexpected vector store config: %+v", cfg.VectorStore)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("expected top_k 5, got %d", cfg.Retrieval.TopK)
	}
	// Unset fields still get defaults.
	if cfg.Embedder.BatchSize != 32 {
		t.Errorf("expected default batch size 32, got %d", cfg.Embedder.BatchSize)
	}
	if cfg.LLM.TimeoutSecs != 60 {
		t.Errorf("expected default LLM timeout 60s, got %d", cfg.LLM.TimeoutSecs)
	}
}

func TestAPIKey_PlaceholderWhenUnset(t *testing.T) {
	c := EmbedderConfig{APIKeyEnv: "FAQBOT_TEST_KEY_UNSET"}
	if got := c.APIKey(); got != "ollama" {
		t.Fatalf("expected placeholder key, got %q", got)
	}

	t.Setenv("FAQBOT_TEST_KEY", "secret")
	c.APIKeyEnv = "FAQBOT_TEST_KEY"
	if got := c.APIKey(); got != "secret" {
		t.Fatalf("expected key from env, got %q", got)
	}
}

func TestBaseURL_FromEnvironment(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://llm-host:11434/v1")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.BaseURL != "http://llm-host:11434/v1" {
		t.Fatalf("expected base URL from environment, got %s", cfg.LLM.BaseURL)
	}
	if cfg.Embedder.BaseURL != "http://llm-host:11434/v1" {
		t.Fatalf("expected embedder base URL from environment, got %s", cfg.Embedder.BaseURL)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Server.Addr = ":8080"

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Addr != ":8080" {
		t.Fatalf("expected saved addr, got %s", loaded.Server.Addr)
	}
}
