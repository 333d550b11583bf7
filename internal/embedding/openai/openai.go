package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client embeds text through an OpenAI-compatible /v1/embeddings endpoint.
// Ollama exposes this API locally, so the same client serves both hosted
// and local models.
type Client struct {
	api       *openai.Client
	model     string
	dimension int
	batchSize int
}

// Config configures the embeddings client.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	Dimension int
	Timeout   time.Duration
	BatchSize int
}

// NewClient creates a new embeddings client using the provided
// configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding model not configured")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding API key not configured")
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 32
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: t}
	return &Client{
		api:       openai.NewClientWithConfig(apiCfg),
		model:     cfg.Model,
		dimension: cfg.Dimension,
		batchSize: batch,
	}, nil
}

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in batches, preserving input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	all := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := c.embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)
	}
	return all, nil
}

func (c *Client) embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	vectors := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(vectors) {
			return nil, fmt.Errorf("embeddings response index %d out of range", data.Index)
		}
		if err := c.checkDimension(data.Embedding); err != nil {
			return nil, err
		}
		vectors[data.Index] = data.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("embeddings response missing vector for input %d", i)
		}
	}
	return vectors, nil
}

// checkDimension verifies vectors against the configured dimensionality,
// learning it from the first response when not configured.
func (c *Client) checkDimension(v []float32) error {
	if len(v) == 0 {
		return fmt.Errorf("embeddings response contains an empty vector")
	}
	if c.dimension == 0 {
		c.dimension = len(v)
		return nil
	}
	if len(v) != c.dimension {
		return fmt.Errorf("embedding dimension mismatch: model %s returned %d, expected %d", c.model, len(v), c.dimension)
	}
	return nil
}

// Dimension returns the dimensionality of the produced embedding vectors.
func (c *Client) Dimension() int { return c.dimension }

// ModelName returns the embedding model identifier.
func (c *Client) ModelName() string { return c.model }
