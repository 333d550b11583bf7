// Package llm generates answers through an OpenAI-compatible
// chat-completion endpoint such as Ollama.
package llm

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Apology is returned in place of an answer when the model endpoint cannot
// be reached or responds with garbage. Callers never see the underlying
// error; it is logged server-side.
const Apology = "I'm sorry, but I encountered an issue while trying to generate a response. Please try again later."

const systemMessage = "You are a helpful AI assistant designed to answer questions based on provided context."

// Client sends assembled prompts to a chat-completion endpoint.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

// Config configures the chat-completion client.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// NewClient creates a chat-completion client. A low temperature biases the
// model toward context-faithful output over creative variation.
func NewClient(cfg Config) *Client {
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		temperature: temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
	}
}

// Generate sends the prompt as a user message under a fixed system message
// and returns the generated text. Any transport or endpoint failure,
// including timeout expiry, yields Apology instead of an error.
func (c *Client) Generate(ctx context.Context, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		log.Printf("llm: chat completion failed: %v", err)
		return Apology
	}
	if len(resp.Choices) == 0 {
		log.Printf("llm: chat completion returned no choices")
		return Apology
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

// ModelName returns the configured model identifier.
func (c *Client) ModelName() string { return c.model }
