// Package service composes embedding, retrieval, prompt assembly and
// generation into the single query-to-answer operation.
package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"faqbot/internal/domain"
	"faqbot/internal/prompt"
)

// ErrEmptyQuery rejects blank input before the pipeline runs. It is the
// only error Answer returns; every stage past validation is fail-soft.
var ErrEmptyQuery = errors.New("query cannot be empty")

// ChatService answers user questions grounded in the FAQ knowledge base.
// It holds only read-only handles shared across concurrent requests.
type ChatService struct {
	embedder  domain.Embedder
	retriever domain.Retriever
	generator domain.Generator
	topK      int
}

// New wires the pipeline stages together. All expensive resources are
// constructed by the caller once per process.
func New(embedder domain.Embedder, retriever domain.Retriever, generator domain.Generator, topK int) *ChatService {
	if topK <= 0 {
		topK = 3
	}
	return &ChatService{
		embedder:  embedder,
		retriever: retriever,
		generator: generator,
		topK:      topK,
	}
}

// Answer runs the five-stage pipeline: embed the query, retrieve the top-k
// documents, assemble the grounded prompt, generate. No retries: each
// stage substitutes a safe default on failure, so a degraded subsystem
// lowers answer quality instead of producing an error.
func (s *ChatService) Answer(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	var docs []string
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		// Degraded embedding is treated like degraded retrieval: the
		// prompt falls back to its no-context form.
		log.Printf("chat: embedding query failed, continuing without context: %v", err)
	} else {
		for _, result := range s.retriever.Retrieve(vector, s.topK) {
			docs = append(docs, result.Document.Text)
		}
	}

	grounded := prompt.Assemble(query, docs)
	return s.generator.Generate(ctx, grounded), nil
}
