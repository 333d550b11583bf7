package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"faqbot/internal/config"
	"faqbot/internal/domain"
	"faqbot/internal/embedding/openai"
	"faqbot/internal/llm"
	"faqbot/internal/retriever"
	"faqbot/internal/server"
	"faqbot/internal/service"
	"faqbot/internal/vectorstore"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/faqbot/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// A failed pipeline init is not fatal to the listener: the API stays
	// up and answers 503 until the knowledge base or endpoints are fixed.
	var chat server.ChatAnswerer
	if svc, cleanup, err := buildChatService(cfg); err != nil {
		log.Printf("chat service initialization failed, serving 503: %v", err)
	} else {
		chat = svc
		defer cleanup()
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(chat).Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}
}

// buildChatService constructs the process-wide pipeline resources:
// embedding client, vector store, retriever and LLM client. Any failure
// here is a startup failure, not a per-request one.
func buildChatService(cfg *config.AppConfig) (*service.ChatService, func(), error) {
	embedder, err := openai.NewClient(openai.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKey:    cfg.Embedder.APIKey(),
		Model:     cfg.Embedder.Model,
		Dimension: cfg.Embedder.Dimension,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
		BatchSize: cfg.Embedder.BatchSize,
	})
	if err != nil {
		return nil, nil, err
	}

	store, err := vectorstore.Open(cfg.VectorStore, cfg.Embedder)
	if err != nil {
		return nil, nil, err
	}

	ret, err := retriever.New(store, embedder, cfg.Retrieval.TopK)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	logCollection(store)

	generator := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey(),
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})

	chat := service.New(embedder, ret, generator, cfg.Retrieval.TopK)
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Printf("closing vector store: %v", err)
		}
	}
	return chat, cleanup, nil
}

func logCollection(store domain.VectorStore) {
	meta, err := store.Meta()
	if err != nil {
		return
	}
	count, _ := store.Count()
	log.Printf("collection %q ready: %d documents, model %s (dim %d)", meta.Name, count, meta.Model, meta.Dimension)
}
