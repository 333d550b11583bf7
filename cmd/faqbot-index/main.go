package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"faqbot/internal/config"
	"faqbot/internal/embedding/openai"
	"faqbot/internal/kb"
	"faqbot/internal/vectorstore"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, faqPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/faqbot/config.yaml if not provided)")
	flag.StringVar(&faqPath, "faqs", filepath.Join("knowledge_base", "faqs.json"), "Path to the FAQ JSON file")
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

	faqs, err := kb.LoadFAQs(faqPath)
	if err != nil {
		log.Fatalf("failed to load FAQs: %v", err)
	}
	log.Printf("loaded %d FAQ records from %s", len(faqs), faqPath)

	embedder, err := openai.NewClient(openai.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKey:    cfg.Embedder.APIKey(),
		Model:     cfg.Embedder.Model,
		Dimension: cfg.Embedder.Dimension,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
		BatchSize: cfg.Embedder.BatchSize,
	})
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}

	store, err := vectorstore.Open(cfg.VectorStore, cfg.Embedder)
	if err != nil {
		log.Fatalf("vector store init failed: %v", err)
	}
	defer store.Close()

	bar := progressbar.Default(int64(len(faqs)), "embedding")
	count, err := kb.Build(context.Background(), embedder, store, cfg.VectorStore.Collection, faqs, func(done, total int) {
		_ = bar.Set(done)
	})
	if err != nil {
		log.Fatalf("knowledge base build failed: %v", err)
	}
	_ = bar.Finish()

	log.Printf("stored %d documents in collection %q with model %s (dim %d)",
		count, cfg.VectorStore.Collection, embedder.ModelName(), embedder.Dimension())
}
