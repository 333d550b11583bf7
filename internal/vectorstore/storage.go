package vectorstore

import (
	"fmt"
	"time"

	"faqbot/internal/config"
	"faqbot/internal/domain"
	"faqbot/internal/vectorstore/bolt"
	"faqbot/internal/vectorstore/memory"
	"faqbot/internal/vectorstore/qdrant"
)

// Open constructs the vector store selected by cfg. The embedder settings
// are needed by stores that cannot persist collection metadata themselves.
func Open(cfg config.VectorStoreConfig, emb config.EmbedderConfig) (domain.VectorStore, error) {
	switch cfg.Type {
	case "bolt", "":
		if cfg.Bolt == nil {
			return nil, fmt.Errorf("bolt store config missing")
		}
		return bolt.Open(cfg.Bolt.Path)
	case "memory":
		return memory.NewStore(), nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, fmt.Errorf("qdrant store config missing")
		}
		return qdrant.NewStore(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Collection,
			Model:      emb.Model,
			Dimension:  emb.Dimension,
			Timeout:    time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}
