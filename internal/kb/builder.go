// Package kb builds the FAQ knowledge base: it loads FAQ records, embeds
// them and replaces the vector collection. Run it again whenever the FAQ
// content or the embedding model changes; there is no incremental update.
package kb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"faqbot/internal/domain"
)

// FAQ is one question/answer record from the source file.
type FAQ struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ProgressFunc reports embedding progress as (done, total) records.
type ProgressFunc func(done, total int)

// LoadFAQs reads FAQ records from a JSON array file.
func LoadFAQs(path string) ([]FAQ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading FAQ file: %w", err)
	}
	var faqs []FAQ
	if err := json.Unmarshal(data, &faqs); err != nil {
		return nil, fmt.Errorf("parsing FAQ file %s: %w", path, err)
	}
	return faqs, nil
}

// CombineText merges question and answer into the single text that gets
// embedded, so a query can match either side of the record.
func CombineText(f FAQ) string {
	return fmt.Sprintf("Question: %s Answer: %s", f.Question, f.Answer)
}

// Build embeds all FAQ records and replaces the collection in store. It
// returns the number of documents written. The embedding batch size is the
// embedder's concern; progress is reported per batch.
func Build(ctx context.Context, emb domain.Embedder, store domain.VectorStore, collection string, faqs []FAQ, progress ProgressFunc) (int, error) {
	if len(faqs) == 0 {
		return 0, fmt.Errorf("no FAQ records to index")
	}

	docs := make([]domain.Document, len(faqs))
	texts := make([]string, len(faqs))
	seen := make(map[string]struct{}, len(faqs))
	for i, f := range faqs {
		id := strings.TrimSpace(f.ID)
		if _, dup := seen[id]; id == "" || dup {
			id = uuid.NewString()
		}
		seen[id] = struct{}{}
		texts[i] = CombineText(f)
		docs[i] = domain.Document{
			ID:   id,
			Text: texts[i],
			Metadata: map[string]string{
				"faq_id":            f.ID,
				"original_question": f.Question,
				"original_answer":   f.Answer,
			},
		}
	}

	const batchSize = 32
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := emb.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return 0, fmt.Errorf("embedding FAQ records: %w", err)
		}
		vectors = append(vectors, batch...)
		if progress != nil {
			progress(end, len(texts))
		}
	}

	meta := domain.CollectionMeta{
		Name:  collection,
		Model: emb.ModelName(),
		// Derived from the vectors themselves so a lazily-sized embedder
		// still records the right dimensionality.
		Dimension: len(vectors[0]),
	}
	if err := store.Reset(meta); err != nil {
		return 0, fmt.Errorf("resetting collection %s: %w", collection, err)
	}
	if err := store.Upsert(docs, vectors); err != nil {
		return 0, fmt.Errorf("storing documents: %w", err)
	}
	return len(docs), nil
}
