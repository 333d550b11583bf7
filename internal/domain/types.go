package domain

// Document is a single knowledge-base entry: the text that was embedded
// plus metadata describing the FAQ record it came from.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// SearchResult is a document matched against a query vector. Score is
// cosine similarity, higher means more relevant.
type SearchResult struct {
	Document Document
	Score    float64
}

// CollectionMeta identifies a vector collection and the embedding model it
// was built with. Queries must use the same model (name and dimension) or
// the distances are meaningless.
type CollectionMeta struct {
	Name      string `json:"name"`
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`
}
