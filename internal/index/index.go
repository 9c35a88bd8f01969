// Package index abstracts the vector index holding per-product Q&A and review
// snippets. Concrete backends (Qdrant, pgvector) satisfy Index so the agent
// layer never depends on a specific store.
package index

import "context"

// Point is one indexed record as seen by the agent layer: the product payload
// of a matched point plus its similarity score (zero for scroll results, which
// carry no query).
type Point struct {
	Score          float64
	ASIN           string
	Title          string
	Answers        []string
	ReviewSnippets []string
}

// PageToken is an opaque scroll cursor. A nil token means the first page when
// passed in, and exhaustion when returned.
type PageToken []byte

// Index is the k-nearest-neighbor service the retriever talks to.
type Index interface {
	// Search returns the topK most similar points restricted to one product,
	// most similar first. Low-score filtering is the caller's job.
	Search(ctx context.Context, vector []float32, asin string, topK int) ([]Point, error)

	// Scroll pages through the whole collection payload-only. The returned
	// token is nil when the collection is exhausted.
	Scroll(ctx context.Context, limit int, offset PageToken) ([]Point, PageToken, error)
}
