package agent

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/alexupport/alexupport/internal/index"
	"github.com/alexupport/alexupport/internal/llm"
	"github.com/alexupport/alexupport/internal/model"
)

// Retriever embeds a query and pulls per-product evidence out of the vector
// index.
type Retriever struct {
	llm            llm.Client
	index          index.Index
	topK           int
	scoreThreshold float64
	scrollPageSize int
}

// RetrieverConfig tunes retrieval.
type RetrieverConfig struct {
	TopK           int
	ScoreThreshold float64
	ScrollPageSize int
}

// NewRetriever creates an information retriever over the given index.
func NewRetriever(client llm.Client, idx index.Index, cfg RetrieverConfig) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = 10
	}
	if cfg.ScoreThreshold == 0 {
		cfg.ScoreThreshold = 0.5
	}
	if cfg.ScrollPageSize <= 0 {
		cfg.ScrollPageSize = 256
	}
	return &Retriever{
		llm:            client,
		index:          idx,
		topK:           cfg.TopK,
		scoreThreshold: cfg.ScoreThreshold,
		scrollPageSize: cfg.ScrollPageSize,
	}
}

// Retrieve embeds the query, searches the index restricted to one product and
// flattens surviving matches into evidence. Low-similarity matches are
// dropped; an empty set is a valid result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query, asin string) (model.EvidenceSet, error) {
	vectors, err := r.llm.GenerateEmbedding(ctx, []string{query})
	if err != nil {
		return nil, eris.Wrap(err, "agent: embed query")
	}

	points, err := r.index.Search(ctx, vectors[0], asin, r.topK)
	if err != nil {
		return nil, eris.Wrap(err, "agent: search index")
	}

	evidence := make(model.EvidenceSet, 0, len(points))
	for _, p := range points {
		if p.Score < r.scoreThreshold {
			continue
		}
		// Missing payload lists are empty, never an error. Match order is
		// preserved downstream.
		snippets := make([]string, 0, len(p.Answers)+len(p.ReviewSnippets))
		snippets = append(snippets, p.Answers...)
		snippets = append(snippets, p.ReviewSnippets...)
		evidence = append(evidence, model.EvidenceItem{Snippets: snippets, Score: p.Score})
	}

	zap.L().Debug("agent: retrieved evidence",
		zap.String("asin", asin),
		zap.Int("matches", len(points)),
		zap.Int("kept", len(evidence)),
	)
	return evidence, nil
}

// ListProducts scrolls the whole index accumulating distinct products until
// limit is reached or the collection is exhausted. The first-seen title wins;
// products without a title display as untitled.
func (r *Retriever) ListProducts(ctx context.Context, limit int) ([]model.Product, error) {
	var (
		collected []model.Product
		offset    index.PageToken
		seen      = make(map[string]bool)
	)

	for len(collected) < limit {
		points, next, err := r.index.Scroll(ctx, r.scrollPageSize, offset)
		if err != nil {
			return nil, eris.Wrap(err, "agent: scroll index")
		}
		if len(points) == 0 {
			break
		}

		for _, p := range points {
			if p.ASIN == "" || seen[p.ASIN] {
				continue
			}
			seen[p.ASIN] = true
			title := p.Title
			if title == "" {
				title = model.UntitledProduct
			}
			collected = append(collected, model.Product{ASIN: p.ASIN, Title: title})
			if len(collected) == limit {
				return collected, nil
			}
		}

		if next == nil {
			break
		}
		offset = next
	}

	return collected, nil
}
