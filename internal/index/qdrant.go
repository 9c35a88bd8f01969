package index

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/alexupport/alexupport/pkg/qdrant"
)

// QdrantIndex adapts a qdrant.Client to the Index interface.
type QdrantIndex struct {
	client     qdrant.Client
	vectorName string
	filterKey  string
}

// NewQdrant creates an Index over a Qdrant collection searching the given
// named vector and filtering on the asin payload field.
func NewQdrant(client qdrant.Client, vectorName string) *QdrantIndex {
	return &QdrantIndex{client: client, vectorName: vectorName, filterKey: "asin"}
}

func (q *QdrantIndex) Search(ctx context.Context, vector []float32, asin string, topK int) ([]Point, error) {
	points, err := q.client.QueryPoints(ctx, qdrant.QueryRequest{
		Vector:     vector,
		Using:      q.vectorName,
		Limit:      topK,
		FilterKey:  q.filterKey,
		FilterText: asin,
	})
	if err != nil {
		return nil, eris.Wrap(err, "index: qdrant search")
	}
	return fromScoredPoints(points), nil
}

func (q *QdrantIndex) Scroll(ctx context.Context, limit int, offset PageToken) ([]Point, PageToken, error) {
	page, err := q.client.Scroll(ctx, qdrant.ScrollRequest{
		Limit:  limit,
		Offset: json.RawMessage(offset),
	})
	if err != nil {
		return nil, nil, eris.Wrap(err, "index: qdrant scroll")
	}
	return fromScoredPoints(page.Points), PageToken(page.NextOffset), nil
}

func fromScoredPoints(points []qdrant.ScoredPoint) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		out = append(out, Point{
			Score:          p.Score,
			ASIN:           p.Payload.ASIN,
			Title:          p.Payload.ProductTitle,
			Answers:        p.Payload.Answers,
			ReviewSnippets: p.Payload.ReviewSnippets,
		})
	}
	return out
}
