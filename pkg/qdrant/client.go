package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Client performs point queries and payload scrolls against a Qdrant
// collection over its REST API.
type Client interface {
	QueryPoints(ctx context.Context, req QueryRequest) ([]ScoredPoint, error)
	Scroll(ctx context.Context, req ScrollRequest) (*ScrollPage, error)
}

// QueryRequest describes one similarity search.
type QueryRequest struct {
	Vector     []float32
	Using      string // named vector to search
	Limit      int
	FilterKey  string // payload field for the exact-match filter
	FilterText string // required value of that field
}

// ScrollRequest describes one page of a payload-only scroll.
type ScrollRequest struct {
	Limit  int
	Offset json.RawMessage // nil for the first page; opaque point id otherwise
}

// ScoredPoint is one similarity match with its payload.
type ScoredPoint struct {
	ID      json.RawMessage `json:"id"`
	Score   float64         `json:"score"`
	Payload Payload         `json:"payload"`
}

// Payload carries the product fields stored with each indexed point. Missing
// list fields decode to nil, which callers treat as empty.
type Payload struct {
	ASIN           string   `json:"asin"`
	ProductTitle   string   `json:"productTitle"`
	Answers        []string `json:"answers"`
	ReviewSnippets []string `json:"review_snippets"`
}

// ScrollPage is the canonical page shape produced from either scroll response
// encoding the server may use.
type ScrollPage struct {
	Points     []ScoredPoint
	NextOffset json.RawMessage // nil when the collection is exhausted
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL    string
	apiKey     string
	collection string
	http       *http.Client
}

// NewClient creates a Qdrant REST client for one collection.
func NewClient(baseURL, apiKey, collection string, opts ...Option) Client {
	c := &httpClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		collection: collection,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) QueryPoints(ctx context.Context, req QueryRequest) ([]ScoredPoint, error) {
	body := map[string]any{
		"query":        req.Vector,
		"using":        req.Using,
		"limit":        req.Limit,
		"with_payload": true,
	}
	if req.FilterKey != "" {
		body["filter"] = map[string]any{
			"must": []map[string]any{
				{"key": req.FilterKey, "match": map[string]any{"value": req.FilterText}},
			},
		}
	}

	var resp struct {
		Result struct {
			Points []ScoredPoint `json:"points"`
		} `json:"result"`
	}
	if err := c.post(ctx, fmt.Sprintf("/collections/%s/points/query", c.collection), body, &resp); err != nil {
		return nil, err
	}
	return resp.Result.Points, nil
}

func (c *httpClient) Scroll(ctx context.Context, req ScrollRequest) (*ScrollPage, error) {
	body := map[string]any{
		"limit":        req.Limit,
		"with_payload": true,
		"with_vectors": false,
	}
	if len(req.Offset) > 0 {
		body["offset"] = req.Offset
	}

	var resp struct {
		Result json.RawMessage `json:"result"`
	}
	if err := c.post(ctx, fmt.Sprintf("/collections/%s/points/scroll", c.collection), body, &resp); err != nil {
		return nil, err
	}
	return decodeScrollResult(resp.Result)
}

// decodeScrollResult normalizes the two scroll result encodings the server
// may produce, an object {points, next_page_offset} or a legacy bare pair
// [points, next_page_offset], into one canonical page.
func decodeScrollResult(raw json.RawMessage) (*ScrollPage, error) {
	var object struct {
		Points         []ScoredPoint   `json:"points"`
		NextPageOffset json.RawMessage `json:"next_page_offset"`
	}
	if err := json.Unmarshal(raw, &object); err == nil {
		return &ScrollPage{Points: object.Points, NextOffset: normalizeOffset(object.NextPageOffset)}, nil
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil {
		return nil, eris.Wrap(err, "qdrant: decode scroll result")
	}
	page := &ScrollPage{}
	if len(pair) > 0 {
		if err := json.Unmarshal(pair[0], &page.Points); err != nil {
			return nil, eris.Wrap(err, "qdrant: decode scroll points")
		}
	}
	if len(pair) > 1 {
		page.NextOffset = normalizeOffset(pair[1])
	}
	return page, nil
}

// normalizeOffset maps an explicit JSON null to a nil offset.
func normalizeOffset(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}

func (c *httpClient) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "qdrant: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "qdrant: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return eris.Wrap(err, "qdrant: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "qdrant: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("qdrant: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "qdrant: unmarshal response")
	}
	return nil
}
