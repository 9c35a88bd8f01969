// Package llm wraps the generative and embedding models behind one text
// client. Every call emits a token-usage record through a usage recorder;
// recorder failures are advisory and never surface to the caller.
package llm

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/alexupport/alexupport/internal/model"
	"github.com/alexupport/alexupport/internal/usage"
)

// Message is one turn of model input.
type Message struct {
	Role    string // "system", "user" ("human" accepted) or "assistant"
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Usage is the provider-reported token accounting for one call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// ChatModel produces one completion for an ordered message list.
type ChatModel interface {
	Complete(ctx context.Context, msgs []Message) (string, Usage, error)
	Name() string
}

// EmbeddingModel converts texts into dense vectors, one per input text.
type EmbeddingModel interface {
	Embed(ctx context.Context, texts []string) ([][]float32, Usage, error)
	Name() string
}

// Client is the text client shared by every agent component.
type Client interface {
	GenerateResponse(ctx context.Context, msgs []Message) (string, error)
	GenerateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

type client struct {
	chat     ChatModel
	embed    EmbeddingModel
	recorder usage.Recorder
	limiter  *rate.Limiter
}

// New assembles a Client from a chat model, an embedding model and a usage
// recorder. requestsPerSecond <= 0 disables client-side pacing.
func New(chat ChatModel, embed EmbeddingModel, recorder usage.Recorder, requestsPerSecond float64) Client {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &client{
		chat:     chat,
		embed:    embed,
		recorder: recorder,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

func (c *client) GenerateResponse(ctx context.Context, msgs []Message) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "llm: rate limit wait")
	}

	text, u, err := c.chat.Complete(ctx, msgs)
	if err != nil {
		return "", eris.Wrap(err, "llm: generate response")
	}

	c.record(ctx, model.OpResponseGeneration, c.chat.Name(), u)
	return text, nil
}

func (c *client) GenerateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, eris.New("llm: no texts to embed")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "llm: rate limit wait")
	}

	vectors, u, err := c.embed.Embed(ctx, texts)
	if err != nil {
		return nil, eris.Wrap(err, "llm: generate embedding")
	}

	c.record(ctx, model.OpEmbeddingsGeneration, c.embed.Name(), u)
	return vectors, nil
}

func (c *client) record(ctx context.Context, op model.Operation, modelName string, u Usage) {
	rec := model.TokenUsageRecord{
		At:           time.Now().UTC(),
		Op:           op,
		Model:        modelName,
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
	}
	if err := c.recorder.Record(ctx, rec); err != nil {
		zap.L().Warn("llm: token usage record dropped",
			zap.String("op", string(op)),
			zap.Error(err),
		)
	}
}
