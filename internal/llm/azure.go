package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/rotisserie/eris"
)

// AzureConfig holds what is needed to reach one Azure OpenAI resource.
type AzureConfig struct {
	APIKey     string
	Endpoint   string
	APIVersion string
}

// NewAzureClient builds the shared SDK client for an Azure OpenAI resource.
func NewAzureClient(cfg AzureConfig) openai.Client {
	return openai.NewClient(
		azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
		azure.WithAPIKey(cfg.APIKey),
	)
}

// AzureChat is a ChatModel over an Azure OpenAI chat deployment.
type AzureChat struct {
	client     openai.Client
	deployment string
	maxTokens  int64
}

// NewAzureChat creates a chat model bound to one deployment.
func NewAzureChat(client openai.Client, deployment string, maxTokens int64) *AzureChat {
	return &AzureChat{client: client, deployment: deployment, maxTokens: maxTokens}
}

func (a *AzureChat) Name() string {
	return a.deployment
}

func (a *AzureChat) Complete(ctx context.Context, msgs []Message) (string, Usage, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(a.deployment),
		MaxTokens: openai.Int(a.maxTokens),
		Messages:  toOpenAIMessages(msgs),
	})
	if err != nil {
		return "", Usage{}, eris.Wrap(err, "llm: azure chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", Usage{}, eris.New("llm: azure returned no choices")
	}

	u := Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	return resp.Choices[0].Message.Content, u, nil
}

func toOpenAIMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default: // "user", "human" and anything unrecognized
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// AzureEmbedder is an EmbeddingModel over an Azure OpenAI embedding
// deployment. It serves every provider: the alternate chat provider has no
// embedding API.
type AzureEmbedder struct {
	client     openai.Client
	deployment string
}

// NewAzureEmbedder creates an embedding model bound to one deployment.
func NewAzureEmbedder(client openai.Client, deployment string) *AzureEmbedder {
	return &AzureEmbedder{client: client, deployment: deployment}
}

func (a *AzureEmbedder) Name() string {
	return a.deployment
}

func (a *AzureEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, Usage, error) {
	resp, err := a.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(a.deployment),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, Usage{}, eris.Wrap(err, "llm: azure embeddings")
	}
	if len(resp.Data) != len(texts) {
		return nil, Usage{}, eris.Errorf("llm: azure returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}

	u := Usage{InputTokens: resp.Usage.PromptTokens}
	return vectors, u, nil
}
