package llm

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

// AnthropicChat is a ChatModel over the Anthropic Messages API. System-role
// messages are lifted into the request's system blocks, which is where the
// API expects them.
type AnthropicChat struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

// NewAnthropicChat creates a chat model backed by the official SDK.
func NewAnthropicChat(apiKey, model string, maxTokens int64) *AnthropicChat {
	return &AnthropicChat{
		client:    sdk.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (a *AnthropicChat) Name() string {
	return a.model
}

func (a *AnthropicChat) Complete(ctx context.Context, msgs []Message) (string, Usage, error) {
	var (
		system   []sdk.TextBlockParam
		messages []sdk.MessageParam
	)
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			system = append(system, sdk.TextBlockParam{Text: m.Content})
		case RoleAssistant:
			messages = append(messages, sdk.NewAssistantMessage(sdk.NewTextBlock(m.Content)))
		default:
			messages = append(messages, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
		}
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages:  messages,
	}
	if len(system) > 0 {
		params.System = system
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", Usage{}, eris.Wrap(err, "llm: anthropic message")
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	u := Usage{
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}
	return text, u, nil
}
