package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/alexupport/alexupport/internal/llm"
	"github.com/alexupport/alexupport/internal/model"
)

const answerSystemPrompt = `You are Alexupport, an expert Amazon product support assistant.
Your role is to provide helpful, accurate answers based on real customer experiences and verified information.

Guidelines:
1. Base your answers ONLY on the provided information from customer reviews and Q&A
2. Be specific and detailed in your responses
3. Mention specific product features, experiences, or issues when relevant
4. Use a friendly, professional tone
5. If there are conflicting opinions, acknowledge different perspectives
6. Don't speculate or make claims not supported by the data
7. Keep responses concise but informative

Format your response as a clear, helpful answer that directly addresses the user's question.`

// AnswerGenerator produces a grounded answer from the refined question, the
// evidence and a read-only history snapshot. Grounding is enforced by the
// downstream relevance check, not here.
type AnswerGenerator struct {
	llm llm.Client
}

// NewAnswerGenerator creates an answer generator.
func NewAnswerGenerator(client llm.Client) *AnswerGenerator {
	return &AnswerGenerator{llm: client}
}

// Generate returns the trimmed model response. historySnapshot is the
// serialized turn list; empty means no prefix.
func (g *AnswerGenerator) Generate(ctx context.Context, question string, evidence model.EvidenceSet, historySnapshot string) (string, error) {
	historyPrefix := ""
	if historySnapshot != "" {
		historyPrefix = fmt.Sprintf("Here's the history of the current chat: [%s].", historySnapshot)
	}

	input := collapseSpace(fmt.Sprintf(`
		%s
		Based on the following information from real customer experiences and reviews, answer the following question using the available information.

		Question: %s

		Available Information:
		%s

		Provide a helpful, accurate answer based on this information.`,
		historyPrefix, question, evidence.Flatten()))

	resp, err := g.llm.GenerateResponse(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: answerSystemPrompt},
		{Role: llm.RoleUser, Content: input},
	})
	if err != nil {
		return "", eris.Wrap(err, "agent: generate answer")
	}
	return strings.TrimSpace(resp), nil
}
