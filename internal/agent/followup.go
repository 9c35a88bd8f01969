package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/alexupport/alexupport/internal/llm"
	"github.com/alexupport/alexupport/internal/model"
)

const followUpSystemPrompt = `You are a customer experience specialist for Amazon product support.
Your role is to generate 2-3 relevant follow-up questions that would help users discover more useful information.

Guidelines:
1. Questions should be related to the user's original question, and to the retrieved information
2. Focus on practical concerns users might have
3. Make questions specific and actionable
4. Avoid generic questions like "Do you have any other questions?"
5. Questions should help users make informed decisions

Format your response as a simple list of 2-3 questions, one per line, without numbering or bullet points.`

// FollowUpGenerator proposes follow-up questions from the refined query and
// the evidence.
type FollowUpGenerator struct {
	llm llm.Client
}

// NewFollowUpGenerator creates a follow-up generator.
func NewFollowUpGenerator(client llm.Client) *FollowUpGenerator {
	return &FollowUpGenerator{llm: client}
}

// Generate splits the response on newlines and trims each line. It neither
// deduplicates nor enforces the asked-for count; consumers tolerate zero, one
// or many questions.
func (g *FollowUpGenerator) Generate(ctx context.Context, question string, evidence model.EvidenceSet) ([]string, error) {
	input := collapseSpace(fmt.Sprintf(`
		Based on the following conversation, generate 2-3 relevant follow-up questions:

		User question: %s
		Available Information Context:
		%s

		Generate follow-up questions that would help the user discover more useful information about this product or related concerns.
		Return the follow-up questions as a simple list, each question on a new line, separated by a newline character.`,
		question, evidence.Flatten()))

	resp, err := g.llm.GenerateResponse(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: followUpSystemPrompt},
		{Role: llm.RoleUser, Content: input},
	})
	if err != nil {
		return nil, eris.Wrap(err, "agent: generate follow-ups")
	}

	var questions []string
	for _, line := range strings.Split(resp, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			questions = append(questions, trimmed)
		}
	}
	return questions, nil
}
