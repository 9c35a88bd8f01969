package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/alexupport/alexupport/internal/llm"
)

const refinerSystemPrompt = `You are a question refinement specialist for Amazon product support.

Given a question from the user, your task is to:
1. Fix typos and grammatical errors in the user question
2. Expand abbreviations and clarify ambiguous terms
3. Maintain the original intent while making the question more specific

Return only the refined question without any explanations or additional text.`

// Refiner rewrites a raw user question into a clearer, more specific one.
type Refiner struct {
	llm llm.Client
}

// NewRefiner creates a query refiner.
func NewRefiner(client llm.Client) *Refiner {
	return &Refiner{llm: client}
}

// Refine returns the model's rewrite verbatim, trimmed. The output shape is
// not validated here; whatever comes back is the refined question.
func (r *Refiner) Refine(ctx context.Context, question string) (string, error) {
	input := collapseSpace(fmt.Sprintf(`
		Refine the following user question to improve clarity and specificity.
		Focus on making the question more detailed and relevant to product materials and durability.

		User Question: %s`, question))

	resp, err := r.llm.GenerateResponse(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: refinerSystemPrompt},
		{Role: llm.RoleUser, Content: input},
	})
	if err != nil {
		return "", eris.Wrap(err, "agent: refine question")
	}
	return strings.TrimSpace(resp), nil
}
