package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alexupport/alexupport/internal/llm"
	"github.com/alexupport/alexupport/internal/model"
)

const answerableSystemPrompt = `You are a verification specialist for Amazon product support.
Your task is to determine if a user's question can be reliably answered using the provided information.

Given the available information and the user question, evaluate if the retrieved information contains enough relevant details to provide a helpful, accurate answer.
Consider:
1. Does the information directly address the user's question?
2. Are there specific details about the product features mentioned in the question?
3. Is the information recent and relevant?
4. Are there multiple perspectives or experiences shared?

Respond with only "YES" if the question can be answered, or "NO" if it cannot be answered reliably.`

const (
	answerableYesReason   = "The retrieved information is sufficient to answer the question."
	answerableNoReason    = "I don't have relevant information in my data to answer your question."
	answerableEmptyReason = "insufficient information"
)

// AnswerabilityChecker decides whether retrieved evidence suffices to answer
// a question.
type AnswerabilityChecker struct {
	llm llm.Client
}

// NewAnswerabilityChecker creates an answerability checker.
func NewAnswerabilityChecker(client llm.Client) *AnswerabilityChecker {
	return &AnswerabilityChecker{llm: client}
}

// Check returns a verdict with a human-readable reason. Empty evidence
// short-circuits to a negative verdict without calling the model. Transport
// failures degrade to a negative verdict rather than an error: the pipeline
// proceeds down its unanswerable branch.
func (c *AnswerabilityChecker) Check(ctx context.Context, question string, evidence model.EvidenceSet) model.Verdict {
	if evidence.Empty() {
		return model.Verdict{OK: false, Reason: answerableEmptyReason}
	}

	input := collapseSpace(fmt.Sprintf(`
		Based on the following information, determine if the user's question can be answered.

		User Question:
		%s

		Retrieved Information:
		%s

		Provide a simple "YES" or "NO" response based on the information's relevance and completeness.
		Do not provide any additional explanations or details other than your "YES" or "NO" answer.`,
		question, evidence.Flatten()))

	resp, err := c.llm.GenerateResponse(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: answerableSystemPrompt},
		{Role: llm.RoleUser, Content: input},
	})
	if err != nil {
		zap.L().Warn("agent: answerability check failed", zap.Error(err))
		return model.Verdict{OK: false, Reason: fmt.Sprintf("error during answerability check: %v", err)}
	}

	return decodeVerdict(resp, answerableYesReason, answerableNoReason)
}
