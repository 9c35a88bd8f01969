package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alexupport/alexupport/internal/llm"
	"github.com/alexupport/alexupport/internal/model"
)

const relevanceSystemPrompt = `You are a quality reviewer for Amazon product support.
Your task is to judge whether a generated answer is actually relevant to the user's question and grounded in the available information.

Given the question, the candidate answer and the retrieved information, evaluate:
1. Does the answer directly address what was asked?
2. Is every claim in the answer supported by the retrieved information?
3. Does the answer avoid speculation beyond the available information?

Respond with only "YES" if the answer is relevant and grounded, or "NO" if it is not.`

const (
	relevantYesReason = "The generated answer is relevant to the question."
	relevantNoReason  = "The generated answer is not relevant to the question given the available information."
)

// RelevanceChecker verdicts whether a candidate answer is relevant and
// grounded. It drives the orchestrator's retry loop.
type RelevanceChecker struct {
	llm llm.Client
}

// NewRelevanceChecker creates a relevance checker.
func NewRelevanceChecker(client llm.Client) *RelevanceChecker {
	return &RelevanceChecker{llm: client}
}

// Assess follows the same decode policy as the answerability check: YES/NO by
// prefix, anything else or a transport failure becomes a negative verdict.
func (c *RelevanceChecker) Assess(ctx context.Context, question, answer string, evidence model.EvidenceSet) model.Verdict {
	input := collapseSpace(fmt.Sprintf(`
		Based on the following information, determine if the generated answer is relevant to the user's question.

		User Question:
		%s

		Generated Answer:
		%s

		Retrieved Information:
		%s

		Provide a simple "YES" or "NO" response.
		Do not provide any additional explanations or details other than your "YES" or "NO" answer.`,
		question, answer, evidence.Flatten()))

	resp, err := c.llm.GenerateResponse(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: relevanceSystemPrompt},
		{Role: llm.RoleUser, Content: input},
	})
	if err != nil {
		zap.L().Warn("agent: relevance check failed", zap.Error(err))
		return model.Verdict{OK: false, Reason: fmt.Sprintf("error during relevance check: %v", err)}
	}

	return decodeVerdict(resp, relevantYesReason, relevantNoReason)
}
