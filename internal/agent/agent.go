// Package agent implements the question-answering pipeline for one product
// conversation: refine the question, retrieve evidence, verify answerability,
// generate a grounded answer, verify its relevance with bounded retries, and
// propose follow-ups.
package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alexupport/alexupport/internal/index"
	"github.com/alexupport/alexupport/internal/llm"
	"github.com/alexupport/alexupport/internal/model"
)

const (
	unanswerableTemplate = "Sorry — I couldn't find information reliable enough to answer that.\n\nReason: %s"
	exhaustedTemplate    = "Sorry — I couldn't find a relevant answer to that.\n\nReason: %s"
	followUpLabel        = "Here are some follow-up questions you might consider:"
)

// Agent orchestrates one conversation session. It owns the history and is not
// safe for concurrent use; multiplexing callers serialize turns per session.
type Agent struct {
	refiner    *Refiner
	retriever  *Retriever
	answerable *AnswerabilityChecker
	generator  *AnswerGenerator
	relevance  *RelevanceChecker
	followUps  *FollowUpGenerator

	history     *model.History
	asin        string
	maxAttempts int
}

// Config tunes the orchestrator.
type Config struct {
	MaxAttempts int // answer generation attempts per turn
	Retriever   RetrieverConfig
}

// New wires an Agent from its injected service handles.
func New(client llm.Client, idx index.Index, cfg Config) *Agent {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Agent{
		refiner:     NewRefiner(client),
		retriever:   NewRetriever(client, idx, cfg.Retriever),
		answerable:  NewAnswerabilityChecker(client),
		generator:   NewAnswerGenerator(client),
		relevance:   NewRelevanceChecker(client),
		followUps:   NewFollowUpGenerator(client),
		history:     model.NewHistory(),
		maxAttempts: cfg.MaxAttempts,
	}
}

// Intro is the greeting shown when a session starts.
func (a *Agent) Intro() string {
	return "Hi! I'm Alexupport, your Amazon product assistant.\n\n" +
		"Pick a product, then ask me anything about it! I will do my best to help."
}

// History exposes the recorded turns, mainly for surfaces that re-render a
// session.
func (a *Agent) History() []model.Turn {
	return a.history.Turns()
}

// SelectProduct switches the conversation to another product, clearing the
// history when the product actually changes.
func (a *Agent) SelectProduct(asin string) {
	if a.asin != asin {
		a.history.Clear()
		a.asin = asin
	}
}

// ListProducts lists distinct products available in the index.
func (a *Agent) ListProducts(ctx context.Context, limit int) ([]model.Product, error) {
	return a.retriever.ListProducts(ctx, limit)
}

// Answer runs one full turn and always returns a string. Fatal pipeline
// failures degrade to an error message; the failed turn is still recorded so
// the conversation is never left with a dangling user turn.
func (a *Agent) Answer(ctx context.Context, question, asin string) string {
	a.SelectProduct(asin)
	a.history.Append(model.RoleUser, question)

	reply, err := a.run(ctx, question)
	if err != nil {
		zap.L().Error("agent: turn failed",
			zap.String("asin", asin),
			zap.Error(err),
		)
		reply = fmt.Sprintf("An error occurred while processing your request: %v", err)
	}

	a.history.Append(model.RoleAssistant, reply)
	return reply
}

// run executes the turn state machine. Only refine, retrieve and answer
// generation failures propagate; checker failures already degraded to
// negative verdicts inside their components.
func (a *Agent) run(ctx context.Context, question string) (string, error) {
	refined, err := a.refiner.Refine(ctx, question)
	if err != nil {
		return "", err
	}

	evidence, err := a.retriever.Retrieve(ctx, refined, a.asin)
	if err != nil {
		return "", err
	}

	verdict := a.answerable.Check(ctx, refined, evidence)
	if !verdict.OK {
		zap.L().Info("agent: question not answerable",
			zap.String("asin", a.asin),
			zap.String("reason", verdict.Reason),
		)
		msg := fmt.Sprintf(unanswerableTemplate, verdict.Reason)
		return a.finalize(ctx, msg, refined, evidence), nil
	}

	// Generation is non-deterministic: a rejected candidate on one attempt
	// does not imply failure on the next. The cap bounds cost and latency.
	snapshot := a.history.Serialize()
	var lastReason string
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		answer, err := a.generator.Generate(ctx, refined, evidence, snapshot)
		if err != nil {
			return "", err
		}

		relevant := a.relevance.Assess(ctx, refined, answer, evidence)
		if relevant.OK {
			return a.finalize(ctx, answer, refined, evidence), nil
		}
		lastReason = relevant.Reason
		zap.L().Debug("agent: candidate rejected",
			zap.Int("attempt", attempt),
			zap.String("reason", relevant.Reason),
		)
	}

	msg := fmt.Sprintf(exhaustedTemplate, lastReason)
	return a.finalize(ctx, msg, refined, evidence), nil
}

// finalize attaches follow-up questions to the outgoing text. Follow-up
// generation failing this late must not discard the text it decorates, so it
// degrades to an empty list.
func (a *Agent) finalize(ctx context.Context, text, refined string, evidence model.EvidenceSet) string {
	followUps, err := a.followUps.Generate(ctx, refined, evidence)
	if err != nil {
		zap.L().Warn("agent: follow-up generation failed", zap.Error(err))
		followUps = nil
	}
	return FormatFinalAnswer(text, followUps)
}

// FormatFinalAnswer renders the final response: the answer or fallback text
// followed by a labeled, "; "-joined follow-up list. Pure string transform.
func FormatFinalAnswer(text string, followUps []string) string {
	return fmt.Sprintf("%s\n%s\n%s", text, followUpLabel, strings.Join(followUps, "; "))
}
