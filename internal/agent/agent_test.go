package agent

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexupport/alexupport/internal/index"
	"github.com/alexupport/alexupport/internal/model"
)

func evidencePoints() []index.Point {
	return []index.Point{
		{Score: 0.9, ASIN: "B01", Answers: []string{"Keeps drinks hot for six hours."}},
		{Score: 0.8, ASIN: "B01", ReviewSnippets: []string{"Lid never leaked on my commute."}},
	}
}

func TestAnswerFirstAttemptSuccess(t *testing.T) {
	mock := newMockLLM()
	mock.answers = []scripted{{text: "It keeps drinks hot for about six hours."}}
	mock.followUps = scripted{text: "Is the lid dishwasher safe?\nDoes it fit cup holders?"}
	a := New(mock, &mockIndex{searchPoints: evidencePoints()}, Config{})

	reply := a.Answer(context.Background(), "how long does it stay hot", "B01")

	assert.True(t, strings.HasPrefix(reply, "It keeps drinks hot for about six hours.\n"))
	assert.Contains(t, reply, followUpLabel)
	assert.Contains(t, reply, "Is the lid dishwasher safe?; Does it fit cup holders?")

	assert.Equal(t, 1, mock.refineCalls)
	assert.Equal(t, 1, mock.embedCalls)
	assert.Equal(t, 1, mock.answerableCalls)
	assert.Equal(t, 1, mock.answerCalls)
	assert.Equal(t, 1, mock.relevanceCalls)
	assert.Equal(t, 1, mock.followUpCalls)

	turns := a.History()
	require.Len(t, turns, 2)
	assert.Equal(t, model.RoleUser, turns[0].Role)
	assert.Equal(t, "how long does it stay hot", turns[0].Content)
	assert.Equal(t, model.RoleAssistant, turns[1].Role)
	assert.Equal(t, reply, turns[1].Content)
}

func TestAnswerRetriesUntilRelevant(t *testing.T) {
	for attempts := 1; attempts <= 5; attempts++ {
		t.Run(fmt.Sprintf("succeeds_on_attempt_%d", attempts), func(t *testing.T) {
			mock := newMockLLM()
			mock.answers = []scripted{{text: "candidate answer"}}
			script := make([]scripted, attempts)
			for i := 0; i < attempts-1; i++ {
				script[i] = scripted{text: "NO"}
			}
			script[attempts-1] = scripted{text: "YES"}
			mock.relevance = script

			a := New(mock, &mockIndex{searchPoints: evidencePoints()}, Config{})
			reply := a.Answer(context.Background(), "q", "B01")

			assert.True(t, strings.HasPrefix(reply, "candidate answer\n"))
			assert.Equal(t, attempts, mock.answerCalls)
			assert.Equal(t, attempts, mock.relevanceCalls)
		})
	}
}

func TestAnswerExhaustedAttemptsFallsBack(t *testing.T) {
	mock := newMockLLM()
	mock.answers = []scripted{{text: "candidate"}}
	mock.relevance = []scripted{{text: "NO"}}
	a := New(mock, &mockIndex{searchPoints: evidencePoints()}, Config{})

	reply := a.Answer(context.Background(), "q", "B01")

	assert.True(t, strings.HasPrefix(reply, "Sorry — I couldn't find a relevant answer to that."))
	assert.Contains(t, reply, "Reason: "+relevantNoReason)
	assert.Contains(t, reply, followUpLabel)
	assert.Equal(t, 5, mock.answerCalls)
	assert.Equal(t, 5, mock.relevanceCalls)
}

func TestAnswerExhaustionReportsLastReason(t *testing.T) {
	mock := newMockLLM()
	mock.answers = []scripted{{text: "candidate"}}
	mock.relevance = []scripted{
		{text: "NO"},
		{text: "gibberish"},
	}
	a := New(mock, &mockIndex{searchPoints: evidencePoints()}, Config{MaxAttempts: 2})

	reply := a.Answer(context.Background(), "q", "B01")

	assert.Contains(t, reply, "Reason: unexpected model response: gibberish")
	assert.Equal(t, 2, mock.answerCalls)
}

func TestAnswerUnanswerableSkipsGeneration(t *testing.T) {
	mock := newMockLLM()
	mock.answerable = scripted{text: "NO"}
	a := New(mock, &mockIndex{searchPoints: evidencePoints()}, Config{})

	reply := a.Answer(context.Background(), "q", "B01")

	assert.True(t, strings.HasPrefix(reply, "Sorry — I couldn't find information reliable enough to answer that."))
	assert.Contains(t, reply, "Reason: "+answerableNoReason)
	assert.Contains(t, reply, followUpLabel)
	assert.Zero(t, mock.answerCalls)
	assert.Zero(t, mock.relevanceCalls)
	assert.Equal(t, 1, mock.followUpCalls)
	assert.Len(t, a.History(), 2)
}

func TestAnswerEmptyEvidenceIsUnanswerableWithoutCheckerCall(t *testing.T) {
	mock := newMockLLM()
	idx := &mockIndex{}
	a := New(mock, idx, Config{})

	reply := a.Answer(context.Background(), "Is it waterproof?", "B01")

	assert.Contains(t, reply, "Reason: "+answerableEmptyReason)
	assert.Equal(t, 1, idx.searchCalls)
	assert.Zero(t, mock.answerableCalls)
	assert.Zero(t, mock.answerCalls)
	assert.Len(t, a.History(), 2)
}

func TestAnswerRefineFailureDegradesToErrorMessage(t *testing.T) {
	mock := newMockLLM()
	mock.refine = scripted{err: eris.New("upstream down")}
	a := New(mock, &mockIndex{searchPoints: evidencePoints()}, Config{})

	reply := a.Answer(context.Background(), "q", "B01")

	assert.True(t, strings.HasPrefix(reply, "An error occurred while processing your request:"))
	assert.Contains(t, reply, "upstream down")

	// The failed turn is still recorded.
	turns := a.History()
	require.Len(t, turns, 2)
	assert.Equal(t, reply, turns[1].Content)
}

func TestAnswerFollowUpFailureKeepsAnswer(t *testing.T) {
	mock := newMockLLM()
	mock.answers = []scripted{{text: "the answer"}}
	mock.followUps = scripted{err: eris.New("boom")}
	a := New(mock, &mockIndex{searchPoints: evidencePoints()}, Config{})

	reply := a.Answer(context.Background(), "q", "B01")

	assert.Equal(t, FormatFinalAnswer("the answer", nil), reply)
}

func TestSelectProductClearsHistoryOnChange(t *testing.T) {
	mock := newMockLLM()
	a := New(mock, &mockIndex{searchPoints: evidencePoints()}, Config{})

	a.Answer(context.Background(), "first question", "B01")
	require.Len(t, a.History(), 2)

	// Same product keeps history.
	a.SelectProduct("B01")
	assert.Len(t, a.History(), 2)

	// Switching products resets the conversation.
	a.SelectProduct("B02")
	assert.Empty(t, a.History())
}

func TestFormatFinalAnswer(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		followUps []string
		want      string
	}{
		{
			name:      "with_follow_ups",
			text:      "Answer body.",
			followUps: []string{"One?", "Two?"},
			want:      "Answer body.\n" + followUpLabel + "\nOne?; Two?",
		},
		{
			name: "no_follow_ups",
			text: "Answer body.",
			want: "Answer body.\n" + followUpLabel + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFinalAnswer(tt.text, tt.followUps))
		})
	}
}

func TestIntroMentionsAssistant(t *testing.T) {
	a := New(newMockLLM(), &mockIndex{}, Config{})
	assert.Contains(t, a.Intro(), "Alexupport")
}
