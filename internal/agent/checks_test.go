package agent

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"

	"github.com/alexupport/alexupport/internal/model"
)

var someEvidence = model.EvidenceSet{
	{Snippets: []string{"Holds heat for six hours.", "Lid seals well."}, Score: 0.9},
}

func TestAnswerabilityCheckEmptyEvidenceSkipsModel(t *testing.T) {
	mock := newMockLLM()
	c := NewAnswerabilityChecker(mock)

	v := c.Check(context.Background(), "does it leak", model.EvidenceSet{})

	assert.False(t, v.OK)
	assert.Equal(t, "insufficient information", v.Reason)
	assert.Zero(t, mock.answerableCalls)
}

func TestAnswerabilityCheckVerdicts(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantOK     bool
		wantReason string
	}{
		{name: "yes", response: "YES", wantOK: true, wantReason: answerableYesReason},
		{name: "no", response: "NO", wantOK: false, wantReason: answerableNoReason},
		{name: "garbage", response: "perhaps", wantOK: false, wantReason: "unexpected model response: perhaps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockLLM()
			mock.answerable = scripted{text: tt.response}
			c := NewAnswerabilityChecker(mock)

			v := c.Check(context.Background(), "does it leak", someEvidence)

			assert.Equal(t, tt.wantOK, v.OK)
			assert.Equal(t, tt.wantReason, v.Reason)
			assert.Equal(t, 1, mock.answerableCalls)
		})
	}
}

func TestAnswerabilityCheckTransportFailureIsNegative(t *testing.T) {
	mock := newMockLLM()
	mock.answerable = scripted{err: eris.New("deadline exceeded")}
	c := NewAnswerabilityChecker(mock)

	v := c.Check(context.Background(), "does it leak", someEvidence)

	assert.False(t, v.OK)
	assert.Contains(t, v.Reason, "error during answerability check")
	assert.Contains(t, v.Reason, "deadline exceeded")
}

func TestRelevanceAssessVerdicts(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantOK     bool
		wantReason string
	}{
		{name: "yes", response: "yes", wantOK: true, wantReason: relevantYesReason},
		{name: "no", response: "No.", wantOK: false, wantReason: relevantNoReason},
		{name: "garbage", response: "42", wantOK: false, wantReason: "unexpected model response: 42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockLLM()
			mock.relevance = []scripted{{text: tt.response}}
			c := NewRelevanceChecker(mock)

			v := c.Assess(context.Background(), "does it leak", "It does not leak.", someEvidence)

			assert.Equal(t, tt.wantOK, v.OK)
			assert.Equal(t, tt.wantReason, v.Reason)
			assert.Equal(t, 1, mock.relevanceCalls)
		})
	}
}

func TestRelevanceAssessTransportFailureIsNegative(t *testing.T) {
	mock := newMockLLM()
	mock.relevance = []scripted{{err: eris.New("connection reset")}}
	c := NewRelevanceChecker(mock)

	v := c.Assess(context.Background(), "q", "a", someEvidence)

	assert.False(t, v.OK)
	assert.Contains(t, v.Reason, "error during relevance check")
}
