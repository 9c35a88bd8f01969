package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryAppendPreservesOrderAndContent(t *testing.T) {
	h := NewHistory()
	h.Append(RoleUser, "Is it waterproof?")
	h.Append(RoleAssistant, "Yes, according to several reviews.")

	turns := h.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, "Is it waterproof?", turns[0].Content)
	assert.Equal(t, RoleAssistant, turns[1].Role)
	assert.Equal(t, "Yes, according to several reviews.", turns[1].Content)
	assert.False(t, turns[1].At.Before(turns[0].At))
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory()
	h.Append(RoleUser, "first")
	h.Append(RoleAssistant, "second")
	require.Equal(t, 2, h.Len())

	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Turns())
	assert.Equal(t, "", h.Serialize())
}

func TestHistoryTurnsIsACopy(t *testing.T) {
	h := NewHistory()
	h.Append(RoleUser, "original")

	turns := h.Turns()
	turns[0].Content = "mutated"

	assert.Equal(t, "original", h.Turns()[0].Content)
}

func TestHistorySerialize(t *testing.T) {
	tests := []struct {
		name  string
		turns []Turn
		want  string
	}{
		{
			name: "empty",
			want: "",
		},
		{
			name:  "single_user_turn",
			turns: []Turn{{Role: RoleUser, Content: "Does it float?"}},
			want:  "USER: Does it float?",
		},
		{
			name: "alternating_turns",
			turns: []Turn{
				{Role: RoleUser, Content: "Does it float?"},
				{Role: RoleAssistant, Content: "Reviews say yes."},
				{Role: RoleUser, Content: "For how long?"},
			},
			want: "USER: Does it float?; ASSISTANT: Reviews say yes.; USER: For how long?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory()
			for _, turn := range tt.turns {
				h.Append(turn.Role, turn.Content)
			}
			assert.Equal(t, tt.want, h.Serialize())
		})
	}
}
