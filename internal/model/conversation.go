package model

import (
	"fmt"
	"strings"
	"time"
)

// Role tags one side of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in a conversation.
type Turn struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// History is an ordered, append-only record of conversation turns. It is owned
// by exactly one orchestrator per session and is not safe for concurrent
// mutation; multiplexing callers must serialize access.
type History struct {
	turns []Turn
}

// NewHistory returns an empty conversation history.
func NewHistory() *History {
	return &History{}
}

// Append adds a turn at the end of the history.
func (h *History) Append(role Role, content string) {
	h.turns = append(h.turns, Turn{Role: role, Content: content, At: time.Now().UTC()})
}

// Clear discards all turns. Used when the selected product changes.
func (h *History) Clear() {
	h.turns = nil
}

// Len reports the number of turns.
func (h *History) Len() int {
	return len(h.turns)
}

// Turns returns a copy of the recorded turns in chronological order.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Serialize flattens the history into a single "ROLE: content" list joined by
// "; ", the read-only snapshot handed to generator components. Returns the
// empty string for an empty history.
func (h *History) Serialize() string {
	if len(h.turns) == 0 {
		return ""
	}
	parts := make([]string, 0, len(h.turns))
	for _, t := range h.turns {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ToUpper(string(t.Role)), t.Content))
	}
	return strings.Join(parts, "; ")
}
