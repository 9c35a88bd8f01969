package model

import "strings"

// EvidenceItem is one retrieved unit of grounding material: the answer and
// review-excerpt snippets of a single matched index point plus its similarity
// score. Items surviving retrieval always carry a score at or above the
// configured threshold.
type EvidenceItem struct {
	Snippets []string `json:"snippets"`
	Score    float64  `json:"score"`
}

// EvidenceSet is the ordered evidence retrieved for one query, most relevant
// first as returned by the index. It may be empty and lives only for the
// duration of a single answer turn.
type EvidenceSet []EvidenceItem

// Empty reports whether no evidence survived retrieval.
func (e EvidenceSet) Empty() bool {
	return len(e) == 0
}

// Flatten renders all snippets as one newline-separated block, in retrieval
// order, for inclusion in a prompt.
func (e EvidenceSet) Flatten() string {
	var b strings.Builder
	for _, item := range e {
		for _, s := range item.Snippets {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(s)
		}
	}
	return b.String()
}

// Verdict is a boolean decision paired with a human-readable reason. The
// reason is never empty, including when the underlying check failed
// technically.
type Verdict struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}
