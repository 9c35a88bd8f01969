package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvidenceSetEmpty(t *testing.T) {
	assert.True(t, EvidenceSet{}.Empty())
	assert.True(t, EvidenceSet(nil).Empty())
	assert.False(t, EvidenceSet{{Snippets: []string{"a"}, Score: 0.9}}.Empty())
}

func TestEvidenceSetFlatten(t *testing.T) {
	tests := []struct {
		name     string
		evidence EvidenceSet
		want     string
	}{
		{
			name: "empty",
			want: "",
		},
		{
			name: "preserves_retrieval_order",
			evidence: EvidenceSet{
				{Snippets: []string{"very durable", "lasted two years"}, Score: 0.9},
				{Snippets: []string{"strap broke quickly"}, Score: 0.6},
			},
			want: "very durable\nlasted two years\nstrap broke quickly",
		},
		{
			name: "item_with_no_snippets",
			evidence: EvidenceSet{
				{Snippets: nil, Score: 0.8},
				{Snippets: []string{"works fine"}, Score: 0.7},
			},
			want: "works fine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.evidence.Flatten())
		})
	}
}
