package agent

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/alexupport/alexupport/internal/index"
	"github.com/alexupport/alexupport/internal/llm"
)

// scripted is one canned model response.
type scripted struct {
	text string
	err  error
}

// mockLLM routes GenerateResponse calls to per-component scripts by matching
// the system prompt, so tests can assert exact call counts per pipeline stage.
type mockLLM struct {
	refine     scripted
	answerable scripted
	answers    []scripted // consumed one per generation attempt; last repeats
	relevance  []scripted
	followUps  scripted

	embedVector []float32
	embedErr    error

	refineCalls     int
	answerableCalls int
	answerCalls     int
	relevanceCalls  int
	followUpCalls   int
	embedCalls      int
}

func newMockLLM() *mockLLM {
	return &mockLLM{
		refine:      scripted{text: "refined question"},
		answerable:  scripted{text: "YES"},
		answers:     []scripted{{text: "generated answer"}},
		relevance:   []scripted{{text: "YES"}},
		followUps:   scripted{text: "Q1?\nQ2?"},
		embedVector: []float32{0.1, 0.2, 0.3},
	}
}

func take(script []scripted, call int) scripted {
	if call < len(script) {
		return script[call]
	}
	return script[len(script)-1]
}

func (m *mockLLM) GenerateResponse(_ context.Context, msgs []llm.Message) (string, error) {
	if len(msgs) == 0 || msgs[0].Role != llm.RoleSystem {
		return "", eris.New("mock: missing system prompt")
	}
	var s scripted
	switch msgs[0].Content {
	case refinerSystemPrompt:
		s = m.refine
		m.refineCalls++
	case answerableSystemPrompt:
		s = m.answerable
		m.answerableCalls++
	case answerSystemPrompt:
		s = take(m.answers, m.answerCalls)
		m.answerCalls++
	case relevanceSystemPrompt:
		s = take(m.relevance, m.relevanceCalls)
		m.relevanceCalls++
	case followUpSystemPrompt:
		s = m.followUps
		m.followUpCalls++
	default:
		return "", eris.Errorf("mock: unrecognized system prompt %q", firstLine(msgs[0].Content))
	}
	return s.text, s.err
}

func (m *mockLLM) GenerateEmbedding(_ context.Context, texts []string) ([][]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.embedVector
	}
	return out, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// mockIndex scripts search results and scroll pages.
type mockIndex struct {
	searchPoints []index.Point
	searchErr    error
	searchCalls  int
	lastASIN     string
	lastTopK     int

	pages       [][]index.Point
	scrollErr   error
	scrollCalls int
}

func (m *mockIndex) Search(_ context.Context, _ []float32, asin string, topK int) ([]index.Point, error) {
	m.searchCalls++
	m.lastASIN = asin
	m.lastTopK = topK
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchPoints, nil
}

func (m *mockIndex) Scroll(_ context.Context, _ int, _ index.PageToken) ([]index.Point, index.PageToken, error) {
	if m.scrollErr != nil {
		return nil, nil, m.scrollErr
	}
	if m.scrollCalls >= len(m.pages) {
		return nil, nil, nil
	}
	page := m.pages[m.scrollCalls]
	m.scrollCalls++
	if m.scrollCalls < len(m.pages) {
		return page, index.PageToken("next"), nil
	}
	return page, nil, nil
}
