// Package usage persists the token-usage audit trail. Recorders are an
// advisory channel: callers log failures and move on, they never let a
// bookkeeping problem change a user-visible result.
package usage

import (
	"context"

	"go.uber.org/zap"

	"github.com/alexupport/alexupport/internal/model"
)

// Recorder persists one token-usage record per text-client call.
type Recorder interface {
	Record(ctx context.Context, rec model.TokenUsageRecord) error
	Close() error
}

// Nop discards every record. Used when auditing is disabled and in tests.
type Nop struct{}

func (Nop) Record(context.Context, model.TokenUsageRecord) error { return nil }
func (Nop) Close() error                                         { return nil }

// Multi fans records out to several recorders. A failing recorder is logged
// and skipped so the others still get the record; Record never returns an
// error.
type Multi struct {
	recorders []Recorder
}

// NewMulti combines recorders into one.
func NewMulti(recorders ...Recorder) *Multi {
	return &Multi{recorders: recorders}
}

func (m *Multi) Record(ctx context.Context, rec model.TokenUsageRecord) error {
	for _, r := range m.recorders {
		if err := r.Record(ctx, rec); err != nil {
			zap.L().Warn("usage: recorder failed", zap.Error(err))
		}
	}
	return nil
}

func (m *Multi) Close() error {
	var firstErr error
	for _, r := range m.recorders {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
