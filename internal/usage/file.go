package usage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/alexupport/alexupport/internal/model"
)

// FileRecorder appends one line per call to a plain text log:
//
//	{ISO8601 timestamp} - {operation}: input={N}, output={N}
type FileRecorder struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileRecorder opens (creating if needed) the append-only audit file.
func NewFileRecorder(path string) (*FileRecorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "usage: create log dir %s", dir)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, eris.Wrapf(err, "usage: open log %s", path)
	}
	return &FileRecorder{file: f}, nil
}

func (r *FileRecorder) Record(_ context.Context, rec model.TokenUsageRecord) error {
	at := rec.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	line := fmt.Sprintf("%s - %s: input=%d, output=%d\n",
		at.Format(time.RFC3339), rec.Op, rec.InputTokens, rec.OutputTokens)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.file.WriteString(line); err != nil {
		return eris.Wrap(err, "usage: append record")
	}
	return nil
}

func (r *FileRecorder) Close() error {
	return r.file.Close()
}
