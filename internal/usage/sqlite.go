package usage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/alexupport/alexupport/internal/model"
)

// SQLiteRecorder keeps the audit trail queryable for the usage report.
type SQLiteRecorder struct {
	db *sql.DB
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS usage_records (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	at            DATETIME NOT NULL,
	op            TEXT NOT NULL,
	model         TEXT NOT NULL,
	input_tokens  INTEGER NOT NULL,
	output_tokens INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_usage_records_at ON usage_records(at);
CREATE INDEX IF NOT EXISTS idx_usage_records_op ON usage_records(op);
`

// NewSQLiteRecorder opens the database at path and ensures the schema.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "usage: create db dir %s", dir)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "usage: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "usage: exec %s", pragma)
		}
	}
	if _, err := db.Exec(sqliteMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "usage: migrate")
	}
	return &SQLiteRecorder{db: db}, nil
}

func (r *SQLiteRecorder) Record(ctx context.Context, rec model.TokenUsageRecord) error {
	at := rec.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO usage_records (at, op, model, input_tokens, output_tokens) VALUES (?, ?, ?, ?, ?)`,
		at, string(rec.Op), rec.Model, rec.InputTokens, rec.OutputTokens,
	)
	return eris.Wrap(err, "usage: insert record")
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

// Summary aggregates the audit trail per model and operation.
type Summary struct {
	Model        string
	Op           model.Operation
	Calls        int64
	InputTokens  int64
	OutputTokens int64
}

// Summarize returns per-model/op totals for records at or after since.
// A zero since covers the whole trail.
func (r *SQLiteRecorder) Summarize(ctx context.Context, since time.Time) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT model, op, COUNT(*), SUM(input_tokens), SUM(output_tokens)
		 FROM usage_records
		 WHERE at >= ?
		 GROUP BY model, op
		 ORDER BY model, op`,
		since,
	)
	if err != nil {
		return nil, eris.Wrap(err, "usage: summarize")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			s  Summary
			op string
		)
		if err := rows.Scan(&s.Model, &op, &s.Calls, &s.InputTokens, &s.OutputTokens); err != nil {
			return nil, eris.Wrap(err, "usage: scan summary")
		}
		s.Op = model.Operation(op)
		out = append(out, s)
	}
	return out, eris.Wrap(rows.Err(), "usage: summary rows")
}
