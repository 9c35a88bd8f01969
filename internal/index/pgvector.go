package index

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool used by the pgvector index. pgxmock
// satisfies it for unit tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// PgVectorIndex implements Index over a Postgres table with a pgvector
// embedding column. Rows carry the same payload fields as the Qdrant
// collection: asin, product_title, answers, review_snippets.
type PgVectorIndex struct {
	pool  Pool
	table string
}

// NewPgVector connects a pool and verifies the connection.
func NewPgVector(ctx context.Context, connString, table string) (*PgVectorIndex, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "index: pgvector connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "index: pgvector ping")
	}
	return &PgVectorIndex{pool: pool, table: table}, nil
}

// NewPgVectorFromPool wraps an existing pool, mainly for tests.
func NewPgVectorFromPool(pool Pool, table string) *PgVectorIndex {
	return &PgVectorIndex{pool: pool, table: table}
}

// Close releases the underlying pool.
func (p *PgVectorIndex) Close() {
	p.pool.Close()
}

func (p *PgVectorIndex) Search(ctx context.Context, vector []float32, asin string, topK int) ([]Point, error) {
	// Cosine distance, reported as similarity to match the Qdrant contract.
	query := fmt.Sprintf(`
		SELECT asin, product_title, answers, review_snippets,
		       1 - (embedding <=> $1) AS score
		FROM %s
		WHERE asin = $2
		ORDER BY embedding <=> $1
		LIMIT $3`, p.table)

	rows, err := p.pool.Query(ctx, query, pgvector.NewVector(vector), asin, topK)
	if err != nil {
		return nil, eris.Wrap(err, "index: pgvector search")
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var pt Point
		if err := rows.Scan(&pt.ASIN, &pt.Title, &pt.Answers, &pt.ReviewSnippets, &pt.Score); err != nil {
			return nil, eris.Wrap(err, "index: pgvector scan")
		}
		points = append(points, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "index: pgvector rows")
	}
	return points, nil
}

func (p *PgVectorIndex) Scroll(ctx context.Context, limit int, offset PageToken) ([]Point, PageToken, error) {
	afterID := int64(0)
	if len(offset) > 0 {
		id, err := strconv.ParseInt(string(offset), 10, 64)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "index: pgvector bad page token %q", string(offset))
		}
		afterID = id
	}

	query := fmt.Sprintf(`
		SELECT id, asin, product_title, answers, review_snippets
		FROM %s
		WHERE id > $1
		ORDER BY id
		LIMIT $2`, p.table)

	rows, err := p.pool.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, nil, eris.Wrap(err, "index: pgvector scroll")
	}
	defer rows.Close()

	var (
		points []Point
		lastID int64
	)
	for rows.Next() {
		var pt Point
		if err := rows.Scan(&lastID, &pt.ASIN, &pt.Title, &pt.Answers, &pt.ReviewSnippets); err != nil {
			return nil, nil, eris.Wrap(err, "index: pgvector scroll scan")
		}
		points = append(points, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, eris.Wrap(err, "index: pgvector scroll rows")
	}

	// A short page means the table is exhausted; no token to continue from.
	if len(points) < limit {
		return points, nil, nil
	}
	return points, PageToken(strconv.FormatInt(lastID, 10)), nil
}
