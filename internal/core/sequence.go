package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceStore mints human-readable, role-prefixed sequence ids backed by a
// per-role monotonic counter.
type SequenceStore interface {
	// NextSequenceID atomically increments the counter for role (creating it at
	// zero if absent) and returns the prefixed label, e.g. "A12". Concurrent
	// callers for the same role never receive the same count.
	NextSequenceID(ctx context.Context, role Role) (string, error)

	// NextSequenceIDTx does the same inside the caller's transaction, so a
	// rolled-back identity write does not leave a half-applied increment.
	NextSequenceIDTx(ctx context.Context, tx pgx.Tx, role Role) (string, error)
}

type sequenceStore struct {
	pool *pgxpool.Pool
}

// NewSequenceStore constructs a SequenceStore backed by PostgreSQL.
func NewSequenceStore(pool *pgxpool.Pool) SequenceStore {
	return &sequenceStore{pool: pool}
}

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *sequenceStore) NextSequenceID(ctx context.Context, role Role) (string, error) {
	return nextSequenceID(ctx, s.pool, role)
}

func (s *sequenceStore) NextSequenceIDTx(ctx context.Context, tx pgx.Tx, role Role) (string, error) {
	return nextSequenceID(ctx, tx, role)
}

// nextSequenceID runs the increment as a single statement so the
// read-modify-write is atomic; Postgres row locking on the counter row
// serializes concurrent callers per role key.
func nextSequenceID(ctx context.Context, q rowQuerier, role Role) (string, error) {
	var count int64
	err := q.QueryRow(ctx, `
		INSERT INTO role_counters (role, count)
		VALUES ($1, 1)
		ON CONFLICT (role)
		DO UPDATE SET count = role_counters.count + 1
		RETURNING count`,
		string(role),
	).Scan(&count)
	if err != nil {
		return "", wrapStorage(err, "failed to increment counter for role %s", role)
	}
	return fmt.Sprintf("%s%d", role.SequencePrefix(), count), nil
}
