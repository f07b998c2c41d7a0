package store

import (
	"context"
	"fmt"
)

// Record is one cached reduction. Input, Substitutions, Options and
// Output are canonical JSON.
type Record struct {
	Seq           int64
	Key           string
	RunID         string
	Options       string
	Input         string
	Substitutions string
	Output        string
	Iterations    int
}

// Put inserts a record. Uses ON CONFLICT(key) DO NOTHING for idempotency:
// a second record for the same key is silently ignored and inserted is
// false.
func (s *Store) Put(ctx context.Context, rec Record) (inserted bool, err error) {
	if rec.Key == "" {
		return false, fmt.Errorf("put reduction: empty key")
	}
	if rec.Substitutions == "" {
		rec.Substitutions = "[]"
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO reductions
		(key, run_id, options, input, substitutions, output, iterations)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`,
		rec.Key,
		rec.RunID,
		rec.Options,
		rec.Input,
		rec.Substitutions,
		rec.Output,
		rec.Iterations,
	)
	if err != nil {
		return false, fmt.Errorf("put reduction: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("put reduction: rows affected: %w", err)
	}
	return n > 0, nil
}
