package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const recordColumns = `seq, key, run_id, options, input, substitutions, output, iterations`

// Get returns the record stored under key. found is false when there is
// none.
func (s *Store) Get(ctx context.Context, key string) (rec Record, found bool, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM reductions
		WHERE key = ?
	`, key)

	rec, err = scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("get reduction: %w", err)
	}
	return rec, true, nil
}

// List returns every record written by runID, or every record when runID
// is empty. Results are ordered per CP-2.
//
// Returns an empty slice (not nil) if there are no records.
func (s *Store) List(ctx context.Context, runID string) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM reductions`
	var args []any
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY seq ASC, key COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reductions: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list reductions: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reductions: %w", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reductions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reductions: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.Seq,
		&rec.Key,
		&rec.RunID,
		&rec.Options,
		&rec.Input,
		&rec.Substitutions,
		&rec.Output,
		&rec.Iterations,
	)
	return rec, err
}
