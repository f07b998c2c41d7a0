package store

import (
	"context"
	"fmt"

	"github.com/roach88/xrq/internal/beta"
	"github.com/roach88/xrq/internal/xr"
)

// Drift is a stored reduction whose replay no longer matches.
type Drift struct {
	Key    string
	Stored string
	Replay string
	Err    error
}

// ReplayResult summarizes a replay.
type ReplayResult struct {
	Checked int
	Drifts  []Drift
}

// OK reports whether every replayed reduction matched.
func (r ReplayResult) OK() bool { return len(r.Drifts) == 0 }

// Replay re-reduces every stored input with its stored options and
// compares the canonical output against the stored one. Errors reading the
// store abort the replay; errors reducing a record are reported as drift.
func (s *Store) Replay(ctx context.Context, opts ...beta.Option) (ReplayResult, error) {
	records, err := s.List(ctx, "")
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}

	var result ReplayResult
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Checked++
		if d, drifted := replayRecord(rec, opts); drifted {
			result.Drifts = append(result.Drifts, d)
		}
	}
	return result, nil
}

// replayRecord reduces rec again. Extra opts (a logger) apply after the
// stored options.
func replayRecord(rec Record, extra []beta.Option) (Drift, bool) {
	d := Drift{Key: rec.Key, Stored: rec.Output}

	tree, err := xr.Unmarshal([]byte(rec.Input))
	if err != nil {
		d.Err = err
		return d, true
	}
	subst, err := unmarshalSubstitutions(rec.Substitutions)
	if err != nil {
		d.Err = err
		return d, true
	}
	opts, err := unmarshalOptions(rec.Options)
	if err != nil {
		d.Err = err
		return d, true
	}

	out, err := beta.Reduce(tree, subst, append(opts, extra...)...)
	if err != nil {
		d.Err = err
		return d, true
	}
	d.Replay, err = marshalTree(out)
	if err != nil {
		d.Err = err
		return d, true
	}
	return d, d.Replay != d.Stored
}
