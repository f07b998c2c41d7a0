package store

import (
	"context"
	"fmt"

	"github.com/roach88/xrq/internal/beta"
	"github.com/roach88/xrq/internal/xr"
)

// Cache reduces through a Store, recording new results under RunID.
type Cache struct {
	Store *Store
	RunID string
}

// NewCache returns a cache writing under a fresh run ID.
func NewCache(s *Store) *Cache {
	return &Cache{Store: s, RunID: NewRunID()}
}

// Reduce returns the cached result of reducing tree under subst, or
// reduces and records it. hit reports whether the result came from the
// store. Failed reductions are not cached.
func (c *Cache) Reduce(ctx context.Context, tree xr.XR, subst beta.Substitutions, opts ...beta.Option) (res beta.Result, hit bool, err error) {
	o := beta.NewOptions(opts...)
	key, err := Key(tree, subst, o)
	if err != nil {
		return beta.Result{}, false, err
	}

	rec, found, err := c.Store.Get(ctx, key)
	if err != nil {
		return beta.Result{}, false, err
	}
	if found {
		out, err := xr.Unmarshal([]byte(rec.Output))
		if err != nil {
			return beta.Result{}, false, fmt.Errorf("cached output %s: %w", key, err)
		}
		return beta.Result{Tree: out, Iterations: rec.Iterations}, true, nil
	}

	res, err = beta.ReduceWithResult(tree, subst, opts...)
	if err != nil {
		return beta.Result{}, false, err
	}

	rec, err = newRecord(key, c.RunID, tree, subst, o, res)
	if err != nil {
		return beta.Result{}, false, err
	}
	if _, err := c.Store.Put(ctx, rec); err != nil {
		return beta.Result{}, false, err
	}
	return res, false, nil
}

func newRecord(key, runID string, tree xr.XR, subst beta.Substitutions, o beta.Options, res beta.Result) (Record, error) {
	input, err := marshalTree(tree)
	if err != nil {
		return Record{}, err
	}
	substJSON, err := marshalSubstitutions(subst)
	if err != nil {
		return Record{}, err
	}
	optsJSON, err := marshalOptions(o)
	if err != nil {
		return Record{}, err
	}
	output, err := marshalTree(res.Tree)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Key:           key,
		RunID:         runID,
		Options:       optsJSON,
		Input:         input,
		Substitutions: substJSON,
		Output:        output,
		Iterations:    res.Iterations,
	}, nil
}
