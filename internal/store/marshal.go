package store

import (
	"fmt"

	"github.com/roach88/xrq/internal/beta"
	"github.com/roach88/xrq/internal/xr"
)

// DomainReduction is the hash domain of cache keys.
const DomainReduction = "xrq/reduction/v1"

type substEntry struct {
	From   xr.QueryOrExpression `json:"from"`
	To     xr.QueryOrExpression `json:"to"`
	ByName bool                 `json:"by_name"`
}

type optionsEntry struct {
	TypeBehavior  string `json:"type_behavior"`
	EmptyProduct  string `json:"empty_product"`
	MaxIterations int    `json:"max_iterations"`
}

type keyEntry struct {
	Tree          xr.XR        `json:"tree"`
	Substitutions []substEntry `json:"substitutions"`
	Options       optionsEntry `json:"options"`
}

// Key computes the cache key of reducing tree under subst with o.
// The logger does not take part in the key.
func Key(tree xr.XR, subst beta.Substitutions, o beta.Options) (string, error) {
	data, err := xr.MarshalCanonical(keyEntry{
		Tree:          tree,
		Substitutions: substEntries(subst),
		Options:       optionsOf(o),
	})
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	return xr.HashBytes(DomainReduction, data), nil
}

func substEntries(subst beta.Substitutions) []substEntry {
	pairs := subst.Pairs()
	out := make([]substEntry, len(pairs))
	for i, p := range pairs {
		out[i] = substEntry{From: p.From, To: p.To, ByName: p.IsByName()}
	}
	return out
}

func optionsOf(o beta.Options) optionsEntry {
	return optionsEntry{
		TypeBehavior:  o.TypeBehavior.String(),
		EmptyProduct:  o.EmptyProductBehavior.String(),
		MaxIterations: o.MaxIterations,
	}
}

// marshalTree converts a tree to canonical JSON TEXT for storage.
func marshalTree(x xr.XR) (string, error) {
	data, err := xr.MarshalCanonical(x)
	if err != nil {
		return "", fmt.Errorf("marshal tree: %w", err)
	}
	return string(data), nil
}

func marshalSubstitutions(subst beta.Substitutions) (string, error) {
	data, err := xr.MarshalCanonical(substEntries(subst))
	if err != nil {
		return "", fmt.Errorf("marshal substitutions: %w", err)
	}
	return string(data), nil
}

func marshalOptions(o beta.Options) (string, error) {
	data, err := xr.MarshalCanonical(optionsOf(o))
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}
	return string(data), nil
}

// unmarshalSubstitutions parses the stored substitution list.
func unmarshalSubstitutions(data string) (beta.Substitutions, error) {
	var entries []substEntry
	if err := xr.UnmarshalInto([]byte(data), &entries); err != nil {
		return beta.Substitutions{}, fmt.Errorf("unmarshal substitutions: %w", err)
	}
	pairs := make([]beta.Pair, 0, len(entries))
	for _, e := range entries {
		if !e.ByName {
			pairs = append(pairs, beta.Sub(e.From, e.To))
			continue
		}
		id, ok := e.From.(xr.Ident)
		if !ok {
			return beta.Substitutions{}, fmt.Errorf("unmarshal substitutions: by_name key %T is not an Ident", e.From)
		}
		pairs = append(pairs, beta.ByName(id, e.To))
	}
	return beta.NewSubstitutions(pairs...), nil
}

func unmarshalOptions(data string) ([]beta.Option, error) {
	var e optionsEntry
	if err := xr.UnmarshalInto([]byte(data), &e); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	tb, ok := beta.ParseTypeBehavior(e.TypeBehavior)
	if !ok {
		return nil, fmt.Errorf("unmarshal options: unknown type behavior %q", e.TypeBehavior)
	}
	ep, ok := beta.ParseEmptyProductBehavior(e.EmptyProduct)
	if !ok {
		return nil, fmt.Errorf("unmarshal options: unknown empty product behavior %q", e.EmptyProduct)
	}
	return []beta.Option{
		beta.WithTypeBehavior(tb),
		beta.WithEmptyProductBehavior(ep),
		beta.WithMaxIterations(e.MaxIterations),
	}, nil
}
