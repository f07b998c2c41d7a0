package splice

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/roach88/xrq/internal/transform"
	"github.com/roach88/xrq/internal/xr"
)

// IDGenerator produces tag IDs.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 tag IDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails.
func (UUIDv7Generator) Generate() string {
	return NewTagID()
}

// NewTagID returns a fresh UUIDv7 tag ID.
func NewTagID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// MissingCaptureError reports a tag with no fragment.
type MissingCaptureError struct {
	ID   string
	Kind string
	At   xr.Location
}

func (e *MissingCaptureError) Error() string {
	return fmt.Sprintf("no fragment captured for %s tag %s (at %s)", e.Kind, e.ID, e.At.Position())
}

// IsMissingCapture reports whether err is a MissingCaptureError.
func IsMissingCapture(err error) bool {
	var mc *MissingCaptureError
	return errors.As(err, &mc)
}

// Fragments maps tag IDs to the sub-trees they stand for.
type Fragments map[string]xr.XR

// Tag records fragment under a new ID from gen and returns the placeholder
// to put in its place: a TagForSqlQuery for a query, a TagForSqlAction for
// an action and a TagForSqlExpression otherwise.
func (f Fragments) Tag(gen IDGenerator, fragment xr.XR) xr.XR {
	id := gen.Generate()
	f[id] = fragment
	t := fragment.XRType()
	switch fragment.(type) {
	case xr.Query:
		return xr.TagForSqlQuery{Location: fragment.Source(), ID: id, Type: t}
	case xr.Action:
		return xr.TagForSqlAction{Location: fragment.Source(), ID: id, Type: t}
	default:
		return xr.TagForSqlExpression{Location: fragment.Source(), ID: id, Type: t}
	}
}

// Param records value as a runtime parameter and returns its placeholder.
func (f Fragments) Param(gen IDGenerator, value xr.Expression) xr.TagForParam {
	id := gen.Generate()
	f[id] = value
	return xr.TagForParam{Location: value.Source(), ID: id, Type: value.XRType()}
}

// IDs returns the recorded IDs, sorted.
func (f Fragments) IDs() []string {
	ids := make([]string, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Splice replaces every tag in tree by its fragment. Fragments may contain
// tags themselves; they are spliced in turn. Every missing ID is reported.
func Splice(tree xr.XR, fragments Fragments) (xr.XR, error) {
	var errs []error
	inProgress := map[string]bool{}

	var splice transform.Root
	splice = func(x xr.XR, descend func(xr.XR) xr.XR) xr.XR {
		id, kind, ok := tagOf(x)
		if !ok {
			return descend(x)
		}
		fragment, found := fragments[id]
		if !found || fragment == nil {
			errs = append(errs, &MissingCaptureError{ID: id, Kind: kind, At: x.Source()})
			return x
		}
		if inProgress[id] {
			errs = append(errs, fmt.Errorf("fragment %s contains itself", id))
			return x
		}
		inProgress[id] = true
		defer delete(inProgress, id)

		out := splice.Apply(fragment)
		if _, actionTag := x.(xr.TagForSqlAction); actionTag {
			if _, isAction := out.(xr.Action); !isAction {
				errs = append(errs, fmt.Errorf("fragment %s is %T, not an action", id, out))
				return x
			}
			return out
		}
		if _, ok := out.(xr.QueryOrExpression); !ok {
			errs = append(errs, fmt.Errorf("fragment %s is %T, not a query or expression", id, out))
			return x
		}
		if _, isQuery := x.(xr.TagForSqlQuery); isQuery {
			return transform.ToQuery(out)
		}
		return transform.ToExpr(out)
	}

	out := splice.Apply(tree)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func tagOf(x xr.XR) (id, kind string, ok bool) {
	switch t := x.(type) {
	case xr.TagForSqlExpression:
		return t.ID, "expression", true
	case xr.TagForSqlQuery:
		return t.ID, "query", true
	case xr.TagForSqlAction:
		return t.ID, "action", true
	case xr.TagForParam:
		return t.ID, "param", true
	default:
		return "", "", false
	}
}
