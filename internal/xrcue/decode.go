package xrcue

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/xrq/internal/beta"
	"github.com/roach88/xrq/internal/xr"
)

// DecodeError reports a malformed tree with the CUE position of the
// offending value.
type DecodeError struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *DecodeError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), msg)
	}
	return msg
}

// Document is a decoded source file: a tree and the substitutions to
// reduce it under.
type Document struct {
	Tree          xr.XR
	Substitutions beta.Substitutions
}

// Compile builds a CUE value from source. Filename is used in positions.
// Uses CUE SDK's Go API directly (not CLI subprocess).
func Compile(src []byte, filename string) (cue.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return v, nil
}

// LoadFile reads and compiles a CUE or JSON file.
func LoadFile(path string) (cue.Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Compile(src, path)
}

// DecodeDocument decodes the "tree" and optional "substitutions" fields of
// v. A value with no "tree" field is decoded as the tree itself.
func DecodeDocument(v cue.Value) (Document, error) {
	treeVal := v.LookupPath(cue.ParsePath("tree"))
	if !treeVal.Exists() {
		tree, err := Decode(v)
		return Document{Tree: tree}, err
	}

	tree, err := Decode(treeVal)
	if err != nil {
		return Document{}, err
	}
	doc := Document{Tree: tree}

	substVal := v.LookupPath(cue.ParsePath("substitutions"))
	if substVal.Exists() {
		doc.Substitutions, err = DecodeSubstitutions(substVal)
		if err != nil {
			return Document{}, err
		}
	}
	return doc, nil
}

// Decode decodes a single XR node.
func Decode(v cue.Value) (xr.XR, error) {
	var out xr.XR
	if err := DecodeInto(v, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, &DecodeError{Path: pathOf(v), Message: "tree is null", Pos: v.Pos()}
	}
	return out, nil
}

// DecodeInto decodes v into target, a pointer to an XR interface, a node
// struct or a type.
func DecodeInto(v cue.Value, target any) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Pointer || ptr.IsNil() {
		return fmt.Errorf("DecodeInto: target must be a non-nil pointer, got %T", target)
	}
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}
	out, err := decode(v, ptr.Elem().Type())
	if err != nil {
		return err
	}
	ptr.Elem().Set(out)
	return nil
}

// DecodeSubstitutions decodes a list of {from, to, by_name} pairs.
// By_name pairs must have an identifier as from and match it by name only.
func DecodeSubstitutions(v cue.Value) (beta.Substitutions, error) {
	iter, err := v.List()
	if err != nil {
		return beta.Substitutions{}, formatCUEError(err)
	}

	var pairs []beta.Pair
	for iter.Next() {
		item := iter.Value()
		var from, to xr.QueryOrExpression
		if err := DecodeInto(item.LookupPath(cue.ParsePath("from")), &from); err != nil {
			return beta.Substitutions{}, err
		}
		if err := DecodeInto(item.LookupPath(cue.ParsePath("to")), &to); err != nil {
			return beta.Substitutions{}, err
		}
		if from == nil || to == nil {
			return beta.Substitutions{}, &DecodeError{
				Path:    pathOf(item),
				Message: "substitution needs both from and to",
				Pos:     item.Pos(),
			}
		}

		byName := false
		if bn := item.LookupPath(cue.ParsePath("by_name")); bn.Exists() {
			byName, err = bn.Bool()
			if err != nil {
				return beta.Substitutions{}, formatCUEError(err)
			}
		}
		if !byName {
			pairs = append(pairs, beta.Sub(from, to))
			continue
		}
		id, ok := from.(xr.Ident)
		if !ok {
			return beta.Substitutions{}, &DecodeError{
				Path:    pathOf(item),
				Message: fmt.Sprintf("by_name substitution needs an Ident, got %T", from),
				Pos:     item.Pos(),
			}
		}
		pairs = append(pairs, beta.ByName(id, to))
	}
	return beta.NewSubstitutions(pairs...), nil
}

var locationType = reflect.TypeOf(xr.Location{})

func decode(v cue.Value, t reflect.Type) (reflect.Value, error) {
	if !v.Exists() || v.IsNull() {
		return reflect.Zero(t), nil
	}

	switch t.Kind() {
	case reflect.Interface:
		kindVal := v.LookupPath(cue.ParsePath("kind"))
		if !kindVal.Exists() {
			return reflect.Value{}, errorAt(v, "missing kind for %s", t)
		}
		kind, err := kindVal.String()
		if err != nil {
			return reflect.Value{}, formatCUEError(err)
		}
		concrete, ok := xr.LookupKind(kind, t)
		if !ok {
			return reflect.Value{}, errorAt(v, "kind %q is not a %s", kind, t)
		}
		cv, err := decode(v, concrete)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		out.Set(cv)
		return out, nil

	case reflect.Struct:
		if v.IncompleteKind() != cue.StructKind {
			return reflect.Value{}, errorAt(v, "expected struct for %s", t)
		}
		out := reflect.New(t).Elem()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Type == locationType {
				out.Field(i).Set(reflect.ValueOf(locationOf(v.Pos())))
				continue
			}
			name := jsonName(sf)
			if name == "" {
				continue
			}
			fv, err := decode(v.LookupPath(cue.MakePath(cue.Str(name))), sf.Type)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Field(i).Set(fv)
		}
		return out, nil

	case reflect.Slice:
		iter, err := v.List()
		if err != nil {
			return reflect.Value{}, formatCUEError(err)
		}
		out := reflect.MakeSlice(t, 0, 0)
		for iter.Next() {
			ev, err := decode(iter.Value(), t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out = reflect.Append(out, ev)
		}
		return out, nil

	case reflect.String:
		s, err := v.String()
		if err != nil {
			return reflect.Value{}, formatCUEError(err)
		}
		return reflect.ValueOf(s).Convert(t), nil

	case reflect.Bool:
		b, err := v.Bool()
		if err != nil {
			return reflect.Value{}, formatCUEError(err)
		}
		return reflect.ValueOf(b).Convert(t), nil

	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		n, err := v.Int64()
		if err != nil {
			return reflect.Value{}, formatCUEError(err)
		}
		out := reflect.New(t).Elem()
		if out.OverflowInt(n) {
			return reflect.Value{}, errorAt(v, "%d overflows %s", n, t)
		}
		out.SetInt(n)
		return out, nil

	case reflect.Float32, reflect.Float64:
		f, err := v.Float64()
		if err != nil {
			return reflect.Value{}, formatCUEError(err)
		}
		out := reflect.New(t).Elem()
		out.SetFloat(f)
		return out, nil

	default:
		return reflect.Value{}, errorAt(v, "cannot decode into %s", t)
	}
}

// jsonName returns the JSON field name of sf, or "" for skipped fields.
func jsonName(sf reflect.StructField) string {
	if !sf.IsExported() {
		return ""
	}
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return sf.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return sf.Name
	}
	return name
}

func locationOf(pos token.Pos) xr.Location {
	if !pos.IsValid() {
		return xr.Location{}
	}
	return xr.Location{File: pos.Filename(), Line: pos.Line(), Column: pos.Column()}
}

func pathOf(v cue.Value) string {
	if p := v.Path().String(); p != "" {
		return p
	}
	return "<root>"
}

func errorAt(v cue.Value, format string, args ...any) *DecodeError {
	return &DecodeError{Path: pathOf(v), Message: fmt.Sprintf(format, args...), Pos: v.Pos()}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &DecodeError{
			Path:    strings.Join(first.Path(), "."),
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
