package xr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// Unmarshal decodes canonical JSON (or any JSON using the same "kind"
// discriminators) into a node assignable to XR.
func Unmarshal(data []byte) (XR, error) {
	var out XR
	if err := UnmarshalInto(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnmarshalInto decodes JSON into target, which must be a pointer to an XR
// interface (XR, Query, Expression, ...), a node struct or a type.
func UnmarshalInto(data []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Pointer || ptr.IsNil() {
		return fmt.Errorf("UnmarshalInto: target must be a non-nil pointer, got %T", target)
	}
	v, err := DecodeTree(tree, ptr.Elem().Type())
	if err != nil {
		return err
	}
	ptr.Elem().Set(v)
	return nil
}

// DecodeTree decodes a value of the JSON data model into a Go value of type
// t. Interface-typed positions are resolved through the kind registry.
func DecodeTree(tree any, t reflect.Type) (reflect.Value, error) {
	if tree == nil {
		return reflect.Zero(t), nil
	}
	switch t.Kind() {
	case reflect.Interface:
		obj, ok := tree.(map[string]any)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected object for %s, got %T", t, tree)
		}
		kind, ok := obj["kind"].(string)
		if !ok {
			return reflect.Value{}, fmt.Errorf("missing kind for %s", t)
		}
		concrete, ok := LookupKind(kind, t)
		if !ok {
			return reflect.Value{}, fmt.Errorf("kind %q is not a %s", kind, t)
		}
		v, err := DecodeTree(obj, concrete)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		out.Set(v)
		return out, nil
	case reflect.Struct:
		obj, ok := tree.(map[string]any)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected object for %s, got %T", t, tree)
		}
		out := reflect.New(t).Elem()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Type == locationType || !sf.IsExported() {
				continue
			}
			name := jsonName(sf)
			raw, present := obj[name]
			if name == "" || !present {
				continue
			}
			fv, err := DecodeTree(raw, sf.Type)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%s.%s: %w", t.Name(), name, err)
			}
			out.Field(i).Set(fv)
		}
		return out, nil
	case reflect.Slice:
		arr, ok := tree.([]any)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected array for %s, got %T", t, tree)
		}
		out := reflect.MakeSlice(t, len(arr), len(arr))
		for i, elem := range arr {
			ev, err := DecodeTree(elem, t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			out.Index(i).Set(ev)
		}
		return out, nil
	case reflect.String:
		s, ok := tree.(string)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected string for %s, got %T", t, tree)
		}
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Bool:
		b, ok := tree.(bool)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected bool for %s, got %T", t, tree)
		}
		return reflect.ValueOf(b).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := numberText(tree)
		if err != nil {
			return reflect.Value{}, err
		}
		i, err := strconv.ParseInt(n, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s: %w", t, err)
		}
		out := reflect.New(t).Elem()
		out.SetInt(i)
		return out, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := numberText(tree)
		if err != nil {
			return reflect.Value{}, err
		}
		u, err := strconv.ParseUint(n, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s: %w", t, err)
		}
		out := reflect.New(t).Elem()
		out.SetUint(u)
		return out, nil
	case reflect.Float32, reflect.Float64:
		n, err := numberText(tree)
		if err != nil {
			return reflect.Value{}, err
		}
		f, err := strconv.ParseFloat(n, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s: %w", t, err)
		}
		out := reflect.New(t).Elem()
		out.SetFloat(f)
		return out, nil
	default:
		return reflect.Value{}, fmt.Errorf("cannot decode into %s", t)
	}
}

func numberText(tree any) (string, error) {
	switch n := tree.(type) {
	case json.Number:
		return n.String(), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("expected number, got %T", tree)
	}
}
