package xr

import (
	"reflect"

	"github.com/roach88/xrq/internal/xrtype"
)

var (
	locationType = reflect.TypeOf(Location{})
	typeIface    = reflect.TypeOf((*xrtype.Type)(nil)).Elem()
	unknownValue = reflect.ValueOf(xrtype.Unknown{})
)

// Equal reports whether a and b are structurally equal. Source locations are
// ignored. A nil slice equals an empty one; a nil type equals Unknown.
// Two Idents are equal only when both name and type match.
func Equal(a, b XR) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return deepEqual(reflect.ValueOf(a), reflect.ValueOf(b))
}

// EqualAll is Equal over two slices.
func EqualAll[T XR](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func deepEqual(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Interface:
		if a.Type() == typeIface {
			return deepEqual(orUnknown(a), orUnknown(b))
		}
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return deepEqual(a.Elem(), b.Elem())
	case reflect.Pointer:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return a.Pointer() == b.Pointer() || deepEqual(a.Elem(), b.Elem())
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if a.Type().Field(i).Type == locationType {
				continue
			}
			if !deepEqual(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Slice, reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !deepEqual(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() || !deepEqual(iter.Value(), bv) {
				return false
			}
		}
		return true
	case reflect.Func:
		return a.IsNil() && b.IsNil()
	default:
		// Unexported fields of custom queries are compared too.
		if a.CanInterface() && b.CanInterface() {
			return a.Interface() == b.Interface()
		}
		return reflect.DeepEqual(valueOf(a), valueOf(b))
	}
}

// valueOf extracts a comparable representation of a scalar reached through
// an unexported field.
func valueOf(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.String:
		return v.String()
	default:
		return nil
	}
}

// setLocation returns a copy of x whose embedded Location is loc.
func setLocation(x XR, loc Location) XR {
	if x == nil {
		return nil
	}
	v := reflect.ValueOf(x)
	if v.Kind() != reflect.Struct {
		return x
	}
	cp := reflect.New(v.Type()).Elem()
	cp.Set(v)
	f := cp.FieldByName("Location")
	if !f.IsValid() || !f.CanSet() || f.Type() != locationType {
		return x
	}
	f.Set(reflect.ValueOf(loc))
	return cp.Interface().(XR)
}

func orUnknown(v reflect.Value) reflect.Value {
	if v.IsNil() {
		return unknownValue
	}
	return v.Elem()
}
