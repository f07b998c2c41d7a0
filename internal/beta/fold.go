package beta

import "github.com/roach88/xrq/internal/xr"

type integer interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// foldConstants evaluates arithmetic on two integer constants of the same
// width. Division and modulo by zero are left for the database to report.
func foldConstants(b xr.BinaryOp) (xr.Expression, bool) {
	switch a := b.A.(type) {
	case xr.ConstByte:
		if c, ok := b.B.(xr.ConstByte); ok {
			if v, ok := arith(a.Value, b.Op, c.Value); ok {
				return xr.ConstByte{Location: b.Location, Value: v}, true
			}
		}
	case xr.ConstShort:
		if c, ok := b.B.(xr.ConstShort); ok {
			if v, ok := arith(a.Value, b.Op, c.Value); ok {
				return xr.ConstShort{Location: b.Location, Value: v}, true
			}
		}
	case xr.ConstInt:
		if c, ok := b.B.(xr.ConstInt); ok {
			if v, ok := arith(a.Value, b.Op, c.Value); ok {
				return xr.ConstInt{Location: b.Location, Value: v}, true
			}
		}
	case xr.ConstLong:
		if c, ok := b.B.(xr.ConstLong); ok {
			if v, ok := arith(a.Value, b.Op, c.Value); ok {
				return xr.ConstLong{Location: b.Location, Value: v}, true
			}
		}
	}
	return nil, false
}

func arith[T integer](a T, op xr.BinaryOperator, b T) (T, bool) {
	switch op {
	case xr.OpPlus:
		return a + b, true
	case xr.OpMinus:
		return a - b, true
	case xr.OpMult:
		return a * b, true
	case xr.OpDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case xr.OpMod:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	default:
		return 0, false
	}
}
