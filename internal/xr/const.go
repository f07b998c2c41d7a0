package xr

import "github.com/roach88/xrq/internal/xrtype"

// Literal constants. Each width is its own node so that equality and constant
// folding never mix widths.
type (
	ConstBool struct {
		Location `json:"-"`
		Value    bool `json:"value"`
	}
	ConstChar struct {
		Location `json:"-"`
		Value    rune `json:"value"`
	}
	ConstByte struct {
		Location `json:"-"`
		Value    int8 `json:"value"`
	}
	ConstShort struct {
		Location `json:"-"`
		Value    int16 `json:"value"`
	}
	ConstInt struct {
		Location `json:"-"`
		Value    int32 `json:"value"`
	}
	ConstLong struct {
		Location `json:"-"`
		Value    int64 `json:"value"`
	}
	ConstString struct {
		Location `json:"-"`
		Value    string `json:"value"`
	}
	ConstFloat struct {
		Location `json:"-"`
		Value    float32 `json:"value"`
	}
	ConstDouble struct {
		Location `json:"-"`
		Value    float64 `json:"value"`
	}
	ConstNull struct {
		Location `json:"-"`
	}
)

func (ConstBool) XRType() xrtype.Type   { return xrtype.BooleanValue{} }
func (ConstChar) XRType() xrtype.Type   { return xrtype.Value{} }
func (ConstByte) XRType() xrtype.Type   { return xrtype.Value{} }
func (ConstShort) XRType() xrtype.Type  { return xrtype.Value{} }
func (ConstInt) XRType() xrtype.Type    { return xrtype.Value{} }
func (ConstLong) XRType() xrtype.Type   { return xrtype.Value{} }
func (ConstString) XRType() xrtype.Type { return xrtype.Value{} }
func (ConstFloat) XRType() xrtype.Type  { return xrtype.Value{} }
func (ConstDouble) XRType() xrtype.Type { return xrtype.Value{} }
func (ConstNull) XRType() xrtype.Type   { return xrtype.Null{} }

func (ConstBool) constNode()   {}
func (ConstChar) constNode()   {}
func (ConstByte) constNode()   {}
func (ConstShort) constNode()  {}
func (ConstInt) constNode()    {}
func (ConstLong) constNode()   {}
func (ConstString) constNode() {}
func (ConstFloat) constNode()  {}
func (ConstDouble) constNode() {}
func (ConstNull) constNode()   {}

func (ConstBool) exprNode()   {}
func (ConstChar) exprNode()   {}
func (ConstByte) exprNode()   {}
func (ConstShort) exprNode()  {}
func (ConstInt) exprNode()    {}
func (ConstLong) exprNode()   {}
func (ConstString) exprNode() {}
func (ConstFloat) exprNode()  {}
func (ConstDouble) exprNode() {}
func (ConstNull) exprNode()   {}

func (ConstBool) queryOrExprNode()   {}
func (ConstChar) queryOrExprNode()   {}
func (ConstByte) queryOrExprNode()   {}
func (ConstShort) queryOrExprNode()  {}
func (ConstInt) queryOrExprNode()    {}
func (ConstLong) queryOrExprNode()   {}
func (ConstString) queryOrExprNode() {}
func (ConstFloat) queryOrExprNode()  {}
func (ConstDouble) queryOrExprNode() {}
func (ConstNull) queryOrExprNode()   {}
