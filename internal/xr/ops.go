package xr

// BinaryOperator is the operator of a BinaryOp.
type BinaryOperator string

const (
	OpEq      BinaryOperator = "=="
	OpNotEq   BinaryOperator = "!="
	OpAnd     BinaryOperator = "&&"
	OpOr      BinaryOperator = "||"
	OpGt      BinaryOperator = ">"
	OpGte     BinaryOperator = ">="
	OpLt      BinaryOperator = "<"
	OpLte     BinaryOperator = "<="
	OpPlus    BinaryOperator = "+"
	OpMinus   BinaryOperator = "-"
	OpMult    BinaryOperator = "*"
	OpDiv     BinaryOperator = "/"
	OpMod     BinaryOperator = "%"
	OpStrPlus BinaryOperator = "++"
)

// IsBoolean reports whether the operator produces a boolean.
func (op BinaryOperator) IsBoolean() bool {
	switch op {
	case OpEq, OpNotEq, OpAnd, OpOr, OpGt, OpGte, OpLt, OpLte:
		return true
	default:
		return false
	}
}

// UnaryOperator is the operator of a UnaryOp.
type UnaryOperator string

const (
	OpNot    UnaryOperator = "!"
	OpNegate UnaryOperator = "-"
)

// JoinType selects the flavor of a FlatJoin.
type JoinType string

const (
	JoinInner JoinType = "inner"
	JoinLeft  JoinType = "left"
)

// Ordering is the direction of a sort criterion.
type Ordering string

const (
	Asc            Ordering = "asc"
	Desc           Ordering = "desc"
	AscNullsFirst  Ordering = "asc_nulls_first"
	DescNullsFirst Ordering = "desc_nulls_first"
	AscNullsLast   Ordering = "asc_nulls_last"
	DescNullsLast  Ordering = "desc_nulls_last"
)

// CallType tags MethodCall and GlobalCall with their evaluation semantics.
type CallType string

const (
	CallPure            CallType = "pure"
	CallImpure          CallType = "impure"
	CallAggregator      CallType = "aggregator"
	CallQueryAggregator CallType = "query_aggregator"
)

// ConflictResolution is what an OnConflict does with a conflicting row.
type ConflictResolution string

const (
	ConflictIgnore ConflictResolution = "ignore"
	ConflictUpdate ConflictResolution = "update"
)
