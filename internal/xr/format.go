package xr

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders x in a compact, single-line notation used in logs, error
// messages and CLI output. It is not parseable; use MarshalCanonical for a
// faithful encoding.
func Format(x XR) string {
	var b strings.Builder
	writeNode(&b, x)
	return b.String()
}

func writeNode(b *strings.Builder, x XR) {
	switch v := x.(type) {
	case nil:
		b.WriteString("<nil>")
	case Ident:
		b.WriteString(v.Name)
	case ConstBool:
		b.WriteString(strconv.FormatBool(v.Value))
	case ConstChar:
		b.WriteString(strconv.QuoteRune(v.Value))
	case ConstByte:
		fmt.Fprintf(b, "%db", v.Value)
	case ConstShort:
		fmt.Fprintf(b, "%ds", v.Value)
	case ConstInt:
		b.WriteString(strconv.FormatInt(int64(v.Value), 10))
	case ConstLong:
		fmt.Fprintf(b, "%dL", v.Value)
	case ConstString:
		b.WriteString(strconv.Quote(v.Value))
	case ConstFloat:
		b.WriteString(strconv.FormatFloat(float64(v.Value), 'g', -1, 32) + "f")
	case ConstDouble:
		b.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case ConstNull:
		b.WriteString("null")
	case Property:
		writeNode(b, v.Of)
		b.WriteString(".")
		b.WriteString(v.Name)
	case BinaryOp:
		b.WriteString("(")
		writeNode(b, v.A)
		fmt.Fprintf(b, " %s ", v.Op)
		writeNode(b, v.B)
		b.WriteString(")")
	case UnaryOp:
		b.WriteString(string(v.Op))
		writeNode(b, v.Expr)
	case FunctionN:
		b.WriteString("{")
		for i, p := range v.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Name)
		}
		b.WriteString(" -> ")
		writeNode(b, v.Body)
		b.WriteString("}")
	case FunctionApply:
		writeNode(b, v.Function)
		b.WriteString("(")
		writeList(b, v.Args)
		b.WriteString(")")
	case When:
		b.WriteString("when { ")
		for _, br := range v.Branches {
			writeNode(b, br.Cond)
			b.WriteString(" => ")
			writeNode(b, br.Then)
			b.WriteString("; ")
		}
		b.WriteString("else => ")
		writeNode(b, v.OrElse)
		b.WriteString(" }")
	case Branch:
		writeNode(b, v.Cond)
		b.WriteString(" => ")
		writeNode(b, v.Then)
	case Variable:
		b.WriteString("val ")
		b.WriteString(v.Name.Name)
		b.WriteString(" = ")
		writeNode(b, v.RHS)
	case Block:
		b.WriteString("{ ")
		for _, s := range v.Stmts {
			writeNode(b, s)
			b.WriteString("; ")
		}
		writeNode(b, v.Output)
		b.WriteString(" }")
	case Product:
		b.WriteString(v.Name)
		b.WriteString("(")
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(" = ")
			writeNode(b, f.Value)
		}
		b.WriteString(")")
	case MethodCall:
		writeNode(b, v.Head)
		b.WriteString(".")
		b.WriteString(v.Name)
		b.WriteString("(")
		writeList(b, v.Args)
		b.WriteString(")")
	case GlobalCall:
		b.WriteString(v.Name)
		b.WriteString("(")
		writeList(b, v.Args)
		b.WriteString(")")
	case QueryToExpr:
		writeCall(b, "QueryToExpr", v.Head)
	case ExprToQuery:
		writeCall(b, "ExprToQuery", v.Head)
	case Window:
		b.WriteString("Window(")
		writeNode(b, v.Over)
		b.WriteString(")")
	case TagForParam:
		fmt.Fprintf(b, "TagP(%s)", v.ID)
	case TagForSqlExpression:
		fmt.Fprintf(b, "TagE(%s)", v.ID)
	case TagForSqlQuery:
		fmt.Fprintf(b, "TagQ(%s)", v.ID)
	case TagForSqlAction:
		fmt.Fprintf(b, "TagA(%s)", v.ID)
	case PlaceholderParam:
		b.WriteString(":")
		b.WriteString(v.Name)
	case Entity:
		fmt.Fprintf(b, "Table(%s)", v.Name)
	case Map:
		writeBinder(b, "map", v.Head, v.ID, v.Body)
	case FlatMap:
		writeBinder(b, "flatMap", v.Head, v.ID, v.Body)
	case ConcatMap:
		writeBinder(b, "concatMap", v.Head, v.ID, v.Body)
	case Filter:
		writeBinder(b, "filter", v.Head, v.ID, v.Body)
	case DistinctOn:
		writeBinder(b, "distinctOn", v.Head, v.ID, v.By)
	case SortBy:
		writeNode(b, v.Head)
		fmt.Fprintf(b, ".sortBy { %s -> ", v.ID.Name)
		writeOrder(b, v.Criteria)
		b.WriteString(" }")
	case FlatJoin:
		fmt.Fprintf(b, "join_%s(", v.JoinType)
		writeNode(b, v.Head)
		fmt.Fprintf(b, ") { %s -> ", v.ID.Name)
		writeNode(b, v.On)
		b.WriteString(" }")
	case FlatGroupBy:
		writeCall(b, "groupBy", v.By)
	case FlatFilter:
		writeCall(b, "where", v.By)
	case FlatSortBy:
		b.WriteString("sortBy(")
		writeOrder(b, v.Criteria)
		b.WriteString(")")
	case Union:
		writeCall(b, "union", v.A, v.B)
	case UnionAll:
		writeCall(b, "unionAll", v.A, v.B)
	case Distinct:
		writeNode(b, v.Head)
		b.WriteString(".distinct")
	case Take:
		writeNode(b, v.Head)
		b.WriteString(".take(")
		writeNode(b, v.Num)
		b.WriteString(")")
	case Drop:
		writeNode(b, v.Head)
		b.WriteString(".drop(")
		writeNode(b, v.Num)
		b.WriteString(")")
	case Nested:
		writeCall(b, "nested", v.Head)
	case CustomQueryRef:
		if v.Custom == nil {
			b.WriteString("custom(<nil>)")
			return
		}
		b.WriteString("custom(")
		writeNode(b, v.Custom.ToQueryXR())
		b.WriteString(")")
	case Assignment:
		writeNode(b, v.Property)
		b.WriteString(" := ")
		writeNode(b, v.Value)
	case Insert:
		fmt.Fprintf(b, "insert %s as %s (", v.Entity.Name, v.Alias.Name)
		writeList(b, v.Assignments)
		b.WriteString(")")
	case Update:
		fmt.Fprintf(b, "update %s as %s (", v.Entity.Name, v.Alias.Name)
		writeList(b, v.Assignments)
		b.WriteString(")")
	case Delete:
		fmt.Fprintf(b, "delete %s as %s", v.Entity.Name, v.Alias.Name)
	case OnConflict:
		writeNode(b, v.Insert)
		fmt.Fprintf(b, " on conflict %s", v.Resolution)
		if len(v.Assignments) > 0 {
			b.WriteString(" (")
			writeList(b, v.Assignments)
			b.WriteString(")")
		}
	case FilteredAction:
		writeNode(b, v.Action)
		fmt.Fprintf(b, " where { %s -> ", v.Alias.Name)
		writeNode(b, v.Filter)
		b.WriteString(" }")
	case Returning:
		writeNode(b, v.Action)
		fmt.Fprintf(b, " returning { %s -> ", v.Alias.Name)
		writeNode(b, v.Output)
		b.WriteString(" }")
	case Batching:
		fmt.Fprintf(b, "batch { %s -> ", v.Alias.Name)
		writeNode(b, v.Action)
		b.WriteString(" }")
	case Free:
		b.WriteString("free\"")
		for i, part := range v.Parts {
			b.WriteString(part)
			if i < len(v.Params) {
				b.WriteString("${")
				writeNode(b, v.Params[i])
				b.WriteString("}")
			}
		}
		b.WriteString("\"")
	default:
		fmt.Fprintf(b, "%T", x)
	}
}

func writeCall(b *strings.Builder, name string, args ...XR) {
	b.WriteString(name)
	b.WriteString("(")
	writeList(b, args)
	b.WriteString(")")
}

func writeBinder(b *strings.Builder, name string, head Query, id Ident, body XR) {
	writeNode(b, head)
	fmt.Fprintf(b, ".%s { %s -> ", name, id.Name)
	writeNode(b, body)
	b.WriteString(" }")
}

func writeList[T XR](b *strings.Builder, xs []T) {
	for i, x := range xs {
		if i > 0 {
			b.WriteString(", ")
		}
		writeNode(b, x)
	}
}

func writeOrder(b *strings.Builder, criteria []OrderField) {
	for i, c := range criteria {
		if i > 0 {
			b.WriteString(", ")
		}
		writeNode(b, c.Field)
		b.WriteString(" ")
		b.WriteString(string(c.Ordering))
	}
}
