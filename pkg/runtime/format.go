package runtime

import (
	"strings"

	"l32/interpreter-go/pkg/ast"
)

func (v NumberValue) String() string { return ast.FormatNumber(v.Val) }

func (v BoolValue) String() string {
	if v.Val {
		return "#t"
	}
	return "#f"
}

func (v StringValue) String() string { return ast.QuoteString(v.Val) }

func (v PrimitiveValue) String() string { return v.Op.String() }

func (v *ClosureValue) String() string {
	return "<closure (" + strings.Join(v.Params, " ") + ")>"
}

func (EmptySExp) String() string { return "()" }

func (v SymbolSExp) String() string { return v.Name }

// String prints proper lists as (a b c) and improper tails with a dot.
func (v *CompoundSExp) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(Format(v.Head))
	var rest Value = v.Tail
	for {
		switch cell := rest.(type) {
		case EmptySExp:
			b.WriteByte(')')
			return b.String()
		case *CompoundSExp:
			b.WriteByte(' ')
			b.WriteString(Format(cell.Head))
			rest = cell.Tail
		default:
			b.WriteString(" . ")
			b.WriteString(Format(rest))
			b.WriteByte(')')
			return b.String()
		}
	}
}

func (v *DictValue) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, key := range v.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(Format(v.entries[key]))
	}
	b.WriteByte('}')
	return b.String()
}

// Format renders any value, including nil, for diagnostics and the REPL.
func Format(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}

// FormatValues renders an argument list as it appears in error messages.
func FormatValues(values []Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Format(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
