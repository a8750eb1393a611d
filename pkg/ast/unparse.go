package ast

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders a number in the shortest form the reader accepts.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// QuoteString renders a string literal using the escapes the reader knows.
func QuoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Unparse renders a form back into surface syntax.
func Unparse(form Form) string {
	var b strings.Builder
	writeForm(&b, form)
	return b.String()
}

// UnparseProgram renders each top-level form on its own line.
func UnparseProgram(program *Program) string {
	if program == nil {
		return ""
	}
	lines := make([]string, len(program.Forms))
	for i, form := range program.Forms {
		lines[i] = Unparse(form)
	}
	return strings.Join(lines, "\n")
}

func writeForm(b *strings.Builder, form Form) {
	switch n := form.(type) {
	case *DefineExpression:
		b.WriteString("(define ")
		b.WriteString(n.Var.Name)
		b.WriteByte(' ')
		writeForm(b, n.Value)
		b.WriteByte(')')
	case *NumberLiteral:
		b.WriteString(FormatNumber(n.Value))
	case *BooleanLiteral:
		if n.Value {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case *StringLiteral:
		b.WriteString(QuoteString(n.Value))
	case *PrimitiveOperator:
		b.WriteString(n.Op.String())
	case *VarRef:
		b.WriteString(n.Name)
	case *IfExpression:
		b.WriteString("(if ")
		writeForm(b, n.Test)
		b.WriteByte(' ')
		writeForm(b, n.Then)
		b.WriteByte(' ')
		writeForm(b, n.Alt)
		b.WriteByte(')')
	case *ProcExpression:
		b.WriteString("(lambda (")
		b.WriteString(strings.Join(n.ParamNames(), " "))
		b.WriteByte(')')
		for _, expr := range n.Body {
			b.WriteByte(' ')
			writeForm(b, expr)
		}
		b.WriteByte(')')
	case *AppExpression:
		b.WriteByte('(')
		writeForm(b, n.Operator)
		for _, operand := range n.Operands {
			b.WriteByte(' ')
			writeForm(b, operand)
		}
		b.WriteByte(')')
	case *LiteralExpression:
		b.WriteByte('\'')
		if n.Datum != nil {
			b.WriteString(n.Datum.String())
		} else {
			b.WriteString("()")
		}
	case *DictExpression:
		b.WriteByte('{')
		for i, entry := range n.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(entry.Key)
			b.WriteString(": ")
			writeForm(b, entry.Value)
		}
		b.WriteByte('}')
	}
}
