package parser

import (
	"fmt"

	"l32/interpreter-go/pkg/ast"
	"l32/interpreter-go/pkg/runtime"
)

var reservedWords = map[string]struct{}{
	"define": {},
	"if":     {},
	"lambda": {},
	"quote":  {},
	"let":    {},
	"else":   {},
}

// IsReserved reports whether name is a special-form keyword.
func IsReserved(name string) bool {
	_, ok := reservedWords[name]
	return ok
}

// ParseProgram parses source text into a program of top-level forms.
func ParseProgram(src string) (*ast.Program, error) {
	sexps, err := Read(src)
	if err != nil {
		return nil, err
	}
	forms := make([]ast.Form, 0, len(sexps))
	for _, sexp := range sexps {
		form, err := ParseForm(sexp)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return ast.NewProgram(forms), nil
}

// ParseExpression parses exactly one expression (definitions are rejected).
func ParseExpression(src string) (ast.Expression, error) {
	sexp, err := ReadOne(src)
	if err != nil {
		return nil, err
	}
	return parseExpression(sexp)
}

// ParseDatum reads exactly one S-expression as raw quoted data.
func ParseDatum(src string) (runtime.Value, error) {
	sexp, err := ReadOne(src)
	if err != nil {
		return nil, err
	}
	return DatumValue(sexp)
}

// ParseForm converts a top-level S-expression into a definition or expression.
func ParseForm(sexp SExp) (ast.Form, error) {
	if list, ok := sexp.(*List); ok && len(list.Items) > 0 {
		if head, ok := list.Items[0].(*Atom); ok && head.Kind == AtomSymbol && head.Text == "define" {
			return parseDefine(list)
		}
	}
	return parseExpression(sexp)
}

func parseDefine(list *List) (ast.Form, error) {
	if list.Tail != nil || len(list.Items) != 3 {
		return nil, syntaxErrorf(list, "define expects a variable and a value")
	}
	name, err := parseBindingName(list.Items[1], "define")
	if err != nil {
		return nil, err
	}
	value, err := parseExpression(list.Items[2])
	if err != nil {
		return nil, err
	}
	return ast.NewDefineExpression(ast.NewVarDecl(name), value), nil
}

func parseExpression(sexp SExp) (ast.Expression, error) {
	switch n := sexp.(type) {
	case *Atom:
		return parseAtom(n)
	case *Braces:
		return parseBraces(n)
	case *List:
		return parseCompound(n)
	default:
		return nil, &SyntaxError{Message: fmt.Sprintf("unsupported form %T", sexp)}
	}
}

func parseAtom(atom *Atom) (ast.Expression, error) {
	switch atom.Kind {
	case AtomNumber:
		return ast.NewNumberLiteral(atom.Number), nil
	case AtomBoolean:
		return ast.NewBooleanLiteral(atom.Bool), nil
	case AtomString:
		return ast.NewStringLiteral(atom.Str), nil
	case AtomSymbol:
		if op, ok := ast.LookupPrimitiveOp(atom.Text); ok {
			return ast.NewPrimitiveOperator(op), nil
		}
		if IsReserved(atom.Text) {
			return nil, syntaxErrorf(atom, "reserved word %q cannot be used as a variable", atom.Text)
		}
		return ast.NewVarRef(atom.Text), nil
	default:
		return nil, syntaxErrorf(atom, "unknown atom %q", atom.Text)
	}
}

func parseBraces(braces *Braces) (ast.Expression, error) {
	entries := make([]*ast.DictEntry, 0, len(braces.Entries))
	for _, entry := range braces.Entries {
		value, err := parseExpression(entry.Value)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.NewDictEntry(entry.Key, value))
	}
	return ast.NewDictExpression(entries), nil
}

func parseCompound(list *List) (ast.Expression, error) {
	if list.Tail != nil {
		return nil, syntaxErrorf(list, "dotted list is not an expression (quote it to build a pair)")
	}
	if len(list.Items) == 0 {
		return nil, syntaxErrorf(list, "empty combination")
	}
	if head, ok := list.Items[0].(*Atom); ok && head.Kind == AtomSymbol {
		switch head.Text {
		case "if":
			return parseIf(list)
		case "lambda":
			return parseLambda(list)
		case "quote":
			return parseQuote(list)
		case "define":
			return nil, syntaxErrorf(list, "define is only allowed at the top level")
		case "let":
			return nil, syntaxErrorf(list, "let is not supported")
		}
	}
	operator, err := parseExpression(list.Items[0])
	if err != nil {
		return nil, err
	}
	operands := make([]ast.Expression, 0, len(list.Items)-1)
	for _, item := range list.Items[1:] {
		operand, err := parseExpression(item)
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	return ast.NewAppExpression(operator, operands), nil
}

func parseIf(list *List) (ast.Expression, error) {
	if len(list.Items) != 4 {
		return nil, syntaxErrorf(list, "if expects a test, a consequent and an alternative")
	}
	parts := make([]ast.Expression, 3)
	for i, item := range list.Items[1:] {
		expr, err := parseExpression(item)
		if err != nil {
			return nil, err
		}
		parts[i] = expr
	}
	return ast.NewIfExpression(parts[0], parts[1], parts[2]), nil
}

func parseLambda(list *List) (ast.Expression, error) {
	if len(list.Items) < 3 {
		return nil, syntaxErrorf(list, "lambda expects a parameter list and a body")
	}
	paramList, ok := list.Items[1].(*List)
	if !ok || paramList.Tail != nil {
		return nil, syntaxErrorf(list.Items[1], "lambda parameters must be a list of symbols")
	}
	seen := make(map[string]struct{}, len(paramList.Items))
	params := make([]*ast.VarDecl, 0, len(paramList.Items))
	for _, item := range paramList.Items {
		name, err := parseBindingName(item, "lambda")
		if err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, syntaxErrorf(item, "duplicate parameter %q", name)
		}
		seen[name] = struct{}{}
		params = append(params, ast.NewVarDecl(name))
	}
	body := make([]ast.Expression, 0, len(list.Items)-2)
	for _, item := range list.Items[2:] {
		expr, err := parseExpression(item)
		if err != nil {
			return nil, err
		}
		body = append(body, expr)
	}
	return ast.NewProcExpression(params, body), nil
}

func parseQuote(list *List) (ast.Expression, error) {
	if len(list.Items) != 2 {
		return nil, syntaxErrorf(list, "quote expects exactly one datum")
	}
	datum, err := DatumValue(list.Items[1])
	if err != nil {
		return nil, err
	}
	return ast.NewLiteralExpression(datum), nil
}

func parseBindingName(sexp SExp, form string) (string, error) {
	atom, ok := sexp.(*Atom)
	if !ok || atom.Kind != AtomSymbol {
		return "", syntaxErrorf(sexp, "%s expects a symbol to bind", form)
	}
	if IsReserved(atom.Text) {
		return "", syntaxErrorf(atom, "reserved word %q cannot be bound", atom.Text)
	}
	if _, ok := ast.LookupPrimitiveOp(atom.Text); ok {
		return "", syntaxErrorf(atom, "primitive %q cannot be rebound", atom.Text)
	}
	return atom.Text, nil
}

// DatumValue converts a read S-expression into a quoted runtime value.
func DatumValue(sexp SExp) (runtime.Value, error) {
	switch n := sexp.(type) {
	case *Atom:
		switch n.Kind {
		case AtomNumber:
			return runtime.NumberValue{Val: n.Number}, nil
		case AtomBoolean:
			return runtime.BoolValue{Val: n.Bool}, nil
		case AtomString:
			return runtime.StringValue{Val: n.Str}, nil
		default:
			return runtime.SymbolSExp{Name: n.Text}, nil
		}
	case *List:
		var tail runtime.Value = runtime.EmptySExp{}
		if n.Tail != nil {
			v, err := DatumValue(n.Tail)
			if err != nil {
				return nil, err
			}
			tail = v
		}
		for i := len(n.Items) - 1; i >= 0; i-- {
			head, err := DatumValue(n.Items[i])
			if err != nil {
				return nil, err
			}
			tail = runtime.Cons(head, tail)
		}
		return tail, nil
	case *Braces:
		return nil, syntaxErrorf(n, "dictionary literal cannot appear inside quoted data")
	default:
		return nil, &SyntaxError{Message: fmt.Sprintf("unsupported datum %T", sexp)}
	}
}

func syntaxErrorf(at SExp, format string, args ...interface{}) *SyntaxError {
	err := &SyntaxError{Message: fmt.Sprintf(format, args...)}
	if at != nil {
		err.Pos = at.Position()
	}
	return err
}
