// Package desugar rewrites dictionary literals onto the dict primitive so
// that programs written with brace syntax run on the association-list
// encoding.
package desugar

import (
	"l32/interpreter-go/pkg/ast"
	"l32/interpreter-go/pkg/parser"
	"l32/interpreter-go/pkg/runtime"
)

// DesugarDictionaries returns a copy of program in which every dictionary
// literal {k1: e1 ... kn: en} has become (dict '((k1 . v1) ... (kn . vn))).
// A single entry that cannot be turned into quoted data fails the whole
// pass with UnparsableLiteral.
func DesugarDictionaries(program *ast.Program) (*ast.Program, error) {
	if program == nil {
		return nil, nil
	}
	forms := make([]ast.Form, len(program.Forms))
	for idx, form := range program.Forms {
		rewritten, err := rewriteForm(form)
		if err != nil {
			return nil, err
		}
		forms[idx] = rewritten
	}
	return ast.NewProgram(forms), nil
}

func rewriteForm(form ast.Form) (ast.Form, error) {
	switch f := form.(type) {
	case *ast.DefineExpression:
		value, err := RewriteExpression(f.Value)
		if err != nil {
			return nil, err
		}
		return ast.NewDefineExpression(f.Var, value), nil
	case ast.Expression:
		return RewriteExpression(f)
	default:
		return form, nil
	}
}

// RewriteExpression desugars a single expression tree.
func RewriteExpression(expr ast.Expression) (ast.Expression, error) {
	switch n := expr.(type) {
	case *ast.DictExpression:
		return rewriteDict(n)
	case *ast.IfExpression:
		test, err := RewriteExpression(n.Test)
		if err != nil {
			return nil, err
		}
		then, err := RewriteExpression(n.Then)
		if err != nil {
			return nil, err
		}
		alt, err := RewriteExpression(n.Alt)
		if err != nil {
			return nil, err
		}
		return ast.NewIfExpression(test, then, alt), nil
	case *ast.ProcExpression:
		body, err := rewriteAll(n.Body)
		if err != nil {
			return nil, err
		}
		return ast.NewProcExpression(n.Params, body), nil
	case *ast.AppExpression:
		operator, err := RewriteExpression(n.Operator)
		if err != nil {
			return nil, err
		}
		operands, err := rewriteAll(n.Operands)
		if err != nil {
			return nil, err
		}
		return ast.NewAppExpression(operator, operands), nil
	default:
		return expr, nil
	}
}

func rewriteAll(exprs []ast.Expression) ([]ast.Expression, error) {
	out := make([]ast.Expression, len(exprs))
	for idx, expr := range exprs {
		rewritten, err := RewriteExpression(expr)
		if err != nil {
			return nil, err
		}
		out[idx] = rewritten
	}
	return out, nil
}

// rewriteDict builds the association list back to front so the cons cells
// come out in declaration order.
func rewriteDict(dict *ast.DictExpression) (ast.Expression, error) {
	var alist runtime.Value = runtime.EmptySExp{}
	for idx := len(dict.Entries) - 1; idx >= 0; idx-- {
		entry := dict.Entries[idx]
		datum, err := entryDatum(entry)
		if err != nil {
			return nil, err
		}
		alist = runtime.Cons(runtime.Cons(runtime.SymbolSExp{Name: entry.Key}, datum), alist)
	}
	return ast.NewAppExpression(ast.NewPrimitiveOperator(ast.OpDict), []ast.Expression{ast.NewLiteralExpression(alist)}), nil
}

// entryDatum takes a quoted entry's datum as is and reads any other entry
// back as data from its unparsed text.
func entryDatum(entry *ast.DictEntry) (runtime.Value, error) {
	if lit, ok := entry.Value.(*ast.LiteralExpression); ok {
		if lit.Datum == nil {
			return runtime.EmptySExp{}, nil
		}
		val, ok := lit.Datum.(runtime.Value)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrUnparsableLiteral, "entry %s: literal %T is not a value", entry.Key, lit.Datum)
		}
		return val, nil
	}
	text := ast.Unparse(entry.Value)
	val, err := parser.ParseDatum(text)
	if err != nil {
		return nil, runtime.Errorf(runtime.ErrUnparsableLiteral, "entry %s: cannot read %s as data: %v", entry.Key, text, err)
	}
	return val, nil
}
