// Package jsgen translates dictionary-free programs into JavaScript.
package jsgen

import (
	"fmt"
	"strconv"
	"strings"

	"l32/interpreter-go/pkg/ast"
)

// Translate renders program as JavaScript. Top-level forms are joined with
// ";\n" and definitions become const declarations.
func Translate(program *ast.Program) (string, error) {
	if program == nil {
		return "", fmt.Errorf("jsgen: nil program")
	}
	parts := make([]string, 0, len(program.Forms))
	for _, form := range program.Forms {
		js, err := TranslateForm(form)
		if err != nil {
			return "", err
		}
		parts = append(parts, js)
	}
	return strings.Join(parts, ";\n"), nil
}

// TranslateForm renders a single definition or expression.
func TranslateForm(form ast.Form) (string, error) {
	switch f := form.(type) {
	case *ast.DefineExpression:
		val, err := translateExpression(f.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("const %s = %s", f.Var.Name, val), nil
	case ast.Expression:
		return translateExpression(f)
	default:
		return "", fmt.Errorf("jsgen: cannot translate %s", form.NodeType())
	}
}

func translateExpression(expr ast.Expression) (string, error) {
	switch n := expr.(type) {
	case *ast.NumberLiteral:
		return ast.FormatNumber(n.Value), nil
	case *ast.BooleanLiteral:
		return strconv.FormatBool(n.Value), nil
	case *ast.StringLiteral:
		return strconv.Quote(n.Value), nil
	case *ast.VarRef:
		return n.Name, nil
	case *ast.IfExpression:
		test, err := translateExpression(n.Test)
		if err != nil {
			return "", err
		}
		then, err := translateExpression(n.Then)
		if err != nil {
			return "", err
		}
		alt, err := translateExpression(n.Alt)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s ? %s : %s)", test, then, alt), nil
	case *ast.ProcExpression:
		if len(n.Body) != 1 {
			return "", fmt.Errorf("jsgen: lambda body must contain exactly one expression, got %d", len(n.Body))
		}
		body, err := translateExpression(n.Body[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("((%s) => %s)", strings.Join(n.ParamNames(), ","), body), nil
	case *ast.AppExpression:
		if prim, ok := n.Operator.(*ast.PrimitiveOperator); ok {
			return translatePrimitive(prim.Op, n.Operands)
		}
		operator, err := translateExpression(n.Operator)
		if err != nil {
			return "", err
		}
		operands, err := translateAll(n.Operands)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", operator, strings.Join(operands, ",")), nil
	case *ast.PrimitiveOperator:
		return "", fmt.Errorf("jsgen: primitive %s can only appear in operator position", n.Op)
	case nil:
		return "", fmt.Errorf("jsgen: nil expression")
	default:
		return "", fmt.Errorf("jsgen: unsupported expression %s", n.NodeType())
	}
}

func translateAll(exprs []ast.Expression) ([]string, error) {
	out := make([]string, len(exprs))
	for idx, expr := range exprs {
		js, err := translateExpression(expr)
		if err != nil {
			return nil, err
		}
		out[idx] = js
	}
	return out, nil
}

var infixOperators = map[ast.PrimitiveOp]string{
	ast.OpSub:      "-",
	ast.OpDiv:      "/",
	ast.OpLess:     "<",
	ast.OpGreater:  ">",
	ast.OpNumEqual: "===",
	ast.OpEq:       "===",
	ast.OpAnd:      "&&",
	ast.OpOr:       "||",
}

var typeofChecks = map[ast.PrimitiveOp]string{
	ast.OpIsNumber:  "number",
	ast.OpIsBoolean: "boolean",
}

func translatePrimitive(op ast.PrimitiveOp, operands []ast.Expression) (string, error) {
	args, err := translateAll(operands)
	if err != nil {
		return "", err
	}
	switch op {
	case ast.OpAdd, ast.OpMul:
		if len(args) == 0 {
			return "", fmt.Errorf("jsgen: %s expects at least one argument", op)
		}
		return "(" + strings.Join(args, " "+op.String()+" ") + ")", nil
	case ast.OpNot:
		if len(args) != 1 {
			return "", fmt.Errorf("jsgen: not expects exactly one argument")
		}
		return "(!" + args[0] + ")", nil
	}
	if symbol, ok := infixOperators[op]; ok {
		if len(args) != 2 {
			return "", fmt.Errorf("jsgen: %s expects exactly two arguments", op)
		}
		return fmt.Sprintf("(%s %s %s)", args[0], symbol, args[1]), nil
	}
	if typ, ok := typeofChecks[op]; ok {
		if len(args) != 1 {
			return "", fmt.Errorf("jsgen: %s expects exactly one argument", op)
		}
		return fmt.Sprintf("(typeof %s === %q)", args[0], typ), nil
	}
	return "", fmt.Errorf("jsgen: unknown primitive operator %s", op)
}
