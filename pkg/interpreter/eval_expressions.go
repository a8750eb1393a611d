package interpreter

import (
	"l32/interpreter-go/pkg/ast"
	"l32/interpreter-go/pkg/runtime"
)

// Evaluate reduces an expression to a value in env.
func (i *Interpreter) Evaluate(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.PrimitiveOperator:
		return runtime.PrimitiveValue{Op: n.Op}, nil
	case *ast.VarRef:
		return env.Lookup(n.Name)
	case *ast.LiteralExpression:
		return literalDatum(n)
	case *ast.IfExpression:
		return i.evaluateIfExpression(n, env)
	case *ast.ProcExpression:
		return runtime.NewClosure(n.ParamNames(), n.Body), nil
	case *ast.AppExpression:
		return i.evaluateAppExpression(n, env)
	case *ast.DictExpression:
		return i.evaluateDictExpression(n, env)
	case nil:
		return nil, runtime.Errorf(runtime.ErrTypeError, "cannot evaluate nil expression")
	default:
		return nil, runtime.Errorf(runtime.ErrTypeError, "unsupported expression type: %s", n.NodeType())
	}
}

func literalDatum(lit *ast.LiteralExpression) (runtime.Value, error) {
	if lit.Datum == nil {
		return runtime.EmptySExp{}, nil
	}
	val, ok := lit.Datum.(runtime.Value)
	if !ok {
		return nil, runtime.Errorf(runtime.ErrTypeError, "literal datum %T is not a runtime value", lit.Datum)
	}
	return val, nil
}

// IsTrueValue treats every value except boolean false as true.
func IsTrueValue(val runtime.Value) bool {
	b, ok := val.(runtime.BoolValue)
	return !ok || b.Val
}

func (i *Interpreter) evaluateIfExpression(expr *ast.IfExpression, env *runtime.Environment) (runtime.Value, error) {
	test, err := i.Evaluate(expr.Test, env)
	if err != nil {
		return nil, err
	}
	if IsTrueValue(test) {
		return i.Evaluate(expr.Then, env)
	}
	return i.Evaluate(expr.Alt, env)
}

func (i *Interpreter) evaluateAppExpression(expr *ast.AppExpression, env *runtime.Environment) (runtime.Value, error) {
	operator, err := i.Evaluate(expr.Operator, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(expr.Operands))
	for _, operand := range expr.Operands {
		arg, err := i.Evaluate(operand, env)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return i.Apply(operator, args, env)
}

// evaluateDictExpression evaluates entries in declaration order; a repeated
// key overwrites the earlier value.
func (i *Interpreter) evaluateDictExpression(expr *ast.DictExpression, env *runtime.Environment) (runtime.Value, error) {
	dict := runtime.NewDict()
	for _, entry := range expr.Entries {
		val, err := i.Evaluate(entry.Value, env)
		if err != nil {
			return nil, err
		}
		dict.Set(entry.Key, val)
	}
	return dict, nil
}
