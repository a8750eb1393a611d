package interpreter

import (
	"l32/interpreter-go/pkg/ast"
	"l32/interpreter-go/pkg/runtime"
)

// ApplyPrimitive applies the operator named name to already-evaluated
// arguments.
func ApplyPrimitive(name string, args []runtime.Value) (runtime.Value, error) {
	op, ok := ast.LookupPrimitiveOp(name)
	if !ok {
		return nil, runtime.Errorf(runtime.ErrUnknownPrimitive, "bad primitive op: %s", name)
	}
	return applyPrimitiveOp(op, args)
}

func applyPrimitiveOp(op ast.PrimitiveOp, args []runtime.Value) (runtime.Value, error) {
	switch op {
	case ast.OpAdd:
		return foldNumbers(op, args, 0, func(acc, x float64) float64 { return acc + x })
	case ast.OpMul:
		return foldNumbers(op, args, 1, func(acc, x float64) float64 { return acc * x })
	case ast.OpSub:
		return binaryNumeric(op, args, func(x, y float64) float64 { return x - y })
	case ast.OpDiv:
		return binaryNumeric(op, args, func(x, y float64) float64 { return x / y })
	case ast.OpLess:
		return compareValues(op, args, -1)
	case ast.OpGreater:
		return compareValues(op, args, 1)
	case ast.OpNumEqual, ast.OpStringEqual:
		if err := checkArity(op, args, 2); err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: rawEqual(args[0], args[1])}, nil
	case ast.OpNot:
		if err := checkArity(op, args, 1); err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: !IsTrueValue(args[0])}, nil
	case ast.OpAnd, ast.OpOr:
		return booleanConnective(op, args)
	case ast.OpEq:
		if err := checkArity(op, args, 2); err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: eqValues(args[0], args[1])}, nil
	case ast.OpCons:
		if err := checkArity(op, args, 2); err != nil {
			return nil, err
		}
		return runtime.Cons(args[0], args[1]), nil
	case ast.OpCar, ast.OpCdr:
		return projectPair(op, args)
	case ast.OpList:
		return runtime.ListFromSlice(args), nil
	case ast.OpIsPair:
		return predicate(args, func(v runtime.Value) bool { return v.Kind() == runtime.KindCompound }), nil
	case ast.OpIsNumber:
		return predicate(args, func(v runtime.Value) bool { return v.Kind() == runtime.KindNumber }), nil
	case ast.OpIsBoolean:
		return predicate(args, func(v runtime.Value) bool { return v.Kind() == runtime.KindBool }), nil
	case ast.OpIsSymbol:
		return predicate(args, func(v runtime.Value) bool { return v.Kind() == runtime.KindSymbol }), nil
	case ast.OpIsString:
		return predicate(args, func(v runtime.Value) bool { return v.Kind() == runtime.KindString }), nil
	case ast.OpDict:
		return dictPrimitive(args)
	case ast.OpGet:
		return getPrimitive(args)
	case ast.OpIsDict:
		return predicate(args, isDictValue), nil
	default:
		return nil, runtime.Errorf(runtime.ErrUnknownPrimitive, "bad primitive op: %s", op)
	}
}

func checkArity(op ast.PrimitiveOp, args []runtime.Value, want int) error {
	if len(args) != want {
		return runtime.Errorf(runtime.ErrTypeError, "%s expects %d argument(s), got %d", op, want, len(args))
	}
	return nil
}

func numbers(op ast.PrimitiveOp, args []runtime.Value) ([]float64, error) {
	out := make([]float64, len(args))
	for idx, arg := range args {
		num, ok := arg.(runtime.NumberValue)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrTypeError, "%s expects numbers only: %s", op, runtime.FormatValues(args))
		}
		out[idx] = num.Val
	}
	return out, nil
}

func foldNumbers(op ast.PrimitiveOp, args []runtime.Value, identity float64, step func(acc, x float64) float64) (runtime.Value, error) {
	nums, err := numbers(op, args)
	if err != nil {
		return nil, err
	}
	acc := identity
	for _, n := range nums {
		acc = step(acc, n)
	}
	return runtime.NumberValue{Val: acc}, nil
}

// binaryNumeric leaves division by zero to float semantics.
func binaryNumeric(op ast.PrimitiveOp, args []runtime.Value, apply func(x, y float64) float64) (runtime.Value, error) {
	if err := checkArity(op, args, 2); err != nil {
		return nil, err
	}
	nums, err := numbers(op, args)
	if err != nil {
		return nil, err
	}
	return runtime.NumberValue{Val: apply(nums[0], nums[1])}, nil
}

// compareValues orders two numbers or two strings. want is -1 for < and 1
// for >.
func compareValues(op ast.PrimitiveOp, args []runtime.Value, want int) (runtime.Value, error) {
	if err := checkArity(op, args, 2); err != nil {
		return nil, err
	}
	cmp := 0
	switch x := args[0].(type) {
	case runtime.NumberValue:
		y, ok := args[1].(runtime.NumberValue)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrTypeError, "%s cannot compare %s", op, runtime.FormatValues(args))
		}
		cmp = compareOrdered(x.Val, y.Val)
	case runtime.StringValue:
		y, ok := args[1].(runtime.StringValue)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrTypeError, "%s cannot compare %s", op, runtime.FormatValues(args))
		}
		cmp = compareOrdered(x.Val, y.Val)
	default:
		return nil, runtime.Errorf(runtime.ErrTypeError, "%s cannot compare %s", op, runtime.FormatValues(args))
	}
	return runtime.BoolValue{Val: cmp == want}, nil
}

func compareOrdered[T float64 | string](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// rawEqual compares scalars by value and structured values by identity.
func rawEqual(a, b runtime.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case runtime.NumberValue:
		return x.Val == b.(runtime.NumberValue).Val
	case runtime.BoolValue:
		return x.Val == b.(runtime.BoolValue).Val
	case runtime.StringValue:
		return x.Val == b.(runtime.StringValue).Val
	case runtime.PrimitiveValue:
		return x.Op == b.(runtime.PrimitiveValue).Op
	case runtime.SymbolSExp:
		return x.Name == b.(runtime.SymbolSExp).Name
	case runtime.EmptySExp:
		return true
	case *runtime.CompoundSExp:
		return x == b.(*runtime.CompoundSExp)
	case *runtime.ClosureValue:
		return x == b.(*runtime.ClosureValue)
	case *runtime.DictValue:
		return x == b.(*runtime.DictValue)
	default:
		return false
	}
}

// eqValues is eq?: symbols by name, the empty list, and numbers, strings and
// booleans by value. Everything else, compound structure included, is false.
func eqValues(a, b runtime.Value) bool {
	switch x := a.(type) {
	case runtime.SymbolSExp:
		y, ok := b.(runtime.SymbolSExp)
		return ok && x.Name == y.Name
	case runtime.EmptySExp:
		_, ok := b.(runtime.EmptySExp)
		return ok
	case runtime.NumberValue:
		y, ok := b.(runtime.NumberValue)
		return ok && x.Val == y.Val
	case runtime.StringValue:
		y, ok := b.(runtime.StringValue)
		return ok && x.Val == y.Val
	case runtime.BoolValue:
		y, ok := b.(runtime.BoolValue)
		return ok && x.Val == y.Val
	default:
		return false
	}
}

func booleanConnective(op ast.PrimitiveOp, args []runtime.Value) (runtime.Value, error) {
	if err := checkArity(op, args, 2); err != nil {
		return nil, err
	}
	x, okX := args[0].(runtime.BoolValue)
	y, okY := args[1].(runtime.BoolValue)
	if !okX || !okY {
		return nil, runtime.Errorf(runtime.ErrTypeError, "arguments to %q not booleans: %s", op.String(), runtime.FormatValues(args))
	}
	if op == ast.OpAnd {
		return runtime.BoolValue{Val: x.Val && y.Val}, nil
	}
	return runtime.BoolValue{Val: x.Val || y.Val}, nil
}

func projectPair(op ast.PrimitiveOp, args []runtime.Value) (runtime.Value, error) {
	if err := checkArity(op, args, 1); err != nil {
		return nil, err
	}
	pair, ok := args[0].(*runtime.CompoundSExp)
	if !ok {
		return nil, runtime.Errorf(runtime.ErrNotCompound, "%s: param is not compound %s", op, runtime.Format(args[0]))
	}
	if op == ast.OpCar {
		return pair.Head, nil
	}
	return pair.Tail, nil
}

// predicate answers #f rather than failing when called with the wrong number
// of arguments.
func predicate(args []runtime.Value, test func(runtime.Value) bool) runtime.Value {
	if len(args) != 1 || args[0] == nil {
		return runtime.BoolValue{Val: false}
	}
	return runtime.BoolValue{Val: test(args[0])}
}
