package interpreter

import (
	"l32/interpreter-go/pkg/ast"
	"l32/interpreter-go/pkg/runtime"
)

// Apply dispatches on the runtime kind of proc.
func (i *Interpreter) Apply(proc runtime.Value, args []runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	switch p := proc.(type) {
	case runtime.PrimitiveValue:
		return applyPrimitiveOp(p.Op, args)
	case *runtime.ClosureValue:
		return i.applyClosure(p, args, env)
	case *runtime.DictValue:
		return applyDict(p, args)
	default:
		return nil, runtime.Errorf(runtime.ErrNotApplicable, "bad procedure %s", runtime.Format(proc))
	}
}

// applyClosure renames the closure apart, substitutes the literalized
// arguments for its parameters and evaluates the body in env.
func (i *Interpreter) applyClosure(closure *runtime.ClosureValue, args []runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	if len(args) != len(closure.Params) {
		return nil, runtime.Errorf(runtime.ErrTypeError, "%s expects %d argument(s), got %d", runtime.Format(closure), len(closure.Params), len(args))
	}
	proc := i.renameProc(ast.NewProcExpression(declsFor(closure.Params), closure.Body))

	bindings := make(map[string]ast.Expression, len(args))
	for idx, param := range proc.Params {
		bindings[param.Name] = ValueToLiteral(args[idx])
	}
	body := substituteAll(proc.Body, bindings)

	i.logger.Debug("apply closure", "params", closure.Params, "args", runtime.FormatValues(args))

	forms := make([]ast.Form, len(body))
	for idx, expr := range body {
		forms[idx] = expr
	}
	return i.EvaluateSequence(forms, env)
}

// applyDict looks a symbol key up in a native dictionary.
func applyDict(dict *runtime.DictValue, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, runtime.Errorf(runtime.ErrInvalidDictApplication, "dictionary application expects exactly one argument (the key), got %d", len(args))
	}
	key, ok := args[0].(runtime.SymbolSExp)
	if !ok {
		return nil, runtime.Errorf(runtime.ErrInvalidDictApplication, "dictionary key must be a symbol, got %s", runtime.Format(args[0]))
	}
	val, found := dict.Get(key.Name)
	if !found {
		return nil, runtime.Errorf(runtime.ErrKeyNotFound, "key '%s' not found in dictionary", key.Name)
	}
	return val, nil
}

func declsFor(names []string) []*ast.VarDecl {
	decls := make([]*ast.VarDecl, len(names))
	for idx, name := range names {
		decls[idx] = ast.NewVarDecl(name)
	}
	return decls
}
