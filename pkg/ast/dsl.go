package ast

// Short constructors for building trees by hand, mostly in tests.

func Num(v float64) *NumberLiteral { return NewNumberLiteral(v) }

func Bool(v bool) *BooleanLiteral { return NewBooleanLiteral(v) }

func Str(v string) *StringLiteral { return NewStringLiteral(v) }

func Var(name string) *VarRef { return NewVarRef(name) }

// Prim panics on an unknown operator name.
func Prim(name string) *PrimitiveOperator {
	op, ok := LookupPrimitiveOp(name)
	if !ok {
		panic("ast: unknown primitive " + name)
	}
	return NewPrimitiveOperator(op)
}

func If(test, then, alt Expression) *IfExpression { return NewIfExpression(test, then, alt) }

func Proc(params []string, body ...Expression) *ProcExpression {
	decls := make([]*VarDecl, len(params))
	for i, name := range params {
		decls[i] = NewVarDecl(name)
	}
	return NewProcExpression(decls, body)
}

func App(operator Expression, operands ...Expression) *AppExpression {
	return NewAppExpression(operator, operands)
}

func Lit(datum Datum) *LiteralExpression { return NewLiteralExpression(datum) }

// Dict builds a dictionary literal from alternating key/value arguments.
func Dict(pairs ...interface{}) *DictExpression {
	entries := make([]*DictEntry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, NewDictEntry(pairs[i].(string), pairs[i+1].(Expression)))
	}
	return NewDictExpression(entries)
}

func Def(name string, value Expression) *DefineExpression {
	return NewDefineExpression(NewVarDecl(name), value)
}

func Prog(forms ...Form) *Program { return NewProgram(forms) }
