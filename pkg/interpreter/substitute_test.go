package interpreter

import (
	"strings"
	"testing"

	"l32/interpreter-go/pkg/ast"
	"l32/interpreter-go/pkg/runtime"
)

func TestRenameProcRenamesEveryBinder(t *testing.T) {
	interp := New()
	// (lambda (x) (lambda (y) (+ x y z)))
	proc := ast.Proc([]string{"x"},
		ast.Proc([]string{"y"}, ast.App(ast.Prim("+"), ast.Var("x"), ast.Var("y"), ast.Var("z"))),
	)
	renamed := interp.renameProc(proc)

	outer := renamed.Params[0].Name
	if outer == "x" || !strings.HasPrefix(outer, "x:") {
		t.Fatalf("outer parameter not renamed: %s", outer)
	}
	inner, ok := renamed.Body[0].(*ast.ProcExpression)
	if !ok {
		t.Fatalf("expected nested procedure, got %T", renamed.Body[0])
	}
	innerName := inner.Params[0].Name
	if innerName == "y" || innerName == outer {
		t.Fatalf("inner parameter not renamed apart: %s", innerName)
	}
	want := "(+ " + outer + " " + innerName + " z)"
	if got := ast.Unparse(inner.Body[0]); got != want {
		t.Fatalf("renamed body = %s, want %s", got, want)
	}
	if got := ast.Unparse(proc); got != "(lambda (x) (lambda (y) (+ x y z)))" {
		t.Fatalf("original procedure was modified: %s", got)
	}
}

func TestRenameProcHandlesShadowing(t *testing.T) {
	interp := New()
	// (lambda (x) (x (lambda (x) x)))
	proc := ast.Proc([]string{"x"},
		ast.App(ast.Var("x"), ast.Proc([]string{"x"}, ast.Var("x"))),
	)
	renamed := interp.renameProc(proc)
	app := renamed.Body[0].(*ast.AppExpression)
	outer := renamed.Params[0].Name
	inner := app.Operands[0].(*ast.ProcExpression)

	if got := app.Operator.(*ast.VarRef).Name; got != outer {
		t.Fatalf("outer reference = %s, want %s", got, outer)
	}
	if got := inner.Body[0].(*ast.VarRef).Name; got != inner.Params[0].Name || got == outer {
		t.Fatalf("inner reference = %s, want %s", got, inner.Params[0].Name)
	}
}

func TestFreshNamesAreUnique(t *testing.T) {
	g := newNameGenerator()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		name := g.fresh("v")
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate fresh name %s", name)
		}
		seen[name] = struct{}{}
	}
}

func TestSubstituteStopsAtShadowingBinder(t *testing.T) {
	body := []ast.Expression{
		ast.App(ast.Var("f"), ast.Var("x"), ast.Proc([]string{"x"}, ast.Var("x"))),
	}
	out := substituteAll(body, map[string]ast.Expression{"x": ast.Num(1)})
	if got := ast.Unparse(out[0]); got != "(f 1 (lambda (x) x))" {
		t.Fatalf("substitute = %s", got)
	}
}

func TestSubstituteReachesDictionaryEntries(t *testing.T) {
	body := []ast.Expression{ast.Dict("a", ast.Var("x"), "b", ast.If(ast.Var("x"), ast.Num(1), ast.Num(2)))}
	out := substituteAll(body, map[string]ast.Expression{"x": ast.Bool(false)})
	if got := ast.Unparse(out[0]); got != "{a: #f, b: (if #f 1 2)}" {
		t.Fatalf("substitute = %s", got)
	}
}

func TestValueToLiteral(t *testing.T) {
	dict := runtime.NewDict()
	dict.Set("k", num(1))
	closure := runtime.NewClosure([]string{"a"}, []ast.Expression{ast.Var("a")})
	cases := []struct {
		val  runtime.Value
		want string
	}{
		{num(2.5), "2.5"},
		{boolean(true), "#t"},
		{str("q"), `"q"`},
		{runtime.PrimitiveValue{Op: ast.OpGet}, "get"},
		{closure, "(lambda (a) a)"},
		{dict, "{k: 1}"},
		{sym("s"), "'s"},
		{alist("a", num(1)), "'((a . 1))"},
	}
	for _, tc := range cases {
		if got := ast.Unparse(ValueToLiteral(tc.val)); got != tc.want {
			t.Fatalf("ValueToLiteral(%s) = %s, want %s", runtime.Format(tc.val), got, tc.want)
		}
	}
}

func TestValueToLiteralEvaluatesBack(t *testing.T) {
	interp := New()
	env := runtime.EmptyEnv()
	inner := runtime.NewDict()
	inner.Set("z", sym("w"))
	outer := runtime.NewDict()
	outer.Set("n", inner)
	outer.Set("m", alist("p", num(1)))

	for _, val := range []runtime.Value{num(1), str("s"), boolean(false), outer, runtime.Cons(num(1), num(2))} {
		got, err := interp.Evaluate(ValueToLiteral(val), env)
		expectValue(t, got, err, val)
	}
}
