package parser

import (
	"errors"
	"strings"
	"testing"

	"l32/interpreter-go/pkg/ast"
	"l32/interpreter-go/pkg/runtime"
)

func TestParseProgramRoundTripsThroughUnparse(t *testing.T) {
	cases := []string{
		"(define x 5)",
		"(+ 1 2.5 -3)",
		`(string=? "a\"b" "c")`,
		"(if #t 1 #f)",
		"(lambda (x y) (* x y) x)",
		"'(a . 1)",
		"'(1 2 (3 . 4))",
		"{a: 1, b: (+ 1 2)}",
		"((lambda (d) (d 'a)) {a: 'x})",
		"(dict '((a . 1) (b . 2)))",
	}
	for _, src := range cases {
		program, err := ParseProgram(src)
		if err != nil {
			t.Fatalf("ParseProgram(%q) error: %v", src, err)
		}
		if got := ast.UnparseProgram(program); got != src {
			t.Fatalf("unparse mismatch:\n got: %s\nwant: %s", got, src)
		}
	}
}

func TestParsePrimitiveSymbols(t *testing.T) {
	expr, err := ParseExpression("(cons car '())")
	if err != nil {
		t.Fatalf("ParseExpression error: %v", err)
	}
	app, ok := expr.(*ast.AppExpression)
	if !ok {
		t.Fatalf("expected application, got %T", expr)
	}
	if prim, ok := app.Operator.(*ast.PrimitiveOperator); !ok || prim.Op != ast.OpCons {
		t.Fatalf("expected cons primitive, got %#v", app.Operator)
	}
	if prim, ok := app.Operands[0].(*ast.PrimitiveOperator); !ok || prim.Op != ast.OpCar {
		t.Fatalf("expected car primitive operand, got %#v", app.Operands[0])
	}
	lit, ok := app.Operands[1].(*ast.LiteralExpression)
	if !ok {
		t.Fatalf("expected literal operand, got %T", app.Operands[1])
	}
	if _, ok := lit.Datum.(runtime.EmptySExp); !ok {
		t.Fatalf("expected empty list datum, got %#v", lit.Datum)
	}
}

func TestParseDictionaryLiteral(t *testing.T) {
	expr, err := ParseExpression("{a: 1 b: \"two\", a: #f}")
	if err != nil {
		t.Fatalf("ParseExpression error: %v", err)
	}
	dict, ok := expr.(*ast.DictExpression)
	if !ok {
		t.Fatalf("expected dictionary literal, got %T", expr)
	}
	if len(dict.Entries) != 3 {
		t.Fatalf("expected 3 entries (duplicates kept), got %d", len(dict.Entries))
	}
	if dict.Entries[1].Key != "b" {
		t.Fatalf("unexpected second key %q", dict.Entries[1].Key)
	}
}

func TestParseDatum(t *testing.T) {
	val, err := ParseDatum("((a . 1) (b . #t) c)")
	if err != nil {
		t.Fatalf("ParseDatum error: %v", err)
	}
	want := runtime.ListFromSlice([]runtime.Value{
		runtime.Cons(runtime.SymbolSExp{Name: "a"}, runtime.NumberValue{Val: 1}),
		runtime.Cons(runtime.SymbolSExp{Name: "b"}, runtime.BoolValue{Val: true}),
		runtime.SymbolSExp{Name: "c"},
	})
	if !runtime.ValuesEqual(val, want) {
		t.Fatalf("ParseDatum = %v, want %v", val, want)
	}
	if sym, err := ParseDatum("+"); err != nil || !runtime.ValuesEqual(sym, runtime.SymbolSExp{Name: "+"}) {
		t.Fatalf("expected primitive name to read as a symbol datum, got %v (%v)", sym, err)
	}
}

func TestReadSkipsComments(t *testing.T) {
	forms, err := Read("; leading comment\n(define x 1) ; trailing\n x")
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(forms))
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"(+ 1 2", "unterminated list"},
		{`"abc`, "unterminated string"},
		{")", "unexpected"},
		{"()", "empty combination"},
		{"(if 1 2)", "if expects"},
		{"(lambda x x)", "parameters must be a list"},
		{"(lambda (x x) x)", "duplicate parameter"},
		{"(lambda (x))", "lambda expects"},
		{"(define + 1)", "cannot be rebound"},
		{"(f (define x 1))", "only allowed at the top level"},
		{"(let ((x 1)) x)", "let is not supported"},
		{"(1 . 2)", "dotted list"},
		{"{1: 2}", "must be a symbol"},
		{"{a 2}", "expected ':'"},
		{"'{a: 1}", "cannot appear inside quoted data"},
		{"(define x:1 5)", `unexpected ":"`},
	}
	for _, tc := range cases {
		_, err := ParseProgram(tc.src)
		if err == nil {
			t.Fatalf("expected error for %q", tc.src)
		}
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("expected SyntaxError for %q, got %T", tc.src, err)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("error for %q = %q, want substring %q", tc.src, err.Error(), tc.want)
		}
	}
}

func TestSyntaxErrorMarksIncompleteInput(t *testing.T) {
	cases := []struct {
		src        string
		incomplete bool
	}{
		{"(+ 1", true},
		{`"abc`, true},
		{"'", true},
		{"(+ 1 '", true},
		{"'(1 .", true},
		{"'(1 . 2", true},
		{"{a: 1", true},
		{"{a", true},
		{")", false},
		{"'(1 . 2 3)", false},
		{"{a 2}", false},
	}
	for _, tc := range cases {
		_, err := ParseProgram(tc.src)
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("expected SyntaxError for %q, got %v", tc.src, err)
		}
		if syntaxErr.Incomplete != tc.incomplete {
			t.Fatalf("Incomplete for %q = %v, want %v (%v)", tc.src, syntaxErr.Incomplete, tc.incomplete, err)
		}
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := ParseProgram("(define x 1)\n  (if 1 2)")
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	if syntaxErr.Pos.Line != 2 || syntaxErr.Pos.Column != 3 {
		t.Fatalf("unexpected position %v", syntaxErr.Pos)
	}
}
