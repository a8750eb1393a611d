package jsgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"l32/interpreter-go/pkg/parser"
)

func translateSource(t *testing.T, src string) (string, error) {
	t.Helper()
	program, err := parser.ParseProgram(src)
	require.NoError(t, err)
	return Translate(program)
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"5", "5"},
		{"2.5", "2.5"},
		{"#t", "true"},
		{`"hi"`, `"hi"`},
		{"x", "x"},
		{"(+ 1 2 3)", "(1 + 2 + 3)"},
		{"(* x 2)", "(x * 2)"},
		{"(- 5 2)", "(5 - 2)"},
		{"(< a b)", "(a < b)"},
		{"(= a 1)", "(a === 1)"},
		{"(eq? a b)", "(a === b)"},
		{"(and #t #f)", "(true && false)"},
		{"(or a b)", "(a || b)"},
		{"(not a)", "(!a)"},
		{"(number? n)", `(typeof n === "number")`},
		{"(boolean? b)", `(typeof b === "boolean")`},
		{"(if (> x 0) x (- 0 x))", "((x > 0) ? x : (0 - x))"},
		{"(lambda (x y) (+ x y))", "((x,y) => (x + y))"},
		{"(f 1 2)", "f(1,2)"},
		{"((lambda (x) x) 3)", "((x) => x)(3)"},
		{"(define sq (lambda (n) (* n n)))\n(sq 4)", "const sq = ((n) => (n * n));\nsq(4)"},
	}
	for _, tc := range cases {
		got, err := translateSource(t, tc.src)
		require.NoError(t, err, tc.src)
		assert.Equal(t, tc.want, got, tc.src)
	}
}

func TestTranslateRejectsUnsupportedForms(t *testing.T) {
	cases := []struct {
		src     string
		message string
	}{
		{"'a", "unsupported expression"},
		{"{a: 1}", "unsupported expression"},
		{"(lambda (x) x x)", "exactly one expression"},
		{"(cons 1 2)", "unknown primitive operator cons"},
		{"(+)", "at least one argument"},
		{"(- 1)", "exactly two arguments"},
		{"(not 1 2)", "exactly one argument"},
		{"(f car)", "operator position"},
	}
	for _, tc := range cases {
		_, err := translateSource(t, tc.src)
		require.Error(t, err, tc.src)
		assert.Contains(t, err.Error(), tc.message, tc.src)
	}
}

func TestTranslatedProgramsValidate(t *testing.T) {
	src := `
(define fact (lambda (n) (if (= n 0) 1 (* n (fact (- n 1))))))
(define compose (lambda (f g) (lambda (x) (f (g x)))))
(fact 5)`
	js, err := translateSource(t, src)
	require.NoError(t, err)
	assert.NoError(t, Validate(js))
}

func TestValidateReportsPosition(t *testing.T) {
	err := Validate("const x = (1 + ;\nx")
	require.Error(t, err)
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.GreaterOrEqual(t, syntaxErr.Line, 1)
	assert.Greater(t, syntaxErr.Column, 0)
	assert.Contains(t, err.Error(), "javascript syntax error")
}
