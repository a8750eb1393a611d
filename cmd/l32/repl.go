package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"l32/interpreter-go/pkg/ast"
	"l32/interpreter-go/pkg/desugar"
	"l32/interpreter-go/pkg/interpreter"
	"l32/interpreter-go/pkg/parser"
	"l32/interpreter-go/pkg/runtime"
)

const replPrompt = "l32> "
const replContinuation = "...  "

func parseSource(src string) (*ast.Program, error) {
	return parser.ParseProgram(src)
}

// incomplete reports whether err means the reader ran out of input inside
// a form.
func incomplete(err error) bool {
	var syntaxErr *parser.SyntaxError
	return errors.As(err, &syntaxErr) && syntaxErr.Incomplete
}

// runREPL reads forms until EOF or ,quit. Definitions accumulate in one
// environment; a failure is reported and the session continues.
func runREPL(in io.Reader, out io.Writer, opts options, logger *slog.Logger) int {
	interp := interpreter.New(interpreter.WithLogger(logger))
	env := runtime.EmptyEnv()
	scanner := bufio.NewScanner(in)

	var pending strings.Builder
	fmt.Fprint(out, replPrompt)
	for scanner.Scan() {
		line := scanner.Text()
		if pending.Len() == 0 && strings.TrimSpace(line) == ",quit" {
			return 0
		}
		pending.WriteString(line)
		pending.WriteByte('\n')

		program, err := parseSource(pending.String())
		if err != nil && incomplete(err) {
			fmt.Fprint(out, replContinuation)
			continue
		}
		pending.Reset()
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			fmt.Fprint(out, replPrompt)
			continue
		}
		if opts.desugar {
			if program, err = desugar.DesugarDictionaries(program); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				fmt.Fprint(out, replPrompt)
				continue
			}
		}
		env = evalForms(interp, program.Forms, env, out)
		fmt.Fprint(out, replPrompt)
	}
	fmt.Fprintln(out)
	if err := scanner.Err(); err != nil {
		printError("read input: %v", err)
		return 1
	}
	return 0
}

func evalForms(interp *interpreter.Interpreter, forms []ast.Form, env *runtime.Environment, out io.Writer) *runtime.Environment {
	for _, form := range forms {
		switch f := form.(type) {
		case *ast.DefineExpression:
			extended, err := interp.Define(f, env)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				return env
			}
			env = extended
			fmt.Fprintln(out, f.Var.Name)
		case ast.Expression:
			val, err := interp.Evaluate(f, env)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				return env
			}
			fmt.Fprintln(out, runtime.Format(val))
		}
	}
	return env
}
