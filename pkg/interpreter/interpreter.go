package interpreter

import (
	"log/slog"

	"l32/interpreter-go/pkg/ast"
	"l32/interpreter-go/pkg/runtime"
)

// Interpreter evaluates programs under the substitution model. It holds no
// bindings of its own; the only state is the fresh-name counter used when
// renaming closure bodies.
type Interpreter struct {
	logger *slog.Logger
	names  *nameGenerator
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger routes debug tracing of definitions and applications to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New returns an interpreter with logging disabled.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		logger: slog.New(slog.DiscardHandler),
		names:  newNameGenerator(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// EvaluateProgram evaluates a program using a fresh interpreter.
func EvaluateProgram(program *ast.Program) (runtime.Value, error) {
	return New().EvaluateProgram(program)
}

// EvaluateProgram evaluates the program's forms as one top-level sequence in
// an empty environment and returns the value of the last form.
func (i *Interpreter) EvaluateProgram(program *ast.Program) (runtime.Value, error) {
	if program == nil {
		return nil, runtime.Errorf(runtime.ErrEmptySequence, "empty program")
	}
	return i.EvaluateSequence(program.Forms, runtime.EmptyEnv())
}

// EvaluateSequence evaluates forms left to right. A definition extends the
// environment seen by the forms after it; a plain expression is evaluated
// for effect unless it is last, in which case its value is the result.
func (i *Interpreter) EvaluateSequence(forms []ast.Form, env *runtime.Environment) (runtime.Value, error) {
	if len(forms) == 0 {
		return nil, runtime.Errorf(runtime.ErrEmptySequence, "empty sequence")
	}
	for idx, form := range forms {
		last := idx == len(forms)-1
		switch f := form.(type) {
		case *ast.DefineExpression:
			extended, err := i.Define(f, env)
			if err != nil {
				return nil, err
			}
			if last {
				return nil, runtime.Errorf(runtime.ErrEmptySequence, "sequence ends with a definition of '%s'", f.Var.Name)
			}
			env = extended
		case ast.Expression:
			val, err := i.Evaluate(f, env)
			if err != nil {
				return nil, err
			}
			if last {
				return val, nil
			}
		default:
			return nil, runtime.Errorf(runtime.ErrTypeError, "unsupported top-level form %s", form.NodeType())
		}
	}
	return nil, runtime.Errorf(runtime.ErrEmptySequence, "empty sequence")
}

// Define evaluates the right-hand side of def and returns env extended with
// the new binding.
func (i *Interpreter) Define(def *ast.DefineExpression, env *runtime.Environment) (*runtime.Environment, error) {
	rhs, err := i.Evaluate(def.Value, env)
	if err != nil {
		return nil, err
	}
	i.logger.Debug("define", "name", def.Var.Name, "value", runtime.Format(rhs))
	return env.Extend(def.Var.Name, rhs), nil
}
