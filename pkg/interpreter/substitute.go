package interpreter

import (
	"fmt"
	"sync/atomic"

	"l32/interpreter-go/pkg/ast"
	"l32/interpreter-go/pkg/runtime"
)

type nameGenerator struct {
	count atomic.Uint64
}

func newNameGenerator() *nameGenerator {
	return &nameGenerator{}
}

// fresh returns a name that no earlier call has produced. The ':' separator
// is a reader delimiter, so no source symbol can spell a fresh name.
func (g *nameGenerator) fresh(base string) string {
	return fmt.Sprintf("%s:%d", base, g.count.Add(1))
}

// ValueToLiteral turns an evaluated value back into an expression that
// evaluates to an equivalent value.
func ValueToLiteral(v runtime.Value) ast.Expression {
	switch val := v.(type) {
	case runtime.NumberValue:
		return ast.NewNumberLiteral(val.Val)
	case runtime.BoolValue:
		return ast.NewBooleanLiteral(val.Val)
	case runtime.StringValue:
		return ast.NewStringLiteral(val.Val)
	case runtime.PrimitiveValue:
		return ast.NewPrimitiveOperator(val.Op)
	case *runtime.ClosureValue:
		return ast.NewProcExpression(declsFor(val.Params), val.Body)
	case *runtime.DictValue:
		entries := make([]*ast.DictEntry, 0, val.Len())
		for _, entry := range val.Entries() {
			entries = append(entries, ast.NewDictEntry(entry.Key, ValueToLiteral(entry.Value)))
		}
		return ast.NewDictExpression(entries)
	default:
		return ast.NewLiteralExpression(v)
	}
}

// renameProc gives every binder in proc, its own parameters included, a
// fresh name and rewrites the bound occurrences to match.
func (i *Interpreter) renameProc(proc *ast.ProcExpression) *ast.ProcExpression {
	return i.rename(proc, nil).(*ast.ProcExpression)
}

// rename rewrites expr under scope, which maps original bound names to their
// fresh replacements. Free variables are left alone.
func (i *Interpreter) rename(expr ast.Expression, scope map[string]string) ast.Expression {
	switch n := expr.(type) {
	case *ast.VarRef:
		if renamed, ok := scope[n.Name]; ok {
			return ast.NewVarRef(renamed)
		}
		return n
	case *ast.IfExpression:
		return ast.NewIfExpression(i.rename(n.Test, scope), i.rename(n.Then, scope), i.rename(n.Alt, scope))
	case *ast.AppExpression:
		return ast.NewAppExpression(i.rename(n.Operator, scope), i.renameAll(n.Operands, scope))
	case *ast.ProcExpression:
		inner := make(map[string]string, len(scope)+len(n.Params))
		for k, v := range scope {
			inner[k] = v
		}
		params := make([]*ast.VarDecl, len(n.Params))
		for idx, param := range n.Params {
			fresh := i.names.fresh(param.Name)
			inner[param.Name] = fresh
			params[idx] = ast.NewVarDecl(fresh)
		}
		return ast.NewProcExpression(params, i.renameAll(n.Body, inner))
	case *ast.DictExpression:
		entries := make([]*ast.DictEntry, len(n.Entries))
		for idx, entry := range n.Entries {
			entries[idx] = ast.NewDictEntry(entry.Key, i.rename(entry.Value, scope))
		}
		return ast.NewDictExpression(entries)
	default:
		return expr
	}
}

func (i *Interpreter) renameAll(exprs []ast.Expression, scope map[string]string) []ast.Expression {
	out := make([]ast.Expression, len(exprs))
	for idx, expr := range exprs {
		out[idx] = i.rename(expr, scope)
	}
	return out
}

// substitute replaces free occurrences of the bound names with their
// replacement expressions. A lambda that rebinds a name hides it from the
// substitution inside its body.
func substitute(expr ast.Expression, bindings map[string]ast.Expression) ast.Expression {
	if len(bindings) == 0 {
		return expr
	}
	switch n := expr.(type) {
	case *ast.VarRef:
		if replacement, ok := bindings[n.Name]; ok {
			return replacement
		}
		return n
	case *ast.IfExpression:
		return ast.NewIfExpression(substitute(n.Test, bindings), substitute(n.Then, bindings), substitute(n.Alt, bindings))
	case *ast.AppExpression:
		return ast.NewAppExpression(substitute(n.Operator, bindings), substituteAll(n.Operands, bindings))
	case *ast.ProcExpression:
		visible := bindings
		copied := false
		for _, param := range n.Params {
			if _, shadowed := visible[param.Name]; shadowed {
				if !copied {
					visible = copyBindings(bindings)
					copied = true
				}
				delete(visible, param.Name)
			}
		}
		return ast.NewProcExpression(n.Params, substituteAll(n.Body, visible))
	case *ast.DictExpression:
		entries := make([]*ast.DictEntry, len(n.Entries))
		for idx, entry := range n.Entries {
			entries[idx] = ast.NewDictEntry(entry.Key, substitute(entry.Value, bindings))
		}
		return ast.NewDictExpression(entries)
	default:
		return expr
	}
}

func substituteAll(exprs []ast.Expression, bindings map[string]ast.Expression) []ast.Expression {
	out := make([]ast.Expression, len(exprs))
	for idx, expr := range exprs {
		out[idx] = substitute(expr, bindings)
	}
	return out
}

func copyBindings(src map[string]ast.Expression) map[string]ast.Expression {
	out := make(map[string]ast.Expression, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
