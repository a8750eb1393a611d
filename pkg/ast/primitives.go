package ast

import "fmt"

// PrimitiveOp enumerates the built-in operators. The set is closed: the
// evaluator switches over it exhaustively.
type PrimitiveOp int

const (
	OpAdd PrimitiveOp = iota
	OpSub
	OpMul
	OpDiv
	OpLess
	OpGreater
	OpNumEqual
	OpNot
	OpAnd
	OpOr
	OpEq
	OpStringEqual
	OpCons
	OpCar
	OpCdr
	OpList
	OpIsPair
	OpIsNumber
	OpIsBoolean
	OpIsSymbol
	OpIsString
	OpDict
	OpGet
	OpIsDict
)

var primitiveNames = [...]string{
	OpAdd:         "+",
	OpSub:         "-",
	OpMul:         "*",
	OpDiv:         "/",
	OpLess:        "<",
	OpGreater:     ">",
	OpNumEqual:    "=",
	OpNot:         "not",
	OpAnd:         "and",
	OpOr:          "or",
	OpEq:          "eq?",
	OpStringEqual: "string=?",
	OpCons:        "cons",
	OpCar:         "car",
	OpCdr:         "cdr",
	OpList:        "list",
	OpIsPair:      "pair?",
	OpIsNumber:    "number?",
	OpIsBoolean:   "boolean?",
	OpIsSymbol:    "symbol?",
	OpIsString:    "string?",
	OpDict:        "dict",
	OpGet:         "get",
	OpIsDict:      "dict?",
}

var primitivesByName = func() map[string]PrimitiveOp {
	out := make(map[string]PrimitiveOp, len(primitiveNames))
	for op, name := range primitiveNames {
		out[name] = PrimitiveOp(op)
	}
	return out
}()

func (op PrimitiveOp) String() string {
	if op >= 0 && int(op) < len(primitiveNames) {
		return primitiveNames[op]
	}
	return fmt.Sprintf("primitive_%d", int(op))
}

// LookupPrimitiveOp resolves an operator by its surface name.
func LookupPrimitiveOp(name string) (PrimitiveOp, bool) {
	op, ok := primitivesByName[name]
	return op, ok
}

// PrimitiveNames lists every operator name in enumeration order.
func PrimitiveNames() []string {
	out := make([]string, len(primitiveNames))
	copy(out, primitiveNames[:])
	return out
}
