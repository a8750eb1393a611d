package runtime

import (
	"fmt"

	"l32/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindString
	KindPrimitive
	KindClosure
	KindEmpty
	KindSymbol
	KindCompound
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	case KindPrimitive:
		return "primitive"
	case KindClosure:
		return "closure"
	case KindEmpty:
		return "empty"
	case KindSymbol:
		return "symbol"
	case KindCompound:
		return "compound"
	case KindDict:
		return "dict"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values. String renders the
// value the way the printer shows it, which also lets values travel inside
// ast.LiteralExpression as quoted data.
type Value interface {
	Kind() Kind
	String() string
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// PrimitiveValue is a first-class reference to a built-in operator.
type PrimitiveValue struct {
	Op ast.PrimitiveOp
}

func (v PrimitiveValue) Kind() Kind { return KindPrimitive }

//-----------------------------------------------------------------------------
// Procedures
//-----------------------------------------------------------------------------

// ClosureValue pairs parameters with an unevaluated body. Application
// substitutes arguments into the body, so no environment is captured.
type ClosureValue struct {
	Params []string
	Body   []ast.Expression
}

func (v *ClosureValue) Kind() Kind { return KindClosure }

func NewClosure(params []string, body []ast.Expression) *ClosureValue {
	return &ClosureValue{Params: append([]string(nil), params...), Body: body}
}

//-----------------------------------------------------------------------------
// S-expressions
//-----------------------------------------------------------------------------

// EmptySExp terminates every proper list.
type EmptySExp struct{}

func (EmptySExp) Kind() Kind { return KindEmpty }

// SymbolSExp is a symbolic atom; two symbols are equal when their names are.
type SymbolSExp struct {
	Name string
}

func (v SymbolSExp) Kind() Kind { return KindSymbol }

// CompoundSExp is a pair cell. Fields may share structure with other cells.
type CompoundSExp struct {
	Head Value
	Tail Value
}

func (v *CompoundSExp) Kind() Kind { return KindCompound }

func Cons(head, tail Value) *CompoundSExp {
	return &CompoundSExp{Head: head, Tail: tail}
}

// IsSExp reports whether v can appear as quoted data. Every runtime value
// except a native dictionary qualifies.
func IsSExp(v Value) bool {
	if v == nil {
		return false
	}
	return v.Kind() != KindDict
}

// ListFromSlice right-folds values into a proper list.
func ListFromSlice(values []Value) Value {
	var out Value = EmptySExp{}
	for i := len(values) - 1; i >= 0; i-- {
		out = Cons(values[i], out)
	}
	return out
}

// SliceFromList flattens a proper list. ok is false for improper lists.
func SliceFromList(list Value) (values []Value, ok bool) {
	for {
		switch cell := list.(type) {
		case EmptySExp:
			return values, true
		case *CompoundSExp:
			values = append(values, cell.Head)
			list = cell.Tail
		default:
			return values, false
		}
	}
}

// IsProperList reports whether the spine ends in EmptySExp.
func IsProperList(v Value) bool {
	switch cell := v.(type) {
	case EmptySExp:
		return true
	case *CompoundSExp:
		return IsProperList(cell.Tail)
	default:
		return false
	}
}

//-----------------------------------------------------------------------------
// Dictionaries
//-----------------------------------------------------------------------------

// DictValue is an insertion-ordered mapping from string keys to values.
type DictValue struct {
	keys    []string
	entries map[string]Value
}

func (v *DictValue) Kind() Kind { return KindDict }

func NewDict() *DictValue {
	return &DictValue{entries: make(map[string]Value)}
}

// Set binds key. Rebinding an existing key keeps its original position.
func (v *DictValue) Set(key string, val Value) {
	if _, exists := v.entries[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.entries[key] = val
}

func (v *DictValue) Get(key string) (Value, bool) {
	val, ok := v.entries[key]
	return val, ok
}

func (v *DictValue) Len() int { return len(v.keys) }

// Keys returns the keys in insertion order.
func (v *DictValue) Keys() []string {
	return append([]string(nil), v.keys...)
}

// DictEntry is one key/value pair of a DictValue.
type DictEntry struct {
	Key   string
	Value Value
}

func (v *DictValue) Entries() []DictEntry {
	out := make([]DictEntry, len(v.keys))
	for i, key := range v.keys {
		out[i] = DictEntry{Key: key, Value: v.entries[key]}
	}
	return out
}

//-----------------------------------------------------------------------------
// Equality
//-----------------------------------------------------------------------------

// ValuesEqual is deep structural equality. Closures compare by identity and
// dictionaries compare by entries and order.
func ValuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case NumberValue:
		return av.Val == b.(NumberValue).Val
	case BoolValue:
		return av.Val == b.(BoolValue).Val
	case StringValue:
		return av.Val == b.(StringValue).Val
	case PrimitiveValue:
		return av.Op == b.(PrimitiveValue).Op
	case SymbolSExp:
		return av.Name == b.(SymbolSExp).Name
	case EmptySExp:
		return true
	case *CompoundSExp:
		bv := b.(*CompoundSExp)
		return ValuesEqual(av.Head, bv.Head) && ValuesEqual(av.Tail, bv.Tail)
	case *ClosureValue:
		return av == b.(*ClosureValue)
	case *DictValue:
		bv := b.(*DictValue)
		if av.Len() != bv.Len() {
			return false
		}
		for i, key := range av.keys {
			if bv.keys[i] != key || !ValuesEqual(av.entries[key], bv.entries[key]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
