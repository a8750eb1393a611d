package interpreter

import (
	"l32/interpreter-go/pkg/ast"
	"l32/interpreter-go/pkg/runtime"
)

// IsValidDictFormat reports whether v is an association list: a proper list
// whose every element is a pair with a symbol head.
func IsValidDictFormat(v runtime.Value) bool {
	for {
		switch cell := v.(type) {
		case runtime.EmptySExp:
			return true
		case *runtime.CompoundSExp:
			if !isDictPair(cell.Head) {
				return false
			}
			v = cell.Tail
		default:
			return false
		}
	}
}

func isDictPair(v runtime.Value) bool {
	pair, ok := v.(*runtime.CompoundSExp)
	if !ok {
		return false
	}
	_, ok = pair.Head.(runtime.SymbolSExp)
	return ok
}

func isDictValue(v runtime.Value) bool {
	if _, ok := v.(*runtime.DictValue); ok {
		return true
	}
	return IsValidDictFormat(v)
}

// NormalizeDict converts an association list into a native dictionary. When
// a key repeats, the first occurrence wins, matching what get returns.
func NormalizeDict(alist runtime.Value) (*runtime.DictValue, error) {
	if !IsValidDictFormat(alist) {
		return nil, runtime.Errorf(runtime.ErrInvalidDictFormat, "expected a list of symbol-value pairs, got %s", runtime.Format(alist))
	}
	dict := runtime.NewDict()
	elements, _ := runtime.SliceFromList(alist)
	for _, element := range elements {
		pair := element.(*runtime.CompoundSExp)
		key := pair.Head.(runtime.SymbolSExp).Name
		if _, seen := dict.Get(key); seen {
			continue
		}
		dict.Set(key, pair.Tail)
	}
	return dict, nil
}

// dictPrimitive validates its argument and returns it unchanged.
func dictPrimitive(args []runtime.Value) (runtime.Value, error) {
	if err := checkArity(ast.OpDict, args, 1); err != nil {
		return nil, err
	}
	val := args[0]
	if !runtime.IsSExp(val) {
		return nil, runtime.Errorf(runtime.ErrInvalidDictFormat, "dict expects an S-expression value but received %s", runtime.Format(val))
	}
	if !IsValidDictFormat(val) {
		return nil, runtime.Errorf(runtime.ErrInvalidDictFormat, "dict expects a list of symbol-value pairs (e.g. '((a . 1) (b . #t))), but received %s", runtime.Format(val))
	}
	return val, nil
}

func getPrimitive(args []runtime.Value) (runtime.Value, error) {
	if err := checkArity(ast.OpGet, args, 2); err != nil {
		return nil, err
	}
	key, ok := args[1].(runtime.SymbolSExp)
	if !ok {
		return nil, runtime.Errorf(runtime.ErrTypeError, "get expects its second argument to be a symbol key, but received %s", runtime.Format(args[1]))
	}
	if native, ok := args[0].(*runtime.DictValue); ok {
		val, found := native.Get(key.Name)
		if !found {
			return nil, runtime.Errorf(runtime.ErrKeyNotFound, "key '%s' not found in dictionary", key.Name)
		}
		return val, nil
	}
	if !runtime.IsSExp(args[0]) {
		return nil, runtime.Errorf(runtime.ErrTypeError, "get expects its first argument to be a dictionary, but received %s", runtime.Format(args[0]))
	}
	return lookupAlist(args[0], key)
}

// lookupAlist walks the list front to back and stops at the first malformed
// element instead of skipping it.
func lookupAlist(alist runtime.Value, key runtime.SymbolSExp) (runtime.Value, error) {
	for {
		switch cell := alist.(type) {
		case runtime.EmptySExp:
			return nil, runtime.Errorf(runtime.ErrKeyNotFound, "key '%s' not found in dictionary", key.Name)
		case *runtime.CompoundSExp:
			if !isDictPair(cell.Head) {
				return nil, runtime.Errorf(runtime.ErrInvalidDictFormat, "invalid dictionary element %s", runtime.Format(cell.Head))
			}
			pair := cell.Head.(*runtime.CompoundSExp)
			if pair.Head.(runtime.SymbolSExp).Name == key.Name {
				return pair.Tail, nil
			}
			alist = cell.Tail
		default:
			return nil, runtime.Errorf(runtime.ErrInvalidDictFormat, "invalid dictionary structure %s", runtime.Format(alist))
		}
	}
}
