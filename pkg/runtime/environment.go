package runtime

import "sort"

// Environment is one immutable binding frame. Extending never mutates a
// frame; the root frame is empty and every lookup that reaches it fails.
type Environment struct {
	name   string
	value  Value
	parent *Environment
}

var emptyEnvironment = &Environment{}

// EmptyEnv returns the terminal frame.
func EmptyEnv() *Environment {
	return emptyEnvironment
}

// IsEmpty reports whether e is the terminal frame.
func (e *Environment) IsEmpty() bool {
	return e == nil || e.parent == nil
}

// Parent exposes the enclosing frame (nil for the terminal frame).
func (e *Environment) Parent() *Environment {
	if e == nil {
		return nil
	}
	return e.parent
}

// Extend returns a new frame binding name, with the receiver as its parent.
func (e *Environment) Extend(name string, value Value) *Environment {
	if e == nil {
		e = emptyEnvironment
	}
	return &Environment{name: name, value: value, parent: e}
}

// ExtendMany binds names to values left to right, so later names shadow
// earlier ones.
func (e *Environment) ExtendMany(names []string, values []Value) *Environment {
	env := e
	for i, name := range names {
		if i >= len(values) {
			break
		}
		env = env.Extend(name, values[i])
	}
	return env
}

// Lookup retrieves a binding, searching outward through the frame chain.
func (e *Environment) Lookup(name string) (Value, error) {
	for frame := e; !frame.IsEmpty(); frame = frame.parent {
		if frame.name == name {
			return frame.value, nil
		}
	}
	return nil, Errorf(ErrUnboundVariable, "unbound variable '%s'", name)
}

// Keys returns the visible bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for frame := e; !frame.IsEmpty(); frame = frame.parent {
		if _, ok := seen[frame.name]; ok {
			continue
		}
		seen[frame.name] = struct{}{}
		keys = append(keys, frame.name)
	}
	sort.Strings(keys)
	return keys
}
