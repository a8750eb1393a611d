package interpreter

import (
	"testing"

	"l32/interpreter-go/pkg/runtime"
)

func num(v float64) runtime.NumberValue { return runtime.NumberValue{Val: v} }

func sym(name string) runtime.SymbolSExp { return runtime.SymbolSExp{Name: name} }

func str(v string) runtime.StringValue { return runtime.StringValue{Val: v} }

func boolean(v bool) runtime.BoolValue { return runtime.BoolValue{Val: v} }

// alist builds an association list from alternating symbol names and values.
func alist(pairs ...interface{}) runtime.Value {
	cells := make([]runtime.Value, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		cells = append(cells, runtime.Cons(sym(pairs[i].(string)), pairs[i+1].(runtime.Value)))
	}
	return runtime.ListFromSlice(cells)
}

func expectValue(t *testing.T, got runtime.Value, err error, want runtime.Value) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !runtime.ValuesEqual(got, want) {
		t.Fatalf("got %s, want %s", runtime.Format(got), runtime.Format(want))
	}
}

func expectKind(t *testing.T, err error, want runtime.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s failure, got success", want)
	}
	kind, ok := runtime.KindOf(err)
	if !ok || kind != want {
		t.Fatalf("expected %s failure, got %v", want, err)
	}
}
