package runtime

import "testing"

func TestEnvironmentLookupWalksOutward(t *testing.T) {
	outer := EmptyEnv().Extend("x", NumberValue{Val: 1})
	inner := outer.Extend("y", NumberValue{Val: 2})

	got, err := inner.Lookup("x")
	if err != nil {
		t.Fatalf("Lookup(x) error: %v", err)
	}
	if !ValuesEqual(got, NumberValue{Val: 1}) {
		t.Fatalf("Lookup(x) = %v, want 1", got)
	}
	if _, err := outer.Lookup("y"); err == nil {
		t.Fatalf("expected outer frame not to see inner binding")
	}
}

func TestEnvironmentShadowingDoesNotMutate(t *testing.T) {
	base := EmptyEnv().Extend("x", NumberValue{Val: 1})
	shadow := base.Extend("x", StringValue{Val: "two"})

	if got, _ := shadow.Lookup("x"); !ValuesEqual(got, StringValue{Val: "two"}) {
		t.Fatalf("shadowed lookup = %v", got)
	}
	if got, _ := base.Lookup("x"); !ValuesEqual(got, NumberValue{Val: 1}) {
		t.Fatalf("base frame changed: %v", got)
	}
}

func TestEnvironmentUnboundVariable(t *testing.T) {
	_, err := EmptyEnv().Lookup("missing")
	if err == nil {
		t.Fatalf("expected lookup failure")
	}
	if kind, ok := KindOf(err); !ok || kind != ErrUnboundVariable {
		t.Fatalf("expected UnboundVariable, got %v", err)
	}
}

func TestEnvironmentKeys(t *testing.T) {
	env := EmptyEnv().ExtendMany([]string{"b", "a", "b"}, []Value{BoolValue{}, BoolValue{}, BoolValue{Val: true}})
	keys := env.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("Keys() = %v", keys)
	}
	if got, _ := env.Lookup("b"); !ValuesEqual(got, BoolValue{Val: true}) {
		t.Fatalf("expected later binding to shadow, got %v", got)
	}
}
