package wire

import "testing"

func TestEqualIgnoresMapOrder(t *testing.T) {
	a := Map(Pair{Key: "x", Value: Int(1)}, Pair{Key: "y", Value: Int(2)})
	b := Map(Pair{Key: "y", Value: Int(2)}, Pair{Key: "x", Value: Int(1)})

	if !Equal(a, b) {
		t.Error("Equal should ignore map order")
	}
	if Identical(a, b) {
		t.Error("Identical should respect map order")
	}
}

func TestEqualDistinguishesScalarKinds(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
	}{
		{"int vs float", Int(1), Float(1)},
		{"bool vs int", Bool(true), Int(1)},
		{"string vs bytes", String("a"), Bytes([]byte("a"))},
		{"nil vs empty map", Nil(), Map()},
		{"empty seq vs empty map", Seq(), Map()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Equal(tt.a, tt.b) {
				t.Errorf("%s and %s should differ", tt.a, tt.b)
			}
		})
	}
}

func TestMapDuplicateKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate key")
		}
	}()
	_ = Map(Pair{Key: "a", Value: Nil()}, Pair{Key: "a", Value: Nil()})
}

func TestValueAccessors(t *testing.T) {
	m := Map(
		Pair{Key: "name", Value: String("Scene 1")},
		Pair{Key: "index", Value: Int(3)},
	)

	if m.Kind() != KindMap {
		t.Fatalf("kind = %v, want map", m.Kind())
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
	name, ok := m.Get("name")
	if !ok {
		t.Fatal("missing key name")
	}
	if s, _ := name.AsString(); s != "Scene 1" {
		t.Errorf("name = %q", s)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("unexpected key")
	}
	if _, ok := Int(1).Get("name"); ok {
		t.Error("Get on non-map should fail")
	}

	// Accessors must not expose internal storage.
	pairs := m.Pairs()
	pairs[0].Key = "mutated"
	if _, ok := m.Get("name"); !ok {
		t.Error("Pairs leaked internal slice")
	}
}

func TestValueString(t *testing.T) {
	v := Map(
		Pair{Key: "a", Value: Int(1)},
		Pair{Key: "b", Value: Float(2)},
		Pair{Key: "c", Value: Seq(Bool(true), Nil())},
	)
	want := `{"a": 1, "b": 2.0, "c": [true, nil]}`
	if got := v.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
