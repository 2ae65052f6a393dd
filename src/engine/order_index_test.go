package engine

import "testing"

func TestOrderIndexRegisterLookupUnregister(t *testing.T) {
	idx := NewOrderIndex()

	if err := idx.Register("o1", SideBuy, 10000, makeHandle(0, 1)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	loc, ok := idx.Lookup("o1")
	if !ok {
		t.Fatal("Lookup should find registered order")
	}
	if loc.side != SideBuy || loc.price != 10000 {
		t.Errorf("Unexpected location: %+v", loc)
	}

	idx.Unregister("o1")
	if _, ok := idx.Lookup("o1"); ok {
		t.Error("Lookup should miss after Unregister")
	}
	if idx.Len() != 0 {
		t.Errorf("Index should be empty, got: %d", idx.Len())
	}
}

func TestOrderIndexDuplicateRegister(t *testing.T) {
	idx := NewOrderIndex()

	if err := idx.Register("o1", SideBuy, 10000, makeHandle(0, 1)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	err := idx.Register("o1", SideSell, 10100, makeHandle(1, 1))
	if _, ok := err.(*DuplicateOrderIDError); !ok {
		t.Errorf("Expected DuplicateOrderIDError, got: %v", err)
	}

	// the original registration must win
	loc, _ := idx.Lookup("o1")
	if loc.side != SideBuy {
		t.Errorf("Original location should be untouched, got: %+v", loc)
	}
}
