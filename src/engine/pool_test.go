package engine

import "testing"

func TestPoolAllocateAndGet(t *testing.T) {
	pool := NewOrderPool(4)

	order := NewOrder("o1", SideBuy, TypeLimit, 10000, 100)
	h := pool.Allocate(order)

	got, err := pool.Get(h)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != "o1" || got.Price != 10000 || got.Remaining != 100 {
		t.Errorf("Unexpected order in slot: %+v", got)
	}
	if pool.Live() != 1 {
		t.Errorf("Expected 1 live slot, got: %d", pool.Live())
	}
}

func TestPoolStaleHandleAfterFree(t *testing.T) {
	pool := NewOrderPool(4)

	h := pool.Allocate(NewOrder("o1", SideBuy, TypeLimit, 10000, 100))
	if err := pool.Free(h); err != nil {
		t.Fatalf("Free failed: %v", err)
	}

	if _, err := pool.Get(h); err == nil {
		t.Fatal("Get on freed handle should fail")
	} else if _, ok := err.(*InvalidHandleError); !ok {
		t.Errorf("Expected InvalidHandleError, got: %v", err)
	}

	// double free must also be rejected
	if err := pool.Free(h); err == nil {
		t.Error("Second Free on same handle should fail")
	}
}

func TestPoolSlotReuseDoesNotAlias(t *testing.T) {
	pool := NewOrderPool(1)

	h1 := pool.Allocate(NewOrder("o1", SideBuy, TypeLimit, 10000, 100))
	if err := pool.Free(h1); err != nil {
		t.Fatalf("Free failed: %v", err)
	}

	h2 := pool.Allocate(NewOrder("o2", SideSell, TypeLimit, 10100, 50))
	if h1 == h2 {
		t.Fatal("Freed handle must not be reissued for a new order")
	}

	// stale handle stays invalid even though the slot is live again
	if _, err := pool.Get(h1); err == nil {
		t.Error("Stale handle should not resolve to the reused slot")
	}

	got, err := pool.Get(h2)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != "o2" {
		t.Errorf("Expected order o2, got: %s", got.ID)
	}
}

func TestPoolZeroHandleNeverResolves(t *testing.T) {
	pool := NewOrderPool(4)
	pool.Allocate(NewOrder("o1", SideBuy, TypeLimit, 10000, 100))

	if _, err := pool.Get(NilHandle); err == nil {
		t.Error("NilHandle should never resolve")
	}
}

func TestPoolOutOfRangeHandle(t *testing.T) {
	pool := NewOrderPool(0)

	if _, err := pool.Get(makeHandle(42, 1)); err == nil {
		t.Error("Out-of-range handle should fail")
	}
}
