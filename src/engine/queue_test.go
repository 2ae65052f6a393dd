package engine

import "testing"

func mustAllocate(t *testing.T, pool *OrderPool, q *PriceLevelQueue, id string, qty int64) Handle {
	t.Helper()
	h := pool.Allocate(NewOrder(id, SideBuy, TypeLimit, q.Price, qty))
	if err := q.PushTail(pool, h); err != nil {
		t.Fatalf("PushTail(%s) failed: %v", id, err)
	}
	return h
}

func queueIDs(t *testing.T, pool *OrderPool, q *PriceLevelQueue) []string {
	t.Helper()
	var ids []string
	err := q.Walk(pool, func(_ Handle, o *Order) bool {
		ids = append(ids, o.ID)
		return true
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	return ids
}

func TestQueueFIFOOrder(t *testing.T) {
	pool := NewOrderPool(8)
	q := NewPriceLevelQueue(10000)

	mustAllocate(t, pool, q, "a", 10)
	mustAllocate(t, pool, q, "b", 20)
	mustAllocate(t, pool, q, "c", 30)

	ids := queueIDs(t, pool, q)
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("Expected arrival order [a b c], got: %v", ids)
	}
	if q.TotalQty() != 60 {
		t.Errorf("Expected total quantity 60, got: %d", q.TotalQty())
	}

	h, ok := q.Head()
	if !ok {
		t.Fatal("Queue should have a head")
	}
	o, err := pool.Get(h)
	if err != nil {
		t.Fatalf("Get head failed: %v", err)
	}
	if o.ID != "a" {
		t.Errorf("Head should be oldest order a, got: %s", o.ID)
	}
}

func TestQueueRemoveMiddleRelinks(t *testing.T) {
	pool := NewOrderPool(8)
	q := NewPriceLevelQueue(10000)

	mustAllocate(t, pool, q, "a", 10)
	hb := mustAllocate(t, pool, q, "b", 20)
	mustAllocate(t, pool, q, "c", 30)

	empty, err := q.Remove(pool, hb)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if empty {
		t.Error("Queue should not be empty after removing one of three")
	}

	ids := queueIDs(t, pool, q)
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "c" {
		t.Errorf("Expected [a c] after removing b, got: %v", ids)
	}
	if q.TotalQty() != 40 {
		t.Errorf("Expected total quantity 40, got: %d", q.TotalQty())
	}
}

func TestQueueRemoveHeadAndTail(t *testing.T) {
	pool := NewOrderPool(8)
	q := NewPriceLevelQueue(10000)

	ha := mustAllocate(t, pool, q, "a", 10)
	mustAllocate(t, pool, q, "b", 20)
	hc := mustAllocate(t, pool, q, "c", 30)

	if _, err := q.Remove(pool, ha); err != nil {
		t.Fatalf("Remove head failed: %v", err)
	}
	if _, err := q.Remove(pool, hc); err != nil {
		t.Fatalf("Remove tail failed: %v", err)
	}

	ids := queueIDs(t, pool, q)
	if len(ids) != 1 || ids[0] != "b" {
		t.Errorf("Expected [b], got: %v", ids)
	}

	h, _ := q.Head()
	o, err := pool.Get(h)
	if err != nil {
		t.Fatalf("Get head failed: %v", err)
	}
	if o.ID != "b" {
		t.Errorf("Head should be b, got: %s", o.ID)
	}
}

func TestQueueEmptySignal(t *testing.T) {
	pool := NewOrderPool(2)
	q := NewPriceLevelQueue(10000)

	h := mustAllocate(t, pool, q, "a", 10)

	empty, err := q.Remove(pool, h)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !empty {
		t.Error("Removing the only order should report emptiness")
	}
	if _, ok := q.Head(); ok {
		t.Error("Empty queue should have no head")
	}
	if q.Len() != 0 || q.TotalQty() != 0 {
		t.Errorf("Empty queue should have zero size and quantity, got len=%d qty=%d", q.Len(), q.TotalQty())
	}
}
