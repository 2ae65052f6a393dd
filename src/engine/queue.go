package engine

// PriceLevelQueue keeps strict arrival order for all orders resting at one
// price. The FIFO is intrusive: prev/next links live inside the pool slots,
// so removal by handle relinks neighbors in O(1) with no scanning.
type PriceLevelQueue struct {
	Price    int64
	head     Handle
	tail     Handle
	size     int
	totalQty int64
}

func NewPriceLevelQueue(price int64) *PriceLevelQueue {
	return &PriceLevelQueue{
		Price: price,
		head:  NilHandle,
		tail:  NilHandle,
	}
}

// PushTail appends the order at the back of the queue, establishing its
// time priority at this price.
func (q *PriceLevelQueue) PushTail(pool *OrderPool, h Handle) error {
	s, err := pool.slot(h)
	if err != nil {
		return err
	}

	s.prev = q.tail
	s.next = NilHandle

	if q.tail != NilHandle {
		t, err := pool.slot(q.tail)
		if err != nil {
			return err
		}
		t.next = h
	} else {
		q.head = h
	}
	q.tail = h
	q.size++
	q.totalQty += s.order.Remaining
	return nil
}

// Remove unlinks the order from the queue. Returns true when the queue
// became empty, in which case the caller must drop the level from its
// price index.
func (q *PriceLevelQueue) Remove(pool *OrderPool, h Handle) (empty bool, err error) {
	s, err := pool.slot(h)
	if err != nil {
		return false, err
	}

	if s.prev != NilHandle {
		p, err := pool.slot(s.prev)
		if err != nil {
			return false, err
		}
		p.next = s.next
	} else {
		q.head = s.next
	}

	if s.next != NilHandle {
		n, err := pool.slot(s.next)
		if err != nil {
			return false, err
		}
		n.prev = s.prev
	} else {
		q.tail = s.prev
	}

	s.prev = NilHandle
	s.next = NilHandle
	q.size--
	q.totalQty -= s.order.Remaining
	return q.size == 0, nil
}

// Head returns the oldest order at this price, the next to fill.
func (q *PriceLevelQueue) Head() (Handle, bool) {
	if q.head == NilHandle {
		return NilHandle, false
	}
	return q.head, true
}

func (q *PriceLevelQueue) Len() int {
	return q.size
}

// TotalQty is the aggregate remaining quantity resting at this price.
func (q *PriceLevelQueue) TotalQty() int64 {
	return q.totalQty
}

// reduceQty keeps the aggregate in step with a partial fill of one order.
func (q *PriceLevelQueue) reduceQty(qty int64) {
	q.totalQty -= qty
}

// Walk visits handles in arrival order; fn returning false stops the walk.
func (q *PriceLevelQueue) Walk(pool *OrderPool, fn func(h Handle, o *Order) bool) error {
	for h := q.head; h != NilHandle; {
		s, err := pool.slot(h)
		if err != nil {
			return err
		}
		next := s.next
		if !fn(h, &s.order) {
			return nil
		}
		h = next
	}
	return nil
}
