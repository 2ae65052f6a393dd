package engine

// Handle is a stable reference to a pooled order slot. It packs the slot
// index in the low 32 bits and a generation counter in the high 32 bits;
// the generation is bumped on every free so a handle kept past Free is
// detected instead of silently aliasing a reused slot.
//
// Generations start at 1, so the zero Handle never resolves and doubles
// as the nil link in queue wiring.
type Handle uint64

const NilHandle Handle = 0

func makeHandle(idx, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(idx))
}

func (h Handle) index() uint32 {
	return uint32(h)
}

func (h Handle) generation() uint32 {
	return uint32(h >> 32)
}

type slot struct {
	order Order
	gen   uint32
	live  bool

	// intrusive FIFO links managed by PriceLevelQueue
	prev Handle
	next Handle
}

// OrderPool owns all resting order storage. Slots are addressed by Handle
// and relocated never, so queues and indices can hold references across
// arbitrary book mutations.
type OrderPool struct {
	slots []slot
	free  []uint32
	live  int
}

func NewOrderPool(capacityHint int) *OrderPool {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &OrderPool{
		slots: make([]slot, 0, capacityHint),
	}
}

// Allocate stores the order and returns its handle. A live handle is never
// reissued; freed slots are reused with a bumped generation.
func (p *OrderPool) Allocate(order Order) Handle {
	var idx uint32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		p.slots = append(p.slots, slot{})
		idx = uint32(len(p.slots) - 1)
	}

	s := &p.slots[idx]
	s.gen++
	s.live = true
	s.order = order
	s.prev = NilHandle
	s.next = NilHandle
	p.live++
	return makeHandle(idx, s.gen)
}

// Get resolves a handle to its order record.
func (p *OrderPool) Get(h Handle) (*Order, error) {
	s, err := p.slot(h)
	if err != nil {
		return nil, err
	}
	return &s.order, nil
}

// Free releases the slot for reuse. The caller must have removed the handle
// from every index first.
func (p *OrderPool) Free(h Handle) error {
	s, err := p.slot(h)
	if err != nil {
		return err
	}
	s.live = false
	s.order = Order{}
	s.prev = NilHandle
	s.next = NilHandle
	p.free = append(p.free, h.index())
	p.live--
	return nil
}

// Live reports the number of allocated slots.
func (p *OrderPool) Live() int {
	return p.live
}

func (p *OrderPool) slot(h Handle) (*slot, error) {
	idx := h.index()
	if uint64(idx) >= uint64(len(p.slots)) {
		return nil, &InvalidHandleError{Handle: h}
	}
	s := &p.slots[idx]
	if !s.live || s.gen != h.generation() {
		return nil, &InvalidHandleError{Handle: h}
	}
	return s, nil
}
