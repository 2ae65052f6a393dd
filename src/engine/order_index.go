package engine

// location pins a resting order to its exact position in the book.
type location struct {
	side   Side
	price  int64
	handle Handle
}

// OrderIndex maps order ids to their book location so cancellation runs in
// O(1) without knowing the price in advance.
type OrderIndex struct {
	byID map[string]location
}

func NewOrderIndex() *OrderIndex {
	return &OrderIndex{
		byID: make(map[string]location),
	}
}

func (oi *OrderIndex) Register(id string, side Side, price int64, h Handle) error {
	if _, exists := oi.byID[id]; exists {
		return &DuplicateOrderIDError{ID: id}
	}
	oi.byID[id] = location{side: side, price: price, handle: h}
	return nil
}

func (oi *OrderIndex) Lookup(id string) (location, bool) {
	loc, ok := oi.byID[id]
	return loc, ok
}

func (oi *OrderIndex) Has(id string) bool {
	_, ok := oi.byID[id]
	return ok
}

func (oi *OrderIndex) Unregister(id string) {
	delete(oi.byID, id)
}

func (oi *OrderIndex) Len() int {
	return len(oi.byID)
}
