package engine

import "fmt"

// InvalidOrderError rejects an order before any book mutation.
type InvalidOrderError struct {
	Reason string
}

func (e *InvalidOrderError) Error() string {
	return "invalid order: " + e.Reason
}

// DuplicateOrderIDError rejects a submission whose id is already resting.
type DuplicateOrderIDError struct {
	ID string
}

func (e *DuplicateOrderIDError) Error() string {
	return "duplicate order id: " + e.ID
}

// OrderNotFoundError is returned by cancel and status lookups for unknown ids.
type OrderNotFoundError struct {
	ID string
}

func (e *OrderNotFoundError) Error() string {
	return "order not found: " + e.ID
}

// InvalidHandleError signals a pool handle referenced by an index that no
// longer resolves. This is an invariant violation, never an input error:
// the operation that hits it is aborted rather than continued on
// inconsistent state.
type InvalidHandleError struct {
	Handle Handle
}

func (e *InvalidHandleError) Error() string {
	return fmt.Sprintf("invalid order handle: %#x", uint64(e.Handle))
}

// edge case: market orders must execute completely or be rejected
type InsufficientLiquidityError struct {
	Requested int64
	Available int64
}

func (e *InsufficientLiquidityError) Error() string {
	return fmt.Sprintf("insufficient liquidity: requested %d, available %d", e.Requested, e.Available)
}
