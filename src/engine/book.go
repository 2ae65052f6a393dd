package engine

import (
	"time"

	"github.com/google/uuid"
)

// Book is the order book for a single instrument: two price indices, one
// order-id index, and a pool owning all resting order storage. It is not
// safe for concurrent use; Engine serializes access to it (single writer).
type Book struct {
	symbol  string
	pool    *OrderPool
	bids    *PriceIndex
	asks    *PriceIndex
	index   *OrderIndex
	lastSeq uint64
	stp     bool
}

type BookOption func(*Book)

// WithSelfTradePrevention makes an incoming order cancel its own account's
// resting orders (cancel-maker) instead of trading against them.
func WithSelfTradePrevention() BookOption {
	return func(b *Book) { b.stp = true }
}

func NewBook(symbol string, opts ...BookOption) *Book {
	b := &Book{
		symbol: symbol,
		pool:   NewOrderPool(1024),
		bids:   NewPriceIndex(SideBuy),
		asks:   NewPriceIndex(SideSell),
		index:  NewOrderIndex(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Book) Symbol() string {
	return b.symbol
}

type SubmitResult struct {
	OrderID           string
	Status            OrderStatus
	FilledQuantity    int64
	RemainingQuantity int64
	Trades            []Trade

	// resting orders cancelled by self-trade prevention during this submit
	SelfTradeCancels []string
}

// Submit admits one order: it crosses against the contra side first, then
// rests any limit remainder. Trade prices are always the resting order's
// price. On return either the order was rejected with no state change, or
// best bid < best ask holds again.
func (b *Book) Submit(order Order) (*SubmitResult, error) {
	if err := validate(&order); err != nil {
		return nil, err
	}
	if b.index.Has(order.ID) {
		return nil, &DuplicateOrderIDError{ID: order.ID}
	}

	// edge case: market orders execute completely or are rejected before
	// any fill happens
	if order.Type == TypeMarket {
		available := b.availableQty(order.Side.Opposite())
		if available < order.Quantity {
			return nil, &InsufficientLiquidityError{
				Requested: order.Quantity,
				Available: available,
			}
		}
	}

	if err := b.admitSequence(&order); err != nil {
		return nil, err
	}

	trades, stpCancels, err := b.cross(&order)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{
		OrderID:           order.ID,
		FilledQuantity:    order.FilledQuantity(),
		RemainingQuantity: order.Remaining,
		Trades:            trades,
		SelfTradeCancels:  stpCancels,
	}

	switch {
	case order.Remaining == 0:
		result.Status = StatusFilled
	case order.Type == TypeMarket:
		// remainder only possible when self-trade prevention consumed
		// pre-counted liquidity; a market order never rests
		result.Status = StatusPartialFill
	default:
		if err := b.rest(order); err != nil {
			return nil, err
		}
		if result.FilledQuantity > 0 {
			result.Status = StatusPartialFill
		} else {
			result.Status = StatusResting
		}
	}

	return result, nil
}

// Cancel removes a resting order in O(1) via the order index. A second
// cancel of the same id returns OrderNotFoundError with no state change.
func (b *Book) Cancel(id string) error {
	loc, ok := b.index.Lookup(id)
	if !ok {
		return &OrderNotFoundError{ID: id}
	}

	side := b.sideIndex(loc.side)
	lvl := side.Level(loc.price)
	if lvl == nil {
		return &InvalidHandleError{Handle: loc.handle}
	}
	return b.removeResting(side, lvl, loc.handle, id)
}

// BestBidAsk is a read-only snapshot of the top of book.
func (b *Book) BestBidAsk() (bid, ask int64, hasBid, hasAsk bool) {
	if lvl := b.bids.Best(); lvl != nil {
		bid, hasBid = lvl.Price, true
	}
	if lvl := b.asks.Best(); lvl != nil {
		ask, hasAsk = lvl.Price, true
	}
	return bid, ask, hasBid, hasAsk
}

type LevelSnapshot struct {
	Price    int64
	Quantity int64
	Orders   int
}

// Depth returns up to depth aggregated levels per side, best-first.
func (b *Book) Depth(depth int) (bids, asks []LevelSnapshot) {
	bids = collectLevels(b.bids, depth)
	asks = collectLevels(b.asks, depth)
	return bids, asks
}

// LookupOrder returns a copy of a resting order's current state.
func (b *Book) LookupOrder(id string) (Order, error) {
	loc, ok := b.index.Lookup(id)
	if !ok {
		return Order{}, &OrderNotFoundError{ID: id}
	}
	o, err := b.pool.Get(loc.handle)
	if err != nil {
		return Order{}, err
	}
	return *o, nil
}

// OpenOrders reports the number of resting orders.
func (b *Book) OpenOrders() int {
	return b.index.Len()
}

func (b *Book) cross(incoming *Order) (trades []Trade, stpCancels []string, err error) {
	contra := b.sideIndex(incoming.Side.Opposite())

	for incoming.Remaining > 0 {
		lvl := contra.Best()
		if lvl == nil || !crosses(incoming, lvl.Price) {
			break
		}

		h, ok := lvl.Head()
		if !ok {
			// an empty level must never be reachable from the index
			return trades, stpCancels, &InvalidHandleError{Handle: NilHandle}
		}
		resting, err := b.pool.Get(h)
		if err != nil {
			return trades, stpCancels, err
		}

		if b.stp && incoming.Account != "" && resting.Account == incoming.Account {
			id := resting.ID
			if err := b.removeResting(contra, lvl, h, id); err != nil {
				return trades, stpCancels, err
			}
			stpCancels = append(stpCancels, id)
			continue
		}

		fill := incoming.Remaining
		if resting.Remaining < fill {
			fill = resting.Remaining
		}
		incoming.Remaining -= fill
		resting.Remaining -= fill
		lvl.reduceQty(fill)
		trades = append(trades, newTrade(incoming, resting, lvl.Price, fill))

		if resting.Remaining == 0 {
			if err := b.removeResting(contra, lvl, h, resting.ID); err != nil {
				return trades, stpCancels, err
			}
		}
	}

	return trades, stpCancels, nil
}

func (b *Book) rest(order Order) error {
	side := b.sideIndex(order.Side)
	lvl := side.GetOrCreate(order.Price)
	h := b.pool.Allocate(order)
	if err := lvl.PushTail(b.pool, h); err != nil {
		return err
	}
	return b.index.Register(order.ID, order.Side, order.Price, h)
}

func (b *Book) removeResting(side *PriceIndex, lvl *PriceLevelQueue, h Handle, id string) error {
	empty, err := lvl.Remove(b.pool, h)
	if err != nil {
		return err
	}
	if empty {
		side.RemoveLevel(lvl.Price)
	}
	b.index.Unregister(id)
	return b.pool.Free(h)
}

func (b *Book) sideIndex(side Side) *PriceIndex {
	if side == SideBuy {
		return b.bids
	}
	return b.asks
}

// admitSequence stamps the arrival counter. Sequence 0 means engine
// assigned; a caller-supplied sequence must strictly increase, replay of
// an old sequence is rejected before any mutation.
func (b *Book) admitSequence(order *Order) error {
	if order.Sequence == 0 {
		b.lastSeq++
		order.Sequence = b.lastSeq
		return nil
	}
	if order.Sequence <= b.lastSeq {
		return &InvalidOrderError{Reason: "sequence must be strictly increasing"}
	}
	b.lastSeq = order.Sequence
	return nil
}

func (b *Book) availableQty(side Side) int64 {
	var total int64
	b.sideIndex(side).Ascend(func(lvl *PriceLevelQueue) bool {
		total += lvl.TotalQty()
		return true
	})
	return total
}

func crosses(incoming *Order, contraPrice int64) bool {
	if incoming.Type == TypeMarket {
		return true
	}
	if incoming.Side == SideBuy {
		return incoming.Price >= contraPrice
	}
	return incoming.Price <= contraPrice
}

func validate(order *Order) error {
	if order.ID == "" {
		return &InvalidOrderError{Reason: "id is required"}
	}
	if order.Side != SideBuy && order.Side != SideSell {
		return &InvalidOrderError{Reason: "side must be BUY or SELL"}
	}
	if order.Type != TypeLimit && order.Type != TypeMarket {
		return &InvalidOrderError{Reason: "type must be LIMIT or MARKET"}
	}
	if order.Quantity <= 0 {
		return &InvalidOrderError{Reason: "quantity must be positive"}
	}
	if order.Remaining != order.Quantity {
		return &InvalidOrderError{Reason: "remaining must equal quantity on submit"}
	}
	// edge case: price required for limit orders, ignored for market orders
	if order.Type == TypeLimit && order.Price <= 0 {
		return &InvalidOrderError{Reason: "price must be positive for LIMIT orders"}
	}
	if order.Type == TypeMarket {
		order.Price = 0
	}
	return nil
}

func newTrade(incoming, resting *Order, price, qty int64) Trade {
	t := Trade{
		TradeID:   uuid.New().String(),
		Price:     price,
		Quantity:  qty,
		Timestamp: time.Now().UnixMilli(),
	}
	if incoming.Side == SideBuy {
		t.BuyOrderID = incoming.ID
		t.SellOrderID = resting.ID
	} else {
		t.BuyOrderID = resting.ID
		t.SellOrderID = incoming.ID
	}
	return t
}

func collectLevels(pi *PriceIndex, depth int) []LevelSnapshot {
	out := make([]LevelSnapshot, 0, depth)
	pi.Ascend(func(lvl *PriceLevelQueue) bool {
		if len(out) >= depth {
			return false
		}
		out = append(out, LevelSnapshot{
			Price:    lvl.Price,
			Quantity: lvl.TotalQty(),
			Orders:   lvl.Len(),
		})
		return true
	})
	return out
}
