package engine

import "time"

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Opposite returns the contra side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

type OrderType string

const (
	TypeLimit  OrderType = "LIMIT"
	TypeMarket OrderType = "MARKET"
)

type OrderStatus string

const (
	StatusResting     OrderStatus = "RESTING"
	StatusPartialFill OrderStatus = "PARTIAL_FILL"
	StatusFilled      OrderStatus = "FILLED"
	StatusCancelled   OrderStatus = "CANCELLED"
)

// edge case: prices are int64 in minimum tick units (cents) to avoid
// floating-point comparison errors on financial data
type Order struct {
	ID        string
	Account   string
	Side      Side
	Type      OrderType
	Price     int64 // price in ticks, required for LIMIT, 0 for MARKET
	Quantity  int64 // original submitted quantity
	Remaining int64 // unfilled quantity, decreases only via fills
	Sequence  uint64
	Timestamp int64
}

func NewOrder(id string, side Side, orderType OrderType, price, quantity int64) Order {
	return Order{
		ID:        id,
		Side:      side,
		Type:      orderType,
		Price:     price,
		Quantity:  quantity,
		Remaining: quantity,
		Timestamp: time.Now().UnixMilli(),
	}
}

func (o *Order) FilledQuantity() int64 {
	return o.Quantity - o.Remaining
}

type Trade struct {
	TradeID     string
	Price       int64 // always the resting order's price
	Quantity    int64
	Timestamp   int64
	BuyOrderID  string
	SellOrderID string
}
