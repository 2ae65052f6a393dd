package models

type SubmitOrderRequest struct {
	Symbol   string `json:"symbol"`
	Side     string `json:"side"`
	Type     string `json:"type"`
	Price    int64  `json:"price"` // price in ticks, required for LIMIT, 0 for MARKET
	Quantity int64  `json:"quantity"`
	Account  string `json:"account,omitempty"`
}

type SubmitOrderResponse struct {
	OrderID           string      `json:"order_id"`
	Status            string      `json:"status"`
	Message           string      `json:"message,omitempty"`
	FilledQuantity    int64       `json:"filled_quantity"`
	RemainingQuantity int64       `json:"remaining_quantity"`
	Trades            []TradeInfo `json:"trades,omitempty"`
	CancelledOrderIDs []string    `json:"cancelled_order_ids,omitempty"` // self-trade prevention
}

type TradeInfo struct {
	TradeID     string `json:"trade_id"`
	Price       int64  `json:"price"` // price in ticks
	Quantity    int64  `json:"quantity"`
	Timestamp   int64  `json:"timestamp"` // unix timestamp in milliseconds
	BuyOrderID  string `json:"buy_order_id"`
	SellOrderID string `json:"sell_order_id"`
}

type CancelOrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type BestBidAskResponse struct {
	Symbol string `json:"symbol"`
	Bid    *int64 `json:"bid"` // null when the side is empty
	Ask    *int64 `json:"ask"`
}

type OrderBookResponse struct {
	Symbol    string           `json:"symbol"`
	Timestamp int64            `json:"timestamp"` // unix timestamp in milliseconds
	Bids      []PriceLevelInfo `json:"bids"`      // sorted descending (highest first)
	Asks      []PriceLevelInfo `json:"asks"`      // sorted ascending (lowest first)
}

type PriceLevelInfo struct {
	Price    int64 `json:"price"`    // price in ticks
	Quantity int64 `json:"quantity"` // aggregated quantity at this price
	Orders   int   `json:"orders"`   // resting order count at this price
}

type OrderStatusResponse struct {
	OrderID           string `json:"order_id"`
	Symbol            string `json:"symbol"`
	Side              string `json:"side"`
	Type              string `json:"type"`
	Price             int64  `json:"price"` // price in ticks
	Quantity          int64  `json:"quantity"`
	RemainingQuantity int64  `json:"remaining_quantity"`
	Sequence          uint64 `json:"sequence"`
	Timestamp         int64  `json:"timestamp"` // unix timestamp in milliseconds
}

type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Symbols       int    `json:"symbols"`
}

type MetricsResponse struct {
	OrdersReceived         int64   `json:"orders_received"`
	OrdersMatched          int64   `json:"orders_matched"`
	OrdersCancelled        int64   `json:"orders_cancelled"`
	OrdersRejected         int64   `json:"orders_rejected"`
	TradesExecuted         int64   `json:"trades_executed"`
	LatencyP50Ms           float64 `json:"latency_p50_ms"`
	LatencyP99Ms           float64 `json:"latency_p99_ms"`
	LatencyP999Ms          float64 `json:"latency_p999_ms"`
	ThroughputOrdersPerSec float64 `json:"throughput_orders_per_sec"`
}
