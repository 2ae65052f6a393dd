package handlers

import (
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lob-engine/src/engine"
	"lob-engine/src/models"
)

// OrderHandler is the order-entry collaborator: it validates submissions
// and serializes them into the per-symbol single-writer engines.
type OrderHandler struct {
	Router          *engine.Router
	StartTime       time.Time
	OrdersReceived  int64
	OrdersMatched   int64
	OrdersCancelled int64
	OrdersRejected  int64
	TradesExecuted  int64

	latencies    []time.Duration
	latenciesMu  sync.RWMutex
	maxLatencies int
}

func NewOrderHandler(router *engine.Router) *OrderHandler {
	maxLatencies := 10000
	if envMax := os.Getenv("METRICS_MAX_LATENCIES"); envMax != "" {
		if parsed, err := strconv.Atoi(envMax); err == nil && parsed > 0 {
			maxLatencies = parsed
		}
	}

	return &OrderHandler{
		Router:       router,
		StartTime:    time.Now(),
		latencies:    make([]time.Duration, 0, maxLatencies),
		maxLatencies: maxLatencies,
	}
}

func (h *OrderHandler) SubmitOrder(c *fiber.Ctx) error {
	var req models.SubmitOrderRequest

	if err := c.BodyParser(&req); err != nil {
		log.Warn().
			Err(err).
			Str("ip", c.IP()).
			Str("path", c.Path()).
			Msg("Invalid request: malformed JSON")
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request: malformed JSON",
		})
	}

	if req.Symbol == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid order: symbol is required",
		})
	}

	order := engine.NewOrder(uuid.New().String(), engine.Side(req.Side), engine.OrderType(req.Type), req.Price, req.Quantity)
	order.Account = req.Account

	atomic.AddInt64(&h.OrdersReceived, 1)

	log.Info().
		Str("order_id", order.ID).
		Str("symbol", req.Symbol).
		Str("side", req.Side).
		Str("type", req.Type).
		Int64("price", req.Price).
		Int64("quantity", req.Quantity).
		Str("ip", c.IP()).
		Msg("Order submitted")

	startTime := time.Now()
	result, err := h.Router.Get(req.Symbol).Submit(c.UserContext(), order)
	h.recordLatency(time.Since(startTime))

	if err != nil {
		atomic.AddInt64(&h.OrdersRejected, 1)
		return h.submitError(c, order.ID, req.Symbol, err)
	}

	trades := make([]models.TradeInfo, 0, len(result.Trades))
	for _, trade := range result.Trades {
		trades = append(trades, models.TradeInfo{
			TradeID:     trade.TradeID,
			Price:       trade.Price,
			Quantity:    trade.Quantity,
			Timestamp:   trade.Timestamp,
			BuyOrderID:  trade.BuyOrderID,
			SellOrderID: trade.SellOrderID,
		})
	}

	response := models.SubmitOrderResponse{
		OrderID:           result.OrderID,
		Status:            string(result.Status),
		FilledQuantity:    result.FilledQuantity,
		RemainingQuantity: result.RemainingQuantity,
		Trades:            trades,
		CancelledOrderIDs: result.SelfTradeCancels,
	}

	if len(trades) > 0 {
		atomic.AddInt64(&h.OrdersMatched, 1)
		atomic.AddInt64(&h.TradesExecuted, int64(len(trades)))
	}

	log.Info().
		Str("order_id", result.OrderID).
		Str("status", string(result.Status)).
		Int64("filled_quantity", result.FilledQuantity).
		Int64("remaining_quantity", result.RemainingQuantity).
		Int("trades_count", len(result.Trades)).
		Msg("Order processed")

	switch result.Status {
	case engine.StatusResting:
		response.Message = "Order added to book"
		return c.Status(fiber.StatusCreated).JSON(response)
	case engine.StatusPartialFill:
		return c.Status(fiber.StatusAccepted).JSON(response)
	default:
		return c.Status(fiber.StatusOK).JSON(response)
	}
}

func (h *OrderHandler) submitError(c *fiber.Ctx, orderID, symbol string, err error) error {
	switch e := err.(type) {
	case *engine.InvalidOrderError:
		log.Warn().
			Str("order_id", orderID).
			Str("symbol", symbol).
			Str("reason", e.Reason).
			Msg("Order rejected: invalid")
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: e.Error()})
	case *engine.DuplicateOrderIDError:
		log.Warn().
			Str("order_id", orderID).
			Str("symbol", symbol).
			Msg("Order rejected: duplicate id")
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse{Error: e.Error()})
	case *engine.InsufficientLiquidityError:
		log.Warn().
			Str("order_id", orderID).
			Str("symbol", symbol).
			Int64("requested", e.Requested).
			Int64("available", e.Available).
			Msg("Insufficient liquidity for market order")
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: e.Error()})
	default:
		log.Error().
			Err(err).
			Str("order_id", orderID).
			Str("symbol", symbol).
			Msg("Error matching order")
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "Internal server error",
		})
	}
}

func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")

	// orders rest in exactly one engine; symbol is optional on the wire,
	// so fall back to asking every engine
	engines := h.enginesFor(c.Query("symbol"))

	for _, eng := range engines {
		err := eng.Cancel(c.UserContext(), orderID)
		if err == nil {
			atomic.AddInt64(&h.OrdersCancelled, 1)
			log.Info().
				Str("order_id", orderID).
				Str("symbol", eng.Symbol()).
				Str("ip", c.IP()).
				Msg("Order cancelled")
			return c.Status(fiber.StatusOK).JSON(models.CancelOrderResponse{
				OrderID: orderID,
				Status:  string(engine.StatusCancelled),
			})
		}
		if _, notFound := err.(*engine.OrderNotFoundError); notFound {
			continue
		}
		log.Error().
			Err(err).
			Str("order_id", orderID).
			Msg("Error cancelling order")
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "Internal server error",
		})
	}

	log.Warn().
		Str("order_id", orderID).
		Str("ip", c.IP()).
		Msg("Cancel order: order not found")
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: "Order not found",
	})
}

func (h *OrderHandler) GetOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")

	for symbol, eng := range h.enginesBySymbol(c.Query("symbol")) {
		order, err := eng.Lookup(c.UserContext(), orderID)
		if err != nil {
			continue
		}
		return c.Status(fiber.StatusOK).JSON(models.OrderStatusResponse{
			OrderID:           order.ID,
			Symbol:            symbol,
			Side:              string(order.Side),
			Type:              string(order.Type),
			Price:             order.Price,
			Quantity:          order.Quantity,
			RemainingQuantity: order.Remaining,
			Sequence:          order.Sequence,
			Timestamp:         order.Timestamp,
		})
	}

	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: "Order not found",
	})
}

func (h *OrderHandler) GetOrderBook(c *fiber.Ctx) error {
	symbol := c.Params("symbol")

	defaultDepth := 10
	if envDepth := os.Getenv("ORDERBOOK_DEFAULT_DEPTH"); envDepth != "" {
		if parsed, err := strconv.Atoi(envDepth); err == nil && parsed > 0 {
			defaultDepth = parsed
		}
	}

	maxDepth := 1000
	if envMaxDepth := os.Getenv("ORDERBOOK_MAX_DEPTH"); envMaxDepth != "" {
		if parsed, err := strconv.Atoi(envMaxDepth); err == nil && parsed > 0 {
			maxDepth = parsed
		}
	}

	depth, err := strconv.Atoi(c.Query("depth", strconv.Itoa(defaultDepth)))
	if err != nil || depth <= 0 {
		depth = defaultDepth
	}

	// edge case: enforce maximum depth limit
	if depth > maxDepth {
		depth = maxDepth
	}

	bidsLevels, asksLevels, err := h.Router.Get(symbol).Depth(c.UserContext(), depth)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(models.OrderBookResponse{
		Symbol:    symbol,
		Timestamp: time.Now().UnixMilli(),
		Bids:      toLevelInfo(bidsLevels),
		Asks:      toLevelInfo(asksLevels),
	})
}

func (h *OrderHandler) GetBestBidAsk(c *fiber.Ctx) error {
	symbol := c.Params("symbol")

	// lock-free snapshot published by the writer loop
	bbo := h.Router.Get(symbol).BestBidAsk()

	resp := models.BestBidAskResponse{Symbol: symbol}
	if bbo.HasBid {
		bid := bbo.Bid
		resp.Bid = &bid
	}
	if bbo.HasAsk {
		ask := bbo.Ask
		resp.Ask = &ask
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *OrderHandler) HealthCheck(c *fiber.Ctx) error {
	uptime := time.Since(h.StartTime).Seconds()

	return c.Status(fiber.StatusOK).JSON(models.HealthResponse{
		Status:        "healthy",
		UptimeSeconds: int64(uptime),
		Symbols:       len(h.Router.Snapshot()),
	})
}

func (h *OrderHandler) Metrics(c *fiber.Ctx) error {
	p50, p99, p999 := h.calculateLatencyPercentiles()

	return c.Status(fiber.StatusOK).JSON(models.MetricsResponse{
		OrdersReceived:         atomic.LoadInt64(&h.OrdersReceived),
		OrdersMatched:          atomic.LoadInt64(&h.OrdersMatched),
		OrdersCancelled:        atomic.LoadInt64(&h.OrdersCancelled),
		OrdersRejected:         atomic.LoadInt64(&h.OrdersRejected),
		TradesExecuted:         atomic.LoadInt64(&h.TradesExecuted),
		LatencyP50Ms:           p50,
		LatencyP99Ms:           p99,
		LatencyP999Ms:          p999,
		ThroughputOrdersPerSec: h.calculateThroughput(),
	})
}

func (h *OrderHandler) enginesFor(symbol string) []*engine.Engine {
	if symbol != "" {
		return []*engine.Engine{h.Router.Get(symbol)}
	}
	snapshot := h.Router.Snapshot()
	engines := make([]*engine.Engine, 0, len(snapshot))
	for _, eng := range snapshot {
		engines = append(engines, eng)
	}
	return engines
}

func (h *OrderHandler) enginesBySymbol(symbol string) map[string]*engine.Engine {
	if symbol != "" {
		return map[string]*engine.Engine{symbol: h.Router.Get(symbol)}
	}
	return h.Router.Snapshot()
}

func (h *OrderHandler) recordLatency(latency time.Duration) {
	h.latenciesMu.Lock()
	defer h.latenciesMu.Unlock()

	h.latencies = append(h.latencies, latency)

	// edge case: maintain rolling window by removing oldest measurements
	if len(h.latencies) > h.maxLatencies {
		h.latencies = h.latencies[len(h.latencies)-h.maxLatencies:]
	}
}

func (h *OrderHandler) calculateLatencyPercentiles() (p50, p99, p999 float64) {
	h.latenciesMu.RLock()
	defer h.latenciesMu.RUnlock()

	if len(h.latencies) == 0 {
		return 0, 0, 0
	}

	sorted := make([]time.Duration, len(h.latencies))
	copy(sorted, h.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	at := func(q float64) float64 {
		idx := int(float64(len(sorted)) * q)
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		return float64(sorted[idx].Nanoseconds()) / 1e6
	}

	return at(0.50), at(0.99), at(0.999)
}

func (h *OrderHandler) calculateThroughput() float64 {
	uptime := time.Since(h.StartTime).Seconds()
	if uptime <= 0 {
		return 0
	}
	return float64(atomic.LoadInt64(&h.OrdersReceived)) / uptime
}

func toLevelInfo(levels []engine.LevelSnapshot) []models.PriceLevelInfo {
	out := make([]models.PriceLevelInfo, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, models.PriceLevelInfo{
			Price:    lvl.Price,
			Quantity: lvl.Quantity,
			Orders:   lvl.Orders,
		})
	}
	return out
}
