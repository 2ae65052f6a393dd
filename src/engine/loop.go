package engine

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// BBO is the published top-of-book snapshot.
type BBO struct {
	Bid    int64
	Ask    int64
	HasBid bool
	HasAsk bool
}

// Engine wraps one Book behind a single-writer loop. All mutations flow
// through the command channel and execute on the Run goroutine, so the
// book itself needs no locking. Top of book is republished through an
// atomic pointer after every mutation for lock-free reads.
type Engine struct {
	book *Book
	cmds chan command
	done chan struct{}
	bbo  atomic.Pointer[BBO]
	log  zerolog.Logger
}

func NewEngine(book *Book, buffer int, log zerolog.Logger) *Engine {
	e := &Engine{
		book: book,
		cmds: make(chan command, buffer),
		done: make(chan struct{}),
		log:  log.With().Str("symbol", book.Symbol()).Logger(),
	}
	e.bbo.Store(&BBO{})
	return e
}

func (e *Engine) Symbol() string {
	return e.book.Symbol()
}

// Run consumes commands until ctx is cancelled. It is the only goroutine
// allowed to touch the book.
func (e *Engine) Run(ctx context.Context) {
	defer close(e.done)

	for {
		select {
		case cmd := <-e.cmds:
			e.dispatch(cmd)
		case <-ctx.Done():
			e.log.Info().Msg("Engine loop stopped")
			return
		}
	}
}

// Done is closed when the loop has exited.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

func (e *Engine) dispatch(cmd command) {
	var resp response

	switch cmd.kind {
	case cmdSubmit:
		resp.result, resp.err = e.book.Submit(cmd.order)
		e.publishBBO()
	case cmdCancel:
		resp.err = e.book.Cancel(cmd.id)
		e.publishBBO()
	case cmdDepth:
		resp.bids, resp.asks = e.book.Depth(cmd.depth)
	case cmdLookup:
		resp.order, resp.err = e.book.LookupOrder(cmd.id)
	}

	// an invalid handle means the book's indices disagree with the pool;
	// surface it loudly, the operation was aborted
	if ihe, ok := resp.err.(*InvalidHandleError); ok {
		e.log.Error().
			Err(ihe).
			Msg("Book invariant violation, operation aborted")
	}

	cmd.resp <- resp
}

func (e *Engine) publishBBO() {
	bid, ask, hasBid, hasAsk := e.book.BestBidAsk()
	e.bbo.Store(&BBO{Bid: bid, Ask: ask, HasBid: hasBid, HasAsk: hasAsk})
}

// Submit routes one order through the writer loop and waits for the result.
func (e *Engine) Submit(ctx context.Context, order Order) (*SubmitResult, error) {
	resp, err := e.roundTrip(ctx, command{kind: cmdSubmit, order: order})
	if err != nil {
		return nil, err
	}
	return resp.result, resp.err
}

// Cancel removes a resting order through the writer loop.
func (e *Engine) Cancel(ctx context.Context, id string) error {
	resp, err := e.roundTrip(ctx, command{kind: cmdCancel, id: id})
	if err != nil {
		return err
	}
	return resp.err
}

// Depth returns aggregated levels per side, served by the writer so the
// view is always consistent.
func (e *Engine) Depth(ctx context.Context, depth int) (bids, asks []LevelSnapshot, err error) {
	resp, err := e.roundTrip(ctx, command{kind: cmdDepth, depth: depth})
	if err != nil {
		return nil, nil, err
	}
	return resp.bids, resp.asks, resp.err
}

// Lookup returns the current state of a resting order.
func (e *Engine) Lookup(ctx context.Context, id string) (Order, error) {
	resp, err := e.roundTrip(ctx, command{kind: cmdLookup, id: id})
	if err != nil {
		return Order{}, err
	}
	return resp.order, resp.err
}

// BestBidAsk reads the snapshot last published by the writer. It never
// blocks and never touches book state.
func (e *Engine) BestBidAsk() BBO {
	return *e.bbo.Load()
}

func (e *Engine) roundTrip(ctx context.Context, cmd command) (response, error) {
	cmd.resp = make(chan response, 1)

	select {
	case e.cmds <- cmd:
	case <-e.done:
		return response{}, context.Canceled
	case <-ctx.Done():
		return response{}, ctx.Err()
	}

	select {
	case resp := <-cmd.resp:
		return resp, nil
	case <-e.done:
		return response{}, context.Canceled
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
}
