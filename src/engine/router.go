package engine

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const defaultCommandBuffer = 1024

// Router owns one Engine per instrument. Each engine runs its own writer
// goroutine; the router only creates, finds, and shuts them down.
type Router struct {
	engines map[string]*Engine
	mu      sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	buffer int
	log    zerolog.Logger
	opts   []BookOption
}

func NewRouter(log zerolog.Logger, opts ...BookOption) *Router {
	ctx, cancel := context.WithCancel(context.Background())
	return &Router{
		engines: make(map[string]*Engine),
		ctx:     ctx,
		cancel:  cancel,
		buffer:  defaultCommandBuffer,
		log:     log,
		opts:    opts,
	}
}

// Get returns the engine for symbol, starting one if needed.
func (r *Router) Get(symbol string) *Engine {
	r.mu.RLock()
	if e, exists := r.engines[symbol]; exists {
		r.mu.RUnlock()
		return e
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// edge case: double-check after acquiring write lock
	if e, exists := r.engines[symbol]; exists {
		return e
	}

	e := NewEngine(NewBook(symbol, r.opts...), r.buffer, r.log)
	r.engines[symbol] = e
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		e.Run(r.ctx)
	}()

	r.log.Info().Str("symbol", symbol).Msg("Engine started")
	return e
}

// Snapshot returns the current set of engines.
func (r *Router) Snapshot() map[string]*Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[string]*Engine, len(r.engines))
	for k, v := range r.engines {
		snapshot[k] = v
	}
	return snapshot
}

// Shutdown stops every engine loop and waits for them to drain.
func (r *Router) Shutdown() {
	r.cancel()
	r.wg.Wait()
}
