// Package signal turns SIGINT and SIGTERM into context cancellation so a
// running init can roll back its partial archive and fresh target before
// the process exits.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ExitCodeInterrupted is the conventional exit status after SIGINT.
const ExitCodeInterrupted = 130

// Handler cancels its context on the first SIGINT or SIGTERM.
type Handler struct {
	ctx         context.Context //nolint:containedctx // handler owns the context lifecycle
	cancel      context.CancelFunc
	interrupted chan struct{}
	done        chan struct{}
	once        sync.Once
	stopOnce    sync.Once
	sigChan     chan os.Signal

	mu       sync.Mutex
	received os.Signal
}

// NewHandler starts listening for interrupts. Callers must Stop it.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	err := pipeline.Run(h.Context())
//	if h.Received() != nil { ... }
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		// Buffered so signal.Notify never drops a signal while we are busy.
		sigChan: make(chan os.Signal, 1),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context is canceled when an interrupt arrives or Stop is called.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted closes when the first interrupt arrives.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Received returns the first signal received, or nil.
func (h *Handler) Received() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}

// Stop releases the signal subscription and cancels the context.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

func (h *Handler) handleSignal(sig os.Signal) {
	h.once.Do(func() {
		h.mu.Lock()
		h.received = sig
		h.mu.Unlock()
		h.cancel()
		close(h.interrupted)
	})
}

// listen keeps draining sigChan after the first signal so repeated Ctrl+C
// never blocks delivery; only the first one has an effect.
func (h *Handler) listen() {
	for {
		select {
		case <-h.done:
			return
		case sig := <-h.sigChan:
			h.handleSignal(sig)
		}
	}
}
