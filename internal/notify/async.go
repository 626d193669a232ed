package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"taste-haven/internal/model"

	"github.com/rs/zerolog"
)

const (
	DefaultQueueSize = 100
	DefaultTimeout   = 10 * time.Second
)

var (
	// ErrQueueFull is returned when an event is dropped because the worker is behind.
	ErrQueueFull = errors.New("notification queue is full")

	// ErrClosed is returned for events offered after Close.
	ErrClosed = errors.New("notifier is closed")
)

// Async hands events to a single background worker so OrderPlaced never
// waits on the network. Each delivery runs under its own context with a
// timeout, detached from the caller's request.
type Async struct {
	next    Notifier
	queue   chan *model.Order
	timeout time.Duration
	done    chan struct{}
	logger  zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewAsync starts a worker in front of next. Non-positive queueSize or
// timeout fall back to DefaultQueueSize and DefaultTimeout.
func NewAsync(next Notifier, queueSize int, timeout time.Duration, logger zerolog.Logger) *Async {
	if queueSize < 1 {
		queueSize = DefaultQueueSize
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	a := &Async{
		next:    next,
		queue:   make(chan *model.Order, queueSize),
		timeout: timeout,
		done:    make(chan struct{}),
		logger:  logger.With().Str("component", "notify-async").Logger(),
	}
	go a.run()
	return a
}

// OrderPlaced queues a copy of order and returns at once. The context is
// not used for delivery.
func (a *Async) OrderPlaced(_ context.Context, order *model.Order) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return ErrClosed
	}

	queued := *order
	select {
	case a.queue <- &queued:
		return nil
	default:
		a.logger.Warn().Str("order_id", order.ID).Int("capacity", cap(a.queue)).Msg("notification queue full, event dropped")
		return ErrQueueFull
	}
}

func (a *Async) run() {
	defer close(a.done)
	for order := range a.queue {
		a.deliver(order)
	}
}

func (a *Async) deliver(order *model.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	start := time.Now()
	if err := a.next.OrderPlaced(ctx, order); err != nil {
		a.logger.Warn().Err(err).Str("order_id", order.ID).Dur("duration", time.Since(start)).Msg("order notification failed")
		return
	}
	a.logger.Debug().Str("order_id", order.ID).Dur("duration", time.Since(start)).Msg("order notification delivered")
}

// Close stops accepting events, delivers what is already queued and then
// closes the wrapped notifier.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	<-a.done
	return a.next.Close()
}
