package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taste-haven/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedNotifier blocks every delivery until release is closed.
type gatedNotifier struct {
	started chan string
	release chan struct{}

	mu       sync.Mutex
	ids      []string
	ctxErrs  []error
	deadline []bool
	closed   int
}

func newGatedNotifier() *gatedNotifier {
	return &gatedNotifier{
		started: make(chan string, 16),
		release: make(chan struct{}),
	}
}

func (g *gatedNotifier) OrderPlaced(ctx context.Context, order *model.Order) error {
	g.started <- order.ID
	select {
	case <-g.release:
	case <-ctx.Done():
	}

	_, hasDeadline := ctx.Deadline()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ids = append(g.ids, order.ID)
	g.ctxErrs = append(g.ctxErrs, ctx.Err())
	g.deadline = append(g.deadline, hasDeadline)
	return ctx.Err()
}

func (g *gatedNotifier) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed++
	return nil
}

func (g *gatedNotifier) delivered() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.ids...)
}

func orderWithID(id string) *model.Order {
	o := testOrder()
	o.ID = id
	return o
}

func waitStarted(t *testing.T, g *gatedNotifier, id string) {
	t.Helper()
	select {
	case got := <-g.started:
		assert.Equal(t, id, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("delivery of %s never started", id)
	}
}

func TestAsync_DoesNotWaitForDelivery(t *testing.T) {
	next := newGatedNotifier()
	a := NewAsync(next, 4, time.Minute, zerolog.Nop())

	start := time.Now()
	require.NoError(t, a.OrderPlaced(context.Background(), orderWithID("o1")))
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	waitStarted(t, next, "o1")
	assert.Empty(t, next.delivered())

	close(next.release)
	require.NoError(t, a.Close())
	assert.Equal(t, []string{"o1"}, next.delivered())
	assert.Equal(t, 1, next.closed)
}

func TestAsync_DetachedFromCallerContext(t *testing.T) {
	next := newGatedNotifier()
	close(next.release)
	a := NewAsync(next, 4, time.Minute, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, a.OrderPlaced(ctx, orderWithID("o1")))
	require.NoError(t, a.Close())

	require.Len(t, next.ctxErrs, 1)
	assert.NoError(t, next.ctxErrs[0])
	assert.True(t, next.deadline[0])
}

func TestAsync_DeliveryTimeout(t *testing.T) {
	next := newGatedNotifier()
	a := NewAsync(next, 4, 20*time.Millisecond, zerolog.Nop())

	require.NoError(t, a.OrderPlaced(context.Background(), orderWithID("o1")))
	require.NoError(t, a.Close())

	require.Len(t, next.ctxErrs, 1)
	assert.ErrorIs(t, next.ctxErrs[0], context.DeadlineExceeded)
}

func TestAsync_QueueFull(t *testing.T) {
	next := newGatedNotifier()
	a := NewAsync(next, 1, time.Minute, zerolog.Nop())

	require.NoError(t, a.OrderPlaced(context.Background(), orderWithID("o1")))
	waitStarted(t, next, "o1")

	require.NoError(t, a.OrderPlaced(context.Background(), orderWithID("o2")))
	assert.ErrorIs(t, a.OrderPlaced(context.Background(), orderWithID("o3")), ErrQueueFull)

	close(next.release)
	require.NoError(t, a.Close())
	assert.Equal(t, []string{"o1", "o2"}, next.delivered())
}

func TestAsync_Close(t *testing.T) {
	next := newGatedNotifier()
	close(next.release)
	a := NewAsync(next, 0, 0, zerolog.Nop())

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
	assert.Equal(t, 1, next.closed)

	err := a.OrderPlaced(context.Background(), orderWithID("late"))
	assert.True(t, errors.Is(err, ErrClosed))
	assert.Empty(t, next.delivered())
}

func TestAsync_QueuesACopy(t *testing.T) {
	next := newGatedNotifier()
	a := NewAsync(next, 4, time.Minute, zerolog.Nop())

	order := orderWithID("o1")
	require.NoError(t, a.OrderPlaced(context.Background(), order))
	order.ID = "mutated"

	waitStarted(t, next, "o1")
	close(next.release)
	require.NoError(t, a.Close())
	assert.Equal(t, []string{"o1"}, next.delivered())
}
