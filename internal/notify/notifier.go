package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"taste-haven/internal/model"
)

// EventOrderPlaced is the event type published after an order is stored.
const EventOrderPlaced = "order.placed"

// Notifier announces order lifecycle events to an external system.
// Implementations must be safe for concurrent use.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *model.Order) error
	Close() error
}

// Event is the payload published for an order.
type Event struct {
	Type         string            `json:"type"`
	OrderID      string            `json:"orderId"`
	CustomerName string            `json:"customerName"`
	Total        string            `json:"total"`
	ItemCount    int               `json:"itemCount"`
	Status       model.OrderStatus `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// NewEvent builds the order.placed payload. ItemCount is the sum of line
// quantities in the stored snapshot.
func NewEvent(order *model.Order) Event {
	var entries []model.CartEntry
	count := 0
	if err := json.Unmarshal([]byte(order.Items), &entries); err == nil {
		for _, e := range entries {
			count += e.Quantity
		}
	}

	return Event{
		Type:         EventOrderPlaced,
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Total:        order.Total,
		ItemCount:    count,
		Status:       order.Status,
		CreatedAt:    order.CreatedAt,
	}
}

type nop struct{}

// Nop returns a Notifier that does nothing.
func Nop() Notifier { return nop{} }

func (nop) OrderPlaced(context.Context, *model.Order) error { return nil }
func (nop) Close() error                                    { return nil }

// multi fans an event out to several notifiers.
type multi []Notifier

// Multi combines notifiers. Every notifier is called even if an earlier one
// fails; the errors are joined. With no notifiers it behaves like Nop.
func Multi(notifiers ...Notifier) Notifier {
	switch len(notifiers) {
	case 0:
		return Nop()
	case 1:
		return notifiers[0]
	}
	return multi(notifiers)
}

func (m multi) OrderPlaced(ctx context.Context, order *model.Order) error {
	var errs []error
	for _, n := range m {
		if err := n.OrderPlaced(ctx, order); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multi) Close() error {
	var errs []error
	for _, n := range m {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
