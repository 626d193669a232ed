package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taste-haven/internal/model"
	"taste-haven/internal/notify"
	"taste-haven/internal/pricing"
	"taste-haven/internal/repository"
	"taste-haven/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	menuRepo  repository.MenuRepository
	notifier  notify.Notifier
	now       func() time.Time
	logger    zerolog.Logger
}

// NewOrderService creates a new order service. A nil notifier disables
// order notifications.
func NewOrderService(
	orderRepo repository.OrderRepository,
	menuRepo repository.MenuRepository,
	notifier notify.Notifier,
	logger zerolog.Logger,
) OrderService {
	if notifier == nil {
		notifier = notify.Nop()
	}
	return &orderService{
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		notifier:  notifier,
		now:       time.Now,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Submit validates the request, checks it against the catalogue, recomputes
// the totals and stores the order. Field problems are reported together as a
// *model.ValidationError.
func (s *orderService) Submit(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	if req == nil {
		return nil, model.NewValidationError(validation.FieldItems, "Order must contain at least one item")
	}

	result := validation.ValidateCustomer(validation.Customer{
		Name:                req.CustomerName,
		Phone:               req.CustomerPhone,
		Address:             req.CustomerAddress,
		SpecialInstructions: req.SpecialInstructions,
	})
	entries, itemsResult := validation.DecodeItems(req.Items)
	result.Merge(itemsResult)
	result.Merge(validation.ValidateStatus(req.Status))

	if !result.Valid() {
		s.logger.Warn().Int("error_count", len(result.Errors)).Msg("order request rejected")
		return nil, result.Err()
	}

	snapshot, lines, err := s.priceEntries(ctx, entries)
	if err != nil {
		return nil, err
	}

	totals := pricing.Compute(lines)
	if !totals.Storable() {
		s.logger.Warn().Str("total", pricing.Format(totals.Total)).Msg("order total out of range")
		return nil, model.NewValidationError(validation.FieldItems,
			fmt.Sprintf("Order total exceeds the maximum of %s", pricing.Format(pricing.MaxAmount)))
	}
	if err := verifyTotals(req, totals); err != nil {
		s.logger.Warn().
			Str("subtotal", pricing.Format(totals.Subtotal)).
			Str("total", pricing.Format(totals.Total)).
			Msg("client totals do not match")
		return nil, err
	}

	itemsJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}

	amounts := totals.Strings()
	order := &model.Order{
		ID:                  uuid.NewString(),
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		CustomerAddress:     req.CustomerAddress,
		SpecialInstructions: req.SpecialInstructions,
		Items:               string(itemsJSON),
		Subtotal:            amounts.Subtotal,
		Tax:                 amounts.Tax,
		DeliveryFee:         amounts.DeliveryFee,
		Total:               amounts.Total,
		Status:              model.OrderStatusPending,
		CreatedAt:           s.now().UTC(),
	}

	if err := s.orderRepo.Create(ctx, order, snapshot); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to store order")
		return nil, &model.StorageError{Op: "create order", Err: err}
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Int("item_count", len(snapshot)).
		Str("total", order.Total).
		Msg("order created successfully")

	if err := s.notifier.OrderPlaced(ctx, order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("order notification failed")
	}

	return order, nil
}

// priceEntries resolves every entry against the catalogue. The returned
// snapshot carries the catalogue's copy of each item with the requested
// quantity.
func (s *orderService) priceEntries(ctx context.Context, entries []model.CartEntry) ([]model.CartEntry, []pricing.Line, error) {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	catalog, err := s.menuRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to read menu items")
		return nil, nil, &model.StorageError{Op: "read menu items", Err: err}
	}

	verr := &model.ValidationError{}
	snapshot := make([]model.CartEntry, 0, len(entries))
	lines := make([]pricing.Line, 0, len(entries))

	for _, e := range entries {
		item, ok := catalog[e.ID]
		if !ok {
			verr.Add(validation.FieldItems, fmt.Sprintf("Item %s is not on the menu", e.ID))
			continue
		}
		if !item.Available {
			verr.Add(validation.FieldItems, fmt.Sprintf("%s is currently unavailable", item.Name))
			continue
		}

		current, err := pricing.ParsePrice(item.Price)
		if err != nil {
			return nil, nil, &model.StorageError{Op: "read menu items", Err: fmt.Errorf("menu item %s: %w", item.ID, err)}
		}
		submitted, _ := pricing.ParsePrice(e.Price)
		if !submitted.Equal(current) {
			verr.Add(validation.FieldItems, fmt.Sprintf("Price of %s has changed to %s", item.Name, pricing.Format(current)))
			continue
		}

		snapshot = append(snapshot, model.CartEntry{MenuItem: item, Quantity: e.Quantity})
		lines = append(lines, pricing.Line{Price: current, Quantity: e.Quantity})
	}

	if !verr.Empty() {
		s.logger.Warn().Int("error_count", len(verr.Fields)).Msg("order items rejected")
		return nil, nil, verr
	}

	return snapshot, lines, nil
}

// verifyTotals compares any client-supplied amounts with the recomputed ones.
func verifyTotals(req *model.OrderRequest, totals pricing.Totals) error {
	checks := []struct {
		field    string
		label    string
		sent     string
		expected decimal.Decimal
	}{
		{validation.FieldSubtotal, "Subtotal", req.Subtotal, totals.Subtotal},
		{validation.FieldTax, "Tax", req.Tax, totals.Tax},
		{validation.FieldDeliveryFee, "Delivery fee", req.DeliveryFee, totals.DeliveryFee},
		{validation.FieldTotal, "Total", req.Total, totals.Total},
	}

	verr := &model.ValidationError{}
	for _, c := range checks {
		if c.sent == "" {
			continue
		}
		sent, err := decimal.NewFromString(c.sent)
		if err != nil || !sent.Equal(c.expected) {
			verr.Add(c.field, fmt.Sprintf("%s does not match the calculated amount %s", c.label, pricing.Format(c.expected)))
		}
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

// Get retrieves an order by its ID. IDs that are not UUIDs cannot exist.
func (s *orderService) Get(ctx context.Context, id string) (*model.Order, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		s.logger.Debug().Str("order_id", id).Msg("order id is not a uuid")
		return nil, model.ErrOrderNotFound
	}
	id = parsed.String()

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to get order")
		return nil, &model.StorageError{Op: "get order", Err: err}
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}
