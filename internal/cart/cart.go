// Package cart implements the customer's shopping cart and its durable persistence.
//
// A Cart is owned by a single client session and is not safe for concurrent use.
// Every derived amount is recomputed from the entries on each call.
package cart

import (
	"errors"
	"fmt"

	"taste-haven/internal/model"
	"taste-haven/internal/pricing"

	"github.com/shopspring/decimal"
)

// ErrInvalidItem is returned when an item cannot be placed in a cart.
var ErrInvalidItem = errors.New("invalid cart item")

// ErrQuantityLimit is returned by AddItem when the entry already holds model.MaxQuantity.
var ErrQuantityLimit = errors.New("quantity limit reached")

// line pairs an entry with its parsed price.
type line struct {
	entry model.CartEntry
	price decimal.Decimal
}

// Cart is an ordered list of entries with at most one entry per menu item ID.
type Cart struct {
	lines []line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// FromEntries builds a cart from a previously saved entry list.
// An entry that could not have been built by AddItem is rejected with ErrInvalidItem.
func FromEntries(entries []model.CartEntry) (*Cart, error) {
	c := New()
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrInvalidItem, i)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate entry for %s", ErrInvalidItem, e.ID)
		}
		if e.Quantity < 1 || e.Quantity > model.MaxQuantity {
			return nil, fmt.Errorf("%w: entry %s has quantity %d", ErrInvalidItem, e.ID, e.Quantity)
		}
		price, err := pricing.ParsePrice(e.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %s: %v", ErrInvalidItem, e.ID, err)
		}
		seen[e.ID] = struct{}{}
		c.lines = append(c.lines, line{entry: e, price: price})
	}
	return c, nil
}

// AddItem puts one more of item into the cart.
// An existing entry has its quantity incremented; otherwise a new entry is appended.
func (c *Cart) AddItem(item model.MenuItem) error {
	if item.ID == "" {
		return fmt.Errorf("%w: item has no id", ErrInvalidItem)
	}
	if i := c.index(item.ID); i >= 0 {
		if c.lines[i].entry.Quantity >= model.MaxQuantity {
			return fmt.Errorf("%w: %s already has %d", ErrQuantityLimit, item.ID, model.MaxQuantity)
		}
		c.lines[i].entry.Quantity++
		return nil
	}
	price, err := pricing.ParsePrice(item.Price)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidItem, item.ID, err)
	}
	c.lines = append(c.lines, line{
		entry: model.CartEntry{MenuItem: item, Quantity: 1},
		price: price,
	})
	return nil
}

// RemoveItem deletes the entry for id. Removing an absent id is a no-op.
func (c *Cart) RemoveItem(id string) {
	i := c.index(id)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// UpdateQuantity sets the quantity of the entry for id to exactly q.
// A quantity of zero or less removes the entry and one above
// model.MaxQuantity is clamped to it. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id string, q int) {
	if q <= 0 {
		c.RemoveItem(id)
		return
	}
	if q > model.MaxQuantity {
		q = model.MaxQuantity
	}
	if i := c.index(id); i >= 0 {
		c.lines[i].entry.Quantity = q
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Entries returns a copy of the cart's entries in insertion order.
func (c *Cart) Entries() []model.CartEntry {
	entries := make([]model.CartEntry, len(c.lines))
	for i, l := range c.lines {
		entries[i] = l.entry
	}
	return entries
}

// Len returns the number of distinct entries.
func (c *Cart) Len() int {
	return len(c.lines)
}

// ItemCount returns the sum of all quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.entry.Quantity
	}
	return n
}

// Subtotal returns the sum of price times quantity.
func (c *Cart) Subtotal() decimal.Decimal {
	return pricing.Subtotal(c.pricingLines())
}

// Tax returns the tax on the subtotal.
func (c *Cart) Tax() decimal.Decimal {
	return pricing.Tax(c.Subtotal())
}

// DeliveryFee returns the delivery fee, zero for an empty cart.
func (c *Cart) DeliveryFee() decimal.Decimal {
	return pricing.Fee(len(c.lines))
}

// Total returns subtotal plus tax plus delivery fee.
func (c *Cart) Total() decimal.Decimal {
	return c.Totals().Total
}

// Totals returns the full breakdown in one pass.
func (c *Cart) Totals() pricing.Totals {
	return pricing.Compute(c.pricingLines())
}

func (c *Cart) pricingLines() []pricing.Line {
	lines := make([]pricing.Line, len(c.lines))
	for i, l := range c.lines {
		lines[i] = pricing.Line{Price: l.price, Quantity: l.entry.Quantity}
	}
	return lines
}

func (c *Cart) index(id string) int {
	for i, l := range c.lines {
		if l.entry.ID == id {
			return i
		}
	}
	return -1
}
