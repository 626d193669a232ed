// Package validation checks checkout input and reports every failing field at once.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"taste-haven/internal/model"
	"taste-haven/internal/pricing"
)

// Field names as they appear on the wire.
const (
	FieldCustomerName    = "customerName"
	FieldCustomerPhone   = "customerPhone"
	FieldCustomerAddress = "customerAddress"
	FieldItems           = "items"
	FieldSubtotal        = "subtotal"
	FieldTax             = "tax"
	FieldDeliveryFee     = "deliveryFee"
	FieldTotal           = "total"
	FieldStatus          = "status"
)

const (
	minNameLength    = 2
	minPhoneLength   = 10
	minAddressLength = 10
)

// Customer holds the contact details entered at checkout.
type Customer struct {
	Name                string
	Phone               string
	Address             string
	SpecialInstructions *string
}

// Result is the outcome of a validation pass.
type Result struct {
	Errors []model.FieldError
}

// Valid reports whether no field failed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns nil for a valid result and a *model.ValidationError otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &model.ValidationError{Fields: r.Errors}
}

// Merge appends the failures of other.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, model.FieldError{Field: field, Message: message})
}

// ValidateCustomer checks the minimum lengths of the contact fields.
// Lengths are counted in characters, not bytes.
func ValidateCustomer(c Customer) Result {
	var r Result

	if utf8.RuneCountInString(c.Name) < minNameLength {
		r.add(FieldCustomerName, fmt.Sprintf("Name must be at least %d characters", minNameLength))
	}
	if utf8.RuneCountInString(c.Phone) < minPhoneLength {
		r.add(FieldCustomerPhone, fmt.Sprintf("Phone number must be at least %d digits", minPhoneLength))
	}
	if utf8.RuneCountInString(c.Address) < minAddressLength {
		r.add(FieldCustomerAddress, fmt.Sprintf("Address must be at least %d characters", minAddressLength))
	}

	return r
}

// DecodeItems parses a cart snapshot. The snapshot may be a JSON array of
// entries or a JSON string whose contents are such an array.
func DecodeItems(raw json.RawMessage) ([]model.CartEntry, Result) {
	var r Result

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		r.add(FieldItems, "Order must contain at least one item")
		return nil, r
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			r.add(FieldItems, "Items must be a JSON array of cart entries")
			return nil, r
		}
		raw = json.RawMessage(inner)
	}

	var entries []model.CartEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		r.add(FieldItems, "Items must be a JSON array of cart entries")
		return nil, r
	}

	r.Merge(ValidateEntries(entries))
	if !r.Valid() {
		return nil, r
	}

	return entries, r
}

// ValidateEntries checks the cart invariants of a non-empty snapshot.
func ValidateEntries(entries []model.CartEntry) Result {
	var r Result

	if len(entries) == 0 {
		r.add(FieldItems, "Order must contain at least one item")
		return r
	}

	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			r.add(FieldItems, fmt.Sprintf("Item %d: id is required", i))
			continue
		}
		if _, dup := seen[e.ID]; dup {
			r.add(FieldItems, fmt.Sprintf("Item %s appears more than once", e.ID))
			continue
		}
		seen[e.ID] = struct{}{}

		switch {
		case e.Quantity < 1:
			r.add(FieldItems, fmt.Sprintf("Item %s: quantity must be at least 1", e.ID))
		case e.Quantity > model.MaxQuantity:
			r.add(FieldItems, fmt.Sprintf("Item %s: quantity must be at most %d", e.ID, model.MaxQuantity))
		}
		if _, err := pricing.ParsePrice(e.Price); err != nil {
			r.add(FieldItems, fmt.Sprintf("Item %s: price %q is not a valid amount", e.ID, e.Price))
		}
	}

	return r
}

// ValidateStatus accepts an empty status or "pending" on new orders.
func ValidateStatus(s model.OrderStatus) Result {
	var r Result
	if s != "" && s != model.OrderStatusPending {
		r.add(FieldStatus, "New orders must have status pending")
	}
	return r
}
