package model

import (
	"encoding/json"
	"time"
)

// OrderStatus tracks an order through the kitchen and delivery.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusDelivering, OrderStatusCompleted:
		return true
	}
	return false
}

// Order represents a committed customer order.
// Items holds the JSON snapshot of the cart at submission time.
type Order struct {
	ID                  string      `json:"id" db:"id"`
	CustomerName        string      `json:"customerName" db:"customer_name"`
	CustomerPhone       string      `json:"customerPhone" db:"customer_phone"`
	CustomerAddress     string      `json:"customerAddress" db:"customer_address"`
	SpecialInstructions *string     `json:"specialInstructions" db:"special_instructions"`
	Items               string      `json:"items" db:"items"`
	Subtotal            string      `json:"subtotal" db:"subtotal"`
	Tax                 string      `json:"tax" db:"tax"`
	DeliveryFee         string      `json:"deliveryFee" db:"delivery_fee"`
	Total               string      `json:"total" db:"total"`
	Status              OrderStatus `json:"status" db:"status"`
	CreatedAt           time.Time   `json:"createdAt" db:"created_at"`
}

// OrderRequest represents the request payload for creating an order.
// Items accepts either a JSON array of cart entries or a string holding one.
// The money fields are optional; when present they must match the server's totals.
type OrderRequest struct {
	CustomerName        string          `json:"customerName"`
	CustomerPhone       string          `json:"customerPhone"`
	CustomerAddress     string          `json:"customerAddress"`
	SpecialInstructions *string         `json:"specialInstructions,omitempty"`
	Items               json.RawMessage `json:"items"`
	Subtotal            string          `json:"subtotal,omitempty"`
	Tax                 string          `json:"tax,omitempty"`
	DeliveryFee         string          `json:"deliveryFee,omitempty"`
	Total               string          `json:"total,omitempty"`
	Status              OrderStatus     `json:"status,omitempty"`
}
