package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"taste-haven/internal/model"

	"github.com/rs/zerolog"
)

// StorageKey is the fixed slot name the cart is saved under.
const StorageKey = "taste-haven-cart"

// Record is the persisted form of a cart.
type Record struct {
	Items []model.CartEntry `json:"items"`
}

// Encode serializes c as a Record.
func Encode(c *Cart) ([]byte, error) {
	return json.Marshal(Record{Items: c.Entries()})
}

// Decode parses a Record and rebuilds the cart it describes.
func Decode(data []byte) (*Cart, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode cart record: %w", err)
	}
	return FromEntries(rec.Items)
}

// Store loads and saves a cart in a Slot under StorageKey.
type Store struct {
	slot   Slot
	key    string
	logger zerolog.Logger
}

// NewStore creates a store on top of slot.
func NewStore(slot Slot, logger zerolog.Logger) *Store {
	return &Store{
		slot:   slot,
		key:    StorageKey,
		logger: logger.With().Str("component", "cart-store").Logger(),
	}
}

// Load returns the saved cart. It never fails: an unreadable or
// malformed record yields an empty cart.
func (s *Store) Load(ctx context.Context) *Cart {
	data, err := s.slot.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrSlotEmpty) {
			s.logger.Warn().Err(err).Str("key", s.key).Msg("failed to read saved cart, starting empty")
		}
		return New()
	}

	c, err := Decode(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("discarding malformed saved cart")
		return New()
	}

	s.logger.Debug().Int("entries", c.Len()).Msg("cart loaded")

	return c
}

// Save writes c to the slot.
func (s *Store) Save(ctx context.Context, c *Cart) error {
	data, err := Encode(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.slot.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Session is a cart bound to its store; every mutation is written through.
// If a write fails the mutation stays applied in memory and the error is returned.
type Session struct {
	cart  *Cart
	store *Store
}

// OpenSession loads the saved cart from store.
func OpenSession(ctx context.Context, store *Store) *Session {
	return &Session{
		cart:  store.Load(ctx),
		store: store,
	}
}

// Cart returns the session's cart for reading.
func (s *Session) Cart() *Cart {
	return s.cart
}

// AddItem adds one of item and saves.
func (s *Session) AddItem(ctx context.Context, item model.MenuItem) error {
	if err := s.cart.AddItem(item); err != nil {
		return err
	}
	return s.store.Save(ctx, s.cart)
}

// RemoveItem removes the entry for id and saves.
func (s *Session) RemoveItem(ctx context.Context, id string) error {
	s.cart.RemoveItem(id)
	return s.store.Save(ctx, s.cart)
}

// UpdateQuantity sets the quantity for id and saves.
func (s *Session) UpdateQuantity(ctx context.Context, id string, q int) error {
	s.cart.UpdateQuantity(id, q)
	return s.store.Save(ctx, s.cart)
}

// Clear empties the cart and saves.
func (s *Session) Clear(ctx context.Context) error {
	s.cart.Clear()
	return s.store.Save(ctx, s.cart)
}
