package repositories

import (
	"cart-app/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// CartKey is the storage key holding the serialised cart.
const CartKey = "cart"

var ErrCorruptCart = errors.New("stored cart is malformed")

type CartStore struct {
	storage LocalStorage
}

func NewCartStore(storage LocalStorage) *CartStore {
	return &CartStore{storage: storage}
}

// Load returns an empty slice when nothing is stored.
func (s *CartStore) Load(ctx context.Context) ([]models.CartEntry, error) {
	raw, found, err := s.storage.GetItem(ctx, CartKey)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !found {
		return []models.CartEntry{}, nil
	}
	return DecodeCart(raw)
}

func (s *CartStore) Save(ctx context.Context, entries []models.CartEntry) error {
	if entries == nil {
		entries = []models.CartEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.storage.SetItem(ctx, CartKey, string(data)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *CartStore) Clear(ctx context.Context) error {
	return s.Save(ctx, []models.CartEntry{})
}

func DecodeCart(raw string) ([]models.CartEntry, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return []models.CartEntry{}, nil
	}

	var entries []models.CartEntry
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	if entries == nil {
		entries = []models.CartEntry{}
	}
	return entries, nil
}
