// store/memory.go
package store

import (
	"context"
	"sync"

	"kindbites-api/models"
)

// MemoryStore is the in-process fallback used when Mongo is not
// configured, and the store tests run against. Carts do not survive a
// restart.
type MemoryStore struct {
	mu     sync.RWMutex
	carts  map[string][]models.LineItem
	orders []models.Order
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]models.LineItem)}
}

// Load returns a copy of the session's cart, or nil for an unknown
// session.
func (s *MemoryStore) Load(_ context.Context, sessionID string) []models.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.carts[sessionID]
	if !ok {
		return nil
	}
	out := make([]models.LineItem, len(items))
	copy(out, items)
	return out
}

// Save stores a copy of the cart for the session.
func (s *MemoryStore) Save(_ context.Context, sessionID string, items []models.LineItem) error {
	stored := make([]models.LineItem, len(items))
	copy(stored, items)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = stored
	return nil
}

// Record appends a confirmed order.
func (s *MemoryStore) Record(_ context.Context, order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, order)
	return nil
}

// Orders returns a copy of the recorded orders.
func (s *MemoryStore) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}
