// store/store.go
package store

import (
	"context"

	"kindbites-api/models"
)

// CartStore persists one cart per session. Load never fails from the
// caller's point of view: a missing or unreadable cart degrades to an
// empty one, since the shop favors availability over strictness.
type CartStore interface {
	Load(ctx context.Context, sessionID string) []models.LineItem
	Save(ctx context.Context, sessionID string, items []models.LineItem) error
}

// OrderLog records confirmed orders for the owner's bookkeeping.
type OrderLog interface {
	Record(ctx context.Context, order models.Order) error
}
