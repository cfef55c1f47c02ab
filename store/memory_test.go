package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindbites-api/models"
)

func TestMemoryStoreLoadUnknownSessionIsEmpty(t *testing.T) {
	s := NewMemoryStore()
	assert.Empty(t, s.Load(context.Background(), "nobody"))
}

func TestMemoryStoreSaveLoadRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	items := []models.LineItem{
		{ID: "a", Label: "Cupcake", UnitPrice: 50, Quantity: 2},
		{ID: "b", Label: "Brownies", UnitPrice: 120, Quantity: 1},
	}
	require.NoError(t, s.Save(ctx, "s1", items))

	loaded := s.Load(ctx, "s1")
	assert.Equal(t, items, loaded)

	// Sessions are isolated.
	assert.Empty(t, s.Load(ctx, "s2"))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	items := []models.LineItem{{ID: "a", Label: "Cupcake", UnitPrice: 50, Quantity: 1}}
	require.NoError(t, s.Save(ctx, "s1", items))

	loaded := s.Load(ctx, "s1")
	loaded[0].Quantity = 99
	items[0].Quantity = 42

	fresh := s.Load(ctx, "s1")
	assert.Equal(t, 1, fresh[0].Quantity)
}

func TestMemoryStoreSaveOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "s1", []models.LineItem{{ID: "a", Label: "Cupcake", UnitPrice: 50, Quantity: 1}}))
	require.NoError(t, s.Save(ctx, "s1", nil))

	assert.Empty(t, s.Load(ctx, "s1"))
}

func TestMemoryStoreRecordsOrders(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	order := models.Order{
		CustomerName:  "Ana",
		CustomerPhone: "0917",
		ItemsSummary:  "• Cupcake × 1 = ₱50",
		Total:         50,
		SubmittedAt:   time.Now(),
	}
	require.NoError(t, s.Record(ctx, order))

	recorded := s.Orders()
	require.Len(t, recorded, 1)
	assert.Equal(t, order, recorded[0])
}
