package models

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrInvalidQuantity is returned when a quantity below 1 is requested.
	// The line item is left unchanged.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrItemNotFound is returned when no line item matches the given id.
	ErrItemNotFound = errors.New("line item not found")

	// ErrIndexOutOfRange is returned by the positional operations when the
	// index does not address a current line item.
	ErrIndexOutOfRange = errors.New("line item index out of range")
)

// LineItem is one cart row: a labeled product or variant at a given unit
// price and quantity. ID is assigned once at creation and stays stable
// across reorders, so row-level operations never depend on position.
type LineItem struct {
	ID        string `bson:"id" json:"id"`
	Label     string `bson:"label" json:"label"`
	UnitPrice int    `bson:"unit_price" json:"unit_price"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// Subtotal returns UnitPrice * Quantity for this row.
func (li LineItem) Subtotal() int {
	return li.UnitPrice * li.Quantity
}

// Cart is an ordered sequence of line items. Insertion order is display
// order. The cart owns no persistence and no rendering.
type Cart struct {
	Items []LineItem `bson:"items" json:"items"`
}

// NewCart builds a cart around previously stored items.
func NewCart(items []LineItem) *Cart {
	return &Cart{Items: items}
}

// AddItem merges into an existing row when one with the same label and
// unit price exists, incrementing its quantity by one; otherwise it
// appends a new row with quantity 1. Returns the affected row.
func (c *Cart) AddItem(label string, unitPrice int) LineItem {
	for i := range c.Items {
		if c.Items[i].Label == label && c.Items[i].UnitPrice == unitPrice {
			c.Items[i].Quantity++
			return c.Items[i]
		}
	}
	item := LineItem{
		ID:        uuid.NewString(),
		Label:     label,
		UnitPrice: unitPrice,
		Quantity:  1,
	}
	c.Items = append(c.Items, item)
	return item
}

// SetQuantity overwrites the quantity of the row with the given id.
// Quantities below 1 are rejected and the row is left as it was.
func (c *Cart) SetQuantity(id string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotFound
}

// SetQuantityAt is the positional form of SetQuantity. The index is
// resolved against the current ordering, so callers must re-read the cart
// after any mutation before reusing an index.
func (c *Cart) SetQuantityAt(index, quantity int) error {
	if index < 0 || index >= len(c.Items) {
		return ErrIndexOutOfRange
	}
	return c.SetQuantity(c.Items[index].ID, quantity)
}

// RemoveItem deletes the row with the given id, preserving the relative
// order of the remaining rows.
func (c *Cart) RemoveItem(id string) error {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveItemAt is the positional form of RemoveItem.
func (c *Cart) RemoveItemAt(index int) error {
	if index < 0 || index >= len(c.Items) {
		return ErrIndexOutOfRange
	}
	return c.RemoveItem(c.Items[index].ID)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// Total is the sum of unit price times quantity over all rows. It is
// recomputed on demand and never stored.
func (c *Cart) Total() int {
	total := 0
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// TotalItemCount is the sum of quantities over all rows.
func (c *Cart) TotalItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
