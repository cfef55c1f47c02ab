// boxbuilder/boxbuilder.go
package boxbuilder

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownBoxSize is returned when the requested size has no
	// configured fee.
	ErrUnknownBoxSize = errors.New("no fee configured for this box size")
)

// CountMismatchError reports a selection whose total quantity does not
// match the chosen box size exactly.
type CountMismatchError struct {
	Required int
	Actual   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("total items must be exactly %d, you selected %d", e.Required, e.Actual)
}

// Pick is one flavor line inside a custom box selection.
type Pick struct {
	Name      string `json:"name"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Selection is a user-assembled box: the chosen size plus per-flavor
// quantities. It is ephemeral; a valid selection collapses into a single
// composite cart item and is then discarded.
type Selection struct {
	BoxSize int    `json:"box_size"`
	Picks   []Pick `json:"picks"`
}

// LiveCount is the running total of the selection, shown to the user as
// they edit. Nothing is validated or persisted at this stage.
func (s Selection) LiveCount() int {
	count := 0
	for _, pick := range s.Picks {
		if pick.Quantity > 0 {
			count += pick.Quantity
		}
	}
	return count
}

// BoxItem is the composite item a valid selection collapses into.
type BoxItem struct {
	Label string
	Price int
}

// Builder validates selections against the configured box sizes and fees.
type Builder struct {
	fees map[int]int
}

// New builds a Builder from a size-to-fee table. Every offered size must
// carry a fee; an empty or malformed table is a configuration error.
func New(fees map[int]int) (*Builder, error) {
	if len(fees) == 0 {
		return nil, errors.New("no box sizes configured")
	}
	for size, fee := range fees {
		if size < 1 {
			return nil, fmt.Errorf("invalid box size %d", size)
		}
		if fee < 0 {
			return nil, fmt.Errorf("invalid fee %d for box size %d", fee, size)
		}
	}
	return &Builder{fees: fees}, nil
}

// Sizes returns the offered box sizes in ascending order.
func (b *Builder) Sizes() []int {
	sizes := make([]int, 0, len(b.fees))
	for size := range b.fees {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	return sizes
}

// Build validates a selection and collapses it into one composite item.
// The selection's total quantity must equal the box size exactly; on any
// violation the error is returned and nothing else happens. On success
// the price is the component sum plus the size's fee, and the label joins
// each non-zero pick as "name xN".
func (b *Builder) Build(sel Selection) (BoxItem, error) {
	fee, ok := b.fees[sel.BoxSize]
	if !ok {
		return BoxItem{}, ErrUnknownBoxSize
	}

	totalQty := 0
	totalPrice := 0
	parts := make([]string, 0, len(sel.Picks))
	for _, pick := range sel.Picks {
		if pick.Quantity <= 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s x%d", pick.Name, pick.Quantity))
		totalQty += pick.Quantity
		totalPrice += pick.Quantity * pick.UnitPrice
	}

	if totalQty != sel.BoxSize {
		return BoxItem{}, &CountMismatchError{Required: sel.BoxSize, Actual: totalQty}
	}

	return BoxItem{
		Label: fmt.Sprintf("Create Your Own Box (%d): %s", sel.BoxSize, strings.Join(parts, ", ")),
		Price: totalPrice + fee,
	}, nil
}
