// render/render.go
package render

import (
	"fmt"
	"strings"

	"kindbites-api/models"
)

// EmptyCartMessage is shown in place of rows when the cart has nothing
// in it.
const EmptyCartMessage = "Your cart is empty."

// Row is one rendered cart line.
type Row struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int    `json:"subtotal"`
}

// CartView is the full rendering of a cart: rows (or the empty-state
// message), the grand total, and the badge text.
type CartView struct {
	Empty     bool   `json:"empty"`
	Message   string `json:"message,omitempty"`
	Rows      []Row  `json:"rows,omitempty"`
	Total     int    `json:"total"`
	TotalText string `json:"total_text,omitempty"`
	Badge     string `json:"badge"`
}

// BadgeText renders the persistent cart badge, pluralized for any count
// other than exactly one.
func BadgeText(cart *models.Cart) string {
	count := cart.TotalItemCount()
	suffix := "s"
	if count == 1 {
		suffix = ""
	}
	return fmt.Sprintf("🛒 %d item%s", count, suffix)
}

// View renders the cart as a pure function of its current state.
func View(cart *models.Cart, marker string) CartView {
	view := CartView{Badge: BadgeText(cart)}
	if len(cart.Items) == 0 {
		view.Empty = true
		view.Message = EmptyCartMessage
		return view
	}

	view.Rows = make([]Row, 0, len(cart.Items))
	for _, item := range cart.Items {
		view.Rows = append(view.Rows, Row{
			ID:        item.ID,
			Label:     item.Label,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
		})
	}
	view.Total = cart.Total()
	view.TotalText = fmt.Sprintf("Total: %s%d", marker, view.Total)
	return view
}

// ItemsSummary renders the cart as the plain-text listing sent in order
// payloads and receipts, one line per row.
func ItemsSummary(cart *models.Cart, marker string) string {
	lines := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, fmt.Sprintf("• %s × %d = %s%d", item.Label, item.Quantity, marker, item.Subtotal()))
	}
	return strings.Join(lines, "\n")
}
