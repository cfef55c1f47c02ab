package models

import (
	"time"
)

// Order is the record of one confirmed submission: who placed it, the
// plain-text rendering of the cart at submission time, and the grand
// total. It exists for the owner's bookkeeping; the cart itself is
// cleared once the order is confirmed.
type Order struct {
	CustomerName  string    `bson:"customer_name" json:"customer_name"`
	CustomerPhone string    `bson:"customer_phone" json:"customer_phone"`
	ItemsSummary  string    `bson:"items_summary" json:"items_summary"`
	Total         int       `bson:"total" json:"total"`
	SubmittedAt   time.Time `bson:"submitted_at" json:"submitted_at"`
}
