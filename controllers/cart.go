package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"kindbites-api/boxbuilder"
	"kindbites-api/middleware"
	"kindbites-api/models"
	"kindbites-api/pricing"
	"kindbites-api/render"
	"kindbites-api/store"
)

// SessionLocks serializes work per cart session, reproducing the
// one-callback-at-a-time discipline the cart logic assumes. Cart
// mutations and order submission share one instance.
type SessionLocks struct {
	locks sync.Map
}

// NewSessionLocks creates an empty lock set.
func NewSessionLocks() *SessionLocks {
	return &SessionLocks{}
}

// Lock acquires the session's mutex and returns its release func.
func (l *SessionLocks) Lock(sessionID string) func() {
	v, _ := l.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// CartController handles cart-related requests
type CartController struct {
	Store     store.CartStore
	Extractor *pricing.Extractor
	Boxes     *boxbuilder.Builder
	Currency  string
	Log       logrus.FieldLogger

	locks *SessionLocks
}

// NewCartController creates a new CartController
func NewCartController(cartStore store.CartStore, extractor *pricing.Extractor, boxes *boxbuilder.Builder, currency string, locks *SessionLocks, log logrus.FieldLogger) *CartController {
	return &CartController{
		Store:     cartStore,
		Extractor: extractor,
		Boxes:     boxes,
		Currency:  currency,
		Log:       log,
		locks:     locks,
	}
}

type addItemRequest struct {
	Label     string `json:"label"`
	UnitPrice *int   `json:"unit_price"`

	pricing.ItemRequest
}

type mutationResponse struct {
	Message string          `json:"message"`
	Item    models.LineItem `json:"item"`
	Badge   string          `json:"badge"`
}

// AddToCart adds an item to the session's cart. The body is either a
// resolved {label, unit_price} pair or the raw product-card form
// (product, price_text, flavor/price options), which gets resolved here.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r)

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	label := req.Label
	price := 0
	if req.UnitPrice != nil {
		price = *req.UnitPrice
	}
	if label == "" {
		if req.Product == "" {
			http.Error(w, "Missing product", http.StatusBadRequest)
			return
		}
		label, price = cc.Extractor.Resolve(req.ItemRequest)
	}
	if price < 0 {
		http.Error(w, "Invalid price", http.StatusBadRequest)
		return
	}

	unlock := cc.locks.Lock(sessionID)
	defer unlock()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart := models.NewCart(cc.Store.Load(ctx, sessionID))
	item := cart.AddItem(label, price)
	if err := cc.Store.Save(ctx, sessionID, cart.Items); err != nil {
		cc.Log.WithError(err).Error("failed to save cart")
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(mutationResponse{
		Message: fmt.Sprintf("Added %q to cart!", label),
		Item:    item,
		Badge:   render.BadgeText(cart),
	})
}

// GetCart renders the session's cart: rows, total and badge text, or the
// empty-state message.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart := models.NewCart(cc.Store.Load(ctx, sessionID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(render.View(cart, cc.Currency))
}

// UpdateQuantity overwrites the quantity of one cart row. Quantities
// below 1 are rejected and the row stays as it was.
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r)
	itemID := mux.Vars(r)["id"]

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	unlock := cc.locks.Lock(sessionID)
	defer unlock()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart := models.NewCart(cc.Store.Load(ctx, sessionID))
	if err := cart.SetQuantity(itemID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidQuantity):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, models.ErrItemNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "Error updating cart", http.StatusInternalServerError)
		}
		return
	}
	if err := cc.Store.Save(ctx, sessionID, cart.Items); err != nil {
		cc.Log.WithError(err).Error("failed to save cart")
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(render.View(cart, cc.Currency))
}

// RemoveFromCart deletes one cart row.
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r)
	itemID := mux.Vars(r)["id"]

	unlock := cc.locks.Lock(sessionID)
	defer unlock()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart := models.NewCart(cc.Store.Load(ctx, sessionID))
	if err := cart.RemoveItem(itemID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err := cc.Store.Save(ctx, sessionID, cart.Items); err != nil {
		cc.Log.WithError(err).Error("failed to save cart")
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(render.View(cart, cc.Currency))
}

// ClearCart empties the session's cart.
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r)

	unlock := cc.locks.Lock(sessionID)
	defer unlock()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart := models.NewCart(cc.Store.Load(ctx, sessionID))
	cart.Clear()
	if err := cc.Store.Save(ctx, sessionID, cart.Items); err != nil {
		cc.Log.WithError(err).Error("failed to save cart")
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(render.View(cart, cc.Currency))
}

// BuildCustomBox validates a custom box selection and, when it sums to
// the chosen box size exactly, adds the composite item to the cart. On a
// count mismatch nothing changes and the message carries both counts.
func (cc *CartController) BuildCustomBox(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r)

	var sel boxbuilder.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	box, err := cc.Boxes.Build(sel)
	if err != nil {
		var mismatch *boxbuilder.CountMismatchError
		switch {
		case errors.As(err, &mismatch):
			http.Error(w, mismatch.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, boxbuilder.ErrUnknownBoxSize):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Error building box", http.StatusInternalServerError)
		}
		return
	}

	unlock := cc.locks.Lock(sessionID)
	defer unlock()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart := models.NewCart(cc.Store.Load(ctx, sessionID))
	item := cart.AddItem(box.Label, box.Price)
	if err := cc.Store.Save(ctx, sessionID, cart.Items); err != nil {
		cc.Log.WithError(err).Error("failed to save cart")
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(mutationResponse{
		Message: fmt.Sprintf("Added %q to cart!", box.Label),
		Item:    item,
		Badge:   render.BadgeText(cart),
	})
}
