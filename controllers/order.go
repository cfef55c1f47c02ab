// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"kindbites-api/middleware"
	"kindbites-api/models"
	"kindbites-api/orders"
	"kindbites-api/store"
	"kindbites-api/utils"
)

// OrderController handles order submission
type OrderController struct {
	Store        store.CartStore
	OrderLog     store.OrderLog
	Submitter    *orders.Submitter
	EmailService *utils.EmailService
	OwnerEmail   string
	Currency     string
	Log          logrus.FieldLogger

	locks *SessionLocks
}

// NewOrderController creates a new OrderController. EmailService and
// OwnerEmail may be empty; the owner notification is then skipped.
func NewOrderController(cartStore store.CartStore, orderLog store.OrderLog, submitter *orders.Submitter, emailService *utils.EmailService, ownerEmail, currency string, locks *SessionLocks, log logrus.FieldLogger) *OrderController {
	return &OrderController{
		Store:        cartStore,
		OrderLog:     orderLog,
		Submitter:    submitter,
		EmailService: emailService,
		OwnerEmail:   ownerEmail,
		Currency:     currency,
		Log:          log,
		locks:        locks,
	}
}

type placeOrderRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type placeOrderResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Items   string `json:"items,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// PlaceOrder submits the session's cart to the external order endpoint.
// An empty cart or missing contact info is rejected before any network
// call; a failed submission leaves the cart intact for retry; a
// confirmed one clears it and returns the receipt.
func (oc *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r)

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	unlock := oc.locks.Lock(sessionID)
	defer unlock()

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	cart := models.NewCart(oc.Store.Load(ctx, sessionID))

	receipt, err := oc.Submitter.Submit(ctx, sessionID, req.Name, req.Phone, cart)
	if err != nil {
		oc.writeSubmitError(w, err)
		return
	}

	oc.recordOrder(receipt.Order)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(placeOrderResponse{
		Status:  "confirmed",
		Message: receipt.Message,
		Items:   receipt.Order.ItemsSummary,
		Total:   receipt.Order.Total,
	})
}

func (oc *OrderController) writeSubmitError(w http.ResponseWriter, err error) {
	var failure *orders.Failure
	switch {
	case errors.Is(err, orders.ErrEmptyCart):
		http.Error(w, "Cart is empty!", http.StatusBadRequest)
	case errors.Is(err, orders.ErrMissingContact):
		http.Error(w, "Please enter your name and phone number.", http.StatusBadRequest)
	case errors.Is(err, orders.ErrAlreadySubmitting):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &failure):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(placeOrderResponse{
			Status:  "failed",
			Message: failure.Message,
		})
	default:
		http.Error(w, "Order submission failed", http.StatusInternalServerError)
	}
}

// recordOrder keeps the owner's copies of a confirmed order: the order
// log entry and the notification email. Neither can fail the submission
// at this point; problems are logged and absorbed.
func (oc *OrderController) recordOrder(order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := oc.OrderLog.Record(ctx, order); err != nil {
		oc.Log.WithError(err).Error("failed to record order")
	}

	if oc.EmailService != nil && oc.OwnerEmail != "" {
		go func(order models.Order) {
			if err := oc.EmailService.SendNewOrderEmail(oc.OwnerEmail, order, oc.Currency); err != nil {
				oc.Log.WithError(err).Errorf("Failed to send email to %s", oc.OwnerEmail)
			}
		}(order)
	}
}
