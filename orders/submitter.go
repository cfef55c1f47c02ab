// orders/submitter.go
package orders

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"kindbites-api/models"
	"kindbites-api/render"
	"kindbites-api/store"
)

var (
	// ErrEmptyCart rejects a submission before any network call is made.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrMissingContact rejects a submission whose name or phone is blank
	// after trimming.
	ErrMissingContact = errors.New("name and phone number are required")

	// ErrAlreadySubmitting rejects a second submission for a session
	// while one is still in flight.
	ErrAlreadySubmitting = errors.New("an order is already being submitted")
)

// PaymentInstructions are the manual-payment contacts surfaced to the
// customer on both success and failure.
type PaymentInstructions struct {
	GcashNumber   string
	FacebookLink  string
	InstagramLink string
}

// Failure is the result of a submission that did not go through: a
// transport error, an unreadable response, or a body without the success
// marker. The cart is left untouched so the customer can retry.
type Failure struct {
	Err     error
	Message string
}

func (f *Failure) Error() string {
	return f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Receipt is the result of a confirmed submission.
type Receipt struct {
	Order   models.Order
	Message string
}

// Submitter drives the order submission flow: it guards against empty
// carts and missing contact info, posts the order to the external form
// endpoint exactly once, and decides success by searching the response
// body for the configured marker. One submission per session may be in
// flight at a time.
type Submitter struct {
	endpoint string
	marker   string
	currency string
	contacts PaymentInstructions
	client   *http.Client
	store    store.CartStore
	log      logrus.FieldLogger

	mu       sync.Mutex
	inflight map[string]bool
}

// NewSubmitter creates a Submitter posting to the given endpoint.
func NewSubmitter(endpoint, marker, currency string, contacts PaymentInstructions, cartStore store.CartStore, log logrus.FieldLogger) *Submitter {
	return &Submitter{
		endpoint: endpoint,
		marker:   marker,
		currency: currency,
		contacts: contacts,
		client:   http.DefaultClient,
		store:    cartStore,
		log:      log,
		inflight: make(map[string]bool),
	}
}

// Submit runs one submission attempt for the session's cart. On success
// the cart is cleared and persisted and a receipt is returned; on any
// failure the cart is untouched and the error is a *Failure carrying the
// contact fallback. The in-flight mark is released on every exit path.
func (s *Submitter) Submit(ctx context.Context, sessionID, name, phone string, cart *models.Cart) (*Receipt, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)

	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if name == "" || phone == "" {
		return nil, ErrMissingContact
	}
	if !s.begin(sessionID) {
		return nil, ErrAlreadySubmitting
	}
	defer s.end(sessionID)

	items := render.ItemsSummary(cart, s.currency)
	total := cart.Total()

	body, contentType, err := encodeOrderForm(name, phone, items, total)
	if err != nil {
		return nil, s.failure(sessionID, fmt.Errorf("failed to encode order form: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return nil, s.failure(sessionID, fmt.Errorf("failed to build order request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.failure(sessionID, fmt.Errorf("order request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, s.failure(sessionID, fmt.Errorf("failed to read order response: %w", err))
	}

	if !strings.Contains(string(raw), s.marker) {
		return nil, s.failure(sessionID, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(raw))))
	}

	order := models.Order{
		CustomerName:  name,
		CustomerPhone: phone,
		ItemsSummary:  items,
		Total:         total,
		SubmittedAt:   time.Now(),
	}

	cart.Clear()
	if err := s.store.Save(ctx, sessionID, cart.Items); err != nil {
		// The order went through; a lagging stored cart is the lesser
		// problem and fixes itself on the next mutation.
		s.log.WithError(err).WithField("session", sessionID).Warn("failed to persist cleared cart")
	}

	return &Receipt{
		Order:   order,
		Message: s.successMessage(items, total),
	}, nil
}

func (s *Submitter) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[sessionID] {
		return false
	}
	s.inflight[sessionID] = true
	return true
}

func (s *Submitter) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sessionID)
}

func (s *Submitter) failure(sessionID string, err error) *Failure {
	s.log.WithError(err).WithField("session", sessionID).Error("order submission failed")
	return &Failure{
		Err: err,
		Message: fmt.Sprintf(
			"❌ Order submission failed.\n\nPlease contact us directly:\n📱 %s\n💬 Facebook: %s\n📸 Instagram: %s",
			s.contacts.GcashNumber, s.contacts.FacebookLink, s.contacts.InstagramLink,
		),
	}
}

func (s *Submitter) successMessage(items string, total int) string {
	return fmt.Sprintf(
		"✅ Order Sent Successfully!\n\nOrder Details:\n%s\n\nTotal: %s%d\n\nPlease send your GCash payment screenshot to:\n📱 %s\n💬 Facebook Messenger: %s\n📸 Instagram: %s\n\nThank you for your order!",
		items, s.currency, total,
		s.contacts.GcashNumber, s.contacts.FacebookLink, s.contacts.InstagramLink,
	)
}

// encodeOrderForm builds the multipart body the form endpoint expects:
// exactly the four fields name, phone, items and total.
func encodeOrderForm(name, phone, items string, total int) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct {
		key   string
		value string
	}{
		{"name", name},
		{"phone", phone},
		{"items", items},
		{"total", strconv.Itoa(total)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
