package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindbites-api/boxbuilder"
	"kindbites-api/middleware"
	"kindbites-api/orders"
	"kindbites-api/pricing"
	"kindbites-api/render"
	"kindbites-api/store"
)

type testEnv struct {
	srv    *httptest.Server
	client *http.Client
	store  *store.MemoryStore
}

// newTestEnv wires the full HTTP surface against a memory store and the
// given remote order endpoint. The client carries the session cookie, so
// consecutive requests share one cart.
func newTestEnv(t *testing.T, orderEndpoint string) *testEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	memStore := store.NewMemoryStore()
	boxes, err := boxbuilder.New(map[int]int{3: 10, 6: 15})
	require.NoError(t, err)
	extractor := pricing.NewExtractor("₱")

	contacts := orders.PaymentInstructions{GcashNumber: "0918-744-1236"}
	submitter := orders.NewSubmitter(orderEndpoint, "SUCCESS", "₱", contacts, memStore, log)

	locks := NewSessionLocks()
	cartController := NewCartController(memStore, extractor, boxes, "₱", locks, log)
	orderController := NewOrderController(memStore, memStore, submitter, nil, "", "₱", locks, log)

	router := mux.NewRouter()
	router.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	router.HandleFunc("/cart", cartController.ClearCart).Methods("DELETE")
	router.HandleFunc("/cart/items", cartController.AddToCart).Methods("POST")
	router.HandleFunc("/cart/items/{id}", cartController.UpdateQuantity).Methods("PUT")
	router.HandleFunc("/cart/items/{id}", cartController.RemoveFromCart).Methods("DELETE")
	router.HandleFunc("/cart/custom-box", cartController.BuildCustomBox).Methods("POST")
	router.HandleFunc("/order", orderController.PlaceOrder).Methods("POST")
	router.Use(middleware.SessionMiddleware)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		srv:    srv,
		client: &http.Client{Jar: jar},
		store:  memStore,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeView(t *testing.T, resp *http.Response) render.CartView {
	t.Helper()
	defer resp.Body.Close()
	var view render.CartView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	return view
}

func TestAddAndViewCart(t *testing.T) {
	env := newTestEnv(t, "http://unused.invalid")

	resp := env.do(t, http.MethodPost, "/cart/items", map[string]interface{}{
		"label": "Chocolate Crinkles", "unit_price": 90,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var added mutationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&added))
	resp.Body.Close()
	assert.Equal(t, `Added "Chocolate Crinkles" to cart!`, added.Message)
	assert.Equal(t, "🛒 1 item", added.Badge)

	// Same label and price merges into one row.
	resp = env.do(t, http.MethodPost, "/cart/items", map[string]interface{}{
		"label": "Chocolate Crinkles", "unit_price": 90,
	})
	resp.Body.Close()

	view := decodeView(t, env.do(t, http.MethodGet, "/cart", nil))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, 2, view.Rows[0].Quantity)
	assert.Equal(t, 180, view.Total)
	assert.Equal(t, "🛒 2 items", view.Badge)
}

func TestAddFromProductCardForm(t *testing.T) {
	env := newTestEnv(t, "http://unused.invalid")

	resp := env.do(t, http.MethodPost, "/cart/items", map[string]interface{}{
		"product":       "Cupcake",
		"flavor_option": "Ube - rich and creamy",
		"price_option":  map[string]interface{}{"value": 65, "text": "₱65 - frosted"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	view := decodeView(t, env.do(t, http.MethodGet, "/cart", nil))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Cupcake - Ube (frosted)", view.Rows[0].Label)
	assert.Equal(t, 65, view.Rows[0].UnitPrice)
}

func TestUpdateQuantityValidation(t *testing.T) {
	env := newTestEnv(t, "http://unused.invalid")

	resp := env.do(t, http.MethodPost, "/cart/items", map[string]interface{}{
		"label": "Cupcake", "unit_price": 50,
	})
	var added mutationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&added))
	resp.Body.Close()

	resp = env.do(t, http.MethodPut, "/cart/items/"+added.Item.ID, map[string]int{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	view := decodeView(t, env.do(t, http.MethodGet, "/cart", nil))
	assert.Equal(t, 1, view.Rows[0].Quantity)

	resp = env.do(t, http.MethodPut, "/cart/items/"+added.Item.ID, map[string]int{"quantity": 4})
	view = decodeView(t, resp)
	assert.Equal(t, 4, view.Rows[0].Quantity)
	assert.Equal(t, 200, view.Total)

	resp = env.do(t, http.MethodPut, "/cart/items/nope", map[string]int{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRemoveAndClear(t *testing.T) {
	env := newTestEnv(t, "http://unused.invalid")

	resp := env.do(t, http.MethodPost, "/cart/items", map[string]interface{}{"label": "A", "unit_price": 10})
	var added mutationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&added))
	resp.Body.Close()
	env.do(t, http.MethodPost, "/cart/items", map[string]interface{}{"label": "B", "unit_price": 20}).Body.Close()

	view := decodeView(t, env.do(t, http.MethodDelete, "/cart/items/"+added.Item.ID, nil))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "B", view.Rows[0].Label)

	view = decodeView(t, env.do(t, http.MethodDelete, "/cart", nil))
	assert.True(t, view.Empty)
	assert.Equal(t, render.EmptyCartMessage, view.Message)
}

func TestCustomBoxEndpoint(t *testing.T) {
	env := newTestEnv(t, "http://unused.invalid")

	// Mismatched count: rejected, cart untouched.
	resp := env.do(t, http.MethodPost, "/cart/custom-box", map[string]interface{}{
		"box_size": 3,
		"picks": []map[string]interface{}{
			{"name": "Chocolate Chip", "unit_price": 30, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(raw), "exactly 3")
	assert.Contains(t, string(raw), "selected 2")

	view := decodeView(t, env.do(t, http.MethodGet, "/cart", nil))
	assert.True(t, view.Empty)

	// Exact count: one composite line item.
	resp = env.do(t, http.MethodPost, "/cart/custom-box", map[string]interface{}{
		"box_size": 3,
		"picks": []map[string]interface{}{
			{"name": "Chocolate Chip", "unit_price": 30, "quantity": 2},
			{"name": "Red Velvet", "unit_price": 35, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	view = decodeView(t, env.do(t, http.MethodGet, "/cart", nil))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Create Your Own Box (3): Chocolate Chip x2, Red Velvet x1", view.Rows[0].Label)
	assert.Equal(t, 2*30+35+10, view.Rows[0].UnitPrice)
}

func TestPlaceOrderEndToEnd(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "SUCCESS")
	}))
	defer remote.Close()

	env := newTestEnv(t, remote.URL)

	// Empty cart is rejected before any call.
	resp := env.do(t, http.MethodPost, "/order", map[string]string{"name": "Ana", "phone": "0917"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	env.do(t, http.MethodPost, "/cart/items", map[string]interface{}{"label": "Cupcake", "unit_price": 50}).Body.Close()

	// Missing contact info is rejected, cart kept.
	resp = env.do(t, http.MethodPost, "/order", map[string]string{"name": " ", "phone": "0917"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/order", map[string]string{"name": "Ana", "phone": "0917"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var placed placeOrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&placed))
	resp.Body.Close()
	assert.Equal(t, "confirmed", placed.Status)
	assert.Equal(t, 50, placed.Total)
	assert.Contains(t, placed.Message, "Order Sent Successfully")

	// Cart is now empty and the order is on record.
	view := decodeView(t, env.do(t, http.MethodGet, "/cart", nil))
	assert.True(t, view.Empty)
	require.Len(t, env.store.Orders(), 1)
	assert.Equal(t, "Ana", env.store.Orders()[0].CustomerName)
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "something else entirely")
	}))
	defer remote.Close()

	env := newTestEnv(t, remote.URL)
	env.do(t, http.MethodPost, "/cart/items", map[string]interface{}{"label": "Cupcake", "unit_price": 50}).Body.Close()

	resp := env.do(t, http.MethodPost, "/order", map[string]string{"name": "Ana", "phone": "0917"})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var placed placeOrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&placed))
	resp.Body.Close()
	assert.Equal(t, "failed", placed.Status)
	assert.Contains(t, placed.Message, "contact us directly")

	view := decodeView(t, env.do(t, http.MethodGet, "/cart", nil))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Cupcake", view.Rows[0].Label)
	assert.Empty(t, env.store.Orders())
}
