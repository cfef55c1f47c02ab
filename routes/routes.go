// routes/routes.go
package routes

import (
	"kindbites-api/controllers"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, cartController *controllers.CartController, orderController *controllers.OrderController) {
	// Cart routes
	router.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	router.HandleFunc("/cart", cartController.ClearCart).Methods("DELETE")
	router.HandleFunc("/cart/items", cartController.AddToCart).Methods("POST")
	router.HandleFunc("/cart/items/{id}", cartController.UpdateQuantity).Methods("PUT")
	router.HandleFunc("/cart/items/{id}", cartController.RemoveFromCart).Methods("DELETE")
	router.HandleFunc("/cart/custom-box", cartController.BuildCustomBox).Methods("POST")

	// Order routes
	router.HandleFunc("/order", orderController.PlaceOrder).Methods("POST")
}
