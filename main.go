// main.go
package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"kindbites-api/boxbuilder"
	"kindbites-api/config"
	"kindbites-api/controllers"
	"kindbites-api/middleware"
	"kindbites-api/orders"
	"kindbites-api/pricing"
	"kindbites-api/routes"
	"kindbites-api/store"
	"kindbites-api/utils"
)

func main() {
	log := logrus.New()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found. Proceeding with environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.LogJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if cfg.OrderEndpoint == "" {
		log.Fatal("ORDER_ENDPOINT is not set")
	}

	// Set the session signing key
	if cfg.SessionSecret != "" {
		utils.SessionKey = []byte(cfg.SessionSecret)
	} else {
		log.Warn("SESSION_SECRET is not set, using the default signing key")
	}

	// Carts live in Mongo when configured, in memory otherwise.
	var cartStore store.CartStore
	var orderLog store.OrderLog
	if cfg.MongoURI != "" {
		client, err := utils.ConnectDB(cfg.MongoURI)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := client.Disconnect(context.TODO()); err != nil {
				log.Fatal(err)
			}
		}()
		mongoStore := store.NewMongoStore(client, cfg.MongoDatabase, log)
		cartStore = mongoStore
		orderLog = mongoStore
	} else {
		log.Warn("MONGO_URI is not set, carts will not survive a restart")
		memStore := store.NewMemoryStore()
		cartStore = memStore
		orderLog = memStore
	}

	boxes, err := boxbuilder.New(cfg.BoxFees)
	if err != nil {
		log.Fatal(err)
	}
	extractor := pricing.NewExtractor(cfg.CurrencyMarker)

	contacts := orders.PaymentInstructions{
		GcashNumber:   cfg.GcashNumber,
		FacebookLink:  cfg.FacebookLink,
		InstagramLink: cfg.InstagramLink,
	}
	submitter := orders.NewSubmitter(cfg.OrderEndpoint, cfg.SuccessMarker, cfg.CurrencyMarker, contacts, cartStore, log)

	// Initialize EmailService
	var emailService *utils.EmailService
	if cfg.SendgridAPIKey != "" && cfg.EmailSender != "" {
		emailService = utils.NewEmailService(cfg.SendgridAPIKey, cfg.EmailSender, cfg.ShopName)
	}

	// Initialize controllers
	locks := controllers.NewSessionLocks()
	cartController := controllers.NewCartController(cartStore, extractor, boxes, cfg.CurrencyMarker, locks, log)
	orderController := controllers.NewOrderController(cartStore, orderLog, submitter, emailService, cfg.OwnerEmail, cfg.CurrencyMarker, locks, log)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, cartController, orderController)

	// Every request runs inside a cart session
	router.Use(middleware.SessionMiddleware)

	log.Infof("Server is running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
