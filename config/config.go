// config/config.go
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration. Values come from the
// environment (optionally seeded from a .env file in main).
type Config struct {
	Port string `envconfig:"PORT" default:"8000"`

	// MongoURI may be left empty, in which case carts are kept in memory
	// and do not survive a restart.
	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_DB" default:"kindbites"`

	// OrderEndpoint is the external form-processing URL orders are
	// POSTed to. SuccessMarker is the substring its response body must
	// contain for a submission to count as accepted.
	OrderEndpoint string `envconfig:"ORDER_ENDPOINT"`
	SuccessMarker string `envconfig:"ORDER_SUCCESS_MARKER" default:"SUCCESS"`

	CurrencyMarker string `envconfig:"CURRENCY_MARKER" default:"₱"`

	SessionSecret string `envconfig:"SESSION_SECRET"`

	// BoxFees maps each offered custom-box size to its packaging fee.
	BoxFees map[int]int `envconfig:"BOX_FEES" default:"3:10,6:15"`

	ShopName      string `envconfig:"SHOP_NAME" default:"Kind Bites"`
	GcashNumber   string `envconfig:"GCASH_NUMBER" default:"0918-744-1236"`
	FacebookLink  string `envconfig:"FACEBOOK_LINK" default:"https://www.facebook.com/laa.delizia"`
	InstagramLink string `envconfig:"INSTAGRAM_LINK" default:"https://www.instagram.com/kindbites.ph/"`

	// Owner notification email is optional; orders succeed without it.
	OwnerEmail     string `envconfig:"OWNER_EMAIL"`
	SendgridAPIKey string `envconfig:"SENDGRID_API_KEY"`
	EmailSender    string `envconfig:"EMAIL_SENDER"`

	LogJSON bool `envconfig:"LOG_JSON" default:"false"`
}

// Load parses the process environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}
