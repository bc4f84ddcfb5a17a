package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	DBConnectionString string `envconfig:"DATABASE_URL" required:"true"`

	// Clerk issues the session JWTs; ClerkJWTKey is either the instance's
	// PEM public key or, for local JWT templates, an HMAC secret.
	ClerkJWTKey string `envconfig:"CLERK_JWT_KEY" required:"true"`

	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET" required:"true"`
	StripePriceID       string `envconfig:"STRIPE_PRICE_ID" required:"true"`

	// AppURL is the public base URL of the frontend, used to build checkout
	// success/cancel and portal return URLs.
	AppURL string `envconfig:"APP_URL" default:"http://localhost:5000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
