package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"production"`

	// Database and auth settings. The service cannot run without these.
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	JWTSecret          string `envconfig:"SUPABASE_JWT_SECRET" required:"true"`

	// Frontend base URL used for Stripe Checkout redirects.
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`

	// Stripe settings. Optional: when missing, billing endpoints respond
	// with a "not configured" error instead of the server refusing to boot.
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripePremiumPrice  string `envconfig:"STRIPE_PREMIUM_PRICE_ID"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`

	// Resend settings for plan-change notification emails. Optional.
	ResendAPIKey string `envconfig:"RESEND_API_KEY"`
	EmailFrom    string `envconfig:"EMAIL_FROM" default:"no-reply@localhost"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BillingConfigured reports whether the Stripe checkout flow can be used.
func (c *Config) BillingConfigured() bool {
	return c.StripeSecretKey != "" && c.StripePremiumPrice != ""
}
