package config

import (
	"os"
	"strconv"

	"printpost-backend/internal/pricing"
)

type Config struct {
	Env  string
	Port int

	// AppBaseURL is where the payment service redirects the payer after
	// checkout (success/cancel pages).
	AppBaseURL string

	StripeSecretKey     string
	StripeWebhookSecret string
	SendgridAPIKey      string

	// EmailFrom must be a sender identity verified with the mail service.
	EmailFrom string
	EmailTo   string

	OperatorSecret string
	PostgresDSN    string

	Rates pricing.RateTable
}

func Default() Config {
	return Config{
		Env:        "dev",
		Port:       8080,
		AppBaseURL: "http://127.0.0.1:8080",
		EmailFrom:  "orders@printpostgo.com",
		EmailTo:    "support@printpostgo.com",
		Rates:      pricing.DefaultRates(),
	}
}

func EnvDefaults() Config {
	return fromEnv(Default())
}

func fromEnv(c Config) Config {
	if v := os.Getenv("PRINTPOST_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("PRINTPOST_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("PRINTPOST_BASE_URL"); v != "" {
		c.AppBaseURL = v
	}
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		c.StripeSecretKey = v
	}
	if v := os.Getenv("STRIPE_WEBHOOK_SECRET"); v != "" {
		c.StripeWebhookSecret = v
	}
	if v := os.Getenv("SENDGRID_API_KEY"); v != "" {
		c.SendgridAPIKey = v
	}
	if v := os.Getenv("PRINTPOST_EMAIL_FROM"); v != "" {
		c.EmailFrom = v
	}
	if v := os.Getenv("PRINTPOST_EMAIL_TO"); v != "" {
		c.EmailTo = v
	}
	if v := os.Getenv("PRINTPOST_OPERATOR_SECRET"); v != "" {
		c.OperatorSecret = v
	}
	if v := os.Getenv("PRINTPOST_POSTGRES_DSN"); v != "" {
		c.PostgresDSN = v
	}

	envCents("PRINTPOST_BASE_FEE_CENTS", &c.Rates.BaseFeeCents)
	envCents("PRINTPOST_PAGE_BW_CENTS", &c.Rates.PerPageBWCents)
	envCents("PRINTPOST_PAGE_COLOR_CENTS", &c.Rates.PerPageColorCents)
	envCents("PRINTPOST_LEGAL_SURCHARGE_CENTS", &c.Rates.LegalSurchargeCents)
	envCents("PRINTPOST_VOLUME_FEE_CENTS", &c.Rates.VolumeFeeCents)
	envCents("PRINTPOST_MINIMUM_ORDER_CENTS", &c.Rates.MinimumOrderCents)
	envCents("PRINTPOST_MAIL_ECONOMY_CENTS", &c.Rates.MailEconomyCents)
	envCents("PRINTPOST_MAIL_STANDARD_CENTS", &c.Rates.MailStandardCents)
	envCents("PRINTPOST_MAIL_FIRST_CLASS_CENTS", &c.Rates.MailFirstClassCents)
	envCents("PRINTPOST_MAIL_CERTIFIED_CENTS", &c.Rates.MailCertifiedCents)
	envCents("PRINTPOST_MAIL_PRIORITY_CENTS", &c.Rates.MailPriorityCents)
	envCents("PRINTPOST_MAIL_LARGE_CENTS", &c.Rates.MailLargeCents)
	if v := os.Getenv("PRINTPOST_VOLUME_THRESHOLD_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Rates.VolumeThresholdPages = n
		}
	}
	return c
}

func envCents(key string, dst *int64) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			*dst = n
		}
	}
}
