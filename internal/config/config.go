// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"

	AuthFirebase = "firebase"
	AuthHS256    = "hs256"

	PaymentStripe = "stripe"
	PaymentStatic = "static"
)

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	StoreBackend            string `env:"STORE_BACKEND" envDefault:"firestore"`
	FirebaseCredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`

	AuthMode        string `env:"AUTH_MODE" envDefault:"firebase"`
	AuthHS256Secret string `env:"AUTH_HS256_SECRET"`

	PaymentProvider string `env:"PAYMENT_PROVIDER" envDefault:"stripe"`
	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`
	PaymentCurrency string `env:"PAYMENT_CURRENCY" envDefault:"usd"`

	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	OTELEndpoint     string   `env:"OTEL_ENDPOINT"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment. Variables already set win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case StoreFirestore, StoreMemory:
	default:
		return fmt.Errorf("STORE_BACKEND: unknown backend %q", c.StoreBackend)
	}
	switch c.AuthMode {
	case AuthFirebase:
		if c.StoreBackend != StoreFirestore {
			return errors.New("AUTH_MODE=firebase requires STORE_BACKEND=firestore")
		}
	case AuthHS256:
		if c.AuthHS256Secret == "" {
			return errors.New("AUTH_HS256_SECRET is required when AUTH_MODE=hs256")
		}
	default:
		return fmt.Errorf("AUTH_MODE: unknown mode %q", c.AuthMode)
	}
	switch c.PaymentProvider {
	case PaymentStripe:
		if c.StripeSecretKey == "" {
			return errors.New("STRIPE_SECRET_KEY is required when PAYMENT_PROVIDER=stripe")
		}
	case PaymentStatic:
	default:
		return fmt.Errorf("PAYMENT_PROVIDER: unknown provider %q", c.PaymentProvider)
	}
	if strings.TrimSpace(c.PaymentCurrency) == "" {
		return errors.New("PAYMENT_CURRENCY must not be empty")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return l, nil
}
