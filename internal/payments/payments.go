// Package payments creates payment intents with an external provider. The
// provider authorises the money; the returned client secret is handed to the
// browser to complete the payment.
package payments

import (
	"context"
	"math"
	"strings"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
)

type Intent struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Email     string  `json:"email,omitempty"`
	BookingID string  `json:"bookingId,omitempty"`
}

func (in Intent) validate() error {
	if in.Amount <= 0 || math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return domain.ErrInvalidAmount
	}
	if strings.TrimSpace(in.Currency) == "" {
		return domain.Validationf("currency is required")
	}
	return nil
}

// Provider returns the client secret of a newly created payment intent.
type Provider interface {
	CreateIntent(ctx context.Context, in Intent) (string, error)
}

// MinorUnits converts an amount in major units (e.g. dollars) to the
// smallest currency unit.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Static hands out a fixed secret. It is used for local runs without a
// payment provider account.
type Static struct {
	Secret string
}

func (s Static) CreateIntent(_ context.Context, in Intent) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	return s.Secret, nil
}
