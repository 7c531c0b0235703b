package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

type intentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type Stripe struct {
	intents intentCreator
}

func NewStripe(secretKey string) *Stripe {
	sc := client.New(secretKey, nil)
	return &Stripe{intents: sc.PaymentIntents}
}

// CreateIntent creates a card payment intent. Provider failures are returned
// wrapped and not retried.
func (s *Stripe) CreateIntent(ctx context.Context, in Intent) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(MinorUnits(in.Amount)),
		Currency:           stripe.String(strings.ToLower(in.Currency)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	if in.Email != "" {
		params.ReceiptEmail = stripe.String(in.Email)
	}
	if in.BookingID != "" {
		params.AddMetadata("booking_id", in.BookingID)
	}

	pi, err := s.intents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}
