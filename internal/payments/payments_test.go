package payments

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
)

type fakeIntents struct {
	got *stripe.PaymentIntentParams
	err error
}

func (f *fakeIntents) New(p *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.got = p
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret_abc"}, nil
}

func TestMinorUnits(t *testing.T) {
	assert.EqualValues(t, 2000, MinorUnits(20))
	assert.EqualValues(t, 1999, MinorUnits(19.99))
}

func TestStripe_CreateIntent(t *testing.T) {
	fake := &fakeIntents{}
	s := &Stripe{intents: fake}

	secret, err := s.CreateIntent(context.Background(), Intent{Amount: 20, Currency: "USD", Email: "a@x.com", BookingID: "B1"})
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret_abc", secret)

	require.NotNil(t, fake.got)
	assert.EqualValues(t, 2000, *fake.got.Amount)
	assert.Equal(t, "usd", *fake.got.Currency)
	assert.Equal(t, "a@x.com", *fake.got.ReceiptEmail)
	assert.Equal(t, "B1", fake.got.Metadata["booking_id"])
}

func TestStripe_CreateIntentErrors(t *testing.T) {
	fake := &fakeIntents{err: errors.New("card_declined")}
	s := &Stripe{intents: fake}

	_, err := s.CreateIntent(context.Background(), Intent{Amount: 20, Currency: "usd"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrValidation)

	_, err = s.CreateIntent(context.Background(), Intent{Amount: -1, Currency: "usd"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.CreateIntent(context.Background(), Intent{Amount: math.NaN(), Currency: "usd"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.CreateIntent(context.Background(), Intent{Amount: 5})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStatic_CreateIntent(t *testing.T) {
	secret, err := Static{Secret: "test_secret"}.CreateIntent(context.Background(), Intent{Amount: 1, Currency: "usd"})
	require.NoError(t, err)
	assert.Equal(t, "test_secret", secret)
}
