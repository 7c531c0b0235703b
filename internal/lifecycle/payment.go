package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
	"github.com/magzhanmnazhatdin/courtclub/internal/store"
)

const (
	stepInsertPayment  = "insert payment"
	stepConfirmBooking = "confirm booking"
)

type NewPayment struct {
	BookingID     string  `json:"bookingId"`
	Email         string  `json:"email"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	TransactionID string  `json:"transactionId"`
}

type PaymentSummary struct {
	PaymentID string             `json:"paymentId"`
	BookingID string             `json:"bookingId"`
	Booking   store.UpdateResult `json:"bookingUpdate"`
	Message   string             `json:"message"`
}

// RecordPayment stores the payment and then confirms the referenced booking.
//
// When the booking is missing or already confirmed the payment has still been
// stored: the summary carries its id and the error is domain.ErrBookingNotFound.
func (m *Manager) RecordPayment(ctx context.Context, in NewPayment) (PaymentSummary, error) {
	r, ctx := m.begin(ctx, "record_payment", in.BookingID)
	defer r.end()

	if in.BookingID == "" {
		return PaymentSummary{}, r.fail(stepInsertPayment, domain.ErrMissingBookingID)
	}
	if in.Amount <= 0 {
		return PaymentSummary{}, r.fail(stepInsertPayment, domain.ErrInvalidAmount)
	}
	currency := strings.ToLower(in.Currency)
	if currency == "" {
		currency = m.currency
	}

	paymentID, err := m.ledger.InsertPayment(ctx, domain.Payment{
		BookingID:     in.BookingID,
		Email:         in.Email,
		Amount:        in.Amount,
		Currency:      currency,
		TransactionID: in.TransactionID,
		CreatedAt:     m.now(),
	})
	if err != nil {
		return PaymentSummary{}, r.fail(stepInsertPayment, err)
	}
	r.done(stepInsertPayment)
	sum := PaymentSummary{PaymentID: paymentID, BookingID: in.BookingID}

	res, err := m.ledger.UpdateBooking(ctx, in.BookingID, store.ConfirmPatch())
	if err != nil {
		return sum, r.fail(stepConfirmBooking, err)
	}
	sum.Booking = res
	if res.Modified == 0 {
		m.log.WarnContext(ctx, "payment recorded without confirming booking",
			slog.String("payment_id", paymentID),
			slog.String("booking_id", in.BookingID),
			slog.Int64("matched", res.Matched),
		)
		sum.Message = "payment recorded but booking was not updated"
		return sum, r.fail(stepConfirmBooking,
			fmt.Errorf("%w: %s not updated", domain.ErrBookingNotFound, in.BookingID))
	}
	r.done(stepConfirmBooking)

	sum.Message = "payment recorded and booking confirmed"
	m.log.InfoContext(ctx, "payment recorded",
		slog.String("payment_id", paymentID),
		slog.String("booking_id", in.BookingID),
		slog.Float64("amount", in.Amount),
		slog.String("currency", currency),
	)
	return sum, nil
}

func (m *Manager) ListPayments(ctx context.Context, email string) ([]domain.Payment, error) {
	out, err := m.ledger.ListPayments(ctx, email)
	if err != nil {
		return nil, &StepError{Transition: "list_payments", Step: "query", Err: err}
	}
	return out, nil
}
