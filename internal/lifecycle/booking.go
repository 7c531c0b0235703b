package lifecycle

import (
	"context"
	"log/slog"
	"strings"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
	"github.com/magzhanmnazhatdin/courtclub/internal/store"
)

type NewBooking struct {
	CourtID   string               `json:"courtId"`
	UserEmail string               `json:"userEmail"`
	Title     string               `json:"title"`
	Date      string               `json:"date"`
	TimeSlot  string               `json:"timeSlot"`
	Price     float64              `json:"price"`
	Status    domain.BookingStatus `json:"status"`
}

// CreateBooking inserts a booking in pending state. A booking cannot be
// created in any later state, and is never created paid.
func (m *Manager) CreateBooking(ctx context.Context, in NewBooking) (string, error) {
	r, ctx := m.begin(ctx, "create_booking", "")
	defer r.end()

	in.UserEmail = strings.TrimSpace(in.UserEmail)
	if in.UserEmail == "" {
		return "", r.fail("validate", domain.ErrMissingEmail)
	}
	if in.Status == "" {
		in.Status = domain.BookingStatusPending
	}
	if in.Status != domain.BookingStatusPending {
		return "", r.fail("validate", domain.Validationf("new bookings must be %s, got %q",
			domain.BookingStatusPending, in.Status))
	}

	id, err := m.ledger.InsertBooking(ctx, domain.Booking{
		CourtID:   in.CourtID,
		UserEmail: in.UserEmail,
		Title:     in.Title,
		Date:      in.Date,
		TimeSlot:  in.TimeSlot,
		Price:     in.Price,
		Status:    in.Status,
		CreatedAt: m.now(),
	})
	if err != nil {
		return "", r.fail("insert booking", err)
	}
	m.log.InfoContext(ctx, "booking created",
		slog.String("booking_id", id),
		slog.String("court_id", in.CourtID),
		slog.String("email", in.UserEmail),
	)
	return id, nil
}

// DeleteBooking removes a booking in any state and returns the deleted count.
// Payments referencing it are left in place.
func (m *Manager) DeleteBooking(ctx context.Context, id string) (int64, error) {
	r, ctx := m.begin(ctx, "delete_booking", id)
	defer r.end()

	if id == "" {
		return 0, r.fail("delete booking", domain.ErrMissingBookingID)
	}
	n, err := m.ledger.DeleteBooking(ctx, id)
	if err != nil {
		return 0, r.fail("delete booking", err)
	}
	if n > 0 {
		m.log.InfoContext(ctx, "booking deleted", slog.String("booking_id", id))
	}
	return n, nil
}

func (m *Manager) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	b, err := m.ledger.GetBooking(ctx, id)
	if err != nil && !isKind(err) {
		return domain.Booking{}, &StepError{Transition: "get_booking", Step: "query", Err: err}
	}
	return b, err
}

func (m *Manager) ListBookings(ctx context.Context, f store.BookingFilter) ([]domain.Booking, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, domain.Validationf("unknown status %q", f.Status)
	}
	out, err := m.ledger.ListBookings(ctx, f)
	if err != nil {
		return nil, &StepError{Transition: "list_bookings", Step: "query", Err: err}
	}
	return out, nil
}
