// Package store defines the persistence contracts the booking lifecycle runs
// against. Directory holds identity records (users, members); Ledger holds
// transactional records (bookings, payments). Each method is atomic on its own;
// nothing here spans more than one document unless documented.
package store

import (
	"context"
	"strings"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
)

// UpdateResult reports the effect of an update. Modified is zero when the
// target is missing or already holds the requested values.
type UpdateResult struct {
	Matched  int64 `json:"matchedCount"`
	Modified int64 `json:"modifiedCount"`
}

type Directory interface {
	GetUser(ctx context.Context, email string) (domain.User, error)
	UpsertUser(ctx context.Context, u domain.User) error
	ListUsers(ctx context.Context) ([]domain.User, error)
	SetUserRole(ctx context.Context, email string, role domain.Role) (UpdateResult, error)

	// InsertMember stores m and returns its id. When a member with the same
	// email already exists it returns that member's id with domain.ErrMemberExists.
	InsertMember(ctx context.Context, m domain.Member) (string, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
	// DeleteMember removes the member and returns the removed record.
	DeleteMember(ctx context.Context, id string) (domain.Member, error)
}

type Ledger interface {
	InsertBooking(ctx context.Context, b domain.Booking) (string, error)
	GetBooking(ctx context.Context, id string) (domain.Booking, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]domain.Booking, error)
	UpdateBooking(ctx context.Context, id string, p BookingPatch) (UpdateResult, error)
	DeleteBooking(ctx context.Context, id string) (int64, error)

	InsertPayment(ctx context.Context, p domain.Payment) (string, error)
	// ListPayments returns payments for email, or every payment when email is empty.
	ListPayments(ctx context.Context, email string) ([]domain.Payment, error)
}

// BookingFilter is a conjunction of optional predicates. Zero fields match anything.
type BookingFilter struct {
	Status domain.BookingStatus
	Email  string
	Title  string
}

// Match reports whether b satisfies every set predicate. Email is compared
// case-insensitively and Title is a case-insensitive substring match.
func (f BookingFilter) Match(b domain.Booking) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.Email != "" && domain.NormalizeEmail(b.UserEmail) != domain.NormalizeEmail(f.Email) {
		return false
	}
	if f.Title != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(f.Title)) {
		return false
	}
	return true
}

// BookingPatch is a partial update. Nil fields are left untouched.
type BookingPatch struct {
	Status *domain.BookingStatus
	IsPaid *bool
}

// Apply writes the patch onto b and reports whether any field changed. A
// patch that would move the status backward, or leave a paid booking
// unconfirmed, is refused as a whole and b is left untouched. Stores apply it
// under their lock or transaction, so a concurrent transition turns a stale
// write into a no-op.
func (p BookingPatch) Apply(b *domain.Booking) bool {
	next := *b
	if p.Status != nil && next.Status != *p.Status {
		if !next.Status.CanAdvanceTo(*p.Status) {
			return false
		}
		next.Status = *p.Status
	}
	if p.IsPaid != nil {
		next.IsPaid = *p.IsPaid
	}
	if next.IsPaid && next.Status != domain.BookingStatusConfirmed {
		return false
	}
	if next == *b {
		return false
	}
	*b = next
	return true
}

// StatusPatch sets only the status.
func StatusPatch(s domain.BookingStatus) BookingPatch {
	return BookingPatch{Status: &s}
}

// ConfirmPatch marks a booking confirmed and paid.
func ConfirmPatch() BookingPatch {
	s := domain.BookingStatusConfirmed
	paid := true
	return BookingPatch{Status: &s, IsPaid: &paid}
}
