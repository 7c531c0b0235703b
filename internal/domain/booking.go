package domain

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusRejected  BookingStatus = "rejected"
)

// Booking is a request to use a court, carrying its approval and payment state.
type Booking struct {
	ID        string        `json:"id" firestore:"-"`
	CourtID   string        `json:"courtId" firestore:"courtId"`
	UserEmail string        `json:"userEmail" firestore:"userEmail"`
	Title     string        `json:"title" firestore:"title"`
	Date      string        `json:"date,omitempty" firestore:"date,omitempty"`
	TimeSlot  string        `json:"timeSlot,omitempty" firestore:"timeSlot,omitempty"`
	Price     float64       `json:"price,omitempty" firestore:"price,omitempty"`
	Status    BookingStatus `json:"status" firestore:"status"`
	IsPaid    bool          `json:"isPaid" firestore:"isPaid"`
	CreatedAt time.Time     `json:"createdAt" firestore:"createdAt"`
}

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusConfirmed, BookingStatusRejected:
		return true
	}
	return false
}

// CanAdvanceTo reports whether a booking in status s may move to next.
// Status only moves forward: pending -> approved -> confirmed, and a payment
// may confirm a booking that was never approved.
func (s BookingStatus) CanAdvanceTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusApproved || next == BookingStatusConfirmed
	case BookingStatusApproved:
		return next == BookingStatusConfirmed
	}
	return false
}

// OwnedBy reports whether email is the booking's requester.
func (b Booking) OwnedBy(email string) bool {
	return b.UserEmail != "" && NormalizeEmail(b.UserEmail) == NormalizeEmail(email)
}

// NormalizeEmail is the lookup key for an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
