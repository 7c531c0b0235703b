package domain

import "time"

// Payment records money received for a booking. It is never mutated.
type Payment struct {
	ID            string    `json:"id" firestore:"-"`
	BookingID     string    `json:"bookingId" firestore:"bookingId"`
	Email         string    `json:"email" firestore:"email"`
	Amount        float64   `json:"amount" firestore:"amount"`
	Currency      string    `json:"currency" firestore:"currency"`
	TransactionID string    `json:"transactionId,omitempty" firestore:"transactionId,omitempty"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt"`
}
