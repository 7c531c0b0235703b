package firestore

import (
	"time"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
)

const (
	usersCollection    = "users"
	membersCollection  = "members"
	bookingsCollection = "bookings"
	paymentsCollection = "payments"
)

// Document shapes. The *Key fields hold normalised emails so equality
// lookups ignore case while the original spelling is kept.

type userDoc struct {
	Email     string    `firestore:"email"`
	Name      string    `firestore:"name"`
	Role      string    `firestore:"role"`
	Photo     string    `firestore:"photo,omitempty"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func toUserDoc(u domain.User) userDoc {
	return userDoc{Email: u.Email, Name: u.Name, Role: string(u.Role), Photo: u.Photo, CreatedAt: u.CreatedAt}
}

func (d userDoc) user() domain.User {
	return domain.User{Email: d.Email, Name: d.Name, Role: domain.Role(d.Role), Photo: d.Photo, CreatedAt: d.CreatedAt}
}

type memberDoc struct {
	Email    string    `firestore:"email"`
	EmailKey string    `firestore:"emailKey"`
	Name     string    `firestore:"name"`
	JoinedAt time.Time `firestore:"joinedAt"`
}

func toMemberDoc(m domain.Member) memberDoc {
	return memberDoc{Email: m.Email, EmailKey: domain.NormalizeEmail(m.Email), Name: m.Name, JoinedAt: m.JoinedAt}
}

func (d memberDoc) member(id string) domain.Member {
	return domain.Member{ID: id, Email: d.Email, Name: d.Name, JoinedAt: d.JoinedAt}
}

type bookingDoc struct {
	CourtID      string    `firestore:"courtId"`
	UserEmail    string    `firestore:"userEmail"`
	UserEmailKey string    `firestore:"userEmailKey"`
	Title        string    `firestore:"title"`
	Date         string    `firestore:"date,omitempty"`
	TimeSlot     string    `firestore:"timeSlot,omitempty"`
	Price        float64   `firestore:"price,omitempty"`
	Status       string    `firestore:"status"`
	IsPaid       bool      `firestore:"isPaid"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

func toBookingDoc(b domain.Booking) bookingDoc {
	return bookingDoc{
		CourtID:      b.CourtID,
		UserEmail:    b.UserEmail,
		UserEmailKey: domain.NormalizeEmail(b.UserEmail),
		Title:        b.Title,
		Date:         b.Date,
		TimeSlot:     b.TimeSlot,
		Price:        b.Price,
		Status:       string(b.Status),
		IsPaid:       b.IsPaid,
		CreatedAt:    b.CreatedAt,
	}
}

func (d bookingDoc) booking(id string) domain.Booking {
	return domain.Booking{
		ID:        id,
		CourtID:   d.CourtID,
		UserEmail: d.UserEmail,
		Title:     d.Title,
		Date:      d.Date,
		TimeSlot:  d.TimeSlot,
		Price:     d.Price,
		Status:    domain.BookingStatus(d.Status),
		IsPaid:    d.IsPaid,
		CreatedAt: d.CreatedAt,
	}
}

type paymentDoc struct {
	BookingID     string    `firestore:"bookingId"`
	Email         string    `firestore:"email"`
	EmailKey      string    `firestore:"emailKey"`
	Amount        float64   `firestore:"amount"`
	Currency      string    `firestore:"currency"`
	TransactionID string    `firestore:"transactionId,omitempty"`
	CreatedAt     time.Time `firestore:"createdAt"`
}

func toPaymentDoc(p domain.Payment) paymentDoc {
	return paymentDoc{
		BookingID:     p.BookingID,
		Email:         p.Email,
		EmailKey:      domain.NormalizeEmail(p.Email),
		Amount:        p.Amount,
		Currency:      p.Currency,
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
	}
}

func (d paymentDoc) payment(id string) domain.Payment {
	return domain.Payment{
		ID:            id,
		BookingID:     d.BookingID,
		Email:         d.Email,
		Amount:        d.Amount,
		Currency:      d.Currency,
		TransactionID: d.TransactionID,
		CreatedAt:     d.CreatedAt,
	}
}
