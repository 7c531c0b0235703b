// Package memory is an in-process implementation of the store contracts,
// guarded by a single mutex. It backs tests and STORE_BACKEND=memory runs.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
	"github.com/magzhanmnazhatdin/courtclub/internal/store"
)

var (
	_ store.Directory = (*Store)(nil)
	_ store.Ledger    = (*Store)(nil)
)

// Store keeps every collection in maps plus an insertion-order index so
// listings come back in natural store order.
type Store struct {
	mu sync.RWMutex

	users     map[string]domain.User
	userOrder []string

	members     map[string]domain.Member
	memberOrder []string

	bookings     map[string]domain.Booking
	bookingOrder []string

	payments     map[string]domain.Payment
	paymentOrder []string
}

func New() *Store {
	return &Store{
		users:    map[string]domain.User{},
		members:  map[string]domain.Member{},
		bookings: map[string]domain.Booking{},
		payments: map[string]domain.Payment{},
	}
}

func newID() string {
	return uuid.New().String()
}

func remove(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

// Users

func (s *Store) GetUser(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[domain.NormalizeEmail(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) UpsertUser(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := domain.NormalizeEmail(u.Email)
	if _, ok := s.users[key]; !ok {
		s.userOrder = append(s.userOrder, key)
	}
	s.users[key] = u
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.userOrder))
	for _, key := range s.userOrder {
		out = append(out, s.users[key])
	}
	return out, nil
}

func (s *Store) SetUserRole(_ context.Context, email string, role domain.Role) (store.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := domain.NormalizeEmail(email)
	u, ok := s.users[key]
	if !ok {
		return store.UpdateResult{}, nil
	}
	if u.Role == role {
		return store.UpdateResult{Matched: 1}, nil
	}
	u.Role = role
	s.users[key] = u
	return store.UpdateResult{Matched: 1, Modified: 1}, nil
}

// Members

func (s *Store) InsertMember(_ context.Context, m domain.Member) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := domain.NormalizeEmail(m.Email)
	for _, id := range s.memberOrder {
		if domain.NormalizeEmail(s.members[id].Email) == key {
			return id, domain.ErrMemberExists
		}
	}
	m.ID = newID()
	s.members[m.ID] = m
	s.memberOrder = append(s.memberOrder, m.ID)
	return m.ID, nil
}

func (s *Store) ListMembers(_ context.Context) ([]domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Member, 0, len(s.memberOrder))
	for _, id := range s.memberOrder {
		out = append(out, s.members[id])
	}
	return out, nil
}

func (s *Store) DeleteMember(_ context.Context, id string) (domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return domain.Member{}, domain.ErrMemberNotFound
	}
	delete(s.members, id)
	s.memberOrder = remove(s.memberOrder, id)
	return m, nil
}

// Bookings

func (s *Store) InsertBooking(_ context.Context, b domain.Booking) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = newID()
	}
	if _, ok := s.bookings[b.ID]; !ok {
		s.bookingOrder = append(s.bookingOrder, b.ID)
	}
	s.bookings[b.ID] = b
	return b.ID, nil
}

func (s *Store) GetBooking(_ context.Context, id string) (domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return b, nil
}

func (s *Store) ListBookings(_ context.Context, f store.BookingFilter) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Booking, 0)
	for _, id := range s.bookingOrder {
		if b := s.bookings[id]; f.Match(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) UpdateBooking(_ context.Context, id string, p store.BookingPatch) (store.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return store.UpdateResult{}, nil
	}
	if !p.Apply(&b) {
		return store.UpdateResult{Matched: 1}, nil
	}
	s.bookings[id] = b
	return store.UpdateResult{Matched: 1, Modified: 1}, nil
}

func (s *Store) DeleteBooking(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return 0, nil
	}
	delete(s.bookings, id)
	s.bookingOrder = remove(s.bookingOrder, id)
	return 1, nil
}

// Payments

func (s *Store) InsertPayment(_ context.Context, p domain.Payment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = newID()
	s.payments[p.ID] = p
	s.paymentOrder = append(s.paymentOrder, p.ID)
	return p.ID, nil
}

func (s *Store) ListPayments(_ context.Context, email string) ([]domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Payment, 0)
	for _, id := range s.paymentOrder {
		p := s.payments[id]
		if email != "" && domain.NormalizeEmail(p.Email) != domain.NormalizeEmail(email) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
