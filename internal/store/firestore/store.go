// Package firestore implements the Directory and Ledger contracts on Cloud
// Firestore. Every multi-read operation (conditional update, member
// uniqueness, delete-with-count) runs in a single Firestore transaction.
package firestore

import (
	"context"
	"errors"
	"fmt"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
	"github.com/magzhanmnazhatdin/courtclub/internal/store"
)

var (
	_ store.Directory = (*Store)(nil)
	_ store.Ledger    = (*Store)(nil)
)

// Store wraps a Firestore client owned by the caller.
type Store struct {
	client *fs.Client
}

func New(client *fs.Client) *Store {
	return &Store{client: client}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (s *Store) users() *fs.CollectionRef    { return s.client.Collection(usersCollection) }
func (s *Store) members() *fs.CollectionRef  { return s.client.Collection(membersCollection) }
func (s *Store) bookings() *fs.CollectionRef { return s.client.Collection(bookingsCollection) }
func (s *Store) payments() *fs.CollectionRef { return s.client.Collection(paymentsCollection) }

// Users are keyed by normalised email.

func (s *Store) GetUser(ctx context.Context, email string) (domain.User, error) {
	snap, err := s.users().Doc(domain.NormalizeEmail(email)).Get(ctx)
	if isNotFound(err) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return domain.User{}, fmt.Errorf("decode user: %w", err)
	}
	return d.user(), nil
}

// UpsertUser creates u or refreshes its profile. An existing role and
// creation time are kept.
func (s *Store) UpsertUser(ctx context.Context, u domain.User) error {
	ref := s.users().Doc(domain.NormalizeEmail(u.Email))
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && !isNotFound(err) {
			return err
		}
		if err == nil {
			var existing userDoc
			if err := snap.DataTo(&existing); err != nil {
				return err
			}
			u.Role = domain.Role(existing.Role)
			u.CreatedAt = existing.CreatedAt
		}
		return tx.Set(ref, toUserDoc(u))
	})
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	snaps, err := s.users().Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(snaps))
	for _, snap := range snaps {
		var d userDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", snap.Ref.ID, err)
		}
		out = append(out, d.user())
	}
	return out, nil
}

func (s *Store) SetUserRole(ctx context.Context, email string, role domain.Role) (store.UpdateResult, error) {
	ref := s.users().Doc(domain.NormalizeEmail(email))
	var res store.UpdateResult
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		res = store.UpdateResult{}
		snap, err := tx.Get(ref)
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		res.Matched = 1
		var d userDoc
		if err := snap.DataTo(&d); err != nil {
			return err
		}
		if d.Role == string(role) {
			return nil
		}
		res.Modified = 1
		return tx.Update(ref, []fs.Update{{Path: "role", Value: string(role)}})
	})
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("set user role: %w", err)
	}
	return res, nil
}

// Members

func (s *Store) InsertMember(ctx context.Context, m domain.Member) (string, error) {
	doc := toMemberDoc(m)
	q := s.members().Where("emailKey", "==", doc.EmailKey).Limit(1)
	var id string
	var exists bool
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		snaps, err := tx.Documents(q).GetAll()
		if err != nil {
			return err
		}
		if len(snaps) > 0 {
			id, exists = snaps[0].Ref.ID, true
			return nil
		}
		ref := s.members().NewDoc()
		id, exists = ref.ID, false
		return tx.Create(ref, doc)
	})
	if err != nil {
		return "", fmt.Errorf("insert member: %w", err)
	}
	if exists {
		return id, domain.ErrMemberExists
	}
	return id, nil
}

func (s *Store) ListMembers(ctx context.Context) ([]domain.Member, error) {
	snaps, err := s.members().Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	out := make([]domain.Member, 0, len(snaps))
	for _, snap := range snaps {
		var d memberDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode member %s: %w", snap.Ref.ID, err)
		}
		out = append(out, d.member(snap.Ref.ID))
	}
	return out, nil
}

func (s *Store) DeleteMember(ctx context.Context, id string) (domain.Member, error) {
	ref := s.members().Doc(id)
	var removed domain.Member
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		snap, err := tx.Get(ref)
		if isNotFound(err) {
			return domain.ErrMemberNotFound
		}
		if err != nil {
			return err
		}
		var d memberDoc
		if err := snap.DataTo(&d); err != nil {
			return err
		}
		removed = d.member(id)
		return tx.Delete(ref)
	})
	if errors.Is(err, domain.ErrMemberNotFound) {
		return domain.Member{}, domain.ErrMemberNotFound
	}
	if err != nil {
		return domain.Member{}, fmt.Errorf("delete member: %w", err)
	}
	return removed, nil
}

// Bookings

func (s *Store) InsertBooking(ctx context.Context, b domain.Booking) (string, error) {
	ref := s.bookings().NewDoc()
	if b.ID != "" {
		ref = s.bookings().Doc(b.ID)
	}
	if _, err := ref.Create(ctx, toBookingDoc(b)); err != nil {
		return "", fmt.Errorf("insert booking: %w", err)
	}
	return ref.ID, nil
}

func (s *Store) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	snap, err := s.bookings().Doc(id).Get(ctx)
	if isNotFound(err) {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	if err != nil {
		return domain.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	var d bookingDoc
	if err := snap.DataTo(&d); err != nil {
		return domain.Booking{}, fmt.Errorf("decode booking: %w", err)
	}
	return d.booking(id), nil
}

// ListBookings pushes status and email equality down to Firestore; the title
// substring match has no index support and is applied to the results.
func (s *Store) ListBookings(ctx context.Context, f store.BookingFilter) ([]domain.Booking, error) {
	q := s.bookings().Query
	if f.Status != "" {
		q = q.Where("status", "==", string(f.Status))
	}
	if f.Email != "" {
		q = q.Where("userEmailKey", "==", domain.NormalizeEmail(f.Email))
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	out := make([]domain.Booking, 0, len(snaps))
	for _, snap := range snaps {
		var d bookingDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode booking %s: %w", snap.Ref.ID, err)
		}
		if b := d.booking(snap.Ref.ID); f.Match(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) UpdateBooking(ctx context.Context, id string, p store.BookingPatch) (store.UpdateResult, error) {
	ref := s.bookings().Doc(id)
	var res store.UpdateResult
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		res = store.UpdateResult{}
		snap, err := tx.Get(ref)
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		res.Matched = 1
		var d bookingDoc
		if err := snap.DataTo(&d); err != nil {
			return err
		}
		b := d.booking(id)
		if !p.Apply(&b) {
			return nil
		}
		res.Modified = 1
		return tx.Update(ref, []fs.Update{
			{Path: "status", Value: string(b.Status)},
			{Path: "isPaid", Value: b.IsPaid},
		})
	})
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("update booking: %w", err)
	}
	return res, nil
}

func (s *Store) DeleteBooking(ctx context.Context, id string) (int64, error) {
	ref := s.bookings().Doc(id)
	var deleted int64
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		deleted = 0
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		deleted = 1
		return tx.Delete(ref)
	})
	if err != nil {
		return 0, fmt.Errorf("delete booking: %w", err)
	}
	return deleted, nil
}

// Payments

func (s *Store) InsertPayment(ctx context.Context, p domain.Payment) (string, error) {
	ref, _, err := s.payments().Add(ctx, toPaymentDoc(p))
	if err != nil {
		return "", fmt.Errorf("insert payment: %w", err)
	}
	return ref.ID, nil
}

func (s *Store) ListPayments(ctx context.Context, email string) ([]domain.Payment, error) {
	q := s.payments().Query
	if email != "" {
		q = q.Where("emailKey", "==", domain.NormalizeEmail(email))
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	out := make([]domain.Payment, 0, len(snaps))
	for _, snap := range snaps {
		var d paymentDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode payment %s: %w", snap.Ref.ID, err)
		}
		out = append(out, d.payment(snap.Ref.ID))
	}
	return out, nil
}
