package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
	"github.com/magzhanmnazhatdin/courtclub/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_UserLookupIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.UpsertUser(ctx, domain.User{Email: "Ann@X.com", Name: "Ann", Role: domain.RoleUser}))

	u, err := s.GetUser(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann@X.com", u.Email)

	_, err = s.GetUser(ctx, "bob@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestStore_SetUserRole(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.UpsertUser(ctx, domain.User{Email: "a@x.com", Role: domain.RoleUser}))

	res, err := s.SetUserRole(ctx, "a@x.com", domain.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, store.UpdateResult{Matched: 1, Modified: 1}, res)

	res, err = s.SetUserRole(ctx, "a@x.com", domain.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, store.UpdateResult{Matched: 1}, res)

	res, err = s.SetUserRole(ctx, "nobody@x.com", domain.RoleMember)
	require.NoError(t, err)
	assert.Zero(t, res.Matched)
}

func TestStore_InsertMemberIsUniquePerEmail(t *testing.T) {
	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], _ = s.InsertMember(ctx, domain.Member{Email: "a@x.com", Name: "Ann"})
		}(i)
	}
	wg.Wait()

	members, err := s.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
	for _, id := range ids {
		assert.Equal(t, members[0].ID, id)
	}

	id, err := s.InsertMember(ctx, domain.Member{Email: "A@X.COM"})
	assert.ErrorIs(t, err, domain.ErrMemberExists)
	assert.Equal(t, members[0].ID, id)
}

func TestStore_DeleteMember(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, err := s.InsertMember(ctx, domain.Member{Email: "a@x.com"})
	require.NoError(t, err)

	m, err := s.DeleteMember(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", m.Email)

	_, err = s.DeleteMember(ctx, id)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestStore_BookingsKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, title := range []string{"first", "second", "third"} {
		_, err := s.InsertBooking(ctx, domain.Booking{Title: title, Status: domain.BookingStatusPending})
		require.NoError(t, err)
	}

	got, err := s.ListBookings(ctx, store.BookingFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "third", got[2].Title)

	n, err := s.DeleteBooking(ctx, got[1].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.DeleteBooking(ctx, got[1].ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err = s.ListBookings(ctx, store.BookingFilter{Title: "IR"})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestStore_UpdateBookingCounts(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, err := s.InsertBooking(ctx, domain.Booking{Status: domain.BookingStatusApproved})
	require.NoError(t, err)

	res, err := s.UpdateBooking(ctx, id, store.ConfirmPatch())
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Modified)

	res, err = s.UpdateBooking(ctx, id, store.ConfirmPatch())
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Matched)
	assert.Zero(t, res.Modified)

	res, err = s.UpdateBooking(ctx, "missing", store.ConfirmPatch())
	require.NoError(t, err)
	assert.Zero(t, res.Matched)
}

func TestStore_ListPaymentsByEmail(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.InsertPayment(ctx, domain.Payment{BookingID: "B1", Email: "a@x.com", Amount: 20})
	require.NoError(t, err)
	_, err = s.InsertPayment(ctx, domain.Payment{BookingID: "B2", Email: "b@x.com", Amount: 30})
	require.NoError(t, err)

	mine, err := s.ListPayments(ctx, "A@x.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "B1", mine[0].BookingID)
	assert.NotEmpty(t, mine[0].ID)

	all, err := s.ListPayments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_UpdateBookingRefusesBackwardStatus(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, err := s.InsertBooking(ctx, domain.Booking{Status: domain.BookingStatusConfirmed, IsPaid: true})
	require.NoError(t, err)

	res, err := s.UpdateBooking(ctx, id, store.StatusPatch(domain.BookingStatusPending))
	require.NoError(t, err)
	assert.Equal(t, store.UpdateResult{Matched: 1}, res)

	b, err := s.GetBooking(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
}
