package lifecycle

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
	"github.com/magzhanmnazhatdin/courtclub/internal/store"
)

type mockDirectory struct{ mock.Mock }

func (m *mockDirectory) GetUser(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockDirectory) UpsertUser(ctx context.Context, u domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockDirectory) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockDirectory) SetUserRole(ctx context.Context, email string, role domain.Role) (store.UpdateResult, error) {
	args := m.Called(ctx, email, role)
	return args.Get(0).(store.UpdateResult), args.Error(1)
}

func (m *mockDirectory) InsertMember(ctx context.Context, mem domain.Member) (string, error) {
	args := m.Called(ctx, mem)
	return args.String(0), args.Error(1)
}

func (m *mockDirectory) ListMembers(ctx context.Context) ([]domain.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *mockDirectory) DeleteMember(ctx context.Context, id string) (domain.Member, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Member), args.Error(1)
}

type mockLedger struct{ mock.Mock }

func (m *mockLedger) InsertBooking(ctx context.Context, b domain.Booking) (string, error) {
	args := m.Called(ctx, b)
	return args.String(0), args.Error(1)
}

func (m *mockLedger) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Booking), args.Error(1)
}

func (m *mockLedger) ListBookings(ctx context.Context, f store.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *mockLedger) UpdateBooking(ctx context.Context, id string, p store.BookingPatch) (store.UpdateResult, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(store.UpdateResult), args.Error(1)
}

func (m *mockLedger) DeleteBooking(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLedger) InsertPayment(ctx context.Context, p domain.Payment) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *mockLedger) ListPayments(ctx context.Context, email string) ([]domain.Payment, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
