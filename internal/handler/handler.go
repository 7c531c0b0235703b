// Package handler is the HTTP boundary: it binds requests, takes the caller
// from the auth middleware and maps lifecycle errors onto status codes.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/magzhanmnazhatdin/courtclub/internal/auth"
	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
	"github.com/magzhanmnazhatdin/courtclub/internal/lifecycle"
	"github.com/magzhanmnazhatdin/courtclub/internal/payments"
	"github.com/magzhanmnazhatdin/courtclub/internal/store"
)

type Lifecycle interface {
	CreateBooking(ctx context.Context, in lifecycle.NewBooking) (string, error)
	GetBooking(ctx context.Context, id string) (domain.Booking, error)
	ListBookings(ctx context.Context, f store.BookingFilter) ([]domain.Booking, error)
	ApproveBooking(ctx context.Context, id string) (lifecycle.ApprovalSummary, error)
	DeleteBooking(ctx context.Context, id string) (int64, error)

	RecordPayment(ctx context.Context, in lifecycle.NewPayment) (lifecycle.PaymentSummary, error)
	ListPayments(ctx context.Context, email string) ([]domain.Payment, error)

	ListMembers(ctx context.Context) ([]domain.Member, error)
	RemoveMember(ctx context.Context, id string) (lifecycle.RemovalSummary, error)

	RegisterUser(ctx context.Context, u domain.User) (domain.User, error)
	UserRole(ctx context.Context, email string) (domain.Role, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	SetUserRole(ctx context.Context, email string, role domain.Role) (domain.User, error)
}

type Handler struct {
	lc       Lifecycle
	payments payments.Provider
	currency string
	log      *slog.Logger
}

func New(lc Lifecycle, provider payments.Provider, currency string, log *slog.Logger) *Handler {
	return &Handler{lc: lc, payments: provider, currency: currency, log: log}
}

// caller returns the identity set by auth.Middleware. Routes using it are
// always mounted behind that middleware.
func caller(c *gin.Context) auth.Identity {
	id, _ := auth.IdentityFrom(c)
	return id
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
