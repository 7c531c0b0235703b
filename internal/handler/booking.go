package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/magzhanmnazhatdin/courtclub/internal/auth"
	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
	"github.com/magzhanmnazhatdin/courtclub/internal/lifecycle"
	"github.com/magzhanmnazhatdin/courtclub/internal/store"
)

type createBookingRequest struct {
	CourtID  string               `json:"courtId" binding:"required"`
	Title    string               `json:"title"`
	Date     string               `json:"date"`
	TimeSlot string               `json:"timeSlot"`
	Price    float64              `json:"price"`
	Status   domain.BookingStatus `json:"status"`
}

// POST /bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.lc.CreateBooking(c.Request.Context(), lifecycle.NewBooking{
		CourtID:   req.CourtID,
		UserEmail: caller(c).Email,
		Title:     req.Title,
		Date:      req.Date,
		TimeSlot:  req.TimeSlot,
		Price:     req.Price,
		Status:    req.Status,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GET /bookings?status=&email=&title= (admin)
func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.lc.ListBookings(c.Request.Context(), store.BookingFilter{
		Status: domain.BookingStatus(c.Query("status")),
		Email:  c.Query("email"),
		Title:  c.Query("title"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GET /me/bookings?status=&title=
func (h *Handler) MyBookings(c *gin.Context) {
	bookings, err := h.lc.ListBookings(c.Request.Context(), store.BookingFilter{
		Status: domain.BookingStatus(c.Query("status")),
		Email:  caller(c).Email,
		Title:  c.Query("title"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// loadOwned fetches the booking and checks the caller owns it or is an admin.
func (h *Handler) loadOwned(c *gin.Context) (domain.Booking, bool) {
	b, err := h.lc.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return domain.Booking{}, false
	}
	if auth.RoleFrom(c) != domain.RoleAdmin && !b.OwnedBy(caller(c).Email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your booking"})
		return domain.Booking{}, false
	}
	return b, true
}

// GET /bookings/:id (owner or admin)
func (h *Handler) GetBooking(c *gin.Context) {
	b, ok := h.loadOwned(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, b)
}

// DELETE /bookings/:id (owner or admin)
func (h *Handler) DeleteBooking(c *gin.Context) {
	b, ok := h.loadOwned(c)
	if !ok {
		return
	}
	n, err := h.lc.DeleteBooking(c.Request.Context(), b.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": n})
}

// PATCH /bookings/:id/approve (admin)
func (h *Handler) ApproveBooking(c *gin.Context) {
	sum, err := h.lc.ApproveBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
