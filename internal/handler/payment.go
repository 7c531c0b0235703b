package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/magzhanmnazhatdin/courtclub/internal/auth"
	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
	"github.com/magzhanmnazhatdin/courtclub/internal/lifecycle"
	"github.com/magzhanmnazhatdin/courtclub/internal/payments"
)

type intentRequest struct {
	Amount    float64 `json:"amount"`
	BookingID string  `json:"bookingId"`
}

// POST /payments/intent (member)
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var req intentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	secret, err := h.payments.CreateIntent(c.Request.Context(), payments.Intent{
		Amount:    req.Amount,
		Currency:  h.currency,
		Email:     caller(c).Email,
		BookingID: req.BookingID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
}

type paymentRequest struct {
	BookingID     string  `json:"bookingId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	TransactionID string  `json:"transactionId"`
}

// POST /payments (member)
func (h *Handler) RecordPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sum, err := h.lc.RecordPayment(c.Request.Context(), lifecycle.NewPayment{
		BookingID:     req.BookingID,
		Email:         caller(c).Email,
		Amount:        req.Amount,
		Currency:      req.Currency,
		TransactionID: req.TransactionID,
	})
	if errors.Is(err, domain.ErrNotFound) && sum.PaymentID != "" {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "paymentId": sum.PaymentID})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sum)
}

// GET /payments?email= : members see their own payments, admins any.
func (h *Handler) ListPayments(c *gin.Context) {
	email := caller(c).Email
	if auth.RoleFrom(c) == domain.RoleAdmin {
		email = c.Query("email")
	}
	list, err := h.lc.ListPayments(c.Request.Context(), email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
