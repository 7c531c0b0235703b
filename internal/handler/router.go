package handler

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/magzhanmnazhatdin/courtclub/internal/auth"
	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
)

// NewRouter mounts every route. Authorization runs before any handler so a
// rejected caller never reaches a mutation.
func NewRouter(h *Handler, verifier auth.Verifier, roles auth.RoleResolver, log *slog.Logger, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(log), Recovery(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", h.Health)

	authed := r.Group("/")
	authed.Use(auth.Middleware(verifier))

	anyone := authed.Group("/", auth.RequireRole(roles))
	{
		anyone.POST("/me", h.Register)
		anyone.GET("/me/role", h.MyRole)
		anyone.GET("/me/bookings", h.MyBookings)

		anyone.POST("/bookings", h.CreateBooking)
		anyone.GET("/bookings/:id", h.GetBooking)
		anyone.DELETE("/bookings/:id", h.DeleteBooking)
	}

	members := authed.Group("/", auth.RequireRole(roles, domain.RoleMember))
	{
		members.POST("/payments/intent", h.CreatePaymentIntent)
		members.POST("/payments", h.RecordPayment)
	}
	authed.GET("/payments", auth.RequireRole(roles, domain.RoleMember, domain.RoleAdmin), h.ListPayments)

	admin := authed.Group("/", auth.RequireRole(roles, domain.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.PATCH("/bookings/:id/approve", h.ApproveBooking)
		admin.GET("/members", h.ListMembers)
		admin.DELETE("/members/:id", h.RemoveMember)
		admin.GET("/users", h.ListUsers)
		admin.PATCH("/users/role", h.SetUserRole)
	}

	return r
}
