package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/magzhanmnazhatdin/courtclub/internal/auth"
	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
)

// GET /members (admin)
func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.lc.ListMembers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// DELETE /members/:id (admin)
func (h *Handler) RemoveMember(c *gin.Context) {
	sum, err := h.lc.RemoveMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

type registerRequest struct {
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

// POST /me
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.lc.RegisterUser(c.Request.Context(), domain.User{
		Email: caller(c).Email,
		Name:  req.Name,
		Photo: req.Photo,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// GET /me/role
func (h *Handler) MyRole(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"email": caller(c).Email, "role": auth.RoleFrom(c)})
}

// GET /users (admin)
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.lc.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type setRoleRequest struct {
	Email string      `json:"email" binding:"required"`
	Role  domain.Role `json:"role" binding:"required"`
}

// PATCH /users/role (admin)
func (h *Handler) SetUserRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.lc.SetUserRole(c.Request.Context(), req.Email, req.Role)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
