package api

import (
	"net/http"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/avilov/skybooker/internal/service/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	auth auth.AuthUseCase
	log  zerolog.Logger
}

func NewUserHandler(authSvc auth.AuthUseCase, log zerolog.Logger) *UserHandler {
	return &UserHandler{auth: authSvc, log: log}
}

func (h *UserHandler) Register(router *gin.RouterGroup, authenticate gin.HandlerFunc) {
	user := router.Group("/user", authenticate)
	user.GET("/profile", h.getProfile)
	user.PUT("/profile", h.updateProfile)
	user.PUT("/password", h.changePassword)

	admin := router.Group("/admin", authenticate, RequireRoles(domain.RoleAdmin))
	admin.PUT("/users/:id/role", h.updateRole)
}

func (h *UserHandler) getProfile(c *gin.Context) {
	claims := ClaimsFrom(c)
	user, err := h.auth.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	respondData(c, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

func (h *UserHandler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := ClaimsFrom(c)
	if err := h.auth.UpdateProfile(c.Request.Context(), claims.UserID, req.Name); err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	respondData(c, http.StatusOK, nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *UserHandler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := ClaimsFrom(c)
	if err := h.auth.ChangePassword(c.Request.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	respondData(c, http.StatusOK, nil)
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (h *UserHandler) updateRole(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.auth.UpdateRole(c.Request.Context(), c.Param("id"), domain.Role(req.Role)); err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	respondData(c, http.StatusOK, nil)
}
