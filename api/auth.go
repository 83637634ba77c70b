package api

import (
	"net/http"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/avilov/skybooker/internal/service/auth"
	"github.com/avilov/skybooker/internal/service/token"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	auth         auth.AuthUseCase
	tokens       token.TokenUseCase
	cookieMaxAge int
	log          zerolog.Logger
}

func NewAuthHandler(authSvc auth.AuthUseCase, tokens token.TokenUseCase, cookieMaxAge int, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: authSvc, tokens: tokens, cookieMaxAge: cookieMaxAge, log: log}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.POST("/logout", h.logout)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}

	if !h.setSession(c, user) {
		return
	}
	respondData(c, http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: string(user.Role)})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}

	if !h.setSession(c, user) {
		return
	}
	respondData(c, http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: string(user.Role)})
}

func (h *AuthHandler) logout(c *gin.Context) {
	c.SetCookie(AuthCookie, "", -1, "/", "", false, true)
	respondData(c, http.StatusOK, nil)
}

// setSession issues a token for the user and attaches it as the HTTP-only
// session cookie.
func (h *AuthHandler) setSession(c *gin.Context, user *domain.User) bool {
	tok, err := h.tokens.Issue(user)
	if err != nil {
		respondDomainError(c, h.log, err)
		return false
	}
	c.SetCookie(AuthCookie, tok, h.cookieMaxAge, "/", "", false, true)
	return true
}
