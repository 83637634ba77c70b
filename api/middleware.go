package api

import (
	"net/http"
	"time"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/avilov/skybooker/internal/service/token"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthCookie is the session cookie carrying the signed token.
const AuthCookie = "auth_token"

const claimsKey = "claims"

// Authenticate reads the session cookie and verifies it before anything else
// runs. Any verification failure is a plain 401; the token service does not
// distinguish why a token is bad and neither do we.
func Authenticate(tokens token.TokenUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(AuthCookie)
		if err != nil || raw == "" {
			respondError(c, http.StatusUnauthorized, "not authenticated")
			c.Abort()
			return
		}

		claims := tokens.Verify(raw)
		if claims == nil {
			respondError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRoles layers role enforcement on top of Authenticate. Runs strictly
// after it: authenticate, then authorize.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			respondError(c, http.StatusUnauthorized, "not authenticated")
			c.Abort()
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		respondError(c, http.StatusForbidden, "insufficient role")
		c.Abort()
	}
}

func ClaimsFrom(c *gin.Context) *token.Claims {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*token.Claims)
	if !ok {
		return nil
	}
	return claims
}

func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
