package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	pkgAuth "github.com/polkiloo/digistore/internal/pkg/auth"
)

const (
	// PrincipalContextKey is a gin context key for the authenticated principal.
	PrincipalContextKey = "principal"
	authCookieName      = "digistore_token"
)

// PrincipalResolver turns a bearer token into the caller's identity and role.
type PrincipalResolver interface {
	ParseToken(token string) (int64, error)
	Principal(ctx context.Context, userID int64) (model.Principal, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		principal, status := resolve(c, resolver, token)
		if status != http.StatusOK {
			c.AbortWithStatus(status)
			return
		}

		c.Set(PrincipalContextKey, principal)
		c.Next()
	}
}

// OptionalAuth attaches the principal when a valid token is present and
// lets anonymous requests through otherwise.
func OptionalAuth(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if principal, status := resolve(c, resolver, token); status == http.StatusOK {
				c.Set(PrincipalContextKey, principal)
			}
		}
		c.Next()
	}
}

// RequireAdmin rejects callers without the administrative role.
// It must run after AuthRequired.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := c.Get(PrincipalContextKey)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if principal, _ := val.(model.Principal); !principal.IsAdmin() {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func resolve(c *gin.Context, resolver PrincipalResolver, token string) (model.Principal, int) {
	userID, err := resolver.ParseToken(token)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrInvalidToken) {
			return model.Principal{}, http.StatusUnauthorized
		}
		return model.Principal{}, http.StatusInternalServerError
	}

	principal, err := resolver.Principal(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUnauthorized) {
			return model.Principal{}, http.StatusUnauthorized
		}
		return model.Principal{}, http.StatusInternalServerError
	}
	return principal, http.StatusOK
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
