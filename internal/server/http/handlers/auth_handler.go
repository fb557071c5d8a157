package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/server/http/dto"
	"github.com/polkiloo/digistore/internal/server/http/middleware"
)

// AuthHandler processes registration, login and the profile view.
type AuthHandler struct {
	auth     AuthFacade
	accounts AccountFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(auth AuthFacade, accounts AccountFacade) *AuthHandler {
	return &AuthHandler{auth: auth, accounts: accounts}
}

// Register handles POST /api/user/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	token, err := h.auth.Register(c.Request.Context(), req.Login, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCredentials) {
			c.Status(http.StatusBadRequest)
			return
		}
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// Login handles POST /api/user/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	token, err := h.auth.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// Profile handles GET /api/user/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID := CurrentUserID(c)
	user, xp, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	unread, err := h.accounts.UnreadNotifications(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		ID:                  user.ID,
		Login:               user.Login,
		Email:               user.Email,
		Role:                string(user.Role),
		XP:                  xp.XP,
		Level:               xp.Level,
		NextLevelAt:         xp.NextLevelAt(),
		UnreadNotifications: unread,
	})
}
