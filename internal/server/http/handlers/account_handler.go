package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/digistore/internal/server/http/dto"
)

// AccountHandler serves notifications and licenses of the signed in user.
type AccountHandler struct {
	facade AccountFacade
}

func NewAccountHandler(facade AccountFacade) *AccountHandler {
	return &AccountHandler{facade: facade}
}

// Notifications handles GET /api/user/notifications.
func (h *AccountHandler) Notifications(c *gin.Context) {
	items, err := h.facade.Notifications(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, dto.NotificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			Link:      n.Link,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// MarkRead handles POST /api/user/notifications/:id/read.
func (h *AccountHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.facade.MarkNotificationRead(c.Request.Context(), CurrentUserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead handles POST /api/user/notifications/read-all.
func (h *AccountHandler) MarkAllRead(c *gin.Context) {
	n, err := h.facade.MarkAllNotificationsRead(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MarkAllReadResponse{Updated: n})
}

// Licenses handles GET /api/user/licenses.
func (h *AccountHandler) Licenses(c *gin.Context) {
	licenses, err := h.facade.Licenses(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.LicenseResponse, 0, len(licenses))
	for _, l := range licenses {
		resp = append(resp, dto.LicenseResponse{
			Key:          l.Key,
			OrderID:      l.OrderID,
			ProductID:    l.ProductID,
			ProductTitle: l.ProductTitle,
			IssuedAt:     l.IssuedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}
