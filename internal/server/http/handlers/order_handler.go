package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/server/http/dto"
	"github.com/polkiloo/digistore/internal/usecase"
)

const (
	actionApprove = "approve"
	actionReject  = "reject"
)

// OrderHandler manages order views and admin decisions.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.MyOrders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders, false))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor := CurrentPrincipal(c)
	order, err := h.facade.Order(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order, actor.IsAdmin()))
}

// AdminList handles GET /api/admin/orders?status=&limit=.
func (h *OrderHandler) AdminList(c *gin.Context) {
	filter := model.OrderFilter{Status: model.OrderStatus(c.Query("status"))}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}
	orders, err := h.facade.AdminOrders(c.Request.Context(), CurrentPrincipal(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders, true))
}

// Approve handles POST /api/admin/orders/:id/approve.
// A repeated approval answers 200 with the already_processed outcome.
func (h *OrderHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	outcome, order, err := h.facade.Approve(c.Request.Context(), usecase.ApproveOrderCommand{OrderID: id, Actor: CurrentPrincipal(c)})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toApprovalResponse(outcome, order))
}

// Reject handles POST /api/admin/orders/:id/reject.
func (h *OrderHandler) Reject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	outcome, order, err := h.facade.Reject(c.Request.Context(), usecase.RejectOrderCommand{OrderID: id, Actor: CurrentPrincipal(c)})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toApprovalResponse(outcome, order))
}

func toApprovalResponse(outcome usecase.ApprovalOutcome, order *model.Order) dto.ApprovalResponse {
	resp := dto.ApprovalResponse{Outcome: string(outcome)}
	if order != nil {
		o := toOrderResponse(*order, true)
		resp.Order = &o
	}
	return resp
}

func toOrderResponses(orders []model.Order, admin bool) []dto.OrderResponse {
	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o, admin))
	}
	return resp
}

func toOrderResponse(order model.Order, admin bool) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:            order.ID,
		UserID:        order.UserID,
		ProductID:     order.ProductID,
		Total:         order.Total,
		Status:        string(order.Status),
		StatusLabel:   order.Status.Label(),
		TransactionID: order.TransactionID,
		SlipURL:       order.SlipURL,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if admin && !order.Status.Terminal() {
		resp.Actions = []string{actionApprove, actionReject}
	}
	return resp
}
