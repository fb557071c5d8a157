package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/server/http/dto"
	"github.com/polkiloo/digistore/internal/usecase"
)

const slipFormField = "slip"

// CheckoutHandler drives the hosted and manual payment paths.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Create handles POST /api/checkout.
func (h *CheckoutHandler) Create(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	result, err := h.facade.Checkout(c.Request.Context(), usecase.CheckoutCommand{
		UserID:    CurrentUserID(c),
		ProductID: req.ProductID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CheckoutResponse{OrderID: result.OrderID, RedirectURL: result.RedirectURL})
}

// Confirm handles GET /api/checkout/confirm, the gateway return redirect.
// A settled order answers 200, an order still awaiting payment 202.
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Query("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid order_id"})
		return
	}
	order, err := h.facade.ConfirmCheckout(c.Request.Context(), usecase.ConfirmCheckoutCommand{
		OrderID:   orderID,
		SessionID: c.Query("session_id"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if order.Status == model.OrderStatusPending {
		status = http.StatusAccepted
	}
	c.JSON(status, toOrderResponse(*order, false))
}

// SubmitSlip handles POST /api/orders/slip as multipart form with
// product_id, claimed_amount and the slip file.
func (h *CheckoutHandler) SubmitSlip(c *gin.Context) {
	productID, err := strconv.ParseInt(c.PostForm("product_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
		return
	}
	amount, err := decimal.NewFromString(c.PostForm("claimed_amount"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid claimed_amount"})
		return
	}
	header, err := c.FormFile(slipFormField)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "slip file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable slip file"})
		return
	}
	defer file.Close()

	order, err := h.facade.SubmitSlip(c.Request.Context(), usecase.SubmitSlipCommand{
		UserID:        CurrentUserID(c),
		ProductID:     productID,
		ClaimedAmount: amount,
		Proof:         file,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order, false))
}
