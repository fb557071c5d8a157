package usecase

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
)

// CheckoutCommand starts a hosted checkout for one product.
type CheckoutCommand struct {
	UserID    int64
	ProductID int64
}

func (c CheckoutCommand) Validate() error {
	if c.UserID <= 0 || c.ProductID <= 0 {
		return fmt.Errorf("%w: user and product are required", domainErrors.ErrValidation)
	}
	return nil
}

// ConfirmCheckoutCommand is built from the gateway return redirect.
type ConfirmCheckoutCommand struct {
	OrderID   int64
	SessionID string
}

func (c ConfirmCheckoutCommand) Validate() error {
	if c.OrderID <= 0 {
		return fmt.Errorf("%w: order id is required", domainErrors.ErrValidation)
	}
	return nil
}

// SubmitSlipCommand carries a manual bank transfer proof.
type SubmitSlipCommand struct {
	UserID        int64
	ProductID     int64
	ClaimedAmount decimal.Decimal
	Proof         io.Reader
}

func (c SubmitSlipCommand) Validate() error {
	switch {
	case c.UserID <= 0 || c.ProductID <= 0:
		return fmt.Errorf("%w: user and product are required", domainErrors.ErrValidation)
	case c.Proof == nil:
		return fmt.Errorf("%w: slip file is required", domainErrors.ErrValidation)
	case c.ClaimedAmount.IsNegative():
		return fmt.Errorf("%w: claimed amount must not be negative", domainErrors.ErrValidation)
	}
	return nil
}

// ApproveOrderCommand asks to complete a pending or waiting order.
type ApproveOrderCommand struct {
	OrderID int64
	Actor   model.Principal
}

// RejectOrderCommand asks to cancel a pending or waiting order.
type RejectOrderCommand struct {
	OrderID int64
	Actor   model.Principal
}

// CreateProductCommand adds a catalogue entry.
type CreateProductCommand struct {
	Title   string
	Price   decimal.Decimal
	IsFree  bool
	FileURL string
	Actor   model.Principal
}

func (c CreateProductCommand) Validate() error {
	switch {
	case c.Title == "":
		return fmt.Errorf("%w: title is required", domainErrors.ErrValidation)
	case c.FileURL == "":
		return fmt.Errorf("%w: file url is required", domainErrors.ErrValidation)
	case c.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", domainErrors.ErrValidation)
	}
	return nil
}
