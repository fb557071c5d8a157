package repository

import (
	"context"

	"github.com/polkiloo/digistore/internal/domain/model"
)

// LicenseRepository stores license keys, at most one per order.
type LicenseRepository interface {
	// Issue stores key for the order. When the order already owns a key the
	// existing one is returned with created=false.
	Issue(ctx context.Context, orderID int64, key string) (*model.LicenseKey, bool, error)
	GetByOrder(ctx context.Context, orderID int64) (*model.LicenseKey, error)
	ListByUser(ctx context.Context, userID int64) ([]model.OwnedLicense, error)
}
