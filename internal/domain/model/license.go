package model

import "time"

// LicenseKey is issued once per completed order of a paid product.
type LicenseKey struct {
	ID        int64
	OrderID   int64
	Key       string
	CreatedAt time.Time
}

// OwnedLicense joins a license key with its order and product for display.
type OwnedLicense struct {
	Key          string
	OrderID      int64
	ProductID    int64
	ProductTitle string
	IssuedAt     time.Time
}
