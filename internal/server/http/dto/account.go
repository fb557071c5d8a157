package dto

import "time"

// NotificationResponse is an in-app message.
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Link      *string   `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// MarkAllReadResponse reports how many notifications changed.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// LicenseResponse is an owned license key.
type LicenseResponse struct {
	Key          string    `json:"key"`
	OrderID      int64     `json:"order_id"`
	ProductID    int64     `json:"product_id"`
	ProductTitle string    `json:"product_title"`
	IssuedAt     time.Time `json:"issued_at"`
}
