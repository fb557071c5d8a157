package model

import "time"

// Notification is a user facing message.
type Notification struct {
	ID        int64
	UserID    int64
	Message   string
	Link      *string
	IsRead    bool
	CreatedAt time.Time
}
