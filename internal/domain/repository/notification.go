package repository

import (
	"context"

	"github.com/polkiloo/digistore/internal/domain/model"
)

// NotificationRepository manages user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, userID int64, message string, link *string) (*model.Notification, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
}
