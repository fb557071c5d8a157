package usecase

import (
	"context"

	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
)

const notificationPageSize = 50

// NotificationUseCase serves the user's notification feed.
type NotificationUseCase struct {
	notifications repository.NotificationRepository
}

func NewNotificationUseCase(notifications repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notifications: notifications}
}

func (u *NotificationUseCase) List(ctx context.Context, userID int64) ([]model.Notification, error) {
	return u.notifications.ListByUser(ctx, userID, notificationPageSize)
}

func (u *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID int64) error {
	return u.notifications.MarkRead(ctx, userID, notificationID)
}

func (u *NotificationUseCase) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return u.notifications.MarkAllRead(ctx, userID)
}

func (u *NotificationUseCase) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return u.notifications.CountUnread(ctx, userID)
}
