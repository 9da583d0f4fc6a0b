package services

import (
	"context"
	"fmt"

	"socialnet/db"
	"socialnet/models"
)

// NotificationService - пользовательская поверхность над строками
// уведомлений: листинг, счетчик непрочитанных, отметка о прочтении.
// Создание строк принадлежит FriendRequestService и FanoutService.
type NotificationService struct {
	counters CounterCache
}

func NewNotificationService(counters CounterCache) *NotificationService {
	return &NotificationService{counters: counters}
}

// List returns the user's notifications, newest first.
func (ns *NotificationService) List(ctx context.Context, userID int64, page models.PageParams) (models.Page[models.Notification], error) {
	page.Normalize()

	query := db.GetReadOnlyDB(ctx).Model(&models.Notification{}).
		Where("receiver_user_id = ?", userID)

	var itemCount int64
	if err := query.Count(&itemCount).Error; err != nil {
		return models.Page[models.Notification]{}, fmt.Errorf("failed to count notifications: %w", err)
	}

	var notifications []models.Notification
	err := query.
		Order("created_at DESC").
		Offset(page.Offset()).Limit(page.Take).
		Find(&notifications).Error
	if err != nil {
		return models.Page[models.Notification]{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	return models.NewPage(notifications, itemCount, page), nil
}

// UnreadCount отдает кешированный счетчик, при промахе пересчитывает из БД
// и прогревает кеш.
func (ns *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if count, ok := ns.counters.Get(ctx, userID, CounterTypeNotifications); ok {
		return count, nil
	}

	var count int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Notification{}).
		Where("receiver_user_id = ? AND status = ?", userID, models.NotificationUnread).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	ns.counters.Set(ctx, userID, CounterTypeNotifications, count)
	return count, nil
}

// MarkRead flips one of the user's notifications to READ.
func (ns *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	result := db.GetWriteDB(ctx).Model(&models.Notification{}).
		Where("id = ? AND receiver_user_id = ? AND status = ?", notificationID, userID, models.NotificationUnread).
		Update("status", models.NotificationRead)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either absent, foreign, or already read - check which
		var count int64
		err := db.GetReadOnlyDB(ctx).Model(&models.Notification{}).
			Where("id = ? AND receiver_user_id = ?", notificationID, userID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check notification: %w", err)
		}
		if count == 0 {
			return ErrNotificationNotFound
		}
		return nil // already read, idempotent
	}

	ns.counters.Increment(ctx, userID, CounterTypeNotifications, -1)
	return nil
}
