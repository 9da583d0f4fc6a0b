package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"socialnet/db"
	"socialnet/models"
)

// FanoutService раскладывает событие актора по подписчикам. Вставка
// уведомлений выполняется вне транзакции, породившей событие: задача
// уходит в Redis-очередь и исполняется воркерами, а при недоступном
// Redis - синхронно. Ошибки фан-аута логируются и не откатывают
// первичное действие.
type FanoutService struct {
	follows  *FollowService
	counters CounterCache
}

func NewFanoutService(follows *FollowService, counters CounterCache) *FanoutService {
	return &FanoutService{follows: follows, counters: counters}
}

// NotifyFollowers resolves the audience (followers of actorID minus
// excludeUserIDs) and emits one UNREAD notification per member. An empty
// audience is a silent no-op.
func (s *FanoutService) NotifyFollowers(ctx context.Context, actorID int64, eventType models.NotificationType, message string, postID *int64, excludeUserIDs []int64) error {
	followerIDs, err := s.follows.GetFollowerIDs(ctx, actorID)
	if err != nil {
		return err
	}

	excluded := make(map[int64]struct{}, len(excludeUserIDs))
	for _, id := range excludeUserIDs {
		excluded[id] = struct{}{}
	}

	audience := make([]int64, 0, len(followerIDs))
	for _, id := range followerIDs {
		if _, skip := excluded[id]; skip {
			continue
		}
		audience = append(audience, id)
	}
	if len(audience) == 0 {
		return nil
	}

	task := FanoutTask{
		ActorID:     actorID,
		ReceiverIDs: audience,
		Type:        eventType,
		Text:        message,
		PostID:      postID,
	}

	if QueueServiceInstance != nil && RedisClient != nil {
		if err := QueueServiceInstance.EnqueueFanout(ctx, task); err == nil {
			return nil
		}
		log.Printf("fanout: enqueue failed, delivering inline: actor=%d", actorID)
	}
	return s.Deliver(ctx, task)
}

// Deliver bulk-inserts the notifications for a fan-out task and bumps the
// cached unread counters.
func (s *FanoutService) Deliver(ctx context.Context, task FanoutTask) error {
	now := time.Now()
	notifications := make([]models.Notification, 0, len(task.ReceiverIDs))
	for _, receiverID := range task.ReceiverIDs {
		notifications = append(notifications, models.Notification{
			ReceiverUserID: receiverID,
			SenderUserID:   &task.ActorID,
			Text:           task.Text,
			Status:         models.NotificationUnread,
			Type:           task.Type,
			PostID:         task.PostID,
			CreatedAt:      now,
		})
	}

	err := db.GetWriteDB(ctx).CreateInBatches(notifications, 200).Error
	if err != nil {
		return fmt.Errorf("failed to insert fan-out notifications: %w", err)
	}

	for _, n := range notifications {
		s.counters.Increment(ctx, n.ReceiverUserID, CounterTypeNotifications, 1)
		pushNotification(n)
	}
	return nil
}
