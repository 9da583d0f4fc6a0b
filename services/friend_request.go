package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"socialnet/db"
	"socialnet/models"

	"gorm.io/gorm"
)

// FriendRequestService прогоняет заявку через конечный автомат
// NONE -> PENDING -> ACCEPTED/REJECTED. Терминальные состояния не хранятся:
// строка заявки удаляется в той же транзакции, что и разрешение.
type FriendRequestService struct {
	rels     *RelationshipService
	mutual   *MutualFriendService
	counters CounterCache
}

func NewFriendRequestService(rels *RelationshipService, mutual *MutualFriendService, counters CounterCache) *FriendRequestService {
	return &FriendRequestService{rels: rels, mutual: mutual, counters: counters}
}

// FriendRequestFilter - явные фильтры для FindAll.
type FriendRequestFilter struct {
	SenderUserID   *int64
	ReceiverUserID *int64
	Status         models.FriendRequestStatus
	SearchText     string // matched against the sender's nickname
}

// FriendRequestOptions - именованные флаги обогащения результата,
// каждый включает ровно один дополнительный запрос.
type FriendRequestOptions struct {
	WithSender        bool
	WithMutualFriends bool
}

// FriendRequestView - заявка с опциональными вложениями.
type FriendRequestView struct {
	models.FriendRequest
	Sender        *models.User  `json:"sender,omitempty"`
	MutualFriends []models.User `json:"mutual_friends,omitempty"`
}

// Create inserts a PENDING request and notifies the receiver.
func (s *FriendRequestService) Create(ctx context.Context, senderID, receiverID, actingUserID int64) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, ErrSelfFriendRequest
	}
	if actingUserID != senderID {
		return nil, ErrNotSender
	}

	// Обе стороны должны существовать (soft-deleted исключаются gorm-ом)
	var users []models.User
	err := db.GetReadOnlyDB(ctx).
		Where("id IN (?)", []int64{senderID, receiverID}).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check users: %w", err)
	}
	if len(users) != 2 {
		return nil, ErrUserNotFound
	}
	var sender models.User
	for _, u := range users {
		if u.ID == senderID {
			sender = u
		}
	}

	alreadyFriends, err := s.rels.AreFriends(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if alreadyFriends {
		return nil, ErrAlreadyFriends
	}

	pending, err := s.rels.FindPendingRequest(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrRequestExists
	}

	request := &models.FriendRequest{
		SenderUserID:   senderID,
		ReceiverUserID: receiverID,
		Status:         models.FriendRequestPending,
		CreatedAt:      time.Now(),
	}
	var notification models.Notification

	err = db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(request).Error; err != nil {
			return fmt.Errorf("failed to create friend request: %w", err)
		}
		notification = models.Notification{
			ReceiverUserID:   receiverID,
			SenderUserID:     &request.SenderUserID,
			Text:             fmt.Sprintf("%s sent you a friend request", displayName(sender)),
			Status:           models.NotificationUnread,
			Type:             models.NotificationFriendRequestCreated,
			RelatedRequestID: &request.ID,
			CreatedAt:        time.Now(),
		}
		if err := tx.Create(&notification).Error; err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Кеш-счетчики и live push вне транзакции, best-effort
	s.counters.Increment(ctx, receiverID, CounterTypeFriendRequests, 1)
	s.counters.Increment(ctx, receiverID, CounterTypeNotifications, 1)
	pushNotification(notification)

	return request, nil
}

// Update resolves a pending request. ACCEPTED creates the friendship,
// bumps both friend counters and notifies the sender; REJECTED only cleans
// up. Either way the request row is gone afterwards and every prior
// notification referencing it is marked read.
func (s *FriendRequestService) Update(ctx context.Context, requestID int64, newStatus models.FriendRequestStatus, actingUserID int64) error {
	if newStatus != models.FriendRequestAccepted && newStatus != models.FriendRequestRejected {
		return fmt.Errorf("invalid target status %q", newStatus)
	}

	var request models.FriendRequest
	err := db.GetReadOnlyDB(ctx).First(&request, requestID).Error
	if err == gorm.ErrRecordNotFound {
		return ErrRequestNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load friend request: %w", err)
	}
	if actingUserID != request.ReceiverUserID {
		return ErrNotReceiver
	}

	var acceptNotification *models.Notification
	var syncedUnread int64

	err = db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.FriendRequest{}).Where("id = ?", request.ID).
			Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}

		if newStatus == models.FriendRequestAccepted {
			if err := s.rels.CreateFriendship(tx, request.SenderUserID, request.ReceiverUserID); err != nil {
				return err
			}

			var receiver models.User
			if err := tx.First(&receiver, request.ReceiverUserID).Error; err != nil {
				return fmt.Errorf("failed to load receiver: %w", err)
			}
			acceptNotification = &models.Notification{
				ReceiverUserID:   request.SenderUserID,
				SenderUserID:     &request.ReceiverUserID,
				Text:             fmt.Sprintf("%s accepted your friend request", displayName(receiver)),
				Status:           models.NotificationUnread,
				Type:             models.NotificationFriendRequestAccepted,
				RelatedRequestID: &request.ID,
				CreatedAt:        time.Now(),
			}
			if err := tx.Create(acceptNotification).Error; err != nil {
				return fmt.Errorf("failed to create acceptance notification: %w", err)
			}

			if err := tx.Model(&models.User{}).
				Where("id IN (?)", []int64{request.SenderUserID, request.ReceiverUserID}).
				UpdateColumn("friend_count", gorm.Expr("friend_count + 1")).Error; err != nil {
				return fmt.Errorf("failed to increment friend counters: %w", err)
			}
		}

		// Sync the stale "request created" notification. Only UNREAD rows
		// match, so RowsAffected counts the actual flips and an already-read
		// notification is not decremented twice from the cache.
		result := tx.Model(&models.Notification{}).
			Where("related_request_id = ? AND type = ? AND status = ?",
				request.ID, models.NotificationFriendRequestCreated, models.NotificationUnread).
			Update("status", models.NotificationRead)
		if result.Error != nil {
			return fmt.Errorf("failed to sync request notification: %w", result.Error)
		}
		syncedUnread = result.RowsAffected

		// Терминальное состояние не хранится - строка удаляется
		if err := tx.Delete(&models.FriendRequest{}, request.ID).Error; err != nil {
			return fmt.Errorf("failed to delete resolved request: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.counters.Increment(ctx, request.ReceiverUserID, CounterTypeFriendRequests, -1)
	if syncedUnread > 0 {
		s.counters.Increment(ctx, request.ReceiverUserID, CounterTypeNotifications, -syncedUnread)
	}
	if acceptNotification != nil {
		s.counters.Increment(ctx, request.SenderUserID, CounterTypeNotifications, 1)
		pushNotification(*acceptNotification)
	}
	return nil
}

// Remove deletes a request unconditionally. Only a participant may do it;
// no counters or notifications are touched.
func (s *FriendRequestService) Remove(ctx context.Context, requestID, actingUserID int64) error {
	var request models.FriendRequest
	err := db.GetReadOnlyDB(ctx).First(&request, requestID).Error
	if err == gorm.ErrRecordNotFound {
		return ErrRequestNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load friend request: %w", err)
	}
	if actingUserID != request.SenderUserID && actingUserID != request.ReceiverUserID {
		return ErrNotParticipant
	}
	return db.GetWriteDB(ctx).Delete(&models.FriendRequest{}, request.ID).Error
}

// FindAll lists requests with explicit filters, pagination and optional
// enrichments. Mutual friends are computed per result (N+1 by design,
// acceptable at this scale).
func (s *FriendRequestService) FindAll(ctx context.Context, filter FriendRequestFilter, opts FriendRequestOptions, page models.PageParams, actingUserID int64) (models.Page[FriendRequestView], error) {
	page.Normalize()

	query := db.GetReadOnlyDB(ctx).
		Table("friend_requests fr")
	if filter.SenderUserID != nil {
		query = query.Where("fr.sender_user_id = ?", *filter.SenderUserID)
	}
	if filter.ReceiverUserID != nil {
		query = query.Where("fr.receiver_user_id = ?", *filter.ReceiverUserID)
	}
	if filter.Status != "" {
		query = query.Where("fr.status = ?", filter.Status)
	}
	if filter.SearchText != "" {
		// Отображаемое имя отправителя: имя+фамилия, либо ник
		pattern := "%" + strings.ToLower(filter.SearchText) + "%"
		query = query.
			Joins("JOIN users u ON u.id = fr.sender_user_id").
			Where("lower(u.first_name || ' ' || u.last_name) LIKE ? OR lower(u.nickname) LIKE ?", pattern, pattern)
	}

	// Count перед Select: явный select ломает построение COUNT
	var itemCount int64
	if err := query.Count(&itemCount).Error; err != nil {
		return models.Page[FriendRequestView]{}, fmt.Errorf("failed to count friend requests: %w", err)
	}

	var requests []models.FriendRequest
	err := query.
		Select("fr.*").
		Order("fr.created_at DESC").
		Offset(page.Offset()).Limit(page.Take).
		Find(&requests).Error
	if err != nil {
		return models.Page[FriendRequestView]{}, fmt.Errorf("failed to list friend requests: %w", err)
	}

	views := make([]FriendRequestView, 0, len(requests))
	var sendersByID map[int64]models.User
	if opts.WithSender && len(requests) > 0 {
		senderIDs := make([]int64, 0, len(requests))
		for _, r := range requests {
			senderIDs = append(senderIDs, r.SenderUserID)
		}
		var senders []models.User
		if err := db.GetReadOnlyDB(ctx).Where("id IN (?)", senderIDs).Find(&senders).Error; err != nil {
			return models.Page[FriendRequestView]{}, fmt.Errorf("failed to load senders: %w", err)
		}
		sendersByID = make(map[int64]models.User, len(senders))
		for _, u := range senders {
			sendersByID[u.ID] = u
		}
	}

	for _, r := range requests {
		view := FriendRequestView{FriendRequest: r}
		if opts.WithSender {
			if sender, ok := sendersByID[r.SenderUserID]; ok {
				view.Sender = &sender
			}
		}
		if opts.WithMutualFriends {
			other := r.SenderUserID
			if other == actingUserID {
				other = r.ReceiverUserID
			}
			mutuals, err := s.mutual.MutualFriends(ctx, actingUserID, other)
			if err != nil {
				return models.Page[FriendRequestView]{}, err
			}
			view.MutualFriends = mutuals
		}
		views = append(views, view)
	}

	return models.NewPage(views, itemCount, page), nil
}

func displayName(u models.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Nickname
	}
	return name
}
