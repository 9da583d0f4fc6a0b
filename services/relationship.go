package services

import (
	"context"
	"fmt"
	"time"

	"socialnet/db"
	"socialnet/models"

	"gorm.io/gorm"
)

// RelationshipService владеет строками Friendship и FriendRequest:
// никакой другой сервис не пишет в эти таблицы напрямую.
type RelationshipService struct{}

func NewRelationshipService() *RelationshipService {
	return &RelationshipService{}
}

// AreFriends reports whether an established friendship exists between the
// two users. Pairs are stored canonically, so a single lookup suffices.
func (rs *RelationshipService) AreFriends(ctx context.Context, userA, userB int64) (bool, error) {
	if userA == userB {
		return false, nil
	}
	lo, hi := models.NormalizePair(userA, userB)

	var count int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Friendship{}).
		Where("user_id1 = ? AND user_id2 = ?", lo, hi).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return count > 0, nil
}

// CreateFriendship inserts the canonical edge inside the caller's
// transaction. Callers must have already verified no edge exists; the
// unique pair index backs that check against races.
func (rs *RelationshipService) CreateFriendship(tx *gorm.DB, userA, userB int64) error {
	lo, hi := models.NormalizePair(userA, userB)
	friendship := &models.Friendship{
		UserID1:   lo,
		UserID2:   hi,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(friendship).Error; err != nil {
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

// RemoveFriendship deletes the edge and decrements friend_count for both
// users in a single transaction. Returns ErrFriendshipNotFound when no edge
// exists, so a repeated unfriend never decrements twice.
func (rs *RelationshipService) RemoveFriendship(ctx context.Context, userA, userB int64) error {
	lo, hi := models.NormalizePair(userA, userB)

	return db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id1 = ? AND user_id2 = ?", lo, hi).Delete(&models.Friendship{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete friendship: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrFriendshipNotFound
		}

		err := tx.Model(&models.User{}).
			Where("id IN (?)", []int64{lo, hi}).
			UpdateColumn("friend_count", gorm.Expr("friend_count - 1")).Error
		if err != nil {
			return fmt.Errorf("failed to decrement friend counters: %w", err)
		}
		return nil
	})
}

// FindPendingRequest ищет PENDING заявку между парой в любом направлении.
// Returns (nil, nil) when none exists.
func (rs *RelationshipService) FindPendingRequest(ctx context.Context, userA, userB int64) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := db.GetReadOnlyDB(ctx).Where(
		"((sender_user_id = ? AND receiver_user_id = ?) OR (sender_user_id = ? AND receiver_user_id = ?)) AND status = ?",
		userA, userB, userB, userA, models.FriendRequestPending,
	).First(&request).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pending request: %w", err)
	}
	return &request, nil
}

// GetFriendIDs возвращает идентификаторы всех друзей пользователя.
func (rs *RelationshipService) GetFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	var friendIDs []int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Friendship{}).
		Where("user_id1 = ? OR user_id2 = ?", userID, userID).
		Select("CASE WHEN user_id1 = ? THEN user_id2 ELSE user_id1 END", userID).
		Scan(&friendIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get friend ids: %w", err)
	}
	return friendIDs, nil
}

// GetFriends возвращает список друзей пользователя.
func (rs *RelationshipService) GetFriends(ctx context.Context, userID int64) ([]models.User, error) {
	var friends []models.User
	err := db.GetReadOnlyDB(ctx).
		Table("users u").
		Joins("JOIN friendships f ON (f.user_id1 = u.id AND f.user_id2 = ?) OR (f.user_id2 = u.id AND f.user_id1 = ?)", userID, userID).
		Where("u.deleted_at IS NULL").
		Select("u.id, u.nickname, u.first_name, u.last_name, u.city, u.friend_count, u.created_at").
		Find(&friends).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get friends: %w", err)
	}
	return friends, nil
}
