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

// FollowService - направленные follow-ребра. Используются только для
// адресации фан-аута уведомлений и пользовательских списков, дружба
// живет отдельно в RelationshipService.
type FollowService struct{}

func NewFollowService() *FollowService {
	return &FollowService{}
}

// Follow subscribes followerID to userID.
func (fs *FollowService) Follow(ctx context.Context, followerID, userID int64) error {
	if followerID == userID {
		return ErrSelfFollow
	}

	var userCount int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).
		Where("id IN (?)", []int64{followerID, userID}).
		Count(&userCount).Error
	if err != nil {
		return fmt.Errorf("failed to check users: %w", err)
	}
	if userCount != 2 {
		return ErrUserNotFound
	}

	var existing int64
	err = db.GetReadOnlyDB(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND follower_id = ?", userID, followerID).
		Count(&existing).Error
	if err != nil {
		return fmt.Errorf("failed to check follow: %w", err)
	}
	if existing > 0 {
		return ErrAlreadyFollowing
	}

	follow := &models.Follow{
		UserID:     userID,
		FollowerID: followerID,
		CreatedAt:  time.Now(),
	}
	if err := db.GetWriteDB(ctx).Create(follow).Error; err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

// Unfollow removes the subscription.
func (fs *FollowService) Unfollow(ctx context.Context, followerID, userID int64) error {
	result := db.GetWriteDB(ctx).
		Where("user_id = ? AND follower_id = ?", userID, followerID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete follow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// GetFollowerIDs возвращает всех подписчиков пользователя без пагинации -
// используется только движком фан-аута.
func (fs *FollowService) GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	var followerIDs []int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Pluck("follower_id", &followerIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get follower ids: %w", err)
	}
	return followerIDs, nil
}

// GetFollowers lists the subscribers of userID, paginated, with optional
// nickname filtering.
func (fs *FollowService) GetFollowers(ctx context.Context, userID int64, page models.PageParams, searchText string) (models.Page[models.User], error) {
	query := db.GetReadOnlyDB(ctx).
		Table("users u").
		Joins("JOIN follows f ON f.follower_id = u.id").
		Where("f.user_id = ? AND u.deleted_at IS NULL", userID)
	return listFollowUsers(query, page, searchText)
}

// GetFollowing lists the users userID is subscribed to.
func (fs *FollowService) GetFollowing(ctx context.Context, userID int64, page models.PageParams, searchText string) (models.Page[models.User], error) {
	query := db.GetReadOnlyDB(ctx).
		Table("users u").
		Joins("JOIN follows f ON f.user_id = u.id").
		Where("f.follower_id = ? AND u.deleted_at IS NULL", userID)
	return listFollowUsers(query, page, searchText)
}

func listFollowUsers(query *gorm.DB, page models.PageParams, searchText string) (models.Page[models.User], error) {
	page.Normalize()
	if searchText != "" {
		query = query.Where("lower(u.nickname) LIKE ?", "%"+strings.ToLower(searchText)+"%")
	}

	var itemCount int64
	if err := query.Count(&itemCount).Error; err != nil {
		return models.Page[models.User]{}, fmt.Errorf("failed to count follows: %w", err)
	}

	var users []models.User
	err := query.
		Select("u.id, u.nickname, u.first_name, u.last_name, u.city, u.friend_count, u.created_at").
		Order("u.nickname").
		Offset(page.Offset()).Limit(page.Take).
		Find(&users).Error
	if err != nil {
		return models.Page[models.User]{}, fmt.Errorf("failed to list follows: %w", err)
	}
	return models.NewPage(users, itemCount, page), nil
}
