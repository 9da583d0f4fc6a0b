package services

import (
	"context"
	"testing"

	"socialnet/db"
	"socialnet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notificationsFor(t *testing.T, userID int64) []models.Notification {
	t.Helper()

	var notifications []models.Notification
	err := db.ORM.Where("receiver_user_id = ?", userID).Find(&notifications).Error
	require.NoError(t, err)
	return notifications
}

func TestNotifyFollowers(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	follows := NewFollowService()
	svc := NewFanoutService(follows, NewCounterService(nil))

	author := createTestUser(t, "author")
	alice := createTestUser(t, "alice")
	carol := createTestUser(t, "carol")

	require.NoError(t, follows.Follow(ctx, alice.ID, author.ID))
	require.NoError(t, follows.Follow(ctx, carol.ID, author.ID))

	postID := int64(7)
	err := svc.NotifyFollowers(ctx, author.ID, models.NotificationPostCreated, "author published a post", &postID, nil)
	require.NoError(t, err)

	for _, receiver := range []models.User{alice, carol} {
		notifications := notificationsFor(t, receiver.ID)
		require.Len(t, notifications, 1)
		n := notifications[0]
		assert.Equal(t, models.NotificationPostCreated, n.Type)
		assert.Equal(t, models.NotificationUnread, n.Status)
		require.NotNil(t, n.SenderUserID)
		assert.Equal(t, author.ID, *n.SenderUserID)
		require.NotNil(t, n.PostID)
		assert.Equal(t, postID, *n.PostID)
	}

	// Автор себе уведомлений не получает
	assert.Empty(t, notificationsFor(t, author.ID))
}

func TestNotifyFollowersExclusion(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	follows := NewFollowService()
	svc := NewFanoutService(follows, NewCounterService(nil))

	author := createTestUser(t, "author")
	alice := createTestUser(t, "alice")
	carol := createTestUser(t, "carol")

	require.NoError(t, follows.Follow(ctx, alice.ID, author.ID))
	require.NoError(t, follows.Follow(ctx, carol.ID, author.ID))

	// alice исключена (например, она автор комментария)
	err := svc.NotifyFollowers(ctx, author.ID, models.NotificationCommentCreated, "new comment", nil, []int64{alice.ID})
	require.NoError(t, err)

	assert.Empty(t, notificationsFor(t, alice.ID))
	assert.Len(t, notificationsFor(t, carol.ID), 1)
}

func TestNotifyFollowersEmptyAudience(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	follows := NewFollowService()
	svc := NewFanoutService(follows, NewCounterService(nil))

	author := createTestUser(t, "author")
	alice := createTestUser(t, "alice")
	require.NoError(t, follows.Follow(ctx, alice.ID, author.ID))

	// Единственный подписчик исключен - тихий no-op
	err := svc.NotifyFollowers(ctx, author.ID, models.NotificationPostCreated, "post", nil, []int64{alice.ID})
	require.NoError(t, err)

	var total int64
	require.NoError(t, db.ORM.Model(&models.Notification{}).Count(&total).Error)
	assert.Zero(t, total)
}
