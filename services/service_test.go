package services

import (
	"context"
	"testing"

	"socialnet/db"
	"socialnet/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = database.AutoMigrate(
		&models.User{},
		&models.UserTokens{},
		&models.Friendship{},
		&models.FriendRequest{},
		&models.Follow{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.ORM = database

	// Без Redis/RabbitMQ: фан-аут работает синхронно, пуш - напрямую
	RedisClient = nil
	QueueServiceInstance = nil
}

func createTestUser(t *testing.T, nickname string) models.User {
	t.Helper()

	user := models.User{
		Nickname:  nickname,
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Password:  "irrelevant",
		City:      gofakeit.City(),
	}
	if err := db.ORM.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", nickname, err)
	}
	return user
}

// befriend устанавливает дружбу напрямую, минуя конечный автомат заявок
func befriend(t *testing.T, a, b int64) {
	t.Helper()

	rels := NewRelationshipService()
	err := db.GetWriteDB(context.Background()).Transaction(func(tx *gorm.DB) error {
		if err := rels.CreateFriendship(tx, a, b); err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id IN (?)", []int64{a, b}).
			UpdateColumn("friend_count", gorm.Expr("friend_count + 1")).Error
	})
	if err != nil {
		t.Fatalf("failed to befriend %d and %d: %v", a, b, err)
	}
}

func friendCount(t *testing.T, userID int64) int64 {
	t.Helper()

	var user models.User
	if err := db.ORM.First(&user, userID).Error; err != nil {
		t.Fatalf("failed to load user %d: %v", userID, err)
	}
	return user.FriendCount
}
