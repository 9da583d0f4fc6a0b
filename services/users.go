package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"socialnet/db"
	"socialnet/models"

	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService - регистрация, логин по opaque-токену и поиск.
// Ядро отношений никогда не аутентифицирует само: acting user id приходит
// из токена через middleware.
type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

func verifyPassword(stored, password string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(hash) == parts[1]
}

// Register creates a user with an argon2id password hash.
func (us *UserService) Register(ctx context.Context, user *models.User) (int64, error) {
	if user.Nickname == "" || user.Password == "" {
		return 0, errors.New("nickname and password are required")
	}

	var alreadyExists int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).
		Where("nickname = ?", user.Nickname).
		Count(&alreadyExists).Error
	if err != nil {
		return 0, fmt.Errorf("failed to check nickname: %w", err)
	}
	if alreadyExists > 0 {
		return 0, fmt.Errorf("user %w", ErrConflict)
	}

	passwordHash, err := hashPassword(user.Password)
	if err != nil {
		return 0, err
	}
	user.Password = passwordHash

	if err := db.GetWriteDB(ctx).Create(user).Error; err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return user.ID, nil
}

// Login verifies the password and issues a fresh opaque token, dropping
// any previous tokens of the user.
func (us *UserService) Login(ctx context.Context, nickname, password string) (string, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("nickname = ?", nickname).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if !verifyPassword(user.Password, password) {
		return "", ErrInvalidCredentials
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	err = db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserTokens{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserTokens{UserID: user.ID, Token: token}).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

// Logout drops all tokens of the user.
func (us *UserService) Logout(ctx context.Context, userID int64) error {
	return db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.UserTokens{}).Error
}

// ResolveToken maps an opaque token back to a user id.
func (us *UserService) ResolveToken(ctx context.Context, token string) (int64, error) {
	var userToken models.UserTokens
	err := db.GetReadOnlyDB(ctx).Where("token = ?", token).First(&userToken).Error
	if err == gorm.ErrRecordNotFound {
		return 0, ErrInvalidCredentials
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve token: %w", err)
	}
	return userToken.UserID, nil
}

// GetByID возвращает пользователя по идентификатору.
func (us *UserService) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).First(&user, userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// Search ищет пользователей по префиксу имени или фамилии.
func (us *UserService) Search(ctx context.Context, firstName, lastName string, page models.PageParams) (models.Page[models.User], error) {
	page.Normalize()

	query := db.GetReadOnlyDB(ctx).Model(&models.User{})
	if firstName != "" {
		query = query.Where("lower(first_name) LIKE ?", strings.ToLower(firstName)+"%")
	}
	if lastName != "" {
		query = query.Where("lower(last_name) LIKE ?", strings.ToLower(lastName)+"%")
	}

	var itemCount int64
	if err := query.Count(&itemCount).Error; err != nil {
		return models.Page[models.User]{}, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	err := query.
		Order("id").
		Offset(page.Offset()).Limit(page.Take).
		Find(&users).Error
	if err != nil {
		return models.Page[models.User]{}, fmt.Errorf("failed to search users: %w", err)
	}
	return models.NewPage(users, itemCount, page), nil
}
