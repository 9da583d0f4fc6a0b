package models

import (
	"time"

	"gorm.io/gorm"
)

type Sex string

const (
	MALE   Sex = "male"
	FEMALE Sex = "female"
)

type User struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Nickname    string         `gorm:"size:60;uniqueIndex" json:"nickname"`
	FirstName   string         `gorm:"size:255" json:"first_name"`
	LastName    string         `gorm:"size:255" json:"last_name"`
	Password    string         `gorm:"size:255" json:"-"`
	Birthday    time.Time      `json:"birthday"`
	Sex         Sex            `gorm:"type:sex" json:"sex"`
	City        string         `gorm:"size:255" json:"city"`
	FriendCount int64          `gorm:"not null;default:0" json:"friend_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

type UserTokens struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64  `gorm:"index:user_token_idx,unique" json:"user_id"`
	Token  string `gorm:"size:255;index:user_token_idx,unique" json:"token"`
}

func (UserTokens) TableName() string {
	return "user_tokens"
}
