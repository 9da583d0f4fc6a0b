package models

import "time"

// Follow - one-way interest subscription, independent of friendship.
// UserID is the followed user, FollowerID the subscriber.
type Follow struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex:follow_pair_key;index" json:"user_id"`
	FollowerID int64     `gorm:"not null;uniqueIndex:follow_pair_key;index" json:"follower_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
