package models

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// Friendship - established, symmetric friendship between two users.
// The pair is stored canonically (UserID1 < UserID2), so there is exactly
// one row per pair and the unique index actually holds.
type Friendship struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID1   int64     `gorm:"not null;uniqueIndex:friendship_pair_key;index" json:"user_id1"`
	UserID2   int64     `gorm:"not null;uniqueIndex:friendship_pair_key;index" json:"user_id2"`
	CreatedAt time.Time `json:"created_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// NormalizePair returns the pair in canonical (min, max) order.
func NormalizePair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// FriendRequest - directed friend invitation. Terminal states are transient:
// the row is deleted as part of the accept/reject transaction.
type FriendRequest struct {
	ID             int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderUserID   int64               `gorm:"not null;uniqueIndex:friend_request_pair_key;index" json:"sender_user_id"`
	ReceiverUserID int64               `gorm:"not null;uniqueIndex:friend_request_pair_key;index" json:"receiver_user_id"`
	Status         FriendRequestStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}
