package models

import "time"

type NotificationType string

const (
	NotificationFriendRequestCreated  NotificationType = "CREATE_FRIEND_REQUEST"
	NotificationFriendRequestAccepted NotificationType = "ACCEPT_FRIEND_REQUEST"
	NotificationFriendRequestRejected NotificationType = "REJECT_FRIEND_REQUEST"
	NotificationPostCreated           NotificationType = "CREATE_POST"
	NotificationCommentCreated        NotificationType = "CREATE_COMMENT"
	NotificationReactionCreated       NotificationType = "CREATE_REACTION"
)

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

// Notification - fan-out artifact produced by relationship events.
// SenderUserID is nil for system-generated notifications.
// RelatedRequestID references the friend request that produced the row, so
// the accept/reject path can sync stale "request created" notifications.
type Notification struct {
	ID               int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	ReceiverUserID   int64              `gorm:"not null;index" json:"receiver_user_id"`
	SenderUserID     *int64             `gorm:"index" json:"sender_user_id,omitempty"`
	Text             string             `gorm:"type:text" json:"text"`
	Status           NotificationStatus `gorm:"size:10;not null;default:'unread';index" json:"status"`
	Type             NotificationType   `gorm:"size:40;not null;index" json:"type"`
	RelatedRequestID *int64             `gorm:"index" json:"related_request_id,omitempty"`
	PostID           *int64             `json:"post_id,omitempty"`
	CreatedAt        time.Time          `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
