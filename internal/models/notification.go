package models

import "time"

type NotificationType string

const (
	NotificationLike    NotificationType = "LIKE"
	NotificationComment NotificationType = "COMMENT"
	NotificationFollow  NotificationType = "FOLLOW"
	NotificationNewPost NotificationType = "NEW_POST"
	NotificationSystem  NotificationType = "SYSTEM"
)

// Notification is a derived event written as a side effect of an
// interaction. EntityID points at the post for LIKE/COMMENT/NEW_POST and at
// the actor for FOLLOW. Self-addressed notifications are never created.
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RecipientID uint             `json:"recipient_id" gorm:"index"`
	ActorID     uint             `json:"actor_id" gorm:"index"`
	Type        NotificationType `json:"type" gorm:"size:20;index"`
	EntityID    uint             `json:"entity_id"`
	IsRead      bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
}
