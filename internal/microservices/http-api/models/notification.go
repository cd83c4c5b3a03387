package models

import "time"

// NotificationType tags what happened; the client builds the message text from it.
type NotificationType string

const (
	NotificationNewLocation    NotificationType = "new_location"
	NotificationNewReview      NotificationType = "new_review"
	NotificationNewLike        NotificationType = "new_like"
	NotificationNewReply       NotificationType = "new_reply"
	NotificationNewCommentLike NotificationType = "new_comment_like"
)

// NotificationPayload keeps only what is needed to rebuild a readable message
// later. The full entity is never stored.
type NotificationPayload struct {
	LocationID    int64  `json:"location_id,omitempty"`
	LocationName  string `json:"location_name,omitempty"`
	LocationImage string `json:"location_image,omitempty"`
	ReviewID      int64  `json:"review_id,omitempty"`
	CommentID     int64  `json:"comment_id,omitempty"`
	Snippet       string `json:"snippet,omitempty"`
}

type Notification struct {
	ID                   int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID              string              `gorm:"type:uuid;not null;index" json:"actor_id"`
	ActorName            string              `gorm:"not null" json:"actor_name"`
	ActorProfileImageURL string              `json:"actor_profile_image_url,omitempty"`
	Type                 NotificationType    `gorm:"type:varchar(32);not null" json:"type"`
	Payload              NotificationPayload `gorm:"type:jsonb;serializer:json" json:"payload"`
	RecipientID          string              `gorm:"type:uuid;not null;index:idx_notifications_recipient_created,priority:1" json:"recipient_id"`
	IsRead               bool                `gorm:"not null;default:false" json:"is_read"`
	CreatedAt            time.Time           `gorm:"autoCreateTime;index:idx_notifications_recipient_created,priority:2,sort:desc" json:"created_at"`

	// Associations
	Recipient *User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
