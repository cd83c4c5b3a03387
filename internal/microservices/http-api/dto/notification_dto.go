package dto

import "travelguide/internal/microservices/http-api/models"

// NotificationPage is a page of stored notifications plus the unread badge count.
type NotificationPage struct {
	*Paginated[models.Notification]
	Unread int64 `json:"unread"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
