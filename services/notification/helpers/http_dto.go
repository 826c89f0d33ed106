package helpers

import (
	"time"

	model "marketplace/internal/models"
)

type NotificationResponse struct {
	NotificationID string `json:"notification_id"`
	Message        string `json:"message"`
	Link           string `json:"link,omitempty"`
	Read           bool   `json:"read"`
	CreatedAt      string `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
}

type MarkReadResponse struct {
	Marked int `json:"marked"`
}

// NewNotificationListResponse converts notifications and counts the unread ones
func NewNotificationListResponse(items []model.Notification) NotificationListResponse {
	resp := NotificationListResponse{Notifications: make([]NotificationResponse, 0, len(items))}
	for _, n := range items {
		if !n.Read {
			resp.Unread++
		}
		resp.Notifications = append(resp.Notifications, NotificationResponse{
			NotificationID: n.NotificationID,
			Message:        n.Message,
			Link:           n.Link,
			Read:           n.Read,
			CreatedAt:      n.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp
}
