package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/events"
	"marketplace/internal/marketerrors"
	model "marketplace/internal/models"
	"marketplace/internal/repository"
	"marketplace/utils"
)

//go:generate mockgen -destination=mock_notifier.go -package=notification marketplace/internal/notification Notifier

// ListLimit caps how many notifications a user sees at once
const ListLimit = 50

// Notifier delivers in-app notifications to users
type Notifier interface {
	Notify(ctx context.Context, userID, message, link string) error
}

// Service stores notifications and announces them on the event bus
type Service struct {
	repo      repository.NotificationDB
	publisher events.Publisher
	now       func() time.Time
}

// NewService creates a notification service. A nil publisher disables events.
func NewService(repo repository.NotificationDB, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Notify stores a notification for userID
func (s *Service) Notify(ctx context.Context, userID, message, link string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(message) == "" {
		return fmt.Errorf("notification: %w", marketerrors.NewValidationError(nil, "", "user and message are required"))
	}

	n := model.Notification{
		NotificationID: utils.GenerateID(),
		UserID:         userID,
		Message:        message,
		Link:           link,
		CreatedAt:      s.now(),
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("notification: failed to store notification for user %s: %w", userID, err)
	}

	event, err := events.NewEvent("notification.created", n.NotificationID, "notification", n)
	if err == nil {
		err = s.publisher.Publish(ctx, events.TopicNotificationCreated, event)
	}
	if err != nil {
		utils.Warn("notification: event not published", map[string]any{
			"notification_id": n.NotificationID,
			"error":           err.Error(),
		})
	}
	return nil
}

// List returns the newest notifications of userID
func (s *Service) List(ctx context.Context, userID string) ([]model.Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("notification: %w", marketerrors.NewValidationError(nil, "user_id", "is required"))
	}

	list, err := s.repo.ListNotifications(ctx, userID, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("notification: failed to list notifications for user %s: %w", userID, err)
	}
	return list, nil
}

// MarkAllRead marks every notification of userID as read and returns how many changed
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("notification: %w", marketerrors.NewValidationError(nil, "user_id", "is required"))
	}

	updated, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("notification: failed to mark notifications read for user %s: %w", userID, err)
	}
	return updated, nil
}
