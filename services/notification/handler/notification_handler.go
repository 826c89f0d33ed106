package handler

import (
	"context"
	"net/http"

	model "marketplace/internal/models"
	"marketplace/services/common"
	"marketplace/services/notification/helpers"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -destination=mock_notification_service.go -package=handler marketplace/services/notification/handler NotificationServiceInterface

type NotificationServiceInterface interface {
	List(ctx context.Context, userID string) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

type NotificationHandler struct {
	service NotificationServiceInterface
}

func NewNotificationHandler(service NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// ListHandler handles GET /notifications
func (h *NotificationHandler) ListHandler(c *gin.Context) {
	identity, ok := common.CurrentIdentity(c, "ListNotificationsHandler")
	if !ok {
		return
	}

	items, err := h.service.List(c.Request.Context(), identity.UserID)
	if err != nil {
		common.RespondError(c, "ListNotificationsHandler", err, map[string]any{"user_id": identity.UserID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewNotificationListResponse(items), "notifications retrieved successfully")
}

// MarkReadHandler handles POST /notifications/read
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	identity, ok := common.CurrentIdentity(c, "MarkReadHandler")
	if !ok {
		return
	}

	marked, err := h.service.MarkAllRead(c.Request.Context(), identity.UserID)
	if err != nil {
		common.RespondError(c, "MarkReadHandler", err, map[string]any{"user_id": identity.UserID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.MarkReadResponse{Marked: marked}, "notifications marked as read")
	common.LogSuccess("MarkReadHandler", "notifications marked as read", map[string]any{
		"user_id": identity.UserID,
		"marked":  marked,
	})
}
