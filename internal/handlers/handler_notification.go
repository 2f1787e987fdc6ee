package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edmart-systems/procurement_backend/internal/apperrors"
	portssvc "github.com/edmart-systems/procurement_backend/internal/core/ports/services"
	"github.com/edmart-systems/procurement_backend/internal/middleware"
)

// notificationHandler handles HTTP requests related to in-app notifications.
type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
}

func newNotificationHandler(ns portssvc.NotificationSvcFacade) *notificationHandler {
	return &notificationHandler{notificationService: ns}
}

// registerNotificationRoutes registers routes related to notifications.
func registerNotificationRoutes(rg *gin.RouterGroup, notificationService portssvc.NotificationSvcFacade) {
	h := newNotificationHandler(notificationService)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.POST("/:notification_id/read", h.markRead)
	}
}

func (h *notificationHandler) listNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := intQuery(c, "limit")
	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), userID, limit)
	if err != nil {
		logger.Error("Failed to list notifications", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h *notificationHandler) markRead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	notificationID := c.Param("notification_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		} else {
			logger.Error("Failed to mark notification read", slog.String("error", err.Error()), slog.String("notification_id", notificationID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification read"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
