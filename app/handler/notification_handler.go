package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mlboard/app/middleware"
	"mlboard/pkg/logger"
	"mlboard/pkg/store/mysql"
	redisstore "mlboard/pkg/store/redis"
)

// NotificationHandler serves the notification center endpoints.
type NotificationHandler struct {
	repo  *mysql.NotificationRepository
	cache *redisstore.UnreadCache
}

func NewNotificationHandler(repo *mysql.NotificationRepository, cache *redisstore.UnreadCache) *NotificationHandler {
	return &NotificationHandler{repo: repo, cache: cache}
}

// ListUnread returns the user's unread notifications, oldest first.
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	userID := middleware.UserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	notifications, err := h.repo.ListUnread(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// UnreadCount returns the user's unread count, served from the Redis cache
// when warm and recomputed from MySQL otherwise.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	if h.cache != nil {
		if count, ok := h.cache.Get(ctx, userID); ok {
			c.JSON(http.StatusOK, gin.H{"count": count, "cached": true})
			return
		}
	}

	count, err := h.repo.CountUnread(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if h.cache != nil {
		if err := h.cache.Set(ctx, userID, count); err != nil {
			logger.DebugCtx(ctx, "unread cache set failed for user %d: %v", userID, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "cached": false})
}

// MarkRead flips one notification to read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()
	notificationID := c.Param("id")

	if err := h.repo.MarkRead(ctx, notificationID); err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	h.invalidate(c, userID)
	c.JSON(http.StatusOK, gin.H{"notificationId": notificationID, "isRead": true})
}

// Delete removes one of the user's notifications.
func (h *NotificationHandler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)
	notificationID := c.Param("id")

	if err := h.repo.Delete(c.Request.Context(), userID, notificationID); err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	h.invalidate(c, userID)
	c.JSON(http.StatusOK, gin.H{"notificationId": notificationID, "deleted": true})
}

func (h *NotificationHandler) invalidate(c *gin.Context, userID int64) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(c.Request.Context(), userID); err != nil {
		logger.DebugCtx(c.Request.Context(), "unread cache invalidation failed for user %d: %v", userID, err)
	}
}
