package mysql

import (
	"context"
	"fmt"
	"time"

	"mlboard/pkg/store/mysql/model"

	"github.com/google/uuid"
)

// NotificationRepository handles notification persistence in MySQL
type NotificationRepository struct {
	ds *Datastore
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(ds *Datastore) *NotificationRepository {
	return &NotificationRepository{ds: ds}
}

// Save creates a new notification record. A missing NotificationID gets a
// generated one so callers can treat rows as externally addressable.
func (r *NotificationRepository) Save(ctx context.Context, n *model.Notification) error {
	if n.NotificationID == "" {
		n.NotificationID = generateNotificationID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if err := r.ds.DB(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

// ListUnread retrieves a user's unread notifications ordered by creation time ascending
func (r *NotificationRepository) ListUnread(ctx context.Context, userID int64, limit int) ([]*model.Notification, error) {
	if limit <= 0 {
		limit = 20
	}

	var notifications []*model.Notification
	err := r.ds.DB(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at ASC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unread notifications: %w", err)
	}
	return notifications, nil
}

// CountUnread returns the number of unread notifications for a user
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.ds.DB(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips is_read and stamps read_at for a notification
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID string) error {
	now := time.Now()
	result := r.ds.DB(ctx).
		Model(&model.Notification{}).
		Where("notification_id = ?", notificationID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification not found: %s", notificationID)
	}
	return nil
}

// Delete removes a notification owned by the given user
func (r *NotificationRepository) Delete(ctx context.Context, userID int64, notificationID string) error {
	result := r.ds.DB(ctx).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Delete(&model.Notification{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification not found: %s", notificationID)
	}
	return nil
}

// generateNotificationID generates a unique notification ID
func generateNotificationID() string {
	return "notif_" + uuid.New().String()
}
