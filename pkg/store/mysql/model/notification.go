package model

import "time"

// NotificationType classifies a persisted notification.
type NotificationType string

const (
	NotificationTrainingStarted   NotificationType = "training_started"
	NotificationTrainingCompleted NotificationType = "training_completed"
	NotificationTrainingFailed    NotificationType = "training_failed"
	NotificationLossThreshold     NotificationType = "loss_threshold"
	NotificationAccuracyTarget    NotificationType = "accuracy_target"
	NotificationCustom            NotificationType = "custom"
)

// Severity levels map directly onto the dashboard toast variants.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Notification MySQL model for the notifications table. Rows are append-only
// facts; the engine only ever flips IsRead.
type Notification struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	NotificationID   string     `gorm:"column:notification_id;type:varchar(128);not null;uniqueIndex" json:"notificationId"`
	UserID           int64      `gorm:"column:user_id;not null;index:idx_user_unread,priority:1" json:"userId"`
	TrainingID       *int64     `gorm:"column:training_id;index" json:"trainingId,omitempty"`
	NotificationType string     `gorm:"column:notification_type;type:varchar(50);not null" json:"notificationType"`
	Title            string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Message          string     `gorm:"column:message;type:text" json:"message"`
	Severity         string     `gorm:"column:severity;type:varchar(20);not null;default:info" json:"severity"`
	Metadata         JSONMap    `gorm:"column:metadata;type:json" json:"metadata,omitempty"`
	IsRead           bool       `gorm:"column:is_read;not null;default:false;index:idx_user_unread,priority:2" json:"isRead"`
	ReadAt           *time.Time `gorm:"column:read_at" json:"readAt,omitempty"`
	CreatedAt        time.Time  `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3);index" json:"createdAt"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
