package model

import "time"

// ConditionType identifies what a persisted alert condition watches.
type ConditionType string

const (
	ConditionLossThreshold     ConditionType = "loss_threshold"
	ConditionAccuracyTarget    ConditionType = "accuracy_target"
	ConditionTrainingCompleted ConditionType = "training_completed"
	ConditionTrainingFailed    ConditionType = "training_failed"
)

// Operator is the comparison applied between a metric value and a threshold.
type Operator string

const (
	OperatorLessThan     Operator = "less_than"
	OperatorGreaterThan  Operator = "greater_than"
	OperatorEqual        Operator = "equal"
	OperatorLessEqual    Operator = "less_equal"
	OperatorGreaterEqual Operator = "greater_equal"
)

// AlertCondition MySQL model for the alert_conditions table. Conditions are
// deactivated rather than deleted so fired notifications keep their context.
type AlertCondition struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConditionID   string    `gorm:"column:condition_id;type:varchar(128);not null;uniqueIndex" json:"conditionId"`
	UserID        int64     `gorm:"column:user_id;not null;index:idx_user_active,priority:1" json:"userId"`
	TrainingID    *int64    `gorm:"column:training_id;index" json:"trainingId,omitempty"`
	ConditionType string    `gorm:"column:condition_type;type:varchar(50);not null" json:"conditionType"`
	Threshold     *float64  `gorm:"column:threshold" json:"threshold,omitempty"`
	Operator      *string   `gorm:"column:operator;type:varchar(20)" json:"operator,omitempty"`
	Description   string    `gorm:"column:description;type:text" json:"description,omitempty"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true;index:idx_user_active,priority:2" json:"isActive"`
	CreatedAt     time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updatedAt"`
}

// TableName specifies the table name for AlertCondition
func (AlertCondition) TableName() string {
	return "alert_conditions"
}
