package model

import "time"

// Training status values
const (
	TrainingStatusPending   = "pending"
	TrainingStatusRunning   = "running"
	TrainingStatusCompleted = "completed"
	TrainingStatusFailed    = "failed"
)

// Training schedule modes
const (
	ScheduleImmediate = "immediate"
	ScheduleScheduled = "scheduled"
)

// Training MySQL model for the trainings table
type Training struct {
	ID                 int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	TrainingID         string     `gorm:"column:training_id;type:varchar(128);not null;uniqueIndex" json:"trainingId"`
	BaseModelID        int64      `gorm:"column:base_model_id;not null" json:"baseModelId"`
	TrainingName       string     `gorm:"column:training_name;type:varchar(255)" json:"trainingName"`
	ModelType          string     `gorm:"column:model_type;type:varchar(100)" json:"modelType"`
	TrainingObjective  string     `gorm:"column:training_objective;type:varchar(100)" json:"trainingObjective"`
	Schedule           string     `gorm:"column:schedule;type:varchar(20);not null;default:immediate" json:"schedule"`
	ScheduledTime      *time.Time `gorm:"column:scheduled_time" json:"scheduledTime,omitempty"`
	BatchSize          int        `gorm:"column:batch_size" json:"batchSize"`
	LearningRate       float64    `gorm:"column:learning_rate;type:decimal(8,6)" json:"learningRate"`
	Epochs             int        `gorm:"column:epochs" json:"epochs"`
	EarlyStopping      bool       `gorm:"column:early_stopping;default:false" json:"earlyStopping"`
	ResourceGroupID    string     `gorm:"column:resource_group_id;type:varchar(128)" json:"resourceGroupId"`
	ResourcePreset     string     `gorm:"column:resource_preset;type:varchar(100)" json:"resourcePreset"`
	Status             string     `gorm:"column:status;type:varchar(20);not null;default:pending;index" json:"status"`
	GPUUsage           *float64   `gorm:"column:gpu_usage;type:decimal(5,2)" json:"gpuUsage,omitempty"`
	Loss               *float64   `gorm:"column:loss;type:decimal(10,6)" json:"loss,omitempty"`
	CreatedBy          int64      `gorm:"column:created_by;not null;index" json:"createdBy"`
	CreatedAt          time.Time  `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updatedAt"`
}

// TableName specifies the table name for Training
func (Training) TableName() string {
	return "trainings"
}
