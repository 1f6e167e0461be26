package mysql

import (
	"context"
	"fmt"

	"mlboard/pkg/store/mysql/model"
)

// TrainingRepository handles training persistence in MySQL
type TrainingRepository struct {
	ds *Datastore
}

// NewTrainingRepository creates a new training repository
func NewTrainingRepository(ds *Datastore) *TrainingRepository {
	return &TrainingRepository{ds: ds}
}

// GetByID retrieves a training by numeric primary key
func (r *TrainingRepository) GetByID(ctx context.Context, id int64) (*model.Training, error) {
	var training model.Training
	err := r.ds.DB(ctx).Where("id = ?", id).First(&training).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get training %d: %w", id, err)
	}
	return &training, nil
}

// List retrieves trainings ordered by creation time descending
func (r *TrainingRepository) List(ctx context.Context, limit int) ([]*model.Training, error) {
	if limit <= 0 {
		limit = 100
	}

	var trainings []*model.Training
	err := r.ds.DB(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&trainings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trainings: %w", err)
	}
	return trainings, nil
}

// ListScheduled retrieves trainings waiting on a scheduled start
func (r *TrainingRepository) ListScheduled(ctx context.Context) ([]*model.Training, error) {
	var trainings []*model.Training
	err := r.ds.DB(ctx).
		Where("schedule = ? AND status = ? AND scheduled_time IS NOT NULL",
			model.ScheduleScheduled, model.TrainingStatusPending).
		Find(&trainings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled trainings: %w", err)
	}
	return trainings, nil
}

// ListByStatus retrieves trainings in the given status
func (r *TrainingRepository) ListByStatus(ctx context.Context, status string) ([]*model.Training, error) {
	var trainings []*model.Training
	err := r.ds.DB(ctx).
		Where("status = ?", status).
		Find(&trainings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trainings by status: %w", err)
	}
	return trainings, nil
}

// UpdateStatus sets the training status
func (r *TrainingRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result := r.ds.DB(ctx).
		Model(&model.Training{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update training status: %w", result.Error)
	}
	return nil
}

// UpdateFinalMetrics records the last observed loss and GPU usage of a run
func (r *TrainingRepository) UpdateFinalMetrics(ctx context.Context, id int64, loss, gpuUsage float64) error {
	result := r.ds.DB(ctx).
		Model(&model.Training{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"loss":      loss,
			"gpu_usage": gpuUsage,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update training metrics: %w", result.Error)
	}
	return nil
}
