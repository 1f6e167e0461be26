package mysql

import (
	"context"
	"fmt"

	"mlboard/pkg/store/mysql/model"

	"github.com/google/uuid"
)

// AlertConditionRepository handles alert condition persistence in MySQL
type AlertConditionRepository struct {
	ds *Datastore
}

// NewAlertConditionRepository creates a new alert condition repository
func NewAlertConditionRepository(ds *Datastore) *AlertConditionRepository {
	return &AlertConditionRepository{ds: ds}
}

// Create persists a new alert condition
func (r *AlertConditionRepository) Create(ctx context.Context, c *model.AlertCondition) error {
	if c.ConditionID == "" {
		c.ConditionID = "cond_" + uuid.New().String()
	}
	c.IsActive = true
	if err := r.ds.DB(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create alert condition: %w", err)
	}
	return nil
}

// ListActive retrieves a user's active alert conditions. When trainingID is
// non-nil the result covers conditions scoped to that training plus the
// user's global (unscoped) conditions.
func (r *AlertConditionRepository) ListActive(ctx context.Context, userID int64, trainingID *int64) ([]*model.AlertCondition, error) {
	query := r.ds.DB(ctx).
		Where("user_id = ? AND is_active = ?", userID, true)
	if trainingID != nil {
		query = query.Where("training_id = ? OR training_id IS NULL", *trainingID)
	}

	var conditions []*model.AlertCondition
	if err := query.Find(&conditions).Error; err != nil {
		return nil, fmt.Errorf("failed to list alert conditions: %w", err)
	}
	return conditions, nil
}

// ListByUser retrieves all of a user's alert conditions, active or not
func (r *AlertConditionRepository) ListByUser(ctx context.Context, userID int64) ([]*model.AlertCondition, error) {
	var conditions []*model.AlertCondition
	err := r.ds.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&conditions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list alert conditions: %w", err)
	}
	return conditions, nil
}

// Deactivate clears the activation flag. Conditions are never hard-deleted so
// fired notifications keep their provenance.
func (r *AlertConditionRepository) Deactivate(ctx context.Context, userID int64, conditionID string) error {
	result := r.ds.DB(ctx).
		Model(&model.AlertCondition{}).
		Where("condition_id = ? AND user_id = ?", conditionID, userID).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate alert condition: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("alert condition not found: %s", conditionID)
	}
	return nil
}
