package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"mlboard/internal/telemetry"
	"mlboard/pkg/logger"
	queue "mlboard/pkg/queue/asynq"
	"mlboard/pkg/store/mysql"
	"mlboard/pkg/store/mysql/model"
)

// Starter launches a live session for a training record.
type Starter interface {
	Start(userID, trainingID int64, cfg telemetry.StartConfig) error
}

// TrainingLister loads the scheduled trainings to re-arm on boot.
type TrainingLister interface {
	ListScheduled(ctx context.Context) ([]*model.Training, error)
}

var _ TrainingLister = (*mysql.TrainingRepository)(nil)

// Scheduler bridges the delayed-task queue and the session orchestrator:
// trainings created with a schedule get their start enqueued for their
// scheduled time, and queue deliveries launch the session.
type Scheduler struct {
	queue     *queue.Manager
	trainings TrainingLister
	starter   Starter
}

func NewScheduler(q *queue.Manager, trainings TrainingLister, starter Starter) *Scheduler {
	s := &Scheduler{queue: q, trainings: trainings, starter: starter}
	q.RegisterHandler(queue.TypeTrainingStart, asynq.HandlerFunc(s.HandleTrainingStart))
	return s
}

// ScheduleTraining enqueues the start of one training record for its
// scheduled time, or immediately for immediate-mode records.
func (s *Scheduler) ScheduleTraining(ctx context.Context, t *model.Training) error {
	payload := &queue.StartPayload{
		TrainingID:   t.ID,
		UserID:       t.CreatedBy,
		Epochs:       t.Epochs,
		TotalBatches: t.BatchSize,
	}
	var processAt time.Time
	if t.Schedule == model.ScheduleScheduled && t.ScheduledTime != nil {
		processAt = *t.ScheduledTime
	}
	return s.queue.EnqueueTrainingStart(ctx, payload, processAt)
}

// RearmScheduled re-enqueues every pending scheduled training. Called on
// boot so restarts do not lose scheduled starts.
func (s *Scheduler) RearmScheduled(ctx context.Context) error {
	trainings, err := s.trainings.ListScheduled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list scheduled trainings: %w", err)
	}
	for _, t := range trainings {
		if err := s.ScheduleTraining(ctx, t); err != nil {
			logger.ErrorCtx(ctx, "failed to re-arm scheduled training %d: %v", t.ID, err)
		}
	}
	logger.InfoCtx(ctx, "re-armed %d scheduled trainings", len(trainings))
	return nil
}

// HandleTrainingStart processes one queued start. An already-running session
// is treated as done rather than retried.
func (s *Scheduler) HandleTrainingStart(ctx context.Context, task *asynq.Task) error {
	var payload queue.StartPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid start payload: %w: %w", err, asynq.SkipRetry)
	}

	err := s.starter.Start(payload.UserID, payload.TrainingID, telemetry.StartConfig{
		Epochs:       payload.Epochs,
		TotalBatches: payload.TotalBatches,
	})
	if errors.Is(err, telemetry.ErrSessionExists) {
		logger.InfoCtx(ctx, "scheduled start skipped, training %d already running", payload.TrainingID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to start training %d: %w", payload.TrainingID, err)
	}

	logger.InfoCtx(ctx, "scheduled training %d started for user %d", payload.TrainingID, payload.UserID)
	return nil
}
