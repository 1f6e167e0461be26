package jobs

import (
	"context"
	"time"

	"mlboard/pkg/logger"
	"mlboard/pkg/store/mysql/model"
)

// trainingStore is the slice of the training repository the reconciler needs.
type trainingStore interface {
	ListByStatus(ctx context.Context, status string) ([]*model.Training, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// liveSessions answers whether a training currently has an in-memory session.
type liveSessions interface {
	HasSession(trainingID int64) bool
}

// StatusReconciler repairs training records orphaned by a crash or restart:
// rows stuck in running with no live session are marked failed so the
// dashboard does not show phantom runs.
type StatusReconciler struct {
	trainings trainingStore
	sessions  liveSessions
	interval  time.Duration
}

func NewStatusReconciler(trainings trainingStore, sessions liveSessions, interval time.Duration) *StatusReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &StatusReconciler{trainings: trainings, sessions: sessions, interval: interval}
}

func (j *StatusReconciler) Name() string            { return "training-status-reconciler" }
func (j *StatusReconciler) Interval() time.Duration { return j.interval }

func (j *StatusReconciler) Run(ctx context.Context) error {
	running, err := j.trainings.ListByStatus(ctx, model.TrainingStatusRunning)
	if err != nil {
		return err
	}

	repaired := 0
	for _, t := range running {
		if j.sessions.HasSession(t.ID) {
			continue
		}
		if err := j.trainings.UpdateStatus(ctx, t.ID, model.TrainingStatusFailed); err != nil {
			logger.ErrorCtx(ctx, "failed to repair orphaned training %d: %v", t.ID, err)
			continue
		}
		repaired++
	}
	if repaired > 0 {
		logger.InfoCtx(ctx, "marked %d orphaned trainings as failed", repaired)
	}
	return nil
}
