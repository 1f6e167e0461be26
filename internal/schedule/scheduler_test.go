package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlboard/internal/telemetry"
	queue "mlboard/pkg/queue/asynq"
)

type fakeStarter struct {
	started []queue.StartPayload
	err     error
}

func (f *fakeStarter) Start(userID, trainingID int64, cfg telemetry.StartConfig) error {
	if f.err != nil {
		return f.err
	}
	f.started = append(f.started, queue.StartPayload{
		TrainingID:   trainingID,
		UserID:       userID,
		Epochs:       cfg.Epochs,
		TotalBatches: cfg.TotalBatches,
	})
	return nil
}

func startTask(t *testing.T, p queue.StartPayload) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(p)
	require.NoError(t, err)
	return asynq.NewTask(queue.TypeTrainingStart, payload)
}

func TestHandleTrainingStart(t *testing.T) {
	starter := &fakeStarter{}
	s := &Scheduler{starter: starter}

	task := startTask(t, queue.StartPayload{TrainingID: 3, UserID: 7, Epochs: 5, TotalBatches: 10})
	require.NoError(t, s.HandleTrainingStart(context.Background(), task))

	require.Len(t, starter.started, 1)
	assert.Equal(t, int64(3), starter.started[0].TrainingID)
	assert.Equal(t, int64(7), starter.started[0].UserID)
	assert.Equal(t, 5, starter.started[0].Epochs)
}

func TestHandleTrainingStartAlreadyRunning(t *testing.T) {
	s := &Scheduler{starter: &fakeStarter{err: telemetry.ErrSessionExists}}

	task := startTask(t, queue.StartPayload{TrainingID: 3, UserID: 7})
	// Duplicate starts are not retried.
	assert.NoError(t, s.HandleTrainingStart(context.Background(), task))
}

func TestHandleTrainingStartFailureRetries(t *testing.T) {
	s := &Scheduler{starter: &fakeStarter{err: errors.New("boom")}}

	task := startTask(t, queue.StartPayload{TrainingID: 3})
	err := s.HandleTrainingStart(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleTrainingStartBadPayload(t *testing.T) {
	s := &Scheduler{starter: &fakeStarter{}}

	err := s.HandleTrainingStart(context.Background(), asynq.NewTask(queue.TypeTrainingStart, []byte("{")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
