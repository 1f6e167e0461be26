package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlboard/pkg/store/mysql/model"
)

type fakeTrainingStore struct {
	mu       sync.Mutex
	running  []*model.Training
	statuses map[int64]string
	listErr  error
}

func (f *fakeTrainingStore) ListByStatus(ctx context.Context, status string) ([]*model.Training, error) {
	return f.running, f.listErr
}

func (f *fakeTrainingStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	return nil
}

func (f *fakeTrainingStore) status(id int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[id]
}

type fakeSessions map[int64]bool

func (f fakeSessions) HasSession(trainingID int64) bool { return f[trainingID] }

func TestStatusReconcilerRepairsOrphans(t *testing.T) {
	store := &fakeTrainingStore{
		running: []*model.Training{
			{ID: 1, Status: model.TrainingStatusRunning},
			{ID: 2, Status: model.TrainingStatusRunning},
		},
		statuses: make(map[int64]string),
	}
	sessions := fakeSessions{1: true}

	j := NewStatusReconciler(store, sessions, time.Minute)
	require.NoError(t, j.Run(context.Background()))

	// Training 1 has a live session and is untouched; training 2 is orphaned.
	assert.Empty(t, store.status(1))
	assert.Equal(t, model.TrainingStatusFailed, store.status(2))
}

func TestStatusReconcilerPropagatesListError(t *testing.T) {
	store := &fakeTrainingStore{listErr: errors.New("connection refused"), statuses: map[int64]string{}}
	j := NewStatusReconciler(store, fakeSessions{}, time.Minute)
	assert.Error(t, j.Run(context.Background()))
}

func TestManagerRunsRegisteredJobs(t *testing.T) {
	store := &fakeTrainingStore{
		running:  []*model.Training{{ID: 5, Status: model.TrainingStatusRunning}},
		statuses: make(map[int64]string),
	}

	m := NewManager(context.Background())
	m.Register(NewStatusReconciler(store, fakeSessions{}, time.Hour))
	m.Start()

	require.Eventually(t, func() bool {
		return store.status(5) == model.TrainingStatusFailed
	}, 2*time.Second, 10*time.Millisecond)

	m.Stop()
	m.Wait()
}
