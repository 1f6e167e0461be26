package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreCreateAndGet(t *testing.T) {
	st := NewSessionStore()

	ok := st.Create(&Session{TrainingID: 1, UserID: 7, Status: StatusRunning})
	require.True(t, ok)

	// Second create for the same training is rejected.
	assert.False(t, st.Create(&Session{TrainingID: 1}))

	got, ok := st.Get(1)
	require.True(t, ok)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, StatusRunning, got.Status)

	_, ok = st.Get(2)
	assert.False(t, ok)
}

func TestSessionStoreSnapshotIsolation(t *testing.T) {
	st := NewSessionStore()
	require.True(t, st.Create(&Session{TrainingID: 1, Status: StatusRunning}))
	require.True(t, st.AppendMetric(1, Metric{Epoch: 0}))

	snap, ok := st.Get(1)
	require.True(t, ok)
	snap.Metrics[0].Epoch = 99

	fresh, _ := st.Get(1)
	assert.Equal(t, 0, fresh.Metrics[0].Epoch)
}

func TestSessionStoreMetricHistoryCap(t *testing.T) {
	st := NewSessionStore()
	require.True(t, st.Create(&Session{TrainingID: 1, Status: StatusRunning}))

	for i := 0; i < MetricHistoryLimit+20; i++ {
		require.True(t, st.AppendMetric(1, Metric{Epoch: i}))
	}

	got, ok := st.Get(1)
	require.True(t, ok)
	require.Len(t, got.Metrics, MetricHistoryLimit)
	// Oldest entries are evicted first.
	assert.Equal(t, 20, got.Metrics[0].Epoch)
	assert.Equal(t, MetricHistoryLimit+19, got.Metrics[len(got.Metrics)-1].Epoch)

	last, ok := got.LastMetric()
	require.True(t, ok)
	assert.Equal(t, MetricHistoryLimit+19, last.Epoch)
}

func TestSessionStoreRemove(t *testing.T) {
	st := NewSessionStore()
	require.True(t, st.Create(&Session{TrainingID: 1}))

	st.Remove(1)

	_, ok := st.Get(1)
	assert.False(t, ok)
	assert.False(t, st.AppendMetric(1, Metric{}))
	_, ok = st.SetStatus(1, StatusPaused)
	assert.False(t, ok)
}

func TestSessionStoreListActive(t *testing.T) {
	st := NewSessionStore()
	require.True(t, st.Create(&Session{TrainingID: 1, Status: StatusRunning}))
	require.True(t, st.Create(&Session{TrainingID: 2, Status: StatusPaused}))

	assert.Len(t, st.ListActive(), 2)
}
