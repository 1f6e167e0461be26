package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlboard/internal/telemetry"
	"mlboard/pkg/store/mysql/model"
)

type blockingStore struct {
	mu      sync.Mutex
	saved   int
	release chan struct{}
}

func (b *blockingStore) Save(ctx context.Context, n *model.Notification) error {
	if b.release != nil {
		<-b.release
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saved++
	return nil
}

func (b *blockingStore) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saved
}

func TestDispatcherDeliversEvents(t *testing.T) {
	store := &blockingStore{}
	d := NewDispatcher(NewEngine(store, &fakeConditionStore{}, nil, nil), 16)

	d.TrainingStarted(7, 1)
	d.TrainingCompleted(7, 1, telemetry.Metric{TrainingID: 1, Loss: 0.1, Accuracy: 90})
	d.TrainingFailed(7, 2, "boom")

	require.Eventually(t, func() bool { return store.count() == 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestDispatcherCloseDrainsQueue(t *testing.T) {
	store := &blockingStore{}
	d := NewDispatcher(NewEngine(store, &fakeConditionStore{}, nil, nil), 16)

	for i := 0; i < 10; i++ {
		d.TrainingStarted(7, int64(i))
	}
	d.Close()

	assert.Equal(t, 10, store.count())

	// Events after close are ignored, not panics.
	d.TrainingStarted(7, 99)
	d.Close()
	assert.Equal(t, 10, store.count())
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	store := &blockingStore{release: make(chan struct{})}
	d := NewDispatcher(NewEngine(store, &fakeConditionStore{}, nil, nil), 2)

	// First event occupies the worker, the next two fill the queue, the rest
	// must be dropped without blocking this goroutine.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			d.TrainingStarted(7, int64(i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}

	close(store.release)
	d.Close()
	assert.LessOrEqual(t, store.count(), 3)
	assert.GreaterOrEqual(t, store.count(), 1)
}
