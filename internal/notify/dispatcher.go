package notify

import (
	"context"
	"sync"
	"time"

	"mlboard/internal/telemetry"
	"mlboard/pkg/logger"
)

// taskTimeout bounds how long one persistence task may hold the worker.
const taskTimeout = 10 * time.Second

// Dispatcher decouples the epoch loop from notification persistence with a
// bounded queue and a single worker. Enqueueing never blocks: when the queue
// is full the event is dropped and logged, keeping metric emission unaffected
// by a slow or unavailable database.
type Dispatcher struct {
	engine *Engine
	tasks  chan func(ctx context.Context)

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher starts the worker. size bounds the pending-event queue.
func NewDispatcher(engine *Engine, size int) *Dispatcher {
	if size <= 0 {
		size = 256
	}
	d := &Dispatcher{
		engine: engine,
		tasks:  make(chan func(ctx context.Context), size),
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for task := range d.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		task(ctx)
		cancel()
	}
}

func (d *Dispatcher) enqueue(event string, task func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.tasks <- task:
	default:
		logger.Warnf("notification queue full, dropping %s event", event)
	}
}

// TrainingStarted implements telemetry.Notifier.
func (d *Dispatcher) TrainingStarted(userID, trainingID int64) {
	d.enqueue("training-started", func(ctx context.Context) {
		d.engine.NotifyTrainingStarted(ctx, userID, trainingID)
	})
}

// TrainingCompleted implements telemetry.Notifier.
func (d *Dispatcher) TrainingCompleted(userID, trainingID int64, final telemetry.Metric) {
	d.enqueue("training-completed", func(ctx context.Context) {
		d.engine.NotifyTrainingCompleted(ctx, userID, trainingID, final)
	})
}

// TrainingFailed implements telemetry.Notifier.
func (d *Dispatcher) TrainingFailed(userID, trainingID int64, reason string) {
	d.enqueue("training-failed", func(ctx context.Context) {
		d.engine.NotifyTrainingFailed(ctx, userID, trainingID, reason)
	})
}

// MetricRecorded implements telemetry.Notifier.
func (d *Dispatcher) MetricRecorded(userID int64, m telemetry.Metric) {
	d.enqueue("metric", func(ctx context.Context) {
		d.engine.ProcessMetricAlerts(ctx, userID, m)
	})
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.tasks)
	d.mu.Unlock()
	d.wg.Wait()
}
