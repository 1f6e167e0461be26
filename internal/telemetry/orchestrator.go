package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"mlboard/pkg/logger"
)

var (
	ErrSessionExists   = errors.New("training session already running")
	ErrSessionNotFound = errors.New("training session not found")
)

// Notifier receives lifecycle and metric callbacks from the orchestrator.
// Implementations must not block; handoff to persistence happens off the
// epoch loop.
type Notifier interface {
	TrainingStarted(userID, trainingID int64)
	TrainingCompleted(userID, trainingID int64, final Metric)
	TrainingFailed(userID, trainingID int64, reason string)
	MetricRecorded(userID int64, m Metric)
}

// StartConfig tunes a run. Zero values fall back to orchestrator defaults.
type StartConfig struct {
	Epochs       int `json:"epochs"`
	TotalBatches int `json:"totalBatches"`
}

// Orchestrator drives simulated runs: one epoch per clock tick, one metric
// per batch within the epoch, lifecycle transitions broadcast to the hub.
type Orchestrator struct {
	store    *SessionStore
	hub      *Hub
	notifier Notifier
	clk      clock.Clock

	epochInterval  time.Duration
	defaultEpochs  int
	defaultBatches int

	mu   sync.Mutex
	runs map[int64]context.CancelFunc
}

func NewOrchestrator(store *SessionStore, hub *Hub, notifier Notifier, clk clock.Clock, epochInterval time.Duration, defaultEpochs, defaultBatches int) *Orchestrator {
	return &Orchestrator{
		store:          store,
		hub:            hub,
		notifier:       notifier,
		clk:            clk,
		epochInterval:  epochInterval,
		defaultEpochs:  defaultEpochs,
		defaultBatches: defaultBatches,
		runs:           make(map[int64]context.CancelFunc),
	}
}

// Start creates the session and launches the epoch loop. A second start for
// the same training is rejected with ErrSessionExists.
func (o *Orchestrator) Start(userID, trainingID int64, cfg StartConfig) error {
	epochs := cfg.Epochs
	if epochs <= 0 {
		epochs = o.defaultEpochs
	}
	batches := cfg.TotalBatches
	if batches <= 0 {
		batches = o.defaultBatches
	}

	sess := &Session{
		TrainingID: trainingID,
		UserID:     userID,
		Status:     StatusRunning,
		StartTime:  o.clk.Now().UnixMilli(),
		Epochs:     epochs,
		Metrics:    make([]Metric, 0, MetricHistoryLimit),
	}

	o.mu.Lock()
	if !o.store.Create(sess) {
		o.mu.Unlock()
		return ErrSessionExists
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.runs[trainingID] = cancel
	o.mu.Unlock()

	o.hub.BroadcastTopic(trainingID, EventTrainingStarted, sess.clone())
	o.notifier.TrainingStarted(userID, trainingID)
	logger.Infof("training %d started for user %d (%d epochs, %d batches)", trainingID, userID, epochs, batches)

	go o.runLoop(ctx, trainingID, userID, epochs, batches)
	return nil
}

func (o *Orchestrator) runLoop(ctx context.Context, trainingID, userID int64, epochs, batches int) {
	ticker := o.clk.Ticker(o.epochInterval)
	defer ticker.Stop()

	epoch := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		sess, ok := o.store.Get(trainingID)
		if !ok {
			return
		}
		// Paused sessions keep ticking without advancing.
		if sess.Status != StatusRunning {
			continue
		}
		if epoch >= epochs {
			o.complete(trainingID, userID)
			return
		}

		for batch := 0; batch < batches; batch++ {
			m := GenerateMetric(trainingID, epoch, batch, batches)
			if !o.store.AppendMetric(trainingID, m) {
				return
			}
			o.hub.BroadcastTopic(trainingID, EventMetricUpdate, m)
			o.notifier.MetricRecorded(userID, m)
		}
		if updated, ok := o.store.Get(trainingID); ok {
			o.hub.BroadcastTopic(trainingID, EventSessionUpdate, updated)
		}
		epoch++
	}
}

func (o *Orchestrator) complete(trainingID, userID int64) {
	sess, ok := o.store.SetStatus(trainingID, StatusCompleted)
	if !ok {
		return
	}
	if final, ok := sess.LastMetric(); ok {
		o.notifier.TrainingCompleted(userID, trainingID, final)
	}
	o.hub.BroadcastTopic(trainingID, EventTrainingCompleted, sess)
	o.teardown(trainingID)
	logger.Infof("training %d completed", trainingID)
}

func (o *Orchestrator) teardown(trainingID int64) {
	o.mu.Lock()
	if cancel, ok := o.runs[trainingID]; ok {
		cancel()
		delete(o.runs, trainingID)
	}
	o.mu.Unlock()
	o.store.Remove(trainingID)
}

// Pause freezes epoch progression. Only a running session can be paused.
func (o *Orchestrator) Pause(trainingID int64) error {
	sess, ok := o.store.Get(trainingID)
	if !ok {
		return ErrSessionNotFound
	}
	if sess.Status != StatusRunning {
		return nil
	}
	updated, _ := o.store.SetStatus(trainingID, StatusPaused)
	o.hub.BroadcastTopic(trainingID, EventTrainingPaused, updated)
	logger.Infof("training %d paused", trainingID)
	return nil
}

// Resume restarts epoch progression on a paused session.
func (o *Orchestrator) Resume(trainingID int64) error {
	sess, ok := o.store.Get(trainingID)
	if !ok {
		return ErrSessionNotFound
	}
	if sess.Status != StatusPaused {
		return nil
	}
	updated, _ := o.store.SetStatus(trainingID, StatusRunning)
	o.hub.BroadcastTopic(trainingID, EventTrainingResumed, updated)
	logger.Infof("training %d resumed", trainingID)
	return nil
}

// Stop ends the run. An empty reason marks the session completed; a non-empty
// reason marks it failed and emits a failure notification. Exactly one final
// broadcast is sent, then the session is removed.
func (o *Orchestrator) Stop(trainingID int64, reason string) error {
	status := StatusCompleted
	if reason != "" {
		status = StatusFailed
	}
	sess, ok := o.store.SetStatus(trainingID, status)
	if !ok {
		return ErrSessionNotFound
	}
	o.hub.BroadcastTopic(trainingID, EventTrainingStopped, sess)
	if status == StatusFailed {
		o.notifier.TrainingFailed(sess.UserID, trainingID, reason)
	} else {
		// A stop without a reason is a normal finish; the completion
		// callback writes the terminal status so the run is not left
		// looking orphaned.
		final, _ := sess.LastMetric()
		o.notifier.TrainingCompleted(sess.UserID, trainingID, final)
	}
	o.teardown(trainingID)
	logger.Infof("training %d stopped (status=%s)", trainingID, status)
	return nil
}

// GetSession returns a snapshot of the live session, if any.
func (o *Orchestrator) GetSession(trainingID int64) (Session, bool) {
	return o.store.Get(trainingID)
}

// HasSession reports whether a live session exists for the training.
func (o *Orchestrator) HasSession(trainingID int64) bool {
	_, ok := o.store.Get(trainingID)
	return ok
}

// ActiveSessions lists snapshots of every live session.
func (o *Orchestrator) ActiveSessions() []Session {
	return o.store.ListActive()
}

// Shutdown cancels every running epoch loop. Sessions are left in place so
// a final state read is still possible during drain.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, cancel := range o.runs {
		cancel()
		delete(o.runs, id)
	}
}
