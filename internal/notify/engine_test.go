package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlboard/internal/telemetry"
	"mlboard/pkg/store/mysql/model"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrString(s string) *string  { return &s }

func lossCondition(threshold float64, op string) *model.AlertCondition {
	return &model.AlertCondition{
		ConditionID:   "cond_test",
		ConditionType: string(model.ConditionLossThreshold),
		Threshold:     ptrFloat(threshold),
		Operator:      ptrString(op),
		IsActive:      true,
	}
}

func TestEvaluateCondition(t *testing.T) {
	metric := telemetry.Metric{TrainingID: 1, Loss: 0.0856, Accuracy: 87.3}

	tests := []struct {
		name string
		cond *model.AlertCondition
		want bool
	}{
		{"loss below threshold", lossCondition(0.1, string(model.OperatorLessThan)), true},
		{"loss above tight threshold", lossCondition(0.05, string(model.OperatorLessThan)), false},
		{"loss greater than", lossCondition(0.05, string(model.OperatorGreaterThan)), true},
		{"loss equal within epsilon", lossCondition(0.08565, string(model.OperatorEqual)), true},
		{"loss equal outside epsilon", lossCondition(0.09, string(model.OperatorEqual)), false},
		{"loss less equal at threshold", lossCondition(0.0856, string(model.OperatorLessEqual)), true},
		{"loss greater equal at threshold", lossCondition(0.0856, string(model.OperatorGreaterEqual)), true},
		{"unknown operator", lossCondition(0.1, "between"), false},
		{
			"accuracy target reached",
			&model.AlertCondition{
				ConditionType: string(model.ConditionAccuracyTarget),
				Threshold:     ptrFloat(85),
				Operator:      ptrString(string(model.OperatorGreaterEqual)),
			},
			true,
		},
		{
			"missing threshold",
			&model.AlertCondition{
				ConditionType: string(model.ConditionLossThreshold),
				Operator:      ptrString(string(model.OperatorLessThan)),
			},
			false,
		},
		{
			"missing operator",
			&model.AlertCondition{
				ConditionType: string(model.ConditionLossThreshold),
				Threshold:     ptrFloat(0.1),
			},
			false,
		},
		{
			"status condition is not metric backed",
			&model.AlertCondition{
				ConditionType: string(model.ConditionTrainingCompleted),
				Threshold:     ptrFloat(0.1),
				Operator:      ptrString(string(model.OperatorLessThan)),
			},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateCondition(metric, tt.cond))
		})
	}
}

func TestEvaluateConditionOrderingProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("less_than and greater_equal partition the line", prop.ForAll(
		func(loss, threshold float64) bool {
			m := telemetry.Metric{Loss: loss}
			lt := EvaluateCondition(m, lossCondition(threshold, string(model.OperatorLessThan)))
			ge := EvaluateCondition(m, lossCondition(threshold, string(model.OperatorGreaterEqual)))
			return lt != ge
		},
		gen.Float64Range(0, 10),
		gen.Float64Range(0, 10),
	))

	properties.TestingRun(t)
}

func TestMatchesStatus(t *testing.T) {
	completed := &model.AlertCondition{ConditionType: string(model.ConditionTrainingCompleted)}
	failed := &model.AlertCondition{ConditionType: string(model.ConditionTrainingFailed)}

	assert.True(t, MatchesStatus(completed, telemetry.StatusCompleted))
	assert.False(t, MatchesStatus(completed, telemetry.StatusFailed))
	assert.True(t, MatchesStatus(failed, telemetry.StatusFailed))
	assert.False(t, MatchesStatus(lossCondition(1, "less_than"), telemetry.StatusCompleted))
}

type fakeNotificationStore struct {
	mu    sync.Mutex
	saved []*model.Notification
	err   error
}

func (f *fakeNotificationStore) Save(ctx context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, n)
	return nil
}

func (f *fakeNotificationStore) all() []*model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.Notification(nil), f.saved...)
}

type fakeConditionStore struct {
	conds []*model.AlertCondition
	err   error
}

func (f *fakeConditionStore) ListActive(ctx context.Context, userID int64, trainingID *int64) ([]*model.AlertCondition, error) {
	return f.conds, f.err
}

type fakeTrainingStore struct {
	mu       sync.Mutex
	statuses map[int64]string
	loss     map[int64]float64
}

func newFakeTrainingStore() *fakeTrainingStore {
	return &fakeTrainingStore{statuses: make(map[int64]string), loss: make(map[int64]float64)}
}

func (f *fakeTrainingStore) GetByID(ctx context.Context, id int64) (*model.Training, error) {
	return &model.Training{ID: id, TrainingName: "resnet-finetune"}, nil
}

func (f *fakeTrainingStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	return nil
}

// UpdateFinalMetrics mirrors the real repository: it writes the metric
// columns only, the status transition is a separate call.
func (f *fakeTrainingStore) UpdateFinalMetrics(ctx context.Context, id int64, loss, gpuUsage float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loss[id] = loss
	return nil
}

func (f *fakeTrainingStore) status(id int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[id]
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated []int64
}

func (f *fakeCache) Invalidate(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, userID)
	return nil
}

func TestEngineLifecycleNotifications(t *testing.T) {
	store := &fakeNotificationStore{}
	trainings := newFakeTrainingStore()
	cache := &fakeCache{}
	engine := NewEngine(store, &fakeConditionStore{}, trainings, cache)
	ctx := context.Background()

	engine.NotifyTrainingStarted(ctx, 7, 3)
	engine.NotifyTrainingCompleted(ctx, 7, 3, telemetry.Metric{TrainingID: 3, Loss: 0.0312, Accuracy: 94.21, GPUUsage: 81.5})
	engine.NotifyTrainingFailed(ctx, 7, 4, "out of memory")

	saved := store.all()
	require.Len(t, saved, 3)

	assert.Equal(t, string(model.NotificationTrainingStarted), saved[0].NotificationType)
	assert.Equal(t, string(model.SeverityInfo), saved[0].Severity)
	assert.Contains(t, saved[0].Message, "resnet-finetune")

	assert.Equal(t, string(model.NotificationTrainingCompleted), saved[1].NotificationType)
	assert.Equal(t, string(model.SeveritySuccess), saved[1].Severity)
	assert.Contains(t, saved[1].Message, "0.0312")
	assert.Contains(t, saved[1].Message, "94.21%")

	assert.Equal(t, string(model.NotificationTrainingFailed), saved[2].NotificationType)
	assert.Equal(t, string(model.SeverityError), saved[2].Severity)
	assert.Contains(t, saved[2].Message, "out of memory")

	assert.Equal(t, model.TrainingStatusCompleted, trainings.status(3))
	assert.Equal(t, model.TrainingStatusFailed, trainings.status(4))
	assert.InDelta(t, 0.0312, trainings.loss[3], 1e-9)
	assert.Len(t, cache.invalidated, 3)
}

func TestEngineCompletionWritesTerminalStatus(t *testing.T) {
	trainings := newFakeTrainingStore()
	engine := NewEngine(&fakeNotificationStore{}, &fakeConditionStore{}, trainings, nil)
	ctx := context.Background()

	engine.NotifyTrainingStarted(ctx, 7, 3)
	require.Equal(t, model.TrainingStatusRunning, trainings.status(3))

	// The row must leave running on completion, or the reconciler would
	// treat the finished run as orphaned and fail it.
	engine.NotifyTrainingCompleted(ctx, 7, 3, telemetry.Metric{TrainingID: 3, Loss: 0.05, Accuracy: 91})
	assert.Equal(t, model.TrainingStatusCompleted, trainings.status(3))
}

func TestEngineSwallowsPersistenceErrors(t *testing.T) {
	store := &fakeNotificationStore{err: errors.New("connection refused")}
	engine := NewEngine(store, &fakeConditionStore{err: errors.New("connection refused")}, nil, nil)
	ctx := context.Background()

	// None of these may panic or propagate the failure.
	engine.NotifyTrainingStarted(ctx, 7, 3)
	engine.NotifyTrainingFailed(ctx, 7, 3, "boom")
	engine.ProcessMetricAlerts(ctx, 7, telemetry.Metric{TrainingID: 3, Loss: 0.01})

	assert.Empty(t, store.all())
}

func TestEngineProcessMetricAlertsFiresOncePerSession(t *testing.T) {
	store := &fakeNotificationStore{}
	conds := &fakeConditionStore{conds: []*model.AlertCondition{lossCondition(0.5, string(model.OperatorLessThan))}}
	engine := NewEngine(store, conds, nil, nil)
	ctx := context.Background()

	low := telemetry.Metric{TrainingID: 3, Epoch: 4, Loss: 0.2}
	engine.ProcessMetricAlerts(ctx, 7, telemetry.Metric{TrainingID: 3, Epoch: 1, Loss: 1.8})
	engine.ProcessMetricAlerts(ctx, 7, low)
	engine.ProcessMetricAlerts(ctx, 7, low)

	saved := store.all()
	require.Len(t, saved, 1)
	assert.Equal(t, string(model.NotificationLossThreshold), saved[0].NotificationType)
	assert.Equal(t, "Loss Threshold Reached", saved[0].Title)
	assert.Equal(t, string(model.SeveritySuccess), saved[0].Severity)
	assert.Contains(t, saved[0].Message, "0.5")
	assert.Equal(t, 0.5, saved[0].Metadata["threshold"])
	assert.Equal(t, 0.2, saved[0].Metadata["currentValue"])

	// A finished session re-arms the condition for the next run.
	engine.NotifyTrainingCompleted(ctx, 7, 3, low)
	engine.ProcessMetricAlerts(ctx, 7, low)
	assert.Len(t, store.all(), 3)
}

func TestEngineAccuracyTargetAlert(t *testing.T) {
	store := &fakeNotificationStore{}
	cond := &model.AlertCondition{
		ConditionID:   "cond_acc",
		ConditionType: string(model.ConditionAccuracyTarget),
		Threshold:     ptrFloat(90),
		Operator:      ptrString(string(model.OperatorGreaterEqual)),
		Description:   "accuracy hit the target",
	}
	engine := NewEngine(store, &fakeConditionStore{conds: []*model.AlertCondition{cond}}, nil, nil)

	engine.ProcessMetricAlerts(context.Background(), 7, telemetry.Metric{TrainingID: 3, Accuracy: 93.5})

	saved := store.all()
	require.Len(t, saved, 1)
	assert.Equal(t, string(model.NotificationAccuracyTarget), saved[0].NotificationType)
	assert.Equal(t, string(model.SeveritySuccess), saved[0].Severity)
	assert.Equal(t, "accuracy hit the target", saved[0].Message)
}

func TestEngineStatusConditionsFireOnLifecycle(t *testing.T) {
	store := &fakeNotificationStore{}
	cond := &model.AlertCondition{
		ConditionID:   "cond_done",
		ConditionType: string(model.ConditionTrainingCompleted),
	}
	engine := NewEngine(store, &fakeConditionStore{conds: []*model.AlertCondition{cond}}, nil, nil)

	engine.NotifyTrainingCompleted(context.Background(), 7, 3, telemetry.Metric{TrainingID: 3, Loss: 0.02, Accuracy: 95})

	saved := store.all()
	// Lifecycle notification plus the fired status condition.
	require.Len(t, saved, 2)
	assert.Equal(t, string(model.NotificationTrainingCompleted), saved[0].NotificationType)
	assert.Equal(t, string(model.NotificationCustom), saved[1].NotificationType)
	assert.Equal(t, "cond_done", saved[1].Metadata["conditionId"])
}
