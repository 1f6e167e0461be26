package notify

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"mlboard/internal/telemetry"
	"mlboard/pkg/logger"
	"mlboard/pkg/notification"
	"mlboard/pkg/store/mysql/model"
)

// comparisonEpsilon absorbs float noise when a threshold asks for equality.
const comparisonEpsilon = 1e-4

// NotificationStore persists dashboard notifications.
type NotificationStore interface {
	Save(ctx context.Context, n *model.Notification) error
}

// ConditionStore lists the alert conditions to evaluate for a user.
type ConditionStore interface {
	ListActive(ctx context.Context, userID int64, trainingID *int64) ([]*model.AlertCondition, error)
}

// TrainingStore reflects session lifecycle back onto training records.
type TrainingStore interface {
	GetByID(ctx context.Context, id int64) (*model.Training, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdateFinalMetrics(ctx context.Context, id int64, loss, gpuUsage float64) error
}

// UnreadCache invalidates cached unread counts after a write.
type UnreadCache interface {
	Invalidate(ctx context.Context, userID int64) error
}

// FailureAlerter pushes failure alerts to an external channel such as Feishu.
type FailureAlerter interface {
	SendTrainingFailure(ctx context.Context, n *notification.TrainingFailureNotification) error
}

// Engine turns session events and metric samples into persisted
// notifications. Storage failures are logged and swallowed; the telemetry
// stream must keep flowing when the database is unavailable.
type Engine struct {
	notifications NotificationStore
	conditions    ConditionStore
	trainings     TrainingStore
	cache         UnreadCache
	alerter       FailureAlerter

	mu    sync.Mutex
	fired map[string]struct{}
}

// NewEngine wires the engine. cache may be nil when Redis is not configured.
func NewEngine(notifications NotificationStore, conditions ConditionStore, trainings TrainingStore, cache UnreadCache) *Engine {
	return &Engine{
		notifications: notifications,
		conditions:    conditions,
		trainings:     trainings,
		cache:         cache,
		fired:         make(map[string]struct{}),
	}
}

// SetFailureAlerter attaches an external channel for failure alerts. Delivery
// is best-effort and never blocks the notification pipeline.
func (e *Engine) SetFailureAlerter(alerter FailureAlerter) {
	e.alerter = alerter
}

// MetricValue selects the sample field a condition type watches.
func MetricValue(m telemetry.Metric, conditionType string) (float64, bool) {
	switch model.ConditionType(conditionType) {
	case model.ConditionLossThreshold:
		return m.Loss, true
	case model.ConditionAccuracyTarget:
		return m.Accuracy, true
	default:
		return 0, false
	}
}

// EvaluateCondition reports whether a sample satisfies a numeric condition.
// Conditions without a threshold or operator never match, as do condition
// types that are not metric-backed.
func EvaluateCondition(m telemetry.Metric, cond *model.AlertCondition) bool {
	value, ok := MetricValue(m, cond.ConditionType)
	if !ok {
		return false
	}
	if cond.Threshold == nil || cond.Operator == nil {
		return false
	}
	threshold := *cond.Threshold
	switch model.Operator(*cond.Operator) {
	case model.OperatorLessThan:
		return value < threshold
	case model.OperatorGreaterThan:
		return value > threshold
	case model.OperatorEqual:
		return math.Abs(value-threshold) < comparisonEpsilon
	case model.OperatorLessEqual:
		return value <= threshold
	case model.OperatorGreaterEqual:
		return value >= threshold
	default:
		return false
	}
}

// MatchesStatus reports whether a lifecycle condition type matches a final
// session status. Status conditions carry no threshold.
func MatchesStatus(cond *model.AlertCondition, status telemetry.SessionStatus) bool {
	switch model.ConditionType(cond.ConditionType) {
	case model.ConditionTrainingCompleted:
		return status == telemetry.StatusCompleted
	case model.ConditionTrainingFailed:
		return status == telemetry.StatusFailed
	default:
		return false
	}
}

func (e *Engine) save(ctx context.Context, n *model.Notification) {
	if err := e.notifications.Save(ctx, n); err != nil {
		logger.Errorf("persist notification for user %d failed: %v", n.UserID, err)
		return
	}
	if e.cache != nil {
		if err := e.cache.Invalidate(ctx, n.UserID); err != nil {
			logger.Debugf("unread cache invalidation for user %d failed: %v", n.UserID, err)
		}
	}
}

func (e *Engine) trainingName(ctx context.Context, trainingID int64) string {
	if e.trainings != nil {
		if tr, err := e.trainings.GetByID(ctx, trainingID); err == nil && tr.TrainingName != "" {
			return tr.TrainingName
		}
	}
	return fmt.Sprintf("Training %d", trainingID)
}

// NotifyTrainingStarted records the start notification and moves the training
// record to running.
func (e *Engine) NotifyTrainingStarted(ctx context.Context, userID, trainingID int64) {
	name := e.trainingName(ctx, trainingID)
	if e.trainings != nil {
		if err := e.trainings.UpdateStatus(ctx, trainingID, model.TrainingStatusRunning); err != nil {
			logger.Errorf("update training %d status failed: %v", trainingID, err)
		}
	}
	e.save(ctx, &model.Notification{
		UserID:           userID,
		TrainingID:       &trainingID,
		NotificationType: string(model.NotificationTrainingStarted),
		Title:            "Training Started",
		Message:          fmt.Sprintf("Training %q has started.", name),
		Severity:         string(model.SeverityInfo),
	})
}

// NotifyTrainingCompleted records the completion notification from the last
// sample and writes the final metrics back onto the training record.
func (e *Engine) NotifyTrainingCompleted(ctx context.Context, userID, trainingID int64, final telemetry.Metric) {
	name := e.trainingName(ctx, trainingID)
	if e.trainings != nil {
		if err := e.trainings.UpdateStatus(ctx, trainingID, model.TrainingStatusCompleted); err != nil {
			logger.Errorf("update training %d status failed: %v", trainingID, err)
		}
		if err := e.trainings.UpdateFinalMetrics(ctx, trainingID, final.Loss, final.GPUUsage); err != nil {
			logger.Errorf("record final metrics for training %d failed: %v", trainingID, err)
		}
	}
	e.save(ctx, &model.Notification{
		UserID:           userID,
		TrainingID:       &trainingID,
		NotificationType: string(model.NotificationTrainingCompleted),
		Title:            "Training Completed",
		Message:          fmt.Sprintf("Training %q completed with final loss %.4f and accuracy %.2f%%.", name, final.Loss, final.Accuracy),
		Severity:         string(model.SeveritySuccess),
		Metadata: model.JSONMap{
			"finalLoss":     final.Loss,
			"finalAccuracy": final.Accuracy,
			"epoch":         final.Epoch,
		},
	})
	e.fireStatusConditions(ctx, userID, trainingID, telemetry.StatusCompleted)
	e.resetFired(trainingID)
}

// NotifyTrainingFailed records the failure notification and marks the
// training record failed.
func (e *Engine) NotifyTrainingFailed(ctx context.Context, userID, trainingID int64, reason string) {
	name := e.trainingName(ctx, trainingID)
	if e.trainings != nil {
		if err := e.trainings.UpdateStatus(ctx, trainingID, model.TrainingStatusFailed); err != nil {
			logger.Errorf("update training %d status failed: %v", trainingID, err)
		}
	}
	e.save(ctx, &model.Notification{
		UserID:           userID,
		TrainingID:       &trainingID,
		NotificationType: string(model.NotificationTrainingFailed),
		Title:            "Training Failed",
		Message:          fmt.Sprintf("Training %q failed: %s", name, reason),
		Severity:         string(model.SeverityError),
		Metadata:         model.JSONMap{"reason": reason},
	})
	e.fireStatusConditions(ctx, userID, trainingID, telemetry.StatusFailed)
	e.resetFired(trainingID)

	if e.alerter != nil {
		if err := e.alerter.SendTrainingFailure(ctx, &notification.TrainingFailureNotification{
			TrainingID:   trainingID,
			TrainingName: name,
			Reason:       reason,
			FailedAt:     time.Now(),
		}); err != nil {
			logger.Errorf("external failure alert for training %d failed: %v", trainingID, err)
		}
	}
}

// ProcessMetricAlerts evaluates the user's active conditions against one
// sample. Each condition fires at most once per session.
func (e *Engine) ProcessMetricAlerts(ctx context.Context, userID int64, m telemetry.Metric) {
	if e.conditions == nil {
		return
	}
	trainingID := m.TrainingID
	conds, err := e.conditions.ListActive(ctx, userID, &trainingID)
	if err != nil {
		logger.Errorf("list alert conditions for user %d failed: %v", userID, err)
		return
	}
	for _, cond := range conds {
		if e.hasFired(trainingID, cond.ConditionID) {
			continue
		}
		if !EvaluateCondition(m, cond) {
			continue
		}
		e.markFired(trainingID, cond.ConditionID)
		e.save(ctx, e.buildAlert(userID, cond, m))
	}
}

// buildAlert renders a fired metric condition. Both condition types are good
// news for the run, so alerts carry success severity and report the threshold
// alongside the sample that crossed it.
func (e *Engine) buildAlert(userID int64, cond *model.AlertCondition, m telemetry.Metric) *model.Notification {
	trainingID := m.TrainingID
	value, _ := MetricValue(m, cond.ConditionType)

	var threshold float64
	if cond.Threshold != nil {
		threshold = *cond.Threshold
	}

	var (
		notifType = model.NotificationCustom
		title     = "Alert Triggered"
		msg       = fmt.Sprintf("Training %d reached %.4f at epoch %d", trainingID, value, m.Epoch)
	)
	switch model.ConditionType(cond.ConditionType) {
	case model.ConditionLossThreshold:
		notifType = model.NotificationLossThreshold
		title = "Loss Threshold Reached"
		msg = fmt.Sprintf("Training %d loss reached %g (current: %.4f)", trainingID, threshold, value)
	case model.ConditionAccuracyTarget:
		notifType = model.NotificationAccuracyTarget
		title = "Accuracy Target Reached"
		msg = fmt.Sprintf("Training %d accuracy reached %g%% (current: %.2f%%)", trainingID, threshold, value)
	}
	if cond.Description != "" {
		msg = cond.Description
	}
	return &model.Notification{
		UserID:           userID,
		TrainingID:       &trainingID,
		NotificationType: string(notifType),
		Title:            title,
		Message:          msg,
		Severity:         string(model.SeveritySuccess),
		Metadata: model.JSONMap{
			"metricType":   cond.ConditionType,
			"conditionId":  cond.ConditionID,
			"threshold":    threshold,
			"currentValue": value,
			"epoch":        m.Epoch,
		},
	}
}

func (e *Engine) fireStatusConditions(ctx context.Context, userID, trainingID int64, status telemetry.SessionStatus) {
	if e.conditions == nil {
		return
	}
	conds, err := e.conditions.ListActive(ctx, userID, &trainingID)
	if err != nil {
		logger.Errorf("list alert conditions for user %d failed: %v", userID, err)
		return
	}
	for _, cond := range conds {
		if !MatchesStatus(cond, status) || e.hasFired(trainingID, cond.ConditionID) {
			continue
		}
		e.markFired(trainingID, cond.ConditionID)
		msg := cond.Description
		if msg == "" {
			msg = fmt.Sprintf("Training %d reached status %s", trainingID, status)
		}
		e.save(ctx, &model.Notification{
			UserID:           userID,
			TrainingID:       &trainingID,
			NotificationType: string(model.NotificationCustom),
			Title:            "Alert Triggered",
			Message:          msg,
			Severity:         string(model.SeverityInfo),
			Metadata:         model.JSONMap{"conditionId": cond.ConditionID, "status": string(status)},
		})
	}
}

func firedKey(trainingID int64, conditionID string) string {
	return fmt.Sprintf("%d/%s", trainingID, conditionID)
}

func (e *Engine) hasFired(trainingID int64, conditionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.fired[firedKey(trainingID, conditionID)]
	return ok
}

func (e *Engine) markFired(trainingID int64, conditionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fired[firedKey(trainingID, conditionID)] = struct{}{}
}

// resetFired clears once-per-session state when a run ends.
func (e *Engine) resetFired(trainingID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	prefix := fmt.Sprintf("%d/", trainingID)
	for k := range e.fired {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(e.fired, k)
		}
	}
}
