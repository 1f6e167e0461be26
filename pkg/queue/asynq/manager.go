package asynq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"mlboard/pkg/config"
	"mlboard/pkg/logger"
)

const (
	TypeTrainingStart = "training:start"
)

// StartPayload is the queued request to launch a training session.
type StartPayload struct {
	TrainingID   int64 `json:"trainingId"`
	UserID       int64 `json:"userId"`
	Epochs       int   `json:"epochs"`
	TotalBatches int   `json:"totalBatches"`
}

// Manager queue manager
type Manager struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewManager creates queue manager
func NewManager(cfg *config.Config) (*Manager, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues: map[string]int{
				"default": 10,
			},
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Second
			},
		},
	)

	mux := asynq.NewServeMux()

	return &Manager{
		client: client,
		server: server,
		mux:    mux,
	}, nil
}

// EnqueueTrainingStart schedules a session launch. processAt in the past or
// zero means run as soon as a worker is free. The training id doubles as the
// task id so re-scheduling the same training replaces the pending task.
func (m *Manager) EnqueueTrainingStart(ctx context.Context, p *StartPayload, processAt time.Time) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal start payload: %w", err)
	}

	opts := []asynq.Option{
		asynq.TaskID(fmt.Sprintf("training-start-%d", p.TrainingID)),
		asynq.MaxRetry(config.GlobalConfig.Queue.MaxRetry),
	}
	if !processAt.IsZero() {
		opts = append(opts, asynq.ProcessAt(processAt))
	}

	info, err := m.client.EnqueueContext(ctx, asynq.NewTask(TypeTrainingStart, payload), opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue training start: %w", err)
	}

	logger.InfoCtx(ctx, "training start enqueued, training_id: %d, queue: %s, process_at: %s",
		p.TrainingID, info.Queue, processAt.Format(time.RFC3339))

	return nil
}

// CancelTrainingStart removes a not-yet-processed scheduled start.
func (m *Manager) CancelTrainingStart(trainingID int64) error {
	inspector := asynq.NewInspector(asynq.RedisClientOpt{
		Addr:     config.GlobalConfig.Redis.Addr,
		Password: config.GlobalConfig.Redis.Password,
		DB:       config.GlobalConfig.Redis.DB,
	})
	defer inspector.Close()

	if err := inspector.DeleteTask("default", fmt.Sprintf("training-start-%d", trainingID)); err != nil {
		return fmt.Errorf("failed to cancel scheduled start: %w", err)
	}

	logger.InfoCtx(context.Background(), "scheduled start cancelled, training_id: %d", trainingID)
	return nil
}

// PendingCount retrieves the pending task count for the default queue.
func (m *Manager) PendingCount() (int, error) {
	inspector := asynq.NewInspector(asynq.RedisClientOpt{
		Addr:     config.GlobalConfig.Redis.Addr,
		Password: config.GlobalConfig.Redis.Password,
		DB:       config.GlobalConfig.Redis.DB,
	})
	defer inspector.Close()

	stats, err := inspector.GetQueueInfo("default")
	if err != nil {
		return 0, err
	}

	return stats.Pending + stats.Scheduled, nil
}

// RegisterHandler registers task handler
func (m *Manager) RegisterHandler(pattern string, handler asynq.Handler) {
	m.mux.Handle(pattern, handler)
}

// Start starts queue processor
func (m *Manager) Start() error {
	logger.InfoCtx(context.Background(), "starting queue server")
	return m.server.Start(m.mux)
}

// Stop stops queue processor
func (m *Manager) Stop() {
	logger.InfoCtx(context.Background(), "stopping queue server")
	m.server.Stop()
	m.server.Shutdown()
}

// Close closes client
func (m *Manager) Close() error {
	return m.client.Close()
}
