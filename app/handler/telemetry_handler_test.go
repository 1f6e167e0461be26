package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlboard/app/middleware"
	"mlboard/internal/telemetry"
	"mlboard/pkg/config"
)

type nopNotifier struct{}

func (nopNotifier) TrainingStarted(userID, trainingID int64)                           {}
func (nopNotifier) TrainingCompleted(userID, trainingID int64, final telemetry.Metric) {}
func (nopNotifier) TrainingFailed(userID, trainingID int64, reason string)             {}
func (nopNotifier) MetricRecorded(userID int64, m telemetry.Metric)                    {}

type wsFixture struct {
	conn *websocket.Conn
	mock *clock.Mock
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.GlobalConfig = &config.Config{}
	config.ApplyDefaults(config.GlobalConfig)

	hub := telemetry.NewHub()
	mock := clock.NewMock()
	orch := telemetry.NewOrchestrator(telemetry.NewSessionStore(), hub, nopNotifier{}, mock, time.Second, 5, 10)
	t.Cleanup(orch.Shutdown)

	h := NewTelemetryHandler(hub, orch)
	r := gin.New()
	r.GET("/ws/training-metrics", middleware.AuthMiddleware(), h.Serve)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/training-metrics"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &wsFixture{conn: conn, mock: mock}
}

func (fx *wsFixture) send(t *testing.T, frame map[string]interface{}) {
	t.Helper()
	require.NoError(t, fx.conn.WriteJSON(frame))
}

func (fx *wsFixture) read(t *testing.T) telemetry.Envelope {
	t.Helper()
	var env telemetry.Envelope
	require.NoError(t, fx.conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	require.NoError(t, fx.conn.ReadJSON(&env))
	return env
}

// readUntil skips frames until one with the wanted event arrives.
func (fx *wsFixture) readUntil(t *testing.T, event string) telemetry.Envelope {
	t.Helper()
	for i := 0; i < 200; i++ {
		env := fx.read(t)
		if env.Event == event {
			return env
		}
	}
	t.Fatalf("event %s never arrived", event)
	return telemetry.Envelope{}
}

func TestWebsocketTrainingLifecycle(t *testing.T) {
	fx := newWSFixture(t)

	fx.send(t, map[string]interface{}{"event": "subscribe", "trainingId": 3})
	fx.send(t, map[string]interface{}{
		"event":      "start-training",
		"trainingId": 3,
		"config":     map[string]interface{}{"epochs": 5, "totalBatches": 10},
	})

	env := fx.readUntil(t, telemetry.EventTrainingStarted)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["trainingId"])
	assert.Equal(t, "running", data["status"])

	// Let the epoch loop arm its ticker before advancing the clock.
	time.Sleep(50 * time.Millisecond)
	fx.mock.Add(time.Second)

	metrics := 0
	for {
		env = fx.read(t)
		if env.Event == telemetry.EventMetricUpdate {
			m := env.Data.(map[string]interface{})
			assert.Equal(t, float64(0), m["epoch"])
			assert.Equal(t, float64(metrics), m["batchesProcessed"])
			assert.GreaterOrEqual(t, m["loss"].(float64), 0.01)
			metrics++
			continue
		}
		require.Equal(t, telemetry.EventSessionUpdate, env.Event)
		break
	}
	assert.Equal(t, 10, metrics)

	sess := env.Data.(map[string]interface{})
	assert.Len(t, sess["metrics"].([]interface{}), 10)

	fx.send(t, map[string]interface{}{"event": "stop-training", "trainingId": 3})
	env = fx.readUntil(t, telemetry.EventTrainingStopped)
	assert.Equal(t, "completed", env.Data.(map[string]interface{})["status"])

	fx.send(t, map[string]interface{}{"event": "get-session", "trainingId": 3})
	env = fx.readUntil(t, telemetry.EventSessionNotFound)
	assert.Equal(t, float64(3), env.Data.(map[string]interface{})["trainingId"])
}

func TestWebsocketDuplicateStartRejected(t *testing.T) {
	fx := newWSFixture(t)

	fx.send(t, map[string]interface{}{"event": "start-training", "trainingId": 3})
	fx.readUntil(t, telemetry.EventTrainingStarted)

	fx.send(t, map[string]interface{}{"event": "start-training", "trainingId": 3})
	env := fx.readUntil(t, telemetry.EventError)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["trainingId"])
	assert.Contains(t, data["message"], "already running")
}

func TestWebsocketGetSessionState(t *testing.T) {
	fx := newWSFixture(t)

	fx.send(t, map[string]interface{}{"event": "start-training", "trainingId": 5})
	fx.readUntil(t, telemetry.EventTrainingStarted)

	fx.send(t, map[string]interface{}{"event": "pause-training", "trainingId": 5})
	fx.readUntil(t, telemetry.EventTrainingPaused)

	fx.send(t, map[string]interface{}{"event": "get-session", "trainingId": 5})
	env := fx.readUntil(t, telemetry.EventSessionState)
	assert.Equal(t, "paused", env.Data.(map[string]interface{})["status"])

	fx.send(t, map[string]interface{}{"event": "resume-training", "trainingId": 5})
	env = fx.readUntil(t, telemetry.EventTrainingResumed)
	assert.Equal(t, "running", env.Data.(map[string]interface{})["status"])
}

func TestWebsocketUnknownEvent(t *testing.T) {
	fx := newWSFixture(t)

	fx.send(t, map[string]interface{}{"event": "rewind-training", "trainingId": 1})
	env := fx.readUntil(t, telemetry.EventError)
	assert.Contains(t, env.Data.(map[string]interface{})["message"], "unknown event")
}
