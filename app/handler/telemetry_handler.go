package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"mlboard/app/middleware"
	"mlboard/internal/telemetry"
	"mlboard/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard origins are enforced upstream at the gateway.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// command is one inbound frame from a dashboard client.
type command struct {
	Event      string                `json:"event"`
	TrainingID int64                 `json:"trainingId"`
	Config     telemetry.StartConfig `json:"config"`
	Reason     string                `json:"reason"`
}

// TelemetryHandler owns the websocket endpoint for live training metrics.
type TelemetryHandler struct {
	hub  *telemetry.Hub
	orch *telemetry.Orchestrator
}

func NewTelemetryHandler(hub *telemetry.Hub, orch *telemetry.Orchestrator) *TelemetryHandler {
	return &TelemetryHandler{hub: hub, orch: orch}
}

// Serve upgrades the connection and runs the per-connection read loop.
func (h *TelemetryHandler) Serve(c *gin.Context) {
	userID := middleware.UserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "websocket upgrade failed: %v", err)
		return
	}

	client := telemetry.NewClient(h.hub, conn, userID)
	h.hub.Register(client)
	go client.WritePump()

	defer client.Close()
	for {
		var cmd command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debugf("client %d read error: %v", userID, err)
			}
			return
		}
		h.dispatch(client, &cmd)
	}
}

func (h *TelemetryHandler) dispatch(client *telemetry.Client, cmd *command) {
	switch cmd.Event {
	case telemetry.CmdSubscribe:
		h.hub.Subscribe(client, cmd.TrainingID)
		// New subscribers get the current state right away.
		if sess, ok := h.orch.GetSession(cmd.TrainingID); ok {
			client.Send(telemetry.EventSessionState, sess)
		}
	case telemetry.CmdUnsubscribe:
		h.hub.Unsubscribe(client, cmd.TrainingID)
	case telemetry.CmdStartTraining:
		h.hub.Subscribe(client, cmd.TrainingID)
		if err := h.orch.Start(client.UserID(), cmd.TrainingID, cmd.Config); err != nil {
			if errors.Is(err, telemetry.ErrSessionExists) {
				client.Send(telemetry.EventError, gin.H{
					"trainingId": cmd.TrainingID,
					"message":    "training session already running",
				})
				return
			}
			client.Send(telemetry.EventError, gin.H{
				"trainingId": cmd.TrainingID,
				"message":    err.Error(),
			})
		}
	case telemetry.CmdPauseTraining:
		// Missing sessions are ignored for control commands.
		_ = h.orch.Pause(cmd.TrainingID)
	case telemetry.CmdResumeTraining:
		_ = h.orch.Resume(cmd.TrainingID)
	case telemetry.CmdStopTraining:
		_ = h.orch.Stop(cmd.TrainingID, cmd.Reason)
	case telemetry.CmdGetSession:
		sess, ok := h.orch.GetSession(cmd.TrainingID)
		if !ok {
			client.Send(telemetry.EventSessionNotFound, gin.H{"trainingId": cmd.TrainingID})
			return
		}
		client.Send(telemetry.EventSessionState, sess)
	default:
		client.Send(telemetry.EventError, gin.H{"message": "unknown event: " + cmd.Event})
	}
}

// ListSessions returns snapshots of every live session.
func (h *TelemetryHandler) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.orch.ActiveSessions()})
}
