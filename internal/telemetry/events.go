package telemetry

// Inbound command names sent by dashboard clients.
const (
	CmdSubscribe      = "subscribe"
	CmdUnsubscribe    = "unsubscribe"
	CmdStartTraining  = "start-training"
	CmdPauseTraining  = "pause-training"
	CmdResumeTraining = "resume-training"
	CmdStopTraining   = "stop-training"
	CmdGetSession     = "get-session"
)

// Outbound event names pushed to subscribed clients.
const (
	EventTrainingStarted   = "training-started"
	EventMetricUpdate      = "metric-update"
	EventSessionUpdate     = "session-update"
	EventSessionState      = "session-state"
	EventTrainingPaused    = "training-paused"
	EventTrainingResumed   = "training-resumed"
	EventTrainingStopped   = "training-stopped"
	EventTrainingCompleted = "training-completed"
	EventSessionNotFound   = "session-not-found"
	EventError             = "error"
)

// Envelope is the wire frame for every outbound message.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
