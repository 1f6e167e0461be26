package telemetry

import (
	"sync"
)

// MetricHistoryLimit caps the per-session metric ring. Oldest samples are
// evicted first once the cap is reached.
const MetricHistoryLimit = 100

type SessionStatus string

const (
	StatusRunning   SessionStatus = "running"
	StatusPaused    SessionStatus = "paused"
	StatusCompleted SessionStatus = "completed"
	StatusFailed    SessionStatus = "failed"
)

// Session is the live state of one simulated run. Values handed out by the
// store are snapshots; mutation happens only through SessionStore methods.
type Session struct {
	TrainingID int64         `json:"trainingId"`
	UserID     int64         `json:"userId"`
	Status     SessionStatus `json:"status"`
	StartTime  int64         `json:"startTime"` // milliseconds
	Epochs     int           `json:"epochs"`
	Metrics    []Metric      `json:"metrics"`
}

func (s *Session) clone() Session {
	out := *s
	out.Metrics = make([]Metric, len(s.Metrics))
	copy(out.Metrics, s.Metrics)
	return out
}

// LastMetric returns the newest recorded sample, if any.
func (s *Session) LastMetric() (Metric, bool) {
	if len(s.Metrics) == 0 {
		return Metric{}, false
	}
	return s.Metrics[len(s.Metrics)-1], true
}

// SessionStore holds active sessions keyed by training id. All methods are
// safe for concurrent use; readers receive deep copies so marshaling never
// races with the epoch loop.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Create registers a new session. Returns false when a session for the
// training already exists.
func (st *SessionStore) Create(s *Session) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[s.TrainingID]; ok {
		return false
	}
	st.sessions[s.TrainingID] = s
	return true
}

// Get returns a snapshot of the session for the training, if present.
func (st *SessionStore) Get(trainingID int64) (Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[trainingID]
	if !ok {
		return Session{}, false
	}
	return s.clone(), true
}

// SetStatus transitions the session and returns the updated snapshot.
func (st *SessionStore) SetStatus(trainingID int64, status SessionStatus) (Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[trainingID]
	if !ok {
		return Session{}, false
	}
	s.Status = status
	return s.clone(), true
}

// AppendMetric records a sample, evicting the oldest once the history cap is
// reached. Returns false when the session no longer exists.
func (st *SessionStore) AppendMetric(trainingID int64, m Metric) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[trainingID]
	if !ok {
		return false
	}
	s.Metrics = append(s.Metrics, m)
	if len(s.Metrics) > MetricHistoryLimit {
		s.Metrics = s.Metrics[len(s.Metrics)-MetricHistoryLimit:]
	}
	return true
}

// Remove drops the session. Subsequent lookups report session-not-found.
func (st *SessionStore) Remove(trainingID int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, trainingID)
}

// ListActive returns snapshots of every live session.
func (st *SessionStore) ListActive() []Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s.clone())
	}
	return out
}
