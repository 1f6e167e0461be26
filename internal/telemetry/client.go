package telemetry

import (
	"time"

	"github.com/gorilla/websocket"

	"mlboard/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// sendBufferSize bounds the per-client outbound queue. Frames beyond it
	// are dropped rather than stalling the epoch loop.
	sendBufferSize = 256
)

// Client is one websocket connection to the dashboard.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int64
	send   chan Envelope
	done   chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan Envelope, sendBufferSize),
		done:   make(chan struct{}),
	}
}

func (c *Client) UserID() int64 { return c.userID }

// Send queues an event for delivery. Non-blocking: when the client's buffer
// is full the frame is dropped and logged.
func (c *Client) Send(event string, data interface{}) {
	select {
	case <-c.done:
	case c.send <- Envelope{Event: event, Data: data}:
	default:
		logger.Warnf("client %d send buffer full, dropping %s", c.userID, event)
	}
}

// WritePump drains the outbound queue onto the connection and keeps the
// connection alive with pings. Runs in its own goroutine per client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case env, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// Close stops the write pump and detaches from the hub.
func (c *Client) Close() {
	select {
	case <-c.done:
		return
	default:
		close(c.done)
	}
	c.hub.Unregister(c)
}

// next returns the next queued envelope without touching the connection.
// Used by tests and by the hub's drain path.
func (c *Client) next() (Envelope, bool) {
	select {
	case env := <-c.send:
		return env, true
	default:
		return Envelope{}, false
	}
}
