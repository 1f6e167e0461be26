package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(h *Hub) *Client {
	c := NewClient(h, nil, 1)
	h.Register(c)
	return c
}

func TestHubTopicRouting(t *testing.T) {
	h := NewHub()
	sub := newTestClient(h)
	other := newTestClient(h)

	h.Subscribe(sub, 3)
	h.BroadcastTopic(3, EventMetricUpdate, Metric{Epoch: 1})

	env, ok := sub.next()
	require.True(t, ok)
	assert.Equal(t, EventMetricUpdate, env.Event)
	assert.Equal(t, 1, env.Data.(Metric).Epoch)

	_, ok = other.next()
	assert.False(t, ok, "unsubscribed client must not receive topic events")
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	c := newTestClient(h)

	h.Subscribe(c, 3)
	h.Unsubscribe(c, 3)
	h.BroadcastTopic(3, EventSessionUpdate, nil)

	_, ok := c.next()
	assert.False(t, ok)
	assert.Zero(t, h.SubscriberCount(3))
}

func TestHubUnregisterClearsTopics(t *testing.T) {
	h := NewHub()
	c := newTestClient(h)
	h.Subscribe(c, 3)
	h.Subscribe(c, 4)

	h.Unregister(c)

	assert.Zero(t, h.SubscriberCount(3))
	assert.Zero(t, h.SubscriberCount(4))
}

func TestHubBroadcastEmptyTopic(t *testing.T) {
	h := NewHub()
	// No subscribers: must not panic or block.
	h.BroadcastTopic(9, EventTrainingStarted, nil)
}

func TestClientSendBufferOverflow(t *testing.T) {
	h := NewHub()
	c := newTestClient(h)
	h.Subscribe(c, 1)

	for i := 0; i < sendBufferSize+10; i++ {
		h.BroadcastTopic(1, EventMetricUpdate, Metric{Epoch: i})
	}

	// The buffer holds exactly its capacity; overflow frames were dropped
	// without blocking the broadcaster.
	n := 0
	for {
		if _, ok := c.next(); !ok {
			break
		}
		n++
	}
	assert.Equal(t, sendBufferSize, n)
}
