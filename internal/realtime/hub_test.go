package realtime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSession struct {
	received [][]byte
	fail     bool
}

func (s *stubSession) Send(payload []byte) error {
	if s.fail {
		return errors.New("peer gone")
	}
	s.received = append(s.received, payload)
	return nil
}

func TestPublishReachesAllUserSessions(t *testing.T) {
	hub := NewHub()
	first := &stubSession{}
	second := &stubSession{}
	other := &stubSession{}

	hub.Register("user-1", first)
	hub.Register("user-1", second)
	hub.Register("user-2", other)

	hub.Publish("user-1", []byte("ping"))

	require.Len(t, first.received, 1)
	require.Len(t, second.received, 1)
	assert.Empty(t, other.received)
}

func TestPublishToUnknownUserIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Publish("nobody", []byte("ping"))
	assert.Equal(t, 0, hub.SessionCount("nobody"))
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	session := &stubSession{}

	hub.Register("user-1", session)
	hub.Unregister("user-1", session)
	hub.Publish("user-1", []byte("ping"))

	assert.Empty(t, session.received)
	assert.Equal(t, 0, hub.SessionCount("user-1"))
}

func TestFailedSendPrunesSession(t *testing.T) {
	hub := NewHub()
	dead := &stubSession{fail: true}
	live := &stubSession{}

	hub.Register("user-1", dead)
	hub.Register("user-1", live)

	hub.Publish("user-1", []byte("first"))
	assert.Equal(t, 1, hub.SessionCount("user-1"))

	hub.Publish("user-1", []byte("second"))
	assert.Len(t, live.received, 2)
}

func TestBrokerWithoutRedisDeliversLocally(t *testing.T) {
	hub := NewHub()
	broker := NewBroker(hub, nil, "chan", nil)
	session := &stubSession{}
	hub.Register("user-1", session)

	broker.Start(context.Background())
	defer broker.Stop()

	broker.Push(context.Background(), "user-1", []byte("hello"))

	require.Len(t, session.received, 1)
	assert.Equal(t, "hello", string(session.received[0]))
}
