package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTracker struct{}

func (memoryTracker) AddConnection(context.Context, string, string) error    { return nil }
func (memoryTracker) RemoveConnection(context.Context, string, string) error { return nil }
func (memoryTracker) AddDashboardViewer(context.Context, string) error       { return nil }
func (memoryTracker) RemoveDashboardViewer(context.Context, string) error    { return nil }

func newTestConn(userID, connID string) *Conn {
	return &Conn{id: connID, userID: userID, send: make(chan []byte, sendBuffer)}
}

func TestEmitToUser_DeliversToEveryConnection(t *testing.T) {
	ctx := context.Background()
	h := NewHub(memoryTracker{})

	c1 := newTestConn("u1", "c1")
	c2 := newTestConn("u1", "c2")
	h.register(ctx, c1)
	h.register(ctx, c2)

	h.EmitToUser("u1", "notification", map[string]string{"title": "hello"})

	for _, c := range []*Conn{c1, c2} {
		var env Envelope
		require.NoError(t, json.Unmarshal(<-c.send, &env))
		assert.Equal(t, "notification", env.Event)
	}
}

func TestEmitToUser_AfterDisconnectIsNoop(t *testing.T) {
	ctx := context.Background()
	h := NewHub(memoryTracker{})

	c := newTestConn("u1", "c1")
	h.register(ctx, c)
	h.unregister(ctx, c)

	// The send channel is closed once; further emits must skip the
	// deregistered connection instead of writing to it.
	_, open := <-c.send
	assert.False(t, open)

	require.NotPanics(t, func() {
		h.EmitToUser("u1", "stats", nil)
		h.Broadcast("stats", nil)
	})
}

func TestBroadcast_ConcurrentWithDisconnects(t *testing.T) {
	ctx := context.Background()
	h := NewHub(memoryTracker{})

	conns := make([]*Conn, 0, 32)
	for i := 0; i < 32; i++ {
		c := newTestConn("u1", fmt.Sprintf("c%d", i))
		h.register(ctx, c)
		conns = append(conns, c)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			h.Broadcast("stats", map[string]int{"total": i})
			h.EmitToUser("u1", "dashboard:update", nil)
		}
	}()
	go func() {
		defer wg.Done()
		for _, c := range conns {
			h.unregister(ctx, c)
		}
	}()
	wg.Wait()
}
