package services

import (
	"context"
	"sync"
	"testing"

	"github.com/AnshRaj112/hubmatch-backend/internal/models"
	"go.uber.org/zap"
)

type recordingConn struct {
	mu     sync.Mutex
	events []models.MatchEvent
}

func (c *recordingConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, v.(models.MatchEvent))
	return nil
}

func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) received() []models.MatchEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.MatchEvent(nil), c.events...)
}

func TestMatchHub_NotifyMatchLocal(t *testing.T) {
	hub := NewMatchHub(nil, zap.NewNop())
	a1, a2, b, other := &recordingConn{}, &recordingConn{}, &recordingConn{}, &recordingConn{}

	hub.Register(1, a1)
	hub.Register(1, a2)
	hub.Register(2, b)
	hub.Register(3, other)

	hub.NotifyMatch(context.Background(), 1, 2)

	for i, c := range []*recordingConn{a1, a2} {
		ev := c.received()
		if len(ev) != 1 || ev[0].MatchedWith != 2 || ev[0].Type != models.MatchEventTypeNew {
			t.Errorf("user 1 conn %d: got %+v", i, ev)
		}
	}
	if ev := b.received(); len(ev) != 1 || ev[0].UserID != 2 || ev[0].MatchedWith != 1 {
		t.Errorf("user 2: got %+v", ev)
	}
	if ev := other.received(); len(ev) != 0 {
		t.Errorf("user 3 should get nothing, got %+v", ev)
	}
}

func TestMatchHub_Unregister(t *testing.T) {
	hub := NewMatchHub(nil, zap.NewNop())
	conn := &recordingConn{}

	client := hub.Register(1, conn)
	if n := hub.ConnectedCount(1); n != 1 {
		t.Fatalf("ConnectedCount: got %d, want 1", n)
	}
	hub.Unregister(client)
	if n := hub.ConnectedCount(1); n != 0 {
		t.Errorf("ConnectedCount after unregister: got %d", n)
	}

	if err := hub.Publish(context.Background(), models.MatchEvent{Type: models.MatchEventTypeNew, UserID: 1, MatchedWith: 2}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if ev := conn.received(); len(ev) != 0 {
		t.Errorf("unregistered conn got %+v", ev)
	}
}

func TestMatchHub_PublishStampsTime(t *testing.T) {
	hub := NewMatchHub(nil, zap.NewNop())
	conn := &recordingConn{}
	hub.Register(4, conn)

	if err := hub.Publish(context.Background(), models.MatchEvent{Type: models.MatchEventTypeNew, UserID: 4, MatchedWith: 5}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	ev := conn.received()
	if len(ev) != 1 || ev[0].Timestamp.IsZero() {
		t.Errorf("got %+v", ev)
	}
}
