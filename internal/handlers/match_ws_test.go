package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AnshRaj112/hubmatch-backend/internal/models"
	"github.com/AnshRaj112/hubmatch-backend/internal/services"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func TestMatchWebSocket_ReceivesMatch(t *testing.T) {
	env := newTestEnv()
	hub := services.NewMatchHub(nil, zap.NewNop())
	env.h.Matches = hub

	me := &models.User{UserID: 1}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.h.MatchWebSocket(w, asUser(r, me, nil))
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectedCount(1) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.NotifyMatch(context.Background(), 1, 2)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev models.MatchEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if ev.Type != models.MatchEventTypeNew || ev.UserID != 1 || ev.MatchedWith != 2 {
		t.Errorf("unexpected event: %+v", ev)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.ConnectedCount(1) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection never unregistered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
