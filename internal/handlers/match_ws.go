package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/AnshRaj112/hubmatch-backend/internal/middleware"
	"github.com/AnshRaj112/hubmatch-backend/internal/services"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 90 * time.Second
	wsPingPeriod = 60 * time.Second
)

var matchUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are checked by the CORS layer; the token is the real gate.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn serializes writes on a gorilla connection, which allows only one
// concurrent writer.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// MatchWebSocket handles GET /ws/matches. The connection receives a JSON
// event whenever the user gets a new mutual match. Client messages are
// read only to notice disconnects.
func (h *Handler) MatchWebSocket(w http.ResponseWriter, r *http.Request) {
	cu, ok := middleware.CurrentUserFrom(r.Context())
	if !ok {
		h.writeServiceError(w, r, services.ErrInvalidToken)
		return
	}
	if h.Matches == nil {
		writeError(w, http.StatusServiceUnavailable, "Match notifications are disabled")
		return
	}

	ws, err := matchUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	conn := &wsConn{conn: ws}
	defer conn.Close()

	client := h.Matches.Register(cu.User.UserID, conn)
	defer h.Matches.Unregister(client)

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.ping(); err != nil {
					return
				}
			}
		}
	}()

	ws.SetReadLimit(4 * 1024)
	_ = ws.SetReadDeadline(time.Now().Add(wsPongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}
