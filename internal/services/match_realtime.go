package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AnshRaj112/hubmatch-backend/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const matchChannelPrefix = "match:user:"

// MatchConn is the minimal interface a websocket connection must satisfy.
type MatchConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// MatchClient is one registered connection. Writes to it are serialized.
type MatchClient struct {
	UserID int64
	conn   MatchConn
	mu     sync.Mutex
}

func (c *MatchClient) send(event models.MatchEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(event)
}

// MatchHub delivers match events to the websocket clients connected to this
// instance. With a redis client, events travel through pub/sub so that every
// instance sees them; without one they are delivered locally only.
type MatchHub struct {
	mu      sync.RWMutex
	clients map[int64]map[*MatchClient]struct{}

	redis   *redis.Client
	logger  *zap.Logger
	started sync.Once
}

func NewMatchHub(rdb *redis.Client, logger *zap.Logger) *MatchHub {
	return &MatchHub{
		clients: make(map[int64]map[*MatchClient]struct{}),
		redis:   rdb,
		logger:  logger,
	}
}

// Register adds a connection for userID. A user may hold several.
func (h *MatchHub) Register(userID int64, conn MatchConn) *MatchClient {
	c := &MatchClient{UserID: userID, conn: conn}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*MatchClient]struct{})
	}
	h.clients[userID][c] = struct{}{}
	return c
}

func (h *MatchHub) Unregister(c *MatchClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[c.UserID]
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
}

// ConnectedCount returns how many connections userID holds on this instance.
func (h *MatchHub) ConnectedCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// FanOut sends the event to every local connection of event.UserID.
func (h *MatchHub) FanOut(event models.MatchEvent) {
	h.mu.RLock()
	targets := make([]*MatchClient, 0, len(h.clients[event.UserID]))
	for c := range h.clients[event.UserID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(event); err != nil {
			h.logger.Debug("match event write failed", zap.Int64("user_id", c.UserID), zap.Error(err))
		}
	}
}

// Publish routes an event to its recipient, through redis when configured.
func (h *MatchHub) Publish(ctx context.Context, event models.MatchEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if h.redis == nil {
		h.FanOut(event)
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return h.redis.Publish(ctx, matchChannelPrefix+strconv.FormatInt(event.UserID, 10), data).Err()
}

// NotifyMatch tells both users about a new mutual match. Failures are logged.
func (h *MatchHub) NotifyMatch(ctx context.Context, a, b int64) {
	now := time.Now().UTC()
	for _, ev := range []models.MatchEvent{
		{Type: models.MatchEventTypeNew, UserID: a, MatchedWith: b, Timestamp: now},
		{Type: models.MatchEventTypeNew, UserID: b, MatchedWith: a, Timestamp: now},
	} {
		if err := h.Publish(ctx, ev); err != nil {
			h.logger.Warn("failed to publish match event",
				zap.Int64("user_id", ev.UserID), zap.Int64("matched_with", ev.MatchedWith), zap.Error(err))
		}
	}
}

// Start launches the single redis listener of this instance. It is a no-op
// without redis and on repeated calls.
func (h *MatchHub) Start(ctx context.Context) {
	if h.redis == nil {
		return
	}
	h.started.Do(func() {
		go h.run(ctx)
	})
}

func (h *MatchHub) run(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := h.redis.PSubscribe(ctx, matchChannelPrefix+"*")
			defer pubsub.Close()

			h.logger.Info("✅ Match subscriber started", zap.String("pattern", matchChannelPrefix+"*"))

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					h.logger.Warn("match subscriber error", zap.Error(err), zap.Duration("retry_in", backoff))
					select {
					case <-ctx.Done():
					case <-time.After(backoff):
					}
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}
				backoff = time.Second

				var event models.MatchEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					h.logger.Warn("failed to unmarshal match event", zap.Error(err))
					continue
				}
				if event.UserID == 0 {
					event.UserID, _ = strconv.ParseInt(strings.TrimPrefix(msg.Channel, matchChannelPrefix), 10, 64)
				}
				h.FanOut(event)
			}
		}()
	}
}
