package score

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	ws "github.com/prepdesk/prepdesk/pkg/http/ws"
)

// Feed pushes leaderboard updates to WebSocket listeners. It satisfies
// the ledger's Broadcaster interface.
type Feed struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewFeed creates a live leaderboard feed.
func NewFeed(logger zerolog.Logger) *Feed {
	return &Feed{
		hub: ws.NewHub(logger),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.With().Str("component", "leaderboard_feed").Logger(),
	}
}

// HandleWebSocket upgrades GET /ws/leaderboard and keeps the connection
// registered until the peer disconnects.
func (f *Feed) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn().Err(err).Msg("ws upgrade failed")
		return
	}

	wrapped := ws.NewConnection(conn, f.logger)
	id := f.hub.Register(wrapped)

	go wrapped.WritePump()
	go func() {
		wrapped.ReadPump()
		f.hub.Unregister(id)
	}()
}

// BroadcastTop fans the ranked top entries out to every listener.
func (f *Feed) BroadcastTop(top []Record) {
	entries := make([]ws.LeaderboardEntry, len(top))
	for i, rec := range top {
		entries[i] = ws.LeaderboardEntry{
			Rank:       i + 1,
			Username:   rec.Username,
			Subject:    rec.Subject,
			Score:      rec.Score,
			Total:      rec.Total,
			Percentage: rec.Percentage,
			Date:       rec.Date,
		}
	}
	payload, err := json.Marshal(ws.LeaderboardUpdatePayload{Top: entries})
	if err != nil {
		f.logger.Error().Err(err).Msg("marshal leaderboard update")
		return
	}
	f.hub.Broadcast(ws.Message{Type: ws.TypeLeaderboardUpdate, Payload: payload})
}
