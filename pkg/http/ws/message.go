package ws

import "encoding/json"

// Server -> client message types.
const (
	TypeLeaderboardUpdate = "leaderboard_update"
	TypeError             = "error"
	TypePong              = "pong"
)

// Client -> server message types.
const (
	TypePing = "ping"
)

// Message wraps every WebSocket payload with its type.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// LeaderboardUpdatePayload carries the ranked top entries after a new
// attempt lands in the ledger.
type LeaderboardUpdatePayload struct {
	Top []LeaderboardEntry `json:"top"`
}

// LeaderboardEntry is one ranked row as sent to clients.
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	Username   string  `json:"username"`
	Subject    string  `json:"subject"`
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Date       string  `json:"date"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
