package domain

import "time"

// Player is a participant in a room. Players are never removed, only
// marked disconnected, so their scores and vote history survive
// reconnects.
type Player struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Score       int       `json:"score"`
	IsHost      bool      `json:"is_host"`
	IsConnected bool      `json:"is_connected"`
	JoinedAt    time.Time `json:"joined_at"`
}
