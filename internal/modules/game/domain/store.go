package domain

import (
	"context"
	"time"
)

// Score ledger roles.
const (
	RoleListener = "listener"
	RoleSpeaker  = "speaker"
	RoleSolo     = "solo"
)

// Recording is a stored speaker performance.
type Recording struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"room_id"`
	RoundID     string    `json:"round_id"`
	SpeakerID   string    `json:"speaker_id"`
	AudioURL    string    `json:"audio_url"`
	IsProcessed bool      `json:"is_processed"`
	CreatedAt   time.Time `json:"created_at"`
}

// ScoreEntry is one append-only row of the score ledger. A player's
// visible total is the sum of entries for the current session only.
type ScoreEntry struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	RoundID   string    `json:"round_id"`
	PlayerID  string    `json:"player_id"`
	Points    int       `json:"points"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// SoloResult is one finished solo-mode attempt.
type SoloResult struct {
	ID             string    `json:"id"`
	DeviceID       string    `json:"device_id"`
	Phrase         string    `json:"phrase"`
	TargetEmotion  string    `json:"target_emotion"`
	PredictedClass string    `json:"predicted_class"`
	Score          int       `json:"score"`
	IsCorrect      bool      `json:"is_correct"`
	CreatedAt      time.Time `json:"created_at"`
}

// StateStore persists rooms, recordings and the score ledger. GetRoom
// returns (nil, nil) when the room does not exist; errors are reserved
// for backend failures.
type StateStore interface {
	CreateRoom(ctx context.Context, room *Room) error
	GetRoom(ctx context.Context, roomID string) (*Room, error)
	UpdateRoom(ctx context.Context, room *Room) error
	DeleteRoom(ctx context.Context, roomID string) error
	ListRoomIDs(ctx context.Context) ([]string, error)

	// RestartRoom atomically retires the room's current session and
	// starts a fresh one with the given reset aggregate.
	RestartRoom(ctx context.Context, room *Room) error

	SaveRecording(ctx context.Context, rec *Recording) error
	GetRecording(ctx context.Context, recordingID string) (*Recording, error)
	DeleteRecording(ctx context.Context, recordingID string) error

	SaveScore(ctx context.Context, entry *ScoreEntry) error

	SaveSoloResult(ctx context.Context, result *SoloResult) error
	ListSoloResults(ctx context.Context, deviceID string, limit int) ([]*SoloResult, error)
}
