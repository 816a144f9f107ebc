package db

import (
	"fmt"
	"time"

	"github.com/takaki719/emoguchi/internal/modules/game/domain"
)

// GameSession is one play-through of a room. A public room id maps to
// successive session rows; at most one of them is unfinished and that
// one carries the live state.
type GameSession struct {
	ID                  string `gorm:"primaryKey;size:36"`
	RoomCode            string `gorm:"size:20;index;not null"`
	Status              string `gorm:"size:20;not null;default:waiting"`
	Mode                string `gorm:"size:20;not null"`
	VoteType            string `gorm:"size:20;not null"`
	SpeakerOrder        string `gorm:"size:20;not null"`
	VoteTimeout         int    `gorm:"not null;default:30"`
	MaxRounds           int    `gorm:"not null;default:1"`
	HardMode            bool   `gorm:"not null;default:false"`
	CurrentSpeakerIndex int    `gorm:"not null;default:0"`
	SpeakerOrderCache   string `gorm:"type:text"`
	HostToken           string `gorm:"size:36"`
	CreatedAt           time.Time
	FinishedAt          *time.Time
}

func (GameSession) TableName() string { return "game_sessions" }

// SessionPlayer is one participant of a session.
type SessionPlayer struct {
	ID          string `gorm:"primaryKey;size:36"`
	SessionID   string `gorm:"size:36;uniqueIndex:uniq_session_player;not null"`
	PlayerID    string `gorm:"size:36;uniqueIndex:uniq_session_player;not null"`
	Name        string `gorm:"size:100;not null"`
	Score       int    `gorm:"not null;default:0"`
	IsHost      bool   `gorm:"not null;default:false"`
	IsConnected bool   `gorm:"not null;default:true"`
	JoinedAt    time.Time
}

func (SessionPlayer) TableName() string { return "session_players" }

// GameRound is one speaker performance. EligibleVoters is a JSON array
// of player ids frozen at round start.
type GameRound struct {
	ID                 string `gorm:"primaryKey;size:36"`
	SessionID          string `gorm:"size:36;index;not null"`
	RoundNumber        int    `gorm:"not null"`
	SpeakerID          string `gorm:"size:36;not null"`
	Phrase             string `gorm:"type:text;not null"`
	EmotionID          string `gorm:"size:50;not null"`
	EligibleVoters     string `gorm:"type:text"`
	AudioRecordingID   string `gorm:"size:36"`
	IsCompleted        bool   `gorm:"not null;default:false"`
	VotingStartedAt    *time.Time
	VoteTimeoutSeconds int `gorm:"not null;default:30"`
	StartedAt          time.Time
	CompletedAt        *time.Time
}

func (GameRound) TableName() string { return "game_rounds" }

// RoundVote is one listener vote; re-votes overwrite in place.
type RoundVote struct {
	ID        string `gorm:"primaryKey;size:36"`
	RoundID   string `gorm:"size:36;uniqueIndex:uniq_round_voter;not null"`
	VoterID   string `gorm:"size:36;uniqueIndex:uniq_round_voter;not null"`
	EmotionID string `gorm:"size:50;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RoundVote) TableName() string { return "round_votes" }

// RecordingRow stores recording metadata; audio bytes live in blob
// storage behind AudioURL.
type RecordingRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	RoomCode    string `gorm:"size:20;index;not null"`
	RoundID     string `gorm:"size:36;index"`
	SpeakerID   string `gorm:"size:36"`
	AudioURL    string `gorm:"type:text;not null"`
	IsProcessed bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
}

func (RecordingRow) TableName() string { return "recordings" }

// ScoreEntryRow is one append-only ledger row. Visible totals sum rows
// of the current session only, so a restart resets what players see
// without losing history.
type ScoreEntryRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	SessionID string `gorm:"size:36;index;not null"`
	RoundID   string `gorm:"size:36;index"`
	PlayerID  string `gorm:"size:36;index;not null"`
	Points    int    `gorm:"not null"`
	Role      string `gorm:"size:20;not null"`
	CreatedAt time.Time
}

func (ScoreEntryRow) TableName() string { return "score_entries" }

// SoloSessionRow is one finished solo attempt.
type SoloSessionRow struct {
	ID             string `gorm:"primaryKey;size:36"`
	DeviceID       string `gorm:"size:36;index;not null"`
	Phrase         string `gorm:"type:text;not null"`
	TargetEmotion  string `gorm:"size:50;not null"`
	PredictedClass string `gorm:"size:50"`
	Score          int    `gorm:"not null"`
	IsCorrect      bool   `gorm:"not null"`
	CreatedAt      time.Time
}

func (SoloSessionRow) TableName() string { return "solo_sessions" }

// Session status values.
const (
	statusWaiting  = "waiting"
	statusPlaying  = "playing"
	statusResult   = "result"
	statusFinished = "finished"
)

// statusForPhase maps the domain phase onto the session status column.
// Both switches are exhaustive on purpose: an unknown value is data
// corruption, not a default.
func statusForPhase(phase domain.Phase) (string, error) {
	switch phase {
	case domain.PhaseWaiting:
		return statusWaiting, nil
	case domain.PhaseInRound:
		return statusPlaying, nil
	case domain.PhaseResult:
		return statusResult, nil
	case domain.PhaseClosed:
		return statusFinished, nil
	default:
		return "", fmt.Errorf("unknown phase %q", phase)
	}
}

func phaseForStatus(status string) (domain.Phase, error) {
	switch status {
	case statusWaiting:
		return domain.PhaseWaiting, nil
	case statusPlaying:
		return domain.PhaseInRound, nil
	case statusResult:
		return domain.PhaseResult, nil
	case statusFinished:
		return domain.PhaseClosed, nil
	default:
		return "", fmt.Errorf("unknown session status %q", status)
	}
}
