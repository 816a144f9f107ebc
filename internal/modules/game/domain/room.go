package domain

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"time"

	"github.com/takaki719/emoguchi/internal/modules/emotion"
)

// Phase is the room lifecycle state.
type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhaseInRound Phase = "in_round"
	PhaseResult  Phase = "result"
	PhaseClosed  Phase = "closed"
)

// Speaker rotation policies.
const (
	SpeakerOrderSequential = "sequential"
	SpeakerOrderRandom     = "random"
)

// roomIDPattern allows alphanumerics plus hiragana, katakana and common
// kanji, 3 to 20 characters. Custom room ids double as passphrases.
var roomIDPattern = regexp.MustCompile(`^[a-zA-Z0-9\x{3041}-\x{3096}\x{30a1}-\x{30fc}\x{4e00}-\x{9faf}]{3,20}$`)

// ValidRoomID reports whether id is acceptable as a room id.
func ValidRoomID(id string) bool {
	return roomIDPattern.MatchString(id)
}

var roomIDAdjectives = []string{
	"赤い", "青い", "緑の", "黄色い", "白い", "黒い", "大きな", "小さな",
	"明るい", "暗い", "速い", "遅い", "新しい", "古い", "強い", "弱い",
}

var roomIDNouns = []string{
	"ねこ", "いぬ", "とり", "うさぎ", "きつね", "たぬき", "くま", "ぱんだ",
	"かえる", "ぺんぎん", "らいおん", "ぞう", "きりん", "こあら", "りす", "ひつじ",
}

// GenerateRoomID builds a friendly room id: adjective + noun + 3 digits.
func GenerateRoomID() string {
	adjective := roomIDAdjectives[rand.Intn(len(roomIDAdjectives))]
	noun := roomIDNouns[rand.Intn(len(roomIDNouns))]
	return fmt.Sprintf("%s%s%d", adjective, noun, 100+rand.Intn(900))
}

// RoomConfig holds per-room game settings. Replaceable only while the
// room is waiting.
type RoomConfig struct {
	Mode         string `json:"mode"`
	VoteType     string `json:"vote_type"`
	SpeakerOrder string `json:"speaker_order"`
	VoteTimeout  int    `json:"vote_timeout"` // seconds
	MaxRounds    int    `json:"max_rounds"`   // full speaker cycles
	HardMode     bool   `json:"hard_mode"`
}

// DefaultRoomConfig matches a freshly created room.
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		Mode:         emotion.ModeBasic,
		VoteType:     emotion.VoteType4Choice,
		SpeakerOrder: SpeakerOrderSequential,
		VoteTimeout:  30,
		MaxRounds:    1,
		HardMode:     false,
	}
}

// Validate checks config invariants.
func (c RoomConfig) Validate() error {
	switch c.Mode {
	case emotion.ModeBasic, emotion.ModeAdvanced, emotion.ModeWheel:
	default:
		return fmt.Errorf("invalid mode %q", c.Mode)
	}
	switch c.VoteType {
	case emotion.VoteType4Choice, emotion.VoteType8Choice, emotion.VoteTypeWheel:
	default:
		return fmt.Errorf("invalid vote type %q", c.VoteType)
	}
	switch c.SpeakerOrder {
	case SpeakerOrderSequential, SpeakerOrderRandom:
	default:
		return fmt.Errorf("invalid speaker order %q", c.SpeakerOrder)
	}
	if c.VoteTimeout <= 0 {
		return fmt.Errorf("vote timeout must be positive, got %d", c.VoteTimeout)
	}
	if c.MaxRounds < 1 {
		return fmt.Errorf("max rounds must be at least 1, got %d", c.MaxRounds)
	}
	return nil
}

// Round is a single speaker performance plus the votes on it.
type Round struct {
	ID               string            `json:"id"`
	Phrase           string            `json:"phrase"`
	EmotionID        string            `json:"emotion_id"`
	SpeakerID        string            `json:"speaker_id"`
	Votes            map[string]string `json:"votes"` // voter id -> emotion id
	AudioRecordingID string            `json:"audio_recording_id,omitempty"`
	IsCompleted      bool              `json:"is_completed"`
	StartedAt        time.Time         `json:"started_at"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
	// EligibleVoters is frozen at round start; joining mid-round never
	// grants a vote.
	EligibleVoters     []string   `json:"eligible_voters"`
	VotingStartedAt    *time.Time `json:"voting_started_at,omitempty"`
	VoteTimeoutSeconds int        `json:"vote_timeout_seconds"`
}

// IsEligibleVoter reports whether playerID was snapshotted at round
// start.
func (r *Round) IsEligibleVoter(playerID string) bool {
	for _, id := range r.EligibleVoters {
		if id == playerID {
			return true
		}
	}
	return false
}

// Room is the aggregate the whole game state hangs off.
type Room struct {
	ID                  string             `json:"id"`
	Players             map[string]*Player `json:"players"`
	Config              RoomConfig         `json:"config"`
	Phase               Phase              `json:"phase"`
	CurrentRound        *Round             `json:"current_round,omitempty"`
	RoundHistory        []*Round           `json:"round_history"`
	CurrentSpeakerIndex int                `json:"current_speaker_index"`
	// speakerOrderCache holds the rotation for the current cycle. It is
	// rebuilt whenever the connected-player set changes.
	SpeakerOrderCache []string  `json:"speaker_order_cache,omitempty"`
	HostToken         string    `json:"host_token"`
	CreatedAt         time.Time `json:"created_at"`
}

// ConnectedPlayerIDs returns ids of connected players in join order.
func (r *Room) ConnectedPlayerIDs() []string {
	ids := make([]string, 0, len(r.Players))
	for id, p := range r.Players {
		if p.IsConnected {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		pi, pj := r.Players[ids[i]], r.Players[ids[j]]
		if pi.JoinedAt.Equal(pj.JoinedAt) {
			return ids[i] < ids[j]
		}
		return pi.JoinedAt.Before(pj.JoinedAt)
	})
	return ids
}

// ConnectedCount returns the number of connected players.
func (r *Room) ConnectedCount() int {
	n := 0
	for _, p := range r.Players {
		if p.IsConnected {
			n++
		}
	}
	return n
}

// SpeakerOrder returns the rotation for the current cycle, rebuilding
// the cache when the connected set changed since it was computed.
func (r *Room) SpeakerOrder() []string {
	connected := r.ConnectedPlayerIDs()

	if len(r.SpeakerOrderCache) == len(connected) {
		cached := make(map[string]bool, len(r.SpeakerOrderCache))
		for _, id := range r.SpeakerOrderCache {
			cached[id] = true
		}
		same := true
		for _, id := range connected {
			if !cached[id] {
				same = false
				break
			}
		}
		if same {
			return r.SpeakerOrderCache
		}
	}

	order := connected
	if r.Config.SpeakerOrder == SpeakerOrderRandom {
		order = append([]string(nil), connected...)
		rand.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	r.SpeakerOrderCache = order
	return order
}

// ResetSpeakerOrder drops the cached rotation so the next cycle is
// recomputed (and reshuffled in random mode).
func (r *Room) ResetSpeakerOrder() {
	r.SpeakerOrderCache = nil
}

// CurrentSpeaker resolves the player who speaks next.
func (r *Room) CurrentSpeaker() *Player {
	order := r.SpeakerOrder()
	if len(order) == 0 {
		return nil
	}
	return r.Players[order[r.CurrentSpeakerIndex%len(order)]]
}

// CompletedRounds counts rounds in history.
func (r *Room) CompletedRounds() int {
	return len(r.RoundHistory)
}

// Host returns the host player, if any.
func (r *Room) Host() *Player {
	for _, p := range r.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// Clone makes a deep copy so stores can hand out rooms without aliasing
// their internal state.
func (r *Room) Clone() *Room {
	clone := *r

	clone.Players = make(map[string]*Player, len(r.Players))
	for id, p := range r.Players {
		cp := *p
		clone.Players[id] = &cp
	}

	if r.CurrentRound != nil {
		clone.CurrentRound = r.CurrentRound.clone()
	}

	clone.RoundHistory = make([]*Round, len(r.RoundHistory))
	for i, rd := range r.RoundHistory {
		clone.RoundHistory[i] = rd.clone()
	}

	if r.SpeakerOrderCache != nil {
		clone.SpeakerOrderCache = append([]string(nil), r.SpeakerOrderCache...)
	}

	return &clone
}

func (rd *Round) clone() *Round {
	c := *rd
	c.Votes = make(map[string]string, len(rd.Votes))
	for k, v := range rd.Votes {
		c.Votes[k] = v
	}
	c.EligibleVoters = append([]string(nil), rd.EligibleVoters...)
	if rd.CompletedAt != nil {
		t := *rd.CompletedAt
		c.CompletedAt = &t
	}
	if rd.VotingStartedAt != nil {
		t := *rd.VotingStartedAt
		c.VotingStartedAt = &t
	}
	return &c
}
