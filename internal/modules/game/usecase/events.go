package usecase

// Event names pushed to clients.
const (
	EventRoomState          = "room_state"
	EventPlayerJoined       = "player_joined"
	EventPlayerReconnected  = "player_reconnected"
	EventPlayerDisconnected = "player_disconnected"
	EventRoundStart         = "round_start"
	EventSpeakerEmotion     = "speaker_emotion"
	EventAudioReceived      = "audio_received"
	EventVoteConfirmed      = "vote_confirmed"
	EventRoundResult        = "round_result"
	EventGameComplete       = "game_complete"
)

// PlayerInfo is the per-player slice of a room state payload.
type PlayerInfo struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// RoomStatePayload syncs the lobby view of a room.
type RoomStatePayload struct {
	RoomID         string       `json:"roomId"`
	Players        []PlayerInfo `json:"players"`
	Phase          string       `json:"phase"`
	Config         interface{}  `json:"config"`
	CurrentSpeaker *string      `json:"currentSpeaker"`
}

// PlayerEventPayload announces joins, reconnects and disconnects.
type PlayerEventPayload struct {
	PlayerName string `json:"playerName"`
	PlayerID   string `json:"playerId"`
}

// VotingChoice is one option shown to voters.
type VotingChoice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoundStartPayload opens a round for everyone.
type RoundStartPayload struct {
	RoundID       string         `json:"roundId"`
	Phrase        string         `json:"phrase"`
	SpeakerName   string         `json:"speakerName"`
	VotingChoices []VotingChoice `json:"votingChoices"`
}

// SpeakerEmotionPayload reveals the target emotion. It is broadcast to
// the whole room tagged with the speaker id; clients hide it from
// non-speakers. A motivated client can read it, which is an accepted
// limitation for a party game.
type SpeakerEmotionPayload struct {
	Emotion   string `json:"emotion"`
	EmotionID string `json:"emotionId"`
	SpeakerID string `json:"speakerId"`
}

// AudioReceivedPayload carries the performance to listeners.
type AudioReceivedPayload struct {
	Audio              []byte `json:"audio"`
	SpeakerName        string `json:"speaker_name"`
	IsProcessed        bool   `json:"is_processed"`
	VoteTimeoutSeconds int    `json:"vote_timeout_seconds"`
	VotingStartedAt    string `json:"voting_started_at"`
}

// VoteConfirmedPayload acknowledges a vote to the voter only.
type VoteConfirmedPayload struct {
	RoundID   string `json:"roundId"`
	EmotionID string `json:"emotionId"`
	Message   string `json:"message"`
}

// RoundResultPayload closes out a round.
type RoundResultPayload struct {
	RoundID          string            `json:"round_id"`
	CorrectEmotion   string            `json:"correct_emotion"`
	CorrectEmotionID string            `json:"correctEmotionId"`
	SpeakerName      string            `json:"speaker_name"`
	Scores           map[string]int    `json:"scores"`
	Votes            map[string]string `json:"votes"`
	IsGameComplete   bool              `json:"isGameComplete"`
	CompletedRounds  int               `json:"completedRounds"`
	MaxRounds        int               `json:"maxRounds"`
	CompletedCycles  int               `json:"completedCycles"`
}

// Ranking is one row of the final standings.
type Ranking struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Rank  int    `json:"rank"`
}

// GameCompletePayload ends the game with final standings.
type GameCompletePayload struct {
	Rankings    []Ranking `json:"rankings"`
	TotalRounds int       `json:"totalRounds"`
	TotalCycles int       `json:"totalCycles"`
}
