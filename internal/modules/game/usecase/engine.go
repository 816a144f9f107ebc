package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/takaki719/emoguchi/internal/modules/emotion"
	"github.com/takaki719/emoguchi/internal/modules/game/domain"
	"github.com/takaki719/emoguchi/pkg/apperr"
	"github.com/takaki719/emoguchi/pkg/logger"
)

// GameUseCase drives the round lifecycle. Every public method locks the
// room, loads it, mutates a full copy and saves, so concurrent events
// on the same room serialize and a failed call never leaves partial
// state behind.
type GameUseCase struct {
	store   domain.StateStore
	phrases domain.PhraseGenerator
	voice   domain.VoiceTransformer
	blobs   domain.BlobStorage
	events  domain.EventSink
	locks   *roomLocks
	timers  *voteTimers
}

func NewGameUseCase(
	store domain.StateStore,
	phrases domain.PhraseGenerator,
	voice domain.VoiceTransformer,
	blobs domain.BlobStorage,
	events domain.EventSink,
) *GameUseCase {
	return &GameUseCase{
		store:   store,
		phrases: phrases,
		voice:   voice,
		blobs:   blobs,
		events:  events,
		locks:   newRoomLocks(),
		timers:  newVoteTimers(),
	}
}

// CreateRoom creates a room, or returns the existing unfinished room
// when a custom id is already taken (idempotent create, so a shared
// passphrase reconvenes the same lobby).
func (uc *GameUseCase) CreateRoom(ctx context.Context, cfg domain.RoomConfig, customID string) (*domain.Room, bool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, false, apperr.Validation(err.Error())
	}

	roomID := customID
	if roomID != "" {
		if !domain.ValidRoomID(roomID) {
			return nil, false, apperr.Validation("room id must be 3-20 characters of letters, digits or Japanese text")
		}

		mu := uc.locks.get(roomID)
		mu.Lock()
		defer mu.Unlock()

		existing, err := uc.store.GetRoom(ctx, roomID)
		if err != nil {
			return nil, false, apperr.Internal(err)
		}
		if existing != nil && existing.Phase != domain.PhaseClosed {
			logger.Info(ctx).Str("room_id", roomID).Msg("custom room id already active, returning existing room")
			return existing, true, nil
		}
	} else {
		// Auto ids are drawn from a pool; retry a few times on collision.
		for i := 0; i < 5; i++ {
			candidate := domain.GenerateRoomID()
			existing, err := uc.store.GetRoom(ctx, candidate)
			if err != nil {
				return nil, false, apperr.Internal(err)
			}
			if existing == nil {
				roomID = candidate
				break
			}
		}
		if roomID == "" {
			return nil, false, apperr.Internal(fmt.Errorf("could not allocate a free room id"))
		}
	}

	room := &domain.Room{
		ID:        roomID,
		Players:   make(map[string]*domain.Player),
		Config:    cfg,
		Phase:     domain.PhaseWaiting,
		HostToken: uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.store.CreateRoom(ctx, room); err != nil {
		return nil, false, apperr.Internal(err)
	}

	logger.Info(ctx).Str("room_id", roomID).Str("mode", cfg.Mode).Msg("room created")
	return room, false, nil
}

// GetRoom loads a room or fails with a not-found error.
func (uc *GameUseCase) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	room, err := uc.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if room == nil {
		return nil, apperr.NotFound("Room not found")
	}
	return room, nil
}

// DeleteRoom closes and removes a room. Host token is the credential.
func (uc *GameUseCase) DeleteRoom(ctx context.Context, roomID, hostToken string) error {
	mu := uc.locks.get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := uc.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.HostToken != hostToken {
		return apperr.Authorization("Invalid host token")
	}

	if room.CurrentRound != nil {
		uc.timers.cancel(roomID, room.CurrentRound.ID)
	}

	if err := uc.store.DeleteRoom(ctx, roomID); err != nil {
		return apperr.Internal(err)
	}

	logger.Info(ctx).Str("room_id", roomID).Msg("room deleted")
	return nil
}

// UpdateConfig replaces the room config. Only the host may do it, and
// only while the room is waiting.
func (uc *GameUseCase) UpdateConfig(ctx context.Context, roomID, hostToken string, cfg domain.RoomConfig) (*domain.Room, error) {
	mu := uc.locks.get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := uc.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.HostToken != hostToken {
		return nil, apperr.Authorization("Invalid host token")
	}
	if room.Phase != domain.PhaseWaiting {
		return nil, apperr.Conflict(fmt.Sprintf("Config can only change while waiting (current: %s)", room.Phase))
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	room.Config = cfg
	if err := uc.store.UpdateRoom(ctx, room); err != nil {
		return nil, apperr.Internal(err)
	}

	uc.events.BroadcastToRoom(roomID, EventRoomState, uc.roomState(room))
	return room, nil
}

// JoinRoom adds a player or reconnects an existing one, matched first
// by id and then by name. The first player to ever join becomes host.
func (uc *GameUseCase) JoinRoom(ctx context.Context, roomID, playerID, playerName string) (*domain.Player, error) {
	if roomID == "" || playerName == "" {
		return nil, apperr.Validation("Missing roomId or playerName")
	}

	mu := uc.locks.get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := uc.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	var player *domain.Player
	if playerID != "" {
		if p, ok := room.Players[playerID]; ok {
			player = p
			player.Name = playerName
		}
	}
	if player == nil {
		for _, p := range room.Players {
			if p.Name == playerName {
				player = p
				break
			}
		}
	}

	reconnected := player != nil
	if reconnected {
		player.IsConnected = true
	} else {
		id := playerID
		if id == "" {
			id = uuid.NewString()
		}
		player = &domain.Player{
			ID:          id,
			Name:        playerName,
			IsConnected: true,
			IsHost:      len(room.Players) == 0,
			JoinedAt:    time.Now().UTC(),
		}
		room.Players[player.ID] = player
	}

	if err := uc.store.UpdateRoom(ctx, room); err != nil {
		return nil, apperr.Internal(err)
	}

	event := EventPlayerJoined
	if reconnected {
		event = EventPlayerReconnected
	}
	uc.events.BroadcastToRoom(roomID, event, PlayerEventPayload{
		PlayerName: player.Name,
		PlayerID:   player.ID,
	})
	uc.events.BroadcastToRoom(roomID, EventRoomState, uc.roomState(room))

	logger.Info(ctx).
		Str("room_id", roomID).
		Str("player_id", player.ID).
		Bool("reconnected", reconnected).
		Msg("player joined room")
	return player, nil
}

// Disconnect marks a player disconnected. The player record stays so a
// reconnect restores score and identity.
func (uc *GameUseCase) Disconnect(ctx context.Context, roomID, playerID string) error {
	mu := uc.locks.get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := uc.store.GetRoom(ctx, roomID)
	if err != nil {
		return apperr.Internal(err)
	}
	if room == nil {
		return nil
	}
	player, ok := room.Players[playerID]
	if !ok {
		return nil
	}

	player.IsConnected = false
	if err := uc.store.UpdateRoom(ctx, room); err != nil {
		return apperr.Internal(err)
	}

	uc.events.BroadcastToRoom(roomID, EventPlayerDisconnected, PlayerEventPayload{
		PlayerName: player.Name,
		PlayerID:   playerID,
	})
	return nil
}

// StartRound begins a round: phrase and emotion from the generator,
// speaker from the rotation, eligible voters frozen to the connected
// non-speakers of this moment.
func (uc *GameUseCase) StartRound(ctx context.Context, roomID, playerID string) error {
	mu := uc.locks.get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := uc.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	player, ok := room.Players[playerID]
	if !ok || !player.IsHost {
		return apperr.Authorization("Only host can start rounds")
	}
	if room.Phase != domain.PhaseWaiting {
		return apperr.Conflict(fmt.Sprintf("Room is not in waiting phase (current: %s)", room.Phase))
	}
	if room.ConnectedCount() < 2 {
		return apperr.Validation("Need at least 2 players to start the game")
	}

	generated := uc.phrases.Generate(ctx, room.Config.Mode, room.Config.VoteType)

	speaker := room.CurrentSpeaker()
	if speaker == nil {
		return apperr.Validation("No players available")
	}

	eligible := make([]string, 0, len(room.Players))
	for id, p := range room.Players {
		if p.IsConnected && id != speaker.ID {
			eligible = append(eligible, id)
		}
	}
	sort.Strings(eligible)

	round := &domain.Round{
		ID:                 uuid.NewString(),
		Phrase:             generated.Phrase,
		EmotionID:          generated.EmotionID,
		SpeakerID:          speaker.ID,
		Votes:              make(map[string]string),
		EligibleVoters:     eligible,
		StartedAt:          time.Now().UTC(),
		VoteTimeoutSeconds: room.Config.VoteTimeout,
	}

	room.CurrentRound = round
	room.Phase = domain.PhaseInRound
	if err := uc.store.UpdateRoom(ctx, room); err != nil {
		return apperr.Internal(err)
	}

	uc.events.BroadcastToRoom(roomID, EventRoomState, uc.roomState(room))

	choices := []VotingChoice{}
	if room.Config.VoteType != emotion.VoteTypeWheel {
		infos, err := emotion.ChoicesForVoting(room.Config.Mode, room.Config.VoteType, generated.EmotionID, 0)
		if err != nil {
			return apperr.From(err)
		}
		for _, info := range infos {
			choices = append(choices, VotingChoice{ID: info.ID, Name: info.NameJa})
		}
	}

	uc.events.BroadcastToRoom(roomID, EventRoundStart, RoundStartPayload{
		RoundID:       round.ID,
		Phrase:        round.Phrase,
		SpeakerName:   speaker.Name,
		VotingChoices: choices,
	})

	uc.events.BroadcastToRoom(roomID, EventSpeakerEmotion, SpeakerEmotionPayload{
		Emotion:   uc.emotionDisplayName(room.Config, round.EmotionID),
		EmotionID: round.EmotionID,
		SpeakerID: speaker.ID,
	})

	logger.Info(ctx).
		Str("room_id", roomID).
		Str("round_id", round.ID).
		Str("speaker_id", speaker.ID).
		Int("eligible_voters", len(eligible)).
		Msg("round started")
	return nil
}

// SubmitAudio stores the speaker's performance, applies the hard-mode
// disguise, broadcasts to listeners and starts the voting timer.
func (uc *GameUseCase) SubmitAudio(ctx context.Context, roomID, playerID string, audio []byte) error {
	mu := uc.locks.get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := uc.store.GetRoom(ctx, roomID)
	if err != nil {
		return apperr.Internal(err)
	}
	if room == nil || room.CurrentRound == nil {
		return apperr.NotFound("No active round")
	}
	round := room.CurrentRound

	if round.SpeakerID != playerID {
		return apperr.Authorization("Only the speaker can send audio")
	}
	if len(audio) == 0 {
		return apperr.Validation("No audio data provided")
	}

	// Storage failure is fatal for the call; the recording is the round's
	// source of truth.
	url, err := uc.blobs.Save(ctx, audio, roomID, round.ID)
	if err != nil {
		return apperr.Internal(err)
	}

	processed, isProcessed := uc.applyDisguise(ctx, room, audio)

	rec := &domain.Recording{
		ID:          uuid.NewString(),
		RoomID:      roomID,
		RoundID:     round.ID,
		SpeakerID:   playerID,
		AudioURL:    url,
		IsProcessed: isProcessed,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.store.SaveRecording(ctx, rec); err != nil {
		return apperr.Internal(err)
	}
	round.AudioRecordingID = rec.ID

	// Broadcast before stamping VotingStartedAt so the timer never runs
	// while listeners are still waiting for audio.
	votingStartedAt := time.Now().UTC()
	uc.events.BroadcastToRoomExcept(roomID, playerID, EventAudioReceived, AudioReceivedPayload{
		Audio:              processed,
		SpeakerName:        room.Players[playerID].Name,
		IsProcessed:        isProcessed,
		VoteTimeoutSeconds: room.Config.VoteTimeout,
		VotingStartedAt:    votingStartedAt.Format(time.RFC3339Nano),
	})

	round.VotingStartedAt = &votingStartedAt
	round.VoteTimeoutSeconds = room.Config.VoteTimeout
	if err := uc.store.UpdateRoom(ctx, room); err != nil {
		return apperr.Internal(err)
	}

	uc.scheduleVoteTimeout(roomID, round.ID, time.Duration(round.VoteTimeoutSeconds)*time.Second)

	logger.Info(ctx).
		Str("room_id", roomID).
		Str("round_id", round.ID).
		Int("audio_bytes", len(audio)).
		Bool("processed", isProcessed).
		Msg("audio broadcast, voting open")
	return nil
}

// applyDisguise runs the hard-mode voice transform. Any failure falls
// back to the original audio; a bad disguise should never kill a round.
func (uc *GameUseCase) applyDisguise(ctx context.Context, room *domain.Room, audio []byte) ([]byte, bool) {
	if !room.Config.HardMode {
		return audio, false
	}

	d := selectDisguise(room.CurrentRound.EmotionID)
	out, err := uc.voice.Process(ctx, audio, d.Pitch, d.Tempo)
	if err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("room_id", room.ID).
			Str("pattern", d.Pattern).
			Msg("voice processing failed, using original audio")
		return audio, false
	}

	logger.Info(ctx).
		Str("room_id", room.ID).
		Str("pattern", d.Pattern).
		Float64("pitch", d.Pitch).
		Float64("tempo", d.Tempo).
		Msg("voice disguise applied")
	return out, true
}

// SubmitVote records a vote. Last write wins for re-votes; the round
// completes once every still-connected eligible voter has voted.
func (uc *GameUseCase) SubmitVote(ctx context.Context, roomID, playerID, roundID, emotionID string) error {
	mu := uc.locks.get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := uc.store.GetRoom(ctx, roomID)
	if err != nil {
		return apperr.Internal(err)
	}
	if room == nil || room.CurrentRound == nil {
		return apperr.NotFound("No active round")
	}
	round := room.CurrentRound

	if round.ID != roundID {
		return apperr.Validation("Invalid round ID")
	}
	if round.SpeakerID == playerID {
		return apperr.Authorization("Speaker cannot vote")
	}
	if !round.IsEligibleVoter(playerID) {
		return apperr.Authorization("You joined after the round started and cannot vote")
	}

	round.Votes[playerID] = emotionID
	if err := uc.store.UpdateRoom(ctx, room); err != nil {
		return apperr.Internal(err)
	}

	uc.events.SendToPlayer(roomID, playerID, EventVoteConfirmed, VoteConfirmedPayload{
		RoundID:   roundID,
		EmotionID: emotionID,
		Message:   "Vote recorded successfully",
	})

	// Disconnected eligible voters lower the bar; a room never stalls on
	// someone who left.
	connectedEligible := 0
	for _, voterID := range round.EligibleVoters {
		if p, ok := room.Players[voterID]; ok && p.IsConnected {
			connectedEligible++
		}
	}

	if len(round.Votes) >= connectedEligible && connectedEligible > 0 {
		return uc.completeRound(ctx, room)
	}

	logger.Debug(ctx).
		Str("room_id", roomID).
		Int("votes", len(round.Votes)).
		Int("connected_eligible", connectedEligible).
		Msg("vote recorded, waiting for more")
	return nil
}

// RestartGame starts a fresh session: same room id and players, scores
// zeroed, phase back to waiting. Only the host may restart.
func (uc *GameUseCase) RestartGame(ctx context.Context, roomID, playerID string) error {
	mu := uc.locks.get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := uc.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	player, ok := room.Players[playerID]
	if !ok || !player.IsHost {
		return apperr.Authorization("Only host can restart the game")
	}

	if room.CurrentRound != nil {
		uc.timers.cancel(roomID, room.CurrentRound.ID)
	}

	fresh := &domain.Room{
		ID:        roomID,
		Players:   make(map[string]*domain.Player, len(room.Players)),
		Config:    room.Config,
		Phase:     domain.PhaseWaiting,
		HostToken: room.HostToken,
		CreatedAt: room.CreatedAt,
	}
	for id, p := range room.Players {
		fresh.Players[id] = &domain.Player{
			ID:          p.ID,
			Name:        p.Name,
			Score:       0,
			IsHost:      p.IsHost,
			IsConnected: p.IsConnected,
			JoinedAt:    p.JoinedAt,
		}
	}

	if err := uc.store.RestartRoom(ctx, fresh); err != nil {
		return apperr.Internal(err)
	}

	uc.events.BroadcastToRoom(roomID, EventRoomState, uc.roomState(fresh))

	logger.Info(ctx).Str("room_id", roomID).Msg("game restarted with fresh session")
	return nil
}

// PrefetchPhrases warms a batch of phrases for a room. Host only.
func (uc *GameUseCase) PrefetchPhrases(ctx context.Context, roomID, hostToken string, n int) ([]domain.GeneratedPhrase, error) {
	room, err := uc.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.HostToken != hostToken {
		return nil, apperr.Authorization("Invalid host token")
	}
	if n <= 0 || n > 20 {
		n = 5
	}
	return uc.phrases.GenerateBatch(ctx, n, room.Config.Mode, room.Config.VoteType), nil
}

// completeRound settles scores, archives the round and either opens the
// next round slot or ends the game. Caller holds the room lock.
func (uc *GameUseCase) completeRound(ctx context.Context, room *domain.Room) error {
	round := room.CurrentRound
	if round == nil {
		return nil
	}

	uc.timers.cancel(room.ID, round.ID)

	speaker := room.Players[round.SpeakerID]
	correctVotes := 0
	for voterID, votedEmotion := range round.Votes {
		voter, ok := room.Players[voterID]
		if !ok {
			continue
		}
		points := 0
		if votedEmotion == round.EmotionID {
			points = 1
			voter.Score++
			correctVotes++
		}
		uc.saveScore(ctx, room.ID, round.ID, voterID, points, domain.RoleListener)
	}
	if speaker != nil {
		speaker.Score += correctVotes
		uc.saveScore(ctx, room.ID, round.ID, round.SpeakerID, correctVotes, domain.RoleSpeaker)
	}

	// One cycle means everyone spoke once; the game ends after MaxRounds
	// full cycles.
	completedRounds := room.CompletedRounds() + 1
	connectedPlayers := room.ConnectedCount()
	completedCycles := 0
	if connectedPlayers > 0 {
		completedCycles = completedRounds / connectedPlayers
	}
	gameComplete := completedCycles >= room.Config.MaxRounds

	now := time.Now().UTC()
	round.IsCompleted = true
	round.CompletedAt = &now
	room.RoundHistory = append(room.RoundHistory, round)
	room.CurrentRound = nil

	if gameComplete {
		room.Phase = domain.PhaseResult
	} else {
		room.Phase = domain.PhaseWaiting
	}

	order := room.SpeakerOrder()
	if len(order) > 0 {
		next := (room.CurrentSpeakerIndex + 1) % len(order)
		if next == 0 && room.CurrentSpeakerIndex != 0 {
			// Wrapped to a new cycle; random mode reshuffles here.
			room.ResetSpeakerOrder()
		}
		room.CurrentSpeakerIndex = next
	}

	if err := uc.store.UpdateRoom(ctx, room); err != nil {
		return apperr.Internal(err)
	}

	scores := make(map[string]int, len(room.Players))
	for _, p := range room.Players {
		scores[p.Name] = p.Score
	}
	votesByName := make(map[string]string, len(round.Votes))
	for voterID, e := range round.Votes {
		if p, ok := room.Players[voterID]; ok {
			votesByName[p.Name] = e
		}
	}
	speakerName := ""
	if speaker != nil {
		speakerName = speaker.Name
	}

	uc.events.BroadcastToRoom(room.ID, EventRoundResult, RoundResultPayload{
		RoundID:          round.ID,
		CorrectEmotion:   uc.emotionDisplayName(room.Config, round.EmotionID),
		CorrectEmotionID: round.EmotionID,
		SpeakerName:      speakerName,
		Scores:           scores,
		Votes:            votesByName,
		IsGameComplete:   gameComplete,
		CompletedRounds:  completedRounds,
		MaxRounds:        room.Config.MaxRounds,
		CompletedCycles:  completedCycles,
	})

	if gameComplete {
		uc.events.BroadcastToRoom(room.ID, EventGameComplete, GameCompletePayload{
			Rankings:    uc.finalRankings(room),
			TotalRounds: completedRounds,
			TotalCycles: completedCycles,
		})
		logger.Info(ctx).Str("room_id", room.ID).Msg("game complete")
	} else {
		uc.events.BroadcastToRoom(room.ID, EventRoomState, uc.roomState(room))
	}

	logger.Info(ctx).
		Str("room_id", room.ID).
		Str("round_id", round.ID).
		Int("correct_votes", correctVotes).
		Bool("game_complete", gameComplete).
		Msg("round completed")
	return nil
}

// finalRankings sorts players by score descending; ties keep a stable
// name order.
func (uc *GameUseCase) finalRankings(room *domain.Room) []Ranking {
	rankings := make([]Ranking, 0, len(room.Players))
	for _, p := range room.Players {
		rankings = append(rankings, Ranking{Name: p.Name, Score: p.Score})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].Score != rankings[j].Score {
			return rankings[i].Score > rankings[j].Score
		}
		return rankings[i].Name < rankings[j].Name
	})
	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	return rankings
}

// saveScore appends one ledger entry. Ledger failures are logged and
// swallowed; the in-room score already advanced and a missing analytics
// row should not fail the round.
func (uc *GameUseCase) saveScore(ctx context.Context, roomID, roundID, playerID string, points int, role string) {
	entry := &domain.ScoreEntry{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		RoundID:   roundID,
		PlayerID:  playerID,
		Points:    points,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.store.SaveScore(ctx, entry); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("room_id", roomID).
			Str("player_id", playerID).
			Msg("failed to save score entry")
	}
}

func (uc *GameUseCase) roomState(room *domain.Room) RoomStatePayload {
	players := make([]PlayerInfo, 0, len(room.Players))
	for _, id := range sortedPlayerIDs(room) {
		p := room.Players[id]
		players = append(players, PlayerInfo{Name: p.Name, Score: p.Score})
	}

	var currentSpeaker *string
	if room.Phase == domain.PhaseInRound && room.CurrentRound != nil {
		if speaker, ok := room.Players[room.CurrentRound.SpeakerID]; ok {
			name := speaker.Name
			currentSpeaker = &name
		}
	} else if room.Phase == domain.PhaseWaiting && len(room.RoundHistory) > 0 {
		if speaker := room.CurrentSpeaker(); speaker != nil {
			name := speaker.Name
			currentSpeaker = &name
		}
	}

	return RoomStatePayload{
		RoomID:         room.ID,
		Players:        players,
		Phase:          string(room.Phase),
		Config:         room.Config,
		CurrentSpeaker: currentSpeaker,
	}
}

func sortedPlayerIDs(room *domain.Room) []string {
	ids := make([]string, 0, len(room.Players))
	for id := range room.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		pi, pj := room.Players[ids[i]], room.Players[ids[j]]
		if pi.JoinedAt.Equal(pj.JoinedAt) {
			return ids[i] < ids[j]
		}
		return pi.JoinedAt.Before(pj.JoinedAt)
	})
	return ids
}

// emotionDisplayName resolves the Japanese display name for any emotion
// id across the three universes.
func (uc *GameUseCase) emotionDisplayName(cfg domain.RoomConfig, emotionID string) string {
	if cfg.Mode == emotion.ModeWheel || cfg.VoteType == emotion.VoteTypeWheel {
		if w, err := emotion.WheelByID(emotionID); err == nil {
			return w.NameJa
		}
		return emotionID
	}
	if info, ok := emotion.Basic[emotionID]; ok {
		return info.NameJa
	}
	if info, ok := emotion.Advanced[emotionID]; ok {
		return info.NameJa
	}
	return emotionID
}
