package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takaki719/emoguchi/internal/modules/emotion"
	"github.com/takaki719/emoguchi/internal/modules/game/domain"
	"github.com/takaki719/emoguchi/internal/modules/game/repository/memory"
	"github.com/takaki719/emoguchi/pkg/apperr"
)

type stubPhrases struct{}

func (stubPhrases) Generate(ctx context.Context, mode, voteType string) domain.GeneratedPhrase {
	return domain.GeneratedPhrase{Phrase: "やばい！", EmotionID: "joy"}
}

func (s stubPhrases) GenerateBatch(ctx context.Context, n int, mode, voteType string) []domain.GeneratedPhrase {
	out := make([]domain.GeneratedPhrase, n)
	for i := range out {
		out[i] = s.Generate(ctx, mode, voteType)
	}
	return out
}

type stubVoice struct {
	err error
}

func (s *stubVoice) Process(ctx context.Context, audio []byte, pitch, tempo float64) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]byte("x"), audio...), nil
}

type stubBlobs struct {
	err error
}

func (s *stubBlobs) Save(ctx context.Context, audio []byte, roomID, roundID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "mem://" + roomID + "/" + roundID + ".wav", nil
}

func (s *stubBlobs) ResolveLocalPath(ctx context.Context, url string) (string, error) {
	return "", errors.New("not local")
}

func (s *stubBlobs) Delete(ctx context.Context, url string) error { return nil }

type recordedEvent struct {
	RoomID   string
	PlayerID string
	Event    string
	Payload  interface{}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) BroadcastToRoom(roomID, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{RoomID: roomID, Event: event, Payload: payload})
}

func (r *eventRecorder) BroadcastToRoomExcept(roomID, exceptPlayerID, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{RoomID: roomID, PlayerID: "!" + exceptPlayerID, Event: event, Payload: payload})
}

func (r *eventRecorder) SendToPlayer(roomID, playerID, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{RoomID: roomID, PlayerID: playerID, Event: event, Payload: payload})
}

func (r *eventRecorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

func (r *eventRecorder) last(event string) (recordedEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Event == event {
			return r.events[i], true
		}
	}
	return recordedEvent{}, false
}

func newTestEngine(t *testing.T) (*GameUseCase, *memory.StateStore, *eventRecorder) {
	t.Helper()
	store := memory.NewStateStore()
	events := &eventRecorder{}
	uc := NewGameUseCase(store, stubPhrases{}, &stubVoice{}, &stubBlobs{}, events)
	return uc, store, events
}

// setupRoom creates a room with n connected players p1..pn, p1 host.
func setupRoom(t *testing.T, uc *GameUseCase, n int) *domain.Room {
	t.Helper()
	ctx := context.Background()

	cfg := domain.DefaultRoomConfig()
	room, existing, err := uc.CreateRoom(ctx, cfg, "testroom")
	require.NoError(t, err)
	require.False(t, existing)

	names := []string{"alice", "bob", "carol", "dave", "erin"}
	for i := 0; i < n; i++ {
		id := []string{"p1", "p2", "p3", "p4", "p5"}[i]
		_, err := uc.JoinRoom(ctx, room.ID, id, names[i])
		require.NoError(t, err)
		// JoinedAt ordering matters for sequential rotation.
		time.Sleep(time.Millisecond)
	}

	loaded, err := uc.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	return loaded
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperr.From(err).Code
}

func TestCreateRoom_CustomIDIdempotent(t *testing.T) {
	uc, _, _ := newTestEngine(t)
	ctx := context.Background()

	first, existing, err := uc.CreateRoom(ctx, domain.DefaultRoomConfig(), "あいことば")
	require.NoError(t, err)
	assert.False(t, existing)

	second, existing, err := uc.CreateRoom(ctx, domain.DefaultRoomConfig(), "あいことば")
	require.NoError(t, err)
	assert.True(t, existing)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.HostToken, second.HostToken)
}

func TestCreateRoom_InvalidCustomID(t *testing.T) {
	uc, _, _ := newTestEngine(t)

	_, _, err := uc.CreateRoom(context.Background(), domain.DefaultRoomConfig(), "a b")
	assert.Equal(t, apperr.CodeValidation, errCode(t, err))

	_, _, err = uc.CreateRoom(context.Background(), domain.DefaultRoomConfig(), "ab")
	assert.Equal(t, apperr.CodeValidation, errCode(t, err))
}

func TestJoinRoom_FirstPlayerBecomesHost(t *testing.T) {
	uc, _, events := newTestEngine(t)
	room := setupRoom(t, uc, 2)

	assert.True(t, room.Players["p1"].IsHost)
	assert.False(t, room.Players["p2"].IsHost)
	assert.Equal(t, 2, events.count(EventPlayerJoined))
	assert.GreaterOrEqual(t, events.count(EventRoomState), 2)
}

func TestJoinRoom_ReconnectByID(t *testing.T) {
	uc, _, events := newTestEngine(t)
	room := setupRoom(t, uc, 2)
	ctx := context.Background()

	require.NoError(t, uc.Disconnect(ctx, room.ID, "p2"))

	player, err := uc.JoinRoom(ctx, room.ID, "p2", "bobby")
	require.NoError(t, err)
	assert.Equal(t, "p2", player.ID)
	assert.Equal(t, "bobby", player.Name)
	assert.True(t, player.IsConnected)
	assert.Equal(t, 1, events.count(EventPlayerReconnected))

	loaded, err := uc.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Players, 2)
}

func TestJoinRoom_ReconnectByName(t *testing.T) {
	uc, _, _ := newTestEngine(t)
	room := setupRoom(t, uc, 2)
	ctx := context.Background()

	player, err := uc.JoinRoom(ctx, room.ID, "", "bob")
	require.NoError(t, err)
	assert.Equal(t, "p2", player.ID)

	loaded, err := uc.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Players, 2)
}

func TestStartRound_Guards(t *testing.T) {
	uc, _, _ := newTestEngine(t)
	room := setupRoom(t, uc, 2)
	ctx := context.Background()

	// Non-host cannot start.
	err := uc.StartRound(ctx, room.ID, "p2")
	assert.Equal(t, apperr.CodeAuthorization, errCode(t, err))

	// Already in a round.
	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))
	err = uc.StartRound(ctx, room.ID, "p1")
	assert.Equal(t, apperr.CodeConflict, errCode(t, err))
}

func TestStartRound_NeedsTwoConnected(t *testing.T) {
	uc, _, _ := newTestEngine(t)
	room := setupRoom(t, uc, 2)
	ctx := context.Background()

	require.NoError(t, uc.Disconnect(ctx, room.ID, "p2"))

	err := uc.StartRound(ctx, room.ID, "p1")
	assert.Equal(t, apperr.CodeValidation, errCode(t, err))
}

func TestStartRound_SnapshotsEligibleVoters(t *testing.T) {
	uc, _, events := newTestEngine(t)
	room := setupRoom(t, uc, 3)
	ctx := context.Background()

	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))

	loaded, err := uc.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.CurrentRound)
	assert.Equal(t, domain.PhaseInRound, loaded.Phase)

	round := loaded.CurrentRound
	assert.Equal(t, "p1", round.SpeakerID) // first in join order
	assert.NotContains(t, round.EligibleVoters, round.SpeakerID)
	assert.ElementsMatch(t, []string{"p2", "p3"}, round.EligibleVoters)
	assert.Empty(t, round.Votes)
	assert.Nil(t, round.VotingStartedAt)

	start, ok := events.last(EventRoundStart)
	require.True(t, ok)
	payload := start.Payload.(RoundStartPayload)
	assert.Equal(t, round.ID, payload.RoundID)
	assert.Len(t, payload.VotingChoices, 4)

	reveal, ok := events.last(EventSpeakerEmotion)
	require.True(t, ok)
	assert.Equal(t, "p1", reveal.Payload.(SpeakerEmotionPayload).SpeakerID)
}

func TestSubmitAudio_SpeakerOnly(t *testing.T) {
	uc, _, _ := newTestEngine(t)
	room := setupRoom(t, uc, 2)
	ctx := context.Background()

	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))

	err := uc.SubmitAudio(ctx, room.ID, "p2", []byte("wav"))
	assert.Equal(t, apperr.CodeAuthorization, errCode(t, err))

	err = uc.SubmitAudio(ctx, room.ID, "p1", nil)
	assert.Equal(t, apperr.CodeValidation, errCode(t, err))
}

func TestSubmitAudio_OpensVoting(t *testing.T) {
	uc, _, events := newTestEngine(t)
	room := setupRoom(t, uc, 2)
	ctx := context.Background()

	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))
	require.NoError(t, uc.SubmitAudio(ctx, room.ID, "p1", []byte("wav")))

	loaded, err := uc.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	round := loaded.CurrentRound
	require.NotNil(t, round)
	require.NotNil(t, round.VotingStartedAt)
	assert.NotEmpty(t, round.AudioRecordingID)
	assert.Equal(t, loaded.Config.VoteTimeout, round.VoteTimeoutSeconds)

	audio, ok := events.last(EventAudioReceived)
	require.True(t, ok)
	assert.Equal(t, "!p1", audio.PlayerID) // broadcast excludes speaker
	assert.False(t, audio.Payload.(AudioReceivedPayload).IsProcessed)
}

func TestSubmitAudio_StorageFailureIsFatal(t *testing.T) {
	store := memory.NewStateStore()
	events := &eventRecorder{}
	uc := NewGameUseCase(store, stubPhrases{}, &stubVoice{}, &stubBlobs{err: errors.New("disk full")}, events)
	room := setupRoom(t, uc, 2)
	ctx := context.Background()

	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))

	err := uc.SubmitAudio(ctx, room.ID, "p1", []byte("wav"))
	assert.Equal(t, apperr.CodeInternal, errCode(t, err))

	// Voting never opened.
	loaded, err2 := uc.GetRoom(ctx, room.ID)
	require.NoError(t, err2)
	assert.Nil(t, loaded.CurrentRound.VotingStartedAt)
}

func TestSubmitAudio_HardModeDisguiseFallsBack(t *testing.T) {
	store := memory.NewStateStore()
	events := &eventRecorder{}
	voice := &stubVoice{err: errors.New("ffmpeg exploded")}
	uc := NewGameUseCase(store, stubPhrases{}, voice, &stubBlobs{}, events)

	cfg := domain.DefaultRoomConfig()
	cfg.HardMode = true
	ctx := context.Background()
	room, _, err := uc.CreateRoom(ctx, cfg, "hardroom")
	require.NoError(t, err)
	_, err = uc.JoinRoom(ctx, room.ID, "p1", "alice")
	require.NoError(t, err)
	_, err = uc.JoinRoom(ctx, room.ID, "p2", "bob")
	require.NoError(t, err)

	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))
	require.NoError(t, uc.SubmitAudio(ctx, room.ID, "p1", []byte("wav")))

	audio, ok := events.last(EventAudioReceived)
	require.True(t, ok)
	payload := audio.Payload.(AudioReceivedPayload)
	assert.Equal(t, []byte("wav"), payload.Audio)
	assert.False(t, payload.IsProcessed)
}

func TestSubmitVote_Guards(t *testing.T) {
	uc, _, _ := newTestEngine(t)
	room := setupRoom(t, uc, 3)
	ctx := context.Background()

	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))
	loaded, _ := uc.GetRoom(ctx, room.ID)
	roundID := loaded.CurrentRound.ID

	// Wrong round id.
	err := uc.SubmitVote(ctx, room.ID, "p2", "bogus", "joy")
	assert.Equal(t, apperr.CodeValidation, errCode(t, err))

	// Speaker cannot vote.
	err = uc.SubmitVote(ctx, room.ID, "p1", roundID, "joy")
	assert.Equal(t, apperr.CodeAuthorization, errCode(t, err))

	// Late joiner is not eligible even though connected.
	_, err = uc.JoinRoom(ctx, room.ID, "p9", "zoe")
	require.NoError(t, err)
	err = uc.SubmitVote(ctx, room.ID, "p9", roundID, "joy")
	assert.Equal(t, apperr.CodeAuthorization, errCode(t, err))
}

func TestSubmitVote_LastWriteWins(t *testing.T) {
	uc, _, _ := newTestEngine(t)
	room := setupRoom(t, uc, 3)
	ctx := context.Background()

	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))
	loaded, _ := uc.GetRoom(ctx, room.ID)
	roundID := loaded.CurrentRound.ID

	require.NoError(t, uc.SubmitVote(ctx, room.ID, "p2", roundID, "anger"))
	require.NoError(t, uc.SubmitVote(ctx, room.ID, "p2", roundID, "joy"))

	loaded, _ = uc.GetRoom(ctx, room.ID)
	assert.Equal(t, "joy", loaded.CurrentRound.Votes["p2"])
	// Still waiting for p3.
	assert.Equal(t, domain.PhaseInRound, loaded.Phase)
}

func TestRoundCompletion_ScoresAndLedger(t *testing.T) {
	uc, store, events := newTestEngine(t)
	room := setupRoom(t, uc, 3)
	ctx := context.Background()

	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))
	loaded, _ := uc.GetRoom(ctx, room.ID)
	roundID := loaded.CurrentRound.ID

	require.NoError(t, uc.SubmitVote(ctx, room.ID, "p2", roundID, "joy"))   // correct
	require.NoError(t, uc.SubmitVote(ctx, room.ID, "p3", roundID, "anger")) // wrong

	loaded, _ = uc.GetRoom(ctx, room.ID)
	assert.Nil(t, loaded.CurrentRound)
	assert.Equal(t, domain.PhaseWaiting, loaded.Phase)
	assert.Len(t, loaded.RoundHistory, 1)
	assert.True(t, loaded.RoundHistory[0].IsCompleted)
	assert.NotNil(t, loaded.RoundHistory[0].CompletedAt)

	// p2 correct: +1. Speaker p1: +1 (one correct vote). p3: 0.
	assert.Equal(t, 1, loaded.Players["p1"].Score)
	assert.Equal(t, 1, loaded.Players["p2"].Score)
	assert.Equal(t, 0, loaded.Players["p3"].Score)

	// Speaker index advanced.
	assert.Equal(t, 1, loaded.CurrentSpeakerIndex)

	// Ledger: one listener entry per vote plus one speaker entry.
	entries := store.ScoreEntries()
	require.Len(t, entries, 3)
	byRole := map[string]int{}
	for _, e := range entries {
		byRole[e.Role]++
	}
	assert.Equal(t, 2, byRole[domain.RoleListener])
	assert.Equal(t, 1, byRole[domain.RoleSpeaker])

	result, ok := events.last(EventRoundResult)
	require.True(t, ok)
	payload := result.Payload.(RoundResultPayload)
	assert.False(t, payload.IsGameComplete)
	assert.Equal(t, "joy", payload.CorrectEmotionID)
	assert.Equal(t, "喜び", payload.CorrectEmotion)
}

// Two players, max_rounds=1: one cycle is two rounds. After round one
// the game keeps waiting; after round two it is complete.
func TestTwoPlayerOneCycleScenario(t *testing.T) {
	uc, _, events := newTestEngine(t)
	room := setupRoom(t, uc, 2)
	ctx := context.Background()

	// Round 1: p1 speaks, p2 votes.
	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))
	loaded, _ := uc.GetRoom(ctx, room.ID)
	require.NoError(t, uc.SubmitVote(ctx, room.ID, "p2", loaded.CurrentRound.ID, "joy"))

	loaded, _ = uc.GetRoom(ctx, room.ID)
	assert.Equal(t, domain.PhaseWaiting, loaded.Phase)
	assert.Equal(t, 0, events.count(EventGameComplete))

	// Round 2: p2 speaks, p1 votes.
	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))
	loaded, _ = uc.GetRoom(ctx, room.ID)
	require.Equal(t, "p2", loaded.CurrentRound.SpeakerID)
	require.NoError(t, uc.SubmitVote(ctx, room.ID, "p1", loaded.CurrentRound.ID, "anger"))

	loaded, _ = uc.GetRoom(ctx, room.ID)
	assert.Equal(t, domain.PhaseResult, loaded.Phase)
	assert.Equal(t, 1, events.count(EventGameComplete))

	complete, ok := events.last(EventGameComplete)
	require.True(t, ok)
	payload := complete.Payload.(GameCompletePayload)
	assert.Equal(t, 2, payload.TotalRounds)
	assert.Equal(t, 1, payload.TotalCycles)
	require.Len(t, payload.Rankings, 2)
	assert.Equal(t, 1, payload.Rankings[0].Rank)
	assert.GreaterOrEqual(t, payload.Rankings[0].Score, payload.Rankings[1].Score)
}

func TestDisconnectLowersCompletionBar(t *testing.T) {
	uc, _, _ := newTestEngine(t)
	room := setupRoom(t, uc, 3)
	ctx := context.Background()

	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))
	loaded, _ := uc.GetRoom(ctx, room.ID)
	roundID := loaded.CurrentRound.ID

	// p3 leaves mid-round; p2's vote alone should now complete it.
	require.NoError(t, uc.Disconnect(ctx, room.ID, "p3"))
	require.NoError(t, uc.SubmitVote(ctx, room.ID, "p2", roundID, "joy"))

	loaded, _ = uc.GetRoom(ctx, room.ID)
	assert.Nil(t, loaded.CurrentRound)
	assert.Len(t, loaded.RoundHistory, 1)
}

func TestRestartGame_ResetsScoresAndPhase(t *testing.T) {
	uc, _, events := newTestEngine(t)
	room := setupRoom(t, uc, 2)
	ctx := context.Background()

	// Play a full game to RESULT.
	for i := 0; i < 2; i++ {
		require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))
		loaded, _ := uc.GetRoom(ctx, room.ID)
		voter := "p2"
		if loaded.CurrentRound.SpeakerID == "p2" {
			voter = "p1"
		}
		require.NoError(t, uc.SubmitVote(ctx, room.ID, voter, loaded.CurrentRound.ID, "joy"))
	}

	loaded, _ := uc.GetRoom(ctx, room.ID)
	require.Equal(t, domain.PhaseResult, loaded.Phase)

	// Non-host cannot restart.
	err := uc.RestartGame(ctx, room.ID, "p2")
	assert.Equal(t, apperr.CodeAuthorization, errCode(t, err))

	require.NoError(t, uc.RestartGame(ctx, room.ID, "p1"))

	loaded, _ = uc.GetRoom(ctx, room.ID)
	assert.Equal(t, domain.PhaseWaiting, loaded.Phase)
	assert.Nil(t, loaded.CurrentRound)
	assert.Empty(t, loaded.RoundHistory)
	assert.Equal(t, 0, loaded.CurrentSpeakerIndex)
	for _, p := range loaded.Players {
		assert.Equal(t, 0, p.Score)
	}
	assert.True(t, loaded.Players["p1"].IsHost)

	state, ok := events.last(EventRoomState)
	require.True(t, ok)
	assert.Nil(t, state.Payload.(RoomStatePayload).CurrentSpeaker)
}

func TestUpdateConfig_OnlyWhileWaiting(t *testing.T) {
	uc, _, _ := newTestEngine(t)
	room := setupRoom(t, uc, 2)
	ctx := context.Background()

	cfg := room.Config
	cfg.MaxRounds = 3

	// Bad token.
	_, err := uc.UpdateConfig(ctx, room.ID, "wrong", cfg)
	assert.Equal(t, apperr.CodeAuthorization, errCode(t, err))

	updated, err := uc.UpdateConfig(ctx, room.ID, room.HostToken, cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Config.MaxRounds)

	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))
	_, err = uc.UpdateConfig(ctx, room.ID, room.HostToken, cfg)
	assert.Equal(t, apperr.CodeConflict, errCode(t, err))
}

func TestVoteTimeout_ForcesCompletion(t *testing.T) {
	uc, store, events := newTestEngine(t)
	room := setupRoom(t, uc, 3)
	ctx := context.Background()

	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))
	require.NoError(t, uc.SubmitAudio(ctx, room.ID, "p1", []byte("wav")))

	loaded, _ := uc.GetRoom(ctx, room.ID)
	roundID := loaded.CurrentRound.ID
	require.NoError(t, uc.SubmitVote(ctx, room.ID, "p2", roundID, "joy"))

	// Backdate voting start so the elapsed check passes.
	loaded, _ = uc.GetRoom(ctx, room.ID)
	past := time.Now().UTC().Add(-time.Hour)
	loaded.CurrentRound.VotingStartedAt = &past
	require.NoError(t, uc.store.UpdateRoom(ctx, loaded))

	uc.handleVoteTimeout(ctx, room.ID, roundID)

	loaded, _ = uc.GetRoom(ctx, room.ID)
	assert.Nil(t, loaded.CurrentRound)
	assert.Len(t, loaded.RoundHistory, 1)
	// p3 never voted; their vote is simply missing.
	assert.NotContains(t, loaded.RoundHistory[0].Votes, "p3")
	assert.Equal(t, 1, events.count(EventRoundResult))

	// Firing again is a no-op: no second result event, no extra ledger rows.
	settled := len(store.ScoreEntries())
	uc.handleVoteTimeout(ctx, room.ID, roundID)
	assert.Equal(t, 1, events.count(EventRoundResult))
	assert.Len(t, store.ScoreEntries(), settled)
}

func TestVoteTimeout_NoopWithinWindow(t *testing.T) {
	uc, _, events := newTestEngine(t)
	room := setupRoom(t, uc, 3)
	ctx := context.Background()

	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))
	require.NoError(t, uc.SubmitAudio(ctx, room.ID, "p1", []byte("wav")))

	loaded, _ := uc.GetRoom(ctx, room.ID)
	uc.handleVoteTimeout(ctx, room.ID, loaded.CurrentRound.ID)

	loaded, _ = uc.GetRoom(ctx, room.ID)
	assert.NotNil(t, loaded.CurrentRound)
	assert.Equal(t, 0, events.count(EventRoundResult))
}

func TestVoteTimeout_NoopForDifferentRound(t *testing.T) {
	uc, _, events := newTestEngine(t)
	room := setupRoom(t, uc, 2)
	ctx := context.Background()

	require.NoError(t, uc.StartRound(ctx, room.ID, "p1"))
	uc.handleVoteTimeout(ctx, room.ID, "some-old-round")

	loaded, _ := uc.GetRoom(ctx, room.ID)
	assert.NotNil(t, loaded.CurrentRound)
	assert.Equal(t, 0, events.count(EventRoundResult))
}

func TestDeleteRoom_RequiresHostToken(t *testing.T) {
	uc, _, _ := newTestEngine(t)
	room := setupRoom(t, uc, 2)
	ctx := context.Background()

	err := uc.DeleteRoom(ctx, room.ID, "wrong")
	assert.Equal(t, apperr.CodeAuthorization, errCode(t, err))

	require.NoError(t, uc.DeleteRoom(ctx, room.ID, room.HostToken))

	_, err = uc.GetRoom(ctx, room.ID)
	assert.Equal(t, apperr.CodeNotFound, errCode(t, err))
}

func TestPrefetchPhrases(t *testing.T) {
	uc, _, _ := newTestEngine(t)
	room := setupRoom(t, uc, 2)

	_, err := uc.PrefetchPhrases(context.Background(), room.ID, "wrong", 3)
	assert.Equal(t, apperr.CodeAuthorization, errCode(t, err))

	phrases, err := uc.PrefetchPhrases(context.Background(), room.ID, room.HostToken, 3)
	require.NoError(t, err)
	require.Len(t, phrases, 3)
	for _, p := range phrases {
		assert.NotEmpty(t, p.Phrase)
		assert.Contains(t, emotion.ForMode(room.Config.Mode, room.Config.VoteType), p.EmotionID)
	}
}
