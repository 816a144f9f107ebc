package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takaki719/emoguchi/internal/modules/game/domain"
)

func TestStateStore_RoomLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore()

	room := &domain.Room{
		ID:        "testroom",
		Players:   map[string]*domain.Player{},
		Config:    domain.DefaultRoomConfig(),
		Phase:     domain.PhaseWaiting,
		HostToken: "token",
		CreatedAt: time.Now().UTC(),
	}

	require.NoError(t, store.CreateRoom(ctx, room))

	got, err := store.GetRoom(ctx, "testroom")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "testroom", got.ID)

	// Missing rooms are (nil, nil), not an error.
	missing, err := store.GetRoom(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.DeleteRoom(ctx, "testroom"))
	gone, err := store.GetRoom(ctx, "testroom")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestStateStore_CopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore()

	room := &domain.Room{
		ID: "testroom",
		Players: map[string]*domain.Player{
			"p1": {ID: "p1", Name: "alice", IsConnected: true},
		},
		Config: domain.DefaultRoomConfig(),
		Phase:  domain.PhaseWaiting,
	}
	require.NoError(t, store.CreateRoom(ctx, room))

	// Mutating the original after save must not leak into the store.
	room.Players["p1"].Score = 42
	got, err := store.GetRoom(ctx, "testroom")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Players["p1"].Score)

	// Mutating a read copy must not leak either.
	got.Players["p1"].Name = "mallory"
	again, err := store.GetRoom(ctx, "testroom")
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Players["p1"].Name)
}

func TestStateStore_Recordings(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore()

	rec := &domain.Recording{ID: "rec1", RoomID: "r", RoundID: "rd", AudioURL: "file://x.wav"}
	require.NoError(t, store.SaveRecording(ctx, rec))

	got, err := store.GetRecording(ctx, "rec1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "file://x.wav", got.AudioURL)

	require.NoError(t, store.DeleteRecording(ctx, "rec1"))
	gone, err := store.GetRecording(ctx, "rec1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestStateStore_ScoresAndSolo(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore()

	require.NoError(t, store.SaveScore(ctx, &domain.ScoreEntry{ID: "s1", PlayerID: "p1", Points: 1, Role: domain.RoleListener}))
	require.NoError(t, store.SaveScore(ctx, &domain.ScoreEntry{ID: "s2", PlayerID: "p2", Points: 2, Role: domain.RoleSpeaker}))
	assert.Len(t, store.ScoreEntries(), 2)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveSoloResult(ctx, &domain.SoloResult{ID: string(rune('a' + i)), DeviceID: "dev1", Score: 50 + i}))
	}
	results, err := store.ListSoloResults(ctx, "dev1", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	// Limit keeps the newest entries.
	assert.Equal(t, 51, results[0].Score)
	assert.Equal(t, 52, results[1].Score)
}
