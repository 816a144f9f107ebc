package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom() *Room {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	return &Room{
		ID: "あかいねこ123",
		Players: map[string]*Player{
			"p1": {ID: "p1", Name: "alice", IsHost: true, IsConnected: true, JoinedAt: base},
			"p2": {ID: "p2", Name: "bob", IsConnected: true, JoinedAt: base.Add(time.Second)},
			"p3": {ID: "p3", Name: "carol", IsConnected: true, JoinedAt: base.Add(2 * time.Second)},
		},
		Config:    DefaultRoomConfig(),
		Phase:     PhaseWaiting,
		HostToken: "token",
		CreatedAt: base,
	}
}

func TestValidRoomID(t *testing.T) {
	assert.True(t, ValidRoomID("abc"))
	assert.True(t, ValidRoomID("room123"))
	assert.True(t, ValidRoomID("あかいねこ123"))
	assert.True(t, ValidRoomID("カタカナ部屋"))
	assert.True(t, ValidRoomID("漢字の部屋"))

	assert.False(t, ValidRoomID("ab"))                      // too short
	assert.False(t, ValidRoomID("aaaaaaaaaaaaaaaaaaaaa"))  // 21 chars
	assert.False(t, ValidRoomID("room with space"))
	assert.False(t, ValidRoomID("room-123"))
	assert.False(t, ValidRoomID(""))
}

func TestGenerateRoomID_IsValid(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.True(t, ValidRoomID(GenerateRoomID()))
	}
}

func TestRoomConfigValidate(t *testing.T) {
	cfg := DefaultRoomConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Mode = "extreme"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.VoteTimeout = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.MaxRounds = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.SpeakerOrder = "alphabetical"
	assert.Error(t, bad.Validate())
}

func TestSpeakerOrder_SequentialFollowsJoinOrder(t *testing.T) {
	room := newTestRoom()
	assert.Equal(t, []string{"p1", "p2", "p3"}, room.SpeakerOrder())
}

func TestSpeakerOrder_CacheInvalidatedOnDisconnect(t *testing.T) {
	room := newTestRoom()
	first := room.SpeakerOrder()
	require.Len(t, first, 3)

	room.Players["p2"].IsConnected = false
	second := room.SpeakerOrder()
	assert.Equal(t, []string{"p1", "p3"}, second)
}

func TestSpeakerOrder_RandomContainsAllConnected(t *testing.T) {
	room := newTestRoom()
	room.Config.SpeakerOrder = SpeakerOrderRandom

	order := room.SpeakerOrder()
	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, order)

	// Cache is stable until reset or membership change.
	assert.Equal(t, order, room.SpeakerOrder())

	room.ResetSpeakerOrder()
	again := room.SpeakerOrder()
	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, again)
}

func TestCurrentSpeaker_WrapsAround(t *testing.T) {
	room := newTestRoom()
	room.CurrentSpeakerIndex = 4 // 4 % 3 == 1

	speaker := room.CurrentSpeaker()
	require.NotNil(t, speaker)
	assert.Equal(t, "p2", speaker.ID)
}

func TestRoundIsEligibleVoter(t *testing.T) {
	round := &Round{EligibleVoters: []string{"p2", "p3"}}
	assert.True(t, round.IsEligibleVoter("p2"))
	assert.False(t, round.IsEligibleVoter("p1"))
}

func TestRoomClone_Independent(t *testing.T) {
	room := newTestRoom()
	now := time.Now().UTC()
	room.CurrentRound = &Round{
		ID:             "r1",
		Votes:          map[string]string{"p2": "joy"},
		EligibleVoters: []string{"p2", "p3"},
		StartedAt:      now,
	}
	room.Phase = PhaseInRound

	clone := room.Clone()

	clone.Players["p1"].Score = 99
	clone.CurrentRound.Votes["p3"] = "anger"
	clone.CurrentRound.EligibleVoters[0] = "zzz"

	assert.Equal(t, 0, room.Players["p1"].Score)
	assert.NotContains(t, room.CurrentRound.Votes, "p3")
	assert.Equal(t, "p2", room.CurrentRound.EligibleVoters[0])
}
