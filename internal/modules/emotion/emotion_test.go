package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takaki719/emoguchi/pkg/apperr"
)

func TestForMode(t *testing.T) {
	assert.Len(t, ForMode(ModeBasic, VoteType4Choice), 4)
	assert.Len(t, ForMode(ModeBasic, VoteType8Choice), 8)
	assert.Len(t, ForMode(ModeAdvanced, ""), 8)
	assert.Len(t, ForMode(ModeWheel, VoteTypeWheel), 24)

	// Vote type wins over mode.
	assert.Len(t, ForMode(ModeAdvanced, VoteType4Choice), 4)

	four := ForMode(ModeBasic, VoteType4Choice)
	for _, id := range []string{"joy", "anger", "sadness", "surprise"} {
		assert.Contains(t, four, id)
	}
}

func TestChoicesForVoting_ContainsCorrectAndDistinct(t *testing.T) {
	choices, err := ChoicesForVoting(ModeBasic, VoteType4Choice, "joy", 0)
	require.NoError(t, err)
	require.Len(t, choices, 4)

	seen := map[string]bool{}
	hasCorrect := false
	for _, c := range choices {
		assert.False(t, seen[c.ID], "duplicate choice %s", c.ID)
		seen[c.ID] = true
		if c.ID == "joy" {
			hasCorrect = true
		}
	}
	assert.True(t, hasCorrect)
}

func TestChoicesForVoting_EightChoice(t *testing.T) {
	choices, err := ChoicesForVoting(ModeAdvanced, VoteType8Choice, "trust", 0)
	require.NoError(t, err)
	assert.Len(t, choices, 8)
}

func TestChoicesForVoting_WheelIsEmpty(t *testing.T) {
	choices, err := ChoicesForVoting(ModeWheel, VoteTypeWheel, "joy_medium", 0)
	require.NoError(t, err)
	assert.Empty(t, choices)
}

func TestChoicesForVoting_UnknownCorrect(t *testing.T) {
	_, err := ChoicesForVoting(ModeBasic, VoteType4Choice, "trust", 0)
	require.Error(t, err)

	appErr := apperr.From(err)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)
}

func TestRandomID_InUniverse(t *testing.T) {
	universe := ForMode(ModeBasic, VoteType4Choice)
	for i := 0; i < 50; i++ {
		id := RandomID(ModeBasic, VoteType4Choice)
		assert.Contains(t, universe, id)
	}
}

func TestBaseAxis(t *testing.T) {
	assert.Equal(t, "joy", BaseAxis("joy_strong"))
	assert.Equal(t, "anticipation", BaseAxis("anticipation_weak"))
	// Non-wheel ids pass through.
	assert.Equal(t, "anger", BaseAxis("anger"))
}
