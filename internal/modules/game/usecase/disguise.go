package usecase

import (
	"math/rand"

	"github.com/takaki719/emoguchi/internal/modules/emotion"
)

// Disguise is a pitch/tempo transform applied to hard-mode audio.
type Disguise struct {
	Pattern string
	// Pitch shift in semitones, -12 to +12.
	Pitch float64
	// Tempo multiplier, 0.5 to 2.0.
	Tempo float64
}

// Fixed disguise presets.
const (
	DisguiseFastHigh       = "fast_high"
	DisguiseSlowLow        = "slow_low"
	DisguisePitchUp        = "pitch_up"
	DisguiseTempoUp        = "tempo_up"
	DisguiseEmotionReverse = "emotion_reverse"
)

var disguisePresets = []Disguise{
	{Pattern: DisguiseFastHigh, Pitch: 6.0, Tempo: 2.0},
	{Pattern: DisguiseSlowLow, Pitch: -3.0, Tempo: 0.8},
	{Pattern: DisguisePitchUp, Pitch: 3.0, Tempo: 1.0},
	{Pattern: DisguiseTempoUp, Pitch: 0.0, Tempo: 1.5},
}

// emotionReversal nudges the delivery toward the opposite axis on the
// wheel, keyed by primary axis.
var emotionReversal = map[string]Disguise{
	"joy":          {Pattern: DisguiseEmotionReverse, Pitch: -3.0, Tempo: 0.8},  // toward sadness
	"anger":        {Pattern: DisguiseEmotionReverse, Pitch: -2.0, Tempo: 0.85}, // toward fear
	"trust":        {Pattern: DisguiseEmotionReverse, Pitch: -1.5, Tempo: 0.9},  // toward disgust
	"anticipation": {Pattern: DisguiseEmotionReverse, Pitch: 2.0, Tempo: 1.4},   // toward surprise
	"fear":         {Pattern: DisguiseEmotionReverse, Pitch: 2.0, Tempo: 1.6},   // toward anger
	"sadness":      {Pattern: DisguiseEmotionReverse, Pitch: 3.0, Tempo: 1.4},   // toward joy
	"disgust":      {Pattern: DisguiseEmotionReverse, Pitch: 2.0, Tempo: 1.2},   // toward trust
	"surprise":     {Pattern: DisguiseEmotionReverse, Pitch: -1.0, Tempo: 0.9},  // toward anticipation
}

// selectDisguise picks uniformly among the four presets and the
// emotion-reversal transform (20% each). Wheel emotion ids reverse by
// their primary axis.
func selectDisguise(emotionID string) Disguise {
	n := rand.Intn(len(disguisePresets) + 1)
	if n < len(disguisePresets) {
		return disguisePresets[n]
	}
	return reversalFor(emotionID)
}

func reversalFor(emotionID string) Disguise {
	if d, ok := emotionReversal[emotion.BaseAxis(emotionID)]; ok {
		return d
	}
	// Compound emotions have no single opposite; fall back to the first
	// preset like an unknown emotion would.
	return disguisePresets[0]
}
