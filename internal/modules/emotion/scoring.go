package emotion

// Axis relationship and intensity match classifications used by wheel
// scoring.
const (
	RelationExact    = "exact"
	RelationSameAxis = "same_axis"
	RelationAdjacent = "adjacent_axis"
	RelationDistant  = "distant_axis"
	RelationOpposite = "opposite_axis"

	MatchExact = "exact"
	MatchClose = "close"
	MatchFar   = "far"
)

// WheelScore carries the detailed result of a wheel-mode guess.
type WheelScore struct {
	Score             int     `json:"score"`
	AxisDistance      int     `json:"axis_distance"`
	IntensityDistance int     `json:"intensity_distance"`
	TotalDistance     float64 `json:"total_distance"`
	Relationship      string  `json:"relationship"`
	IntensityMatch    string  `json:"intensity_match"`
	MaxScore          int     `json:"max_score"`
}

// scoreTable maps (relationship, intensity match) to percent of max.
// Same axis with exact intensity is the exact-match case above it.
var scoreTable = map[string]map[string]int{
	RelationSameAxis: {MatchClose: 85, MatchFar: 70},
	RelationAdjacent: {MatchExact: 60, MatchClose: 45, MatchFar: 30},
	RelationDistant:  {MatchExact: 25, MatchClose: 15, MatchFar: 5},
	RelationOpposite: {MatchExact: 10, MatchClose: 5, MatchFar: 0},
}

// ScoreWheelGuess grades a wheel-mode guess against the correct emotion.
// Closer axes and intensities earn partial credit.
func ScoreWheelGuess(correctID, guessedID string, maxScore int) (WheelScore, error) {
	correct, err := WheelByID(correctID)
	if err != nil {
		return WheelScore{}, err
	}
	guessed, err := WheelByID(guessedID)
	if err != nil {
		return WheelScore{}, err
	}

	if correctID == guessedID {
		return WheelScore{
			Score:          maxScore,
			Relationship:   RelationExact,
			IntensityMatch: MatchExact,
			MaxScore:       maxScore,
		}, nil
	}

	axisDist := AxisDistance(correct.Axis, guessed.Axis)
	intensityDist := IntensityDistance(correct.Intensity, guessed.Intensity)

	relationship := RelationDistant
	switch {
	case axisDist == 0:
		relationship = RelationSameAxis
	case axisDist == 1:
		relationship = RelationAdjacent
	case axisDist == 4:
		relationship = RelationOpposite
	}

	match := MatchFar
	switch intensityDist {
	case 0:
		match = MatchExact
	case 1:
		match = MatchClose
	}

	return WheelScore{
		Score:             maxScore * scoreTable[relationship][match] / 100,
		AxisDistance:      axisDist,
		IntensityDistance: intensityDist,
		TotalDistance:     float64(axisDist) + float64(intensityDist)*0.5,
		Relationship:      relationship,
		IntensityMatch:    match,
		MaxScore:          maxScore,
	}, nil
}

// SpeakerWheelBonus totals partial credit over all listener votes, base
// points per listener. Invalid votes are skipped.
func SpeakerWheelBonus(correctID string, votes map[string]string, basePoints int) int {
	total := 0
	for _, guess := range votes {
		result, err := ScoreWheelGuess(correctID, guess, basePoints)
		if err != nil {
			continue
		}
		total += result.Score
	}
	return total
}
