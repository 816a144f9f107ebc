package emotion

import (
	"fmt"
	"math/rand"

	"github.com/takaki719/emoguchi/pkg/apperr"
)

// Info describes a selectable emotion. Compound emotions list the two
// primary axes they blend.
type Info struct {
	ID         string   `json:"id"`
	NameJa     string   `json:"name_ja"`
	NameEn     string   `json:"name_en"`
	Components []string `json:"components,omitempty"`
}

// Game modes and vote types.
const (
	ModeBasic    = "basic"
	ModeAdvanced = "advanced"
	ModeWheel    = "wheel"

	VoteType4Choice = "4choice"
	VoteType8Choice = "8choice"
	VoteTypeWheel   = "wheel"
)

// Basic holds the 8 Plutchik primary emotions, keyed by id.
var Basic = map[string]Info{
	"joy":          {ID: "joy", NameJa: "喜び", NameEn: "Joy"},
	"anticipation": {ID: "anticipation", NameJa: "期待", NameEn: "Anticipation"},
	"anger":        {ID: "anger", NameJa: "怒り", NameEn: "Anger"},
	"disgust":      {ID: "disgust", NameJa: "嫌悪", NameEn: "Disgust"},
	"sadness":      {ID: "sadness", NameJa: "悲しみ", NameEn: "Sadness"},
	"surprise":     {ID: "surprise", NameJa: "驚き", NameEn: "Surprise"},
	"fear":         {ID: "fear", NameJa: "恐れ", NameEn: "Fear"},
	"trust":        {ID: "trust", NameJa: "信頼", NameEn: "Trust"},
}

// fourChoiceIDs is the reduced universe used by 4-choice voting.
var fourChoiceIDs = []string{"joy", "anger", "sadness", "surprise"}

// Advanced holds Plutchik's 24 dyads (blends of two primaries).
var Advanced = map[string]Info{
	"optimism":       {ID: "optimism", NameJa: "楽観", NameEn: "Optimism", Components: []string{"anticipation", "joy"}},
	"love":           {ID: "love", NameJa: "愛", NameEn: "Love", Components: []string{"joy", "trust"}},
	"pride":          {ID: "pride", NameJa: "プライド", NameEn: "Pride", Components: []string{"anger", "joy"}},
	"aggressiveness": {ID: "aggressiveness", NameJa: "攻撃性", NameEn: "Aggressiveness", Components: []string{"anger", "anticipation"}},
	"contempt":       {ID: "contempt", NameJa: "軽蔑", NameEn: "Contempt", Components: []string{"disgust", "anger"}},
	"remorse":        {ID: "remorse", NameJa: "後悔", NameEn: "Remorse", Components: []string{"sadness", "disgust"}},
	"disappointment": {ID: "disappointment", NameJa: "失望", NameEn: "Disappointment", Components: []string{"surprise", "sadness"}},
	"awe":            {ID: "awe", NameJa: "畏敬", NameEn: "Awe", Components: []string{"fear", "surprise"}},
	"delight":        {ID: "delight", NameJa: "喜悦", NameEn: "Delight", Components: []string{"joy", "surprise"}},
	"submission":     {ID: "submission", NameJa: "服従", NameEn: "Submission", Components: []string{"trust", "fear"}},
	"guilt":          {ID: "guilt", NameJa: "罪悪感", NameEn: "Guilt", Components: []string{"joy", "fear"}},
	"hope":           {ID: "hope", NameJa: "希望", NameEn: "Hope", Components: []string{"anticipation", "trust"}},
	"anxiety":        {ID: "anxiety", NameJa: "不安", NameEn: "Anxiety", Components: []string{"anticipation", "fear"}},
	"cynicism":       {ID: "cynicism", NameJa: "皮肉", NameEn: "Cynicism", Components: []string{"disgust", "anticipation"}},
	"pessimism":      {ID: "pessimism", NameJa: "悲観", NameEn: "Pessimism", Components: []string{"sadness", "anticipation"}},
	"envy":           {ID: "envy", NameJa: "嫉妬", NameEn: "Envy", Components: []string{"sadness", "anger"}},
	"outrage":        {ID: "outrage", NameJa: "憤慨", NameEn: "Outrage", Components: []string{"surprise", "anger"}},
	"unbelief":       {ID: "unbelief", NameJa: "不信", NameEn: "Unbelief", Components: []string{"surprise", "disgust"}},
	"shame":          {ID: "shame", NameJa: "恥", NameEn: "Shame", Components: []string{"fear", "disgust"}},
	"despair":        {ID: "despair", NameJa: "絶望", NameEn: "Despair", Components: []string{"fear", "sadness"}},
	"sentimentality": {ID: "sentimentality", NameJa: "感傷", NameEn: "Sentimentality", Components: []string{"trust", "sadness"}},
	"curiosity":      {ID: "curiosity", NameJa: "好奇心", NameEn: "Curiosity", Components: []string{"trust", "surprise"}},
	"dominance":      {ID: "dominance", NameJa: "支配", NameEn: "Dominance", Components: []string{"anger", "trust"}},
	"morbidness":     {ID: "morbidness", NameJa: "病的", NameEn: "Morbidness", Components: []string{"disgust", "joy"}},
}

// ForMode returns the emotion universe a round draws from. The vote type
// takes precedence over the mode so a room can run advanced phrases with
// a simpler voting universe.
func ForMode(mode, voteType string) map[string]Info {
	if mode == ModeWheel || voteType == VoteTypeWheel {
		return wheelAsInfo()
	}

	switch voteType {
	case VoteType4Choice:
		return fourChoice()
	case VoteType8Choice:
		return Basic
	}

	if mode == ModeAdvanced {
		return Basic
	}
	return fourChoice()
}

func fourChoice() map[string]Info {
	out := make(map[string]Info, len(fourChoiceIDs))
	for _, id := range fourChoiceIDs {
		out[id] = Basic[id]
	}
	return out
}

func wheelAsInfo() map[string]Info {
	out := make(map[string]Info, len(Wheel))
	for id, w := range Wheel {
		out[id] = Info{ID: w.ID, NameJa: w.NameJa, NameEn: w.NameEn}
	}
	return out
}

// RandomID picks a random emotion id from the universe of the given
// mode and vote type.
func RandomID(mode, voteType string) string {
	universe := ForMode(mode, voteType)
	ids := make([]string, 0, len(universe))
	for id := range universe {
		ids = append(ids, id)
	}
	// Map iteration is already unordered but not uniformly random.
	return ids[rand.Intn(len(ids))]
}

// ChoicesForVoting builds the shuffled choice list shown to voters: the
// correct emotion plus choiceCount-1 random others. Wheel voting has no
// choice list, the client renders the full wheel.
func ChoicesForVoting(mode, voteType, correctID string, choiceCount int) ([]Info, error) {
	if mode == ModeWheel || voteType == VoteTypeWheel {
		return []Info{}, nil
	}

	universe := ForMode(mode, voteType)

	if choiceCount <= 0 {
		switch voteType {
		case VoteType8Choice:
			choiceCount = 8
		case VoteType4Choice:
			choiceCount = 4
		default:
			if mode == ModeAdvanced {
				choiceCount = 8
			} else {
				choiceCount = 4
			}
		}
	}

	correct, ok := universe[correctID]
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("emotion %s not found in %s/%s universe", correctID, mode, voteType))
	}

	others := make([]Info, 0, len(universe)-1)
	for id, info := range universe {
		if id != correctID {
			others = append(others, info)
		}
	}
	rand.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})

	n := choiceCount - 1
	if n > len(others) {
		n = len(others)
	}

	choices := append([]Info{correct}, others[:n]...)
	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	return choices, nil
}
