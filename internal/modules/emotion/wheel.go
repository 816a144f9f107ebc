package emotion

import (
	"fmt"

	"github.com/takaki719/emoguchi/pkg/apperr"
)

// Axis is one of the 8 primary directions on Plutchik's wheel.
type Axis string

const (
	AxisJoy          Axis = "joy"
	AxisTrust        Axis = "trust"
	AxisFear         Axis = "fear"
	AxisSurprise     Axis = "surprise"
	AxisSadness      Axis = "sadness"
	AxisDisgust      Axis = "disgust"
	AxisAnger        Axis = "anger"
	AxisAnticipation Axis = "anticipation"
)

// Intensity is the layer within an axis.
type Intensity string

const (
	IntensityWeak   Intensity = "weak"
	IntensityMedium Intensity = "medium"
	IntensityStrong Intensity = "strong"
)

// WheelEmotion is an entry of the 3-layer wheel (8 axes x 3 intensities).
type WheelEmotion struct {
	ID        string    `json:"id"`
	Axis      Axis      `json:"axis"`
	Intensity Intensity `json:"intensity"`
	NameJa    string    `json:"name_ja"`
	NameEn    string    `json:"name_en"`
	Color     string    `json:"color"`
	Angle     float64   `json:"angle"`
	Emoji     string    `json:"emoji"`
}

// axisPositions fixes the wheel layout; distance is computed on these.
var axisPositions = map[Axis]int{
	AxisJoy:          0,
	AxisTrust:        1,
	AxisFear:         2,
	AxisSurprise:     3,
	AxisSadness:      4,
	AxisDisgust:      5,
	AxisAnger:        6,
	AxisAnticipation: 7,
}

var intensityValues = map[Intensity]int{
	IntensityWeak:   0,
	IntensityMedium: 1,
	IntensityStrong: 2,
}

// Wheel holds all 24 wheel emotions keyed by id.
var Wheel = map[string]WheelEmotion{
	"joy_strong": {ID: "joy_strong", Axis: AxisJoy, Intensity: IntensityStrong,
		NameJa: "陶酔", NameEn: "Ecstasy", Color: "#FFD700", Angle: 0, Emoji: "🤩"},
	"joy_medium": {ID: "joy_medium", Axis: AxisJoy, Intensity: IntensityMedium,
		NameJa: "喜び", NameEn: "Joy", Color: "#FFE55C", Angle: 0, Emoji: "😊"},
	"joy_weak": {ID: "joy_weak", Axis: AxisJoy, Intensity: IntensityWeak,
		NameJa: "平穏", NameEn: "Serenity", Color: "#FFF2B8", Angle: 0, Emoji: "😌"},

	"trust_strong": {ID: "trust_strong", Axis: AxisTrust, Intensity: IntensityStrong,
		NameJa: "敬愛", NameEn: "Admiration", Color: "#32CD32", Angle: 45, Emoji: "🤝"},
	"trust_medium": {ID: "trust_medium", Axis: AxisTrust, Intensity: IntensityMedium,
		NameJa: "信頼", NameEn: "Trust", Color: "#90EE90", Angle: 45, Emoji: "😊"},
	"trust_weak": {ID: "trust_weak", Axis: AxisTrust, Intensity: IntensityWeak,
		NameJa: "容認", NameEn: "Acceptance", Color: "#C8F7C5", Angle: 45, Emoji: "🙂"},

	"fear_strong": {ID: "fear_strong", Axis: AxisFear, Intensity: IntensityStrong,
		NameJa: "恐怖", NameEn: "Terror", Color: "#800080", Angle: 90, Emoji: "😱"},
	"fear_medium": {ID: "fear_medium", Axis: AxisFear, Intensity: IntensityMedium,
		NameJa: "恐れ", NameEn: "Fear", Color: "#9370DB", Angle: 90, Emoji: "😰"},
	"fear_weak": {ID: "fear_weak", Axis: AxisFear, Intensity: IntensityWeak,
		NameJa: "不安", NameEn: "Apprehension", Color: "#C8A2C8", Angle: 90, Emoji: "😟"},

	"surprise_strong": {ID: "surprise_strong", Axis: AxisSurprise, Intensity: IntensityStrong,
		NameJa: "驚嘆", NameEn: "Amazement", Color: "#1E90FF", Angle: 135, Emoji: "😱"},
	"surprise_medium": {ID: "surprise_medium", Axis: AxisSurprise, Intensity: IntensityMedium,
		NameJa: "驚き", NameEn: "Surprise", Color: "#87CEEB", Angle: 135, Emoji: "😲"},
	"surprise_weak": {ID: "surprise_weak", Axis: AxisSurprise, Intensity: IntensityWeak,
		NameJa: "放心", NameEn: "Distraction", Color: "#B6E2FF", Angle: 135, Emoji: "😐"},

	"sadness_strong": {ID: "sadness_strong", Axis: AxisSadness, Intensity: IntensityStrong,
		NameJa: "悲嘆", NameEn: "Grief", Color: "#000080", Angle: 180, Emoji: "😭"},
	"sadness_medium": {ID: "sadness_medium", Axis: AxisSadness, Intensity: IntensityMedium,
		NameJa: "悲しみ", NameEn: "Sadness", Color: "#4169E1", Angle: 180, Emoji: "😢"},
	"sadness_weak": {ID: "sadness_weak", Axis: AxisSadness, Intensity: IntensityWeak,
		NameJa: "哀愁", NameEn: "Pensiveness", Color: "#87CEEB", Angle: 180, Emoji: "😔"},

	"disgust_strong": {ID: "disgust_strong", Axis: AxisDisgust, Intensity: IntensityStrong,
		NameJa: "強い嫌悪", NameEn: "Loathing", Color: "#654321", Angle: 225, Emoji: "🤮"},
	"disgust_medium": {ID: "disgust_medium", Axis: AxisDisgust, Intensity: IntensityMedium,
		NameJa: "嫌悪", NameEn: "Disgust", Color: "#8B4513", Angle: 225, Emoji: "🤢"},
	"disgust_weak": {ID: "disgust_weak", Axis: AxisDisgust, Intensity: IntensityWeak,
		NameJa: "うんざり", NameEn: "Boredom", Color: "#D2B48C", Angle: 225, Emoji: "😒"},

	"anger_strong": {ID: "anger_strong", Axis: AxisAnger, Intensity: IntensityStrong,
		NameJa: "激怒", NameEn: "Rage", Color: "#DC143C", Angle: 270, Emoji: "😡"},
	"anger_medium": {ID: "anger_medium", Axis: AxisAnger, Intensity: IntensityMedium,
		NameJa: "怒り", NameEn: "Anger", Color: "#FF4500", Angle: 270, Emoji: "😠"},
	"anger_weak": {ID: "anger_weak", Axis: AxisAnger, Intensity: IntensityWeak,
		NameJa: "苛立ち", NameEn: "Annoyance", Color: "#FF8C69", Angle: 270, Emoji: "😤"},

	"anticipation_strong": {ID: "anticipation_strong", Axis: AxisAnticipation, Intensity: IntensityStrong,
		NameJa: "攻撃", NameEn: "Vigilance", Color: "#FF8C00", Angle: 315, Emoji: "👁️"},
	"anticipation_medium": {ID: "anticipation_medium", Axis: AxisAnticipation, Intensity: IntensityMedium,
		NameJa: "期待", NameEn: "Anticipation", Color: "#FFA500", Angle: 315, Emoji: "🤔"},
	"anticipation_weak": {ID: "anticipation_weak", Axis: AxisAnticipation, Intensity: IntensityWeak,
		NameJa: "関心", NameEn: "Interest", Color: "#FFCC99", Angle: 315, Emoji: "🧐"},
}

// WheelByID looks up a wheel emotion.
func WheelByID(id string) (WheelEmotion, error) {
	w, ok := Wheel[id]
	if !ok {
		return WheelEmotion{}, apperr.NotFound(fmt.Sprintf("wheel emotion %s not found", id))
	}
	return w, nil
}

// BaseAxis maps a wheel emotion id to its primary axis id. Unknown ids
// pass through unchanged so 4/8-choice ids keep working.
func BaseAxis(id string) string {
	if w, ok := Wheel[id]; ok {
		return string(w.Axis)
	}
	return id
}

// AxisDistance is the circular distance between two axes, 0-4.
func AxisDistance(a, b Axis) int {
	pa := axisPositions[a]
	pb := axisPositions[b]
	d := pa - pb
	if d < 0 {
		d = -d
	}
	if 8-d < d {
		d = 8 - d
	}
	return d
}

// IntensityDistance is the linear distance between two intensities, 0-2.
func IntensityDistance(a, b Intensity) int {
	d := intensityValues[a] - intensityValues[b]
	if d < 0 {
		d = -d
	}
	return d
}
