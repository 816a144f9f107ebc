package domain

import "context"

// GeneratedPhrase pairs a phrase with the emotion it should be acted
// with.
type GeneratedPhrase struct {
	Phrase    string `json:"phrase"`
	EmotionID string `json:"emotion_id"`
}

// PhraseGenerator produces phrases for rounds. Implementations never
// fail: on any upstream problem they fall back to a built-in pool.
type PhraseGenerator interface {
	Generate(ctx context.Context, mode, voteType string) GeneratedPhrase
	GenerateBatch(ctx context.Context, n int, mode, voteType string) []GeneratedPhrase
}

// VoiceTransformer applies a pitch/tempo disguise to audio. It is
// side-effect free; callers fall back to the original bytes on error.
type VoiceTransformer interface {
	Process(ctx context.Context, audio []byte, pitchSemitones, tempoMultiplier float64) ([]byte, error)
}

// ClassifyResult is the emotion classifier verdict on an audio clip.
type ClassifyResult struct {
	Emotion        string  `json:"emotion"`
	PredictedClass string  `json:"predicted_class"`
	TargetClass    string  `json:"target_class"`
	Score          int     `json:"score"` // 0-100
	Confidence     float64 `json:"confidence"`
	IsCorrect      bool    `json:"is_correct"`
}

// AudioClassifier grades an audio clip against a target emotion class.
type AudioClassifier interface {
	Classify(ctx context.Context, audioPath, targetClass string) (ClassifyResult, error)
}

// BlobStorage persists audio blobs and resolves them back to local
// paths for processing.
type BlobStorage interface {
	Save(ctx context.Context, audio []byte, roomID, roundID string) (url string, err error)
	ResolveLocalPath(ctx context.Context, url string) (string, error)
	Delete(ctx context.Context, url string) error
}

// EventSink delivers game events to connected clients. The websocket
// gateway implements it; tests use an in-memory recorder.
type EventSink interface {
	BroadcastToRoom(roomID, event string, payload interface{})
	BroadcastToRoomExcept(roomID, exceptPlayerID, event string, payload interface{})
	SendToPlayer(roomID, playerID, event string, payload interface{})
}
