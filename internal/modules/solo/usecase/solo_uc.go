package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/takaki719/emoguchi/internal/modules/emotion"
	"github.com/takaki719/emoguchi/internal/modules/game/domain"
	"github.com/takaki719/emoguchi/pkg/apperr"
	"github.com/takaki719/emoguchi/pkg/logger"
)

const (
	correctBonus = 50
	maxScore     = 100
)

// SoloUseCase runs single-player practice: act a phrase, get graded by
// the classifier instead of other players.
type SoloUseCase struct {
	store      domain.StateStore
	phrases    domain.PhraseGenerator
	blobs      domain.BlobStorage
	classifier domain.AudioClassifier
}

func NewSoloUseCase(
	store domain.StateStore,
	phrases domain.PhraseGenerator,
	blobs domain.BlobStorage,
	classifier domain.AudioClassifier,
) *SoloUseCase {
	return &SoloUseCase{
		store:      store,
		phrases:    phrases,
		blobs:      blobs,
		classifier: classifier,
	}
}

// Dialogue is one practice assignment.
type Dialogue struct {
	Phrase        string `json:"phrase"`
	TargetEmotion string `json:"target_emotion"`
	TargetName    string `json:"target_name"`
}

// GetDialogue picks a 4-class target emotion and a phrase to act it
// with.
func (uc *SoloUseCase) GetDialogue(ctx context.Context) Dialogue {
	p := uc.phrases.Generate(ctx, emotion.ModeBasic, emotion.VoteType4Choice)
	name := ""
	if info, ok := emotion.Basic[p.EmotionID]; ok {
		name = info.NameJa
	}
	return Dialogue{
		Phrase:        p.Phrase,
		TargetEmotion: p.EmotionID,
		TargetName:    name,
	}
}

// PredictResult is the graded outcome of one attempt.
type PredictResult struct {
	PredictedClass string  `json:"predicted_class"`
	TargetClass    string  `json:"target_class"`
	IsCorrect      bool    `json:"is_correct"`
	Confidence     float64 `json:"confidence"`
	BaseScore      int     `json:"base_score"`
	BonusScore     int     `json:"bonus_score"`
	FinalScore     int     `json:"final_score"`
}

// Predict grades an attempt: classifier score plus a bonus for hitting
// the target class, capped at 100. The attempt is persisted either way.
func (uc *SoloUseCase) Predict(ctx context.Context, deviceID, phrase, targetEmotion string, audio []byte) (*PredictResult, error) {
	if deviceID == "" {
		return nil, apperr.Validation("device_id is required")
	}
	if len(audio) == 0 {
		return nil, apperr.Validation("audio is empty")
	}
	if _, ok := emotion.Basic[targetEmotion]; !ok {
		return nil, apperr.Validation("unknown target emotion " + targetEmotion)
	}

	url, err := uc.blobs.Save(ctx, audio, "solo", deviceID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to store audio")
	}
	path, err := uc.blobs.ResolveLocalPath(ctx, url)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to resolve audio")
	}

	verdict, err := uc.classifier.Classify(ctx, path, targetEmotion)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "classification failed")
	}

	bonus := 0
	if verdict.IsCorrect {
		bonus = correctBonus
	}
	final := verdict.Score + bonus
	if final > maxScore {
		final = maxScore
	}

	result := &domain.SoloResult{
		ID:             uuid.NewString(),
		DeviceID:       deviceID,
		Phrase:         phrase,
		TargetEmotion:  targetEmotion,
		PredictedClass: verdict.PredictedClass,
		Score:          final,
		IsCorrect:      verdict.IsCorrect,
		CreatedAt:      time.Now().UTC(),
	}
	if err := uc.store.SaveSoloResult(ctx, result); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to save result")
	}
	if err := uc.store.SaveScore(ctx, &domain.ScoreEntry{
		ID:        uuid.NewString(),
		PlayerID:  deviceID,
		Points:    final,
		Role:      domain.RoleSolo,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		logger.Error(ctx).Err(err).Str("device_id", deviceID).Msg("failed to record solo score")
	}

	return &PredictResult{
		PredictedClass: verdict.PredictedClass,
		TargetClass:    targetEmotion,
		IsCorrect:      verdict.IsCorrect,
		Confidence:     verdict.Confidence,
		BaseScore:      verdict.Score,
		BonusScore:     bonus,
		FinalScore:     final,
	}, nil
}

// Stats summarizes a device's attempts.
type Stats struct {
	TotalAttempts int     `json:"total_attempts"`
	CorrectCount  int     `json:"correct_count"`
	Accuracy      float64 `json:"accuracy"`
	AverageScore  float64 `json:"average_score"`
	BestScore     int     `json:"best_score"`
}

func (uc *SoloUseCase) GetStats(ctx context.Context, deviceID string) (*Stats, error) {
	results, err := uc.store.ListSoloResults(ctx, deviceID, 0)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to load results")
	}

	stats := &Stats{TotalAttempts: len(results)}
	if len(results) == 0 {
		return stats, nil
	}

	total := 0
	for _, r := range results {
		total += r.Score
		if r.IsCorrect {
			stats.CorrectCount++
		}
		if r.Score > stats.BestScore {
			stats.BestScore = r.Score
		}
	}
	stats.Accuracy = float64(stats.CorrectCount) / float64(len(results))
	stats.AverageScore = float64(total) / float64(len(results))
	return stats, nil
}

func (uc *SoloUseCase) GetHistory(ctx context.Context, deviceID string, limit int) ([]*domain.SoloResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	results, err := uc.store.ListSoloResults(ctx, deviceID, limit)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "failed to load history")
	}
	return results, nil
}
