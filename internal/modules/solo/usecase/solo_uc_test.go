package usecase

import (
	"context"
	"errors"
	"testing"

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

type stubBlobs struct{}

func (stubBlobs) Save(ctx context.Context, audio []byte, roomID, roundID string) (string, error) {
	return "mem://" + roomID + "/" + roundID, nil
}

func (stubBlobs) ResolveLocalPath(ctx context.Context, url string) (string, error) {
	return "/tmp/fake.wav", nil
}

func (stubBlobs) Delete(ctx context.Context, url string) error { return nil }

type stubClassifier struct {
	result domain.ClassifyResult
	err    error
}

func (s stubClassifier) Classify(ctx context.Context, audioPath, targetClass string) (domain.ClassifyResult, error) {
	return s.result, s.err
}

func newSoloUC(c stubClassifier) (*SoloUseCase, *memory.StateStore) {
	store := memory.NewStateStore()
	return NewSoloUseCase(store, stubPhrases{}, stubBlobs{}, c), store
}

func TestGetDialogue(t *testing.T) {
	uc, _ := newSoloUC(stubClassifier{})

	d := uc.GetDialogue(context.Background())
	assert.Equal(t, "やばい！", d.Phrase)
	assert.Equal(t, "joy", d.TargetEmotion)
	assert.Equal(t, emotion.Basic["joy"].NameJa, d.TargetName)
}

func TestPredict_CorrectGetsBonusCapped(t *testing.T) {
	uc, store := newSoloUC(stubClassifier{result: domain.ClassifyResult{
		PredictedClass: "joy",
		Score:          80,
		Confidence:     0.9,
		IsCorrect:      true,
	}})

	result, err := uc.Predict(context.Background(), "dev1", "やばい！", "joy", []byte("wav"))
	require.NoError(t, err)

	assert.True(t, result.IsCorrect)
	assert.Equal(t, 80, result.BaseScore)
	assert.Equal(t, 50, result.BonusScore)
	// 80 + 50 caps at 100.
	assert.Equal(t, 100, result.FinalScore)

	saved, err := store.ListSoloResults(context.Background(), "dev1", 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, 100, saved[0].Score)
	assert.True(t, saved[0].IsCorrect)

	entries := store.ScoreEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.RoleSolo, entries[0].Role)
	assert.Equal(t, 100, entries[0].Points)
}

func TestPredict_WrongClassNoBonus(t *testing.T) {
	uc, _ := newSoloUC(stubClassifier{result: domain.ClassifyResult{
		PredictedClass: "anger",
		Score:          40,
		IsCorrect:      false,
	}})

	result, err := uc.Predict(context.Background(), "dev1", "やばい！", "joy", []byte("wav"))
	require.NoError(t, err)

	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.BonusScore)
	assert.Equal(t, 40, result.FinalScore)
}

func TestPredict_Validation(t *testing.T) {
	uc, _ := newSoloUC(stubClassifier{})
	ctx := context.Background()

	_, err := uc.Predict(ctx, "", "x", "joy", []byte("wav"))
	assert.Equal(t, apperr.CodeValidation, apperr.From(err).Code)

	_, err = uc.Predict(ctx, "dev1", "x", "joy", nil)
	assert.Equal(t, apperr.CodeValidation, apperr.From(err).Code)

	_, err = uc.Predict(ctx, "dev1", "x", "nonsense", []byte("wav"))
	assert.Equal(t, apperr.CodeValidation, apperr.From(err).Code)
}

func TestPredict_ClassifierFailure(t *testing.T) {
	uc, store := newSoloUC(stubClassifier{err: errors.New("model offline")})

	_, err := uc.Predict(context.Background(), "dev1", "x", "joy", []byte("wav"))
	assert.Equal(t, apperr.CodeInternal, apperr.From(err).Code)

	saved, err2 := store.ListSoloResults(context.Background(), "dev1", 0)
	require.NoError(t, err2)
	assert.Empty(t, saved)
}

func TestStatsAndHistory(t *testing.T) {
	uc, store := newSoloUC(stubClassifier{})
	ctx := context.Background()

	scores := []struct {
		score   int
		correct bool
	}{{100, true}, {40, false}, {70, true}}
	for i, s := range scores {
		require.NoError(t, store.SaveSoloResult(ctx, &domain.SoloResult{
			ID:        string(rune('a' + i)),
			DeviceID:  "dev1",
			Score:     s.score,
			IsCorrect: s.correct,
		}))
	}

	stats, err := uc.GetStats(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalAttempts)
	assert.Equal(t, 2, stats.CorrectCount)
	assert.InDelta(t, 2.0/3.0, stats.Accuracy, 1e-9)
	assert.InDelta(t, 70.0, stats.AverageScore, 1e-9)
	assert.Equal(t, 100, stats.BestScore)

	history, err := uc.GetHistory(ctx, "dev1", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// Limit keeps the most recent attempts.
	assert.Equal(t, 40, history[0].Score)
	assert.Equal(t, 70, history[1].Score)

	empty, err := uc.GetStats(ctx, "unknown")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalAttempts)
}
