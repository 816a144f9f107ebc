package voice

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strings"
	"time"

	"github.com/takaki719/emoguchi/pkg/logger"
)

const (
	processTimeout = 15 * time.Second
	sampleRate     = 44100
)

// Transformer shells out to ffmpeg for pitch and tempo shifts. Callers
// treat any error as "use the original audio".
type Transformer struct {
	binary string
}

func NewTransformer() *Transformer {
	return &Transformer{binary: "ffmpeg"}
}

// Process applies a pitch shift in semitones and a tempo multiplier.
// Audio goes through stdin/stdout so nothing touches disk.
func (t *Transformer) Process(ctx context.Context, audio []byte, pitchSemitones, tempoMultiplier float64) ([]byte, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio")
	}

	ctx, cancel := context.WithTimeout(ctx, processTimeout)
	defer cancel()

	filter := buildFilter(pitchSemitones, tempoMultiplier)

	cmd := exec.CommandContext(ctx, t.binary,
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-af", filter,
		"-f", "wav",
		"pipe:1",
	)
	cmd.Stdin = bytes.NewReader(audio)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	logger.Debug(ctx).
		Float64("pitch_semitones", pitchSemitones).
		Float64("tempo", tempoMultiplier).
		Dur("took", time.Since(start)).
		Int("in_bytes", len(audio)).
		Int("out_bytes", stdout.Len()).
		Msg("voice transform applied")

	return stdout.Bytes(), nil
}

// buildFilter composes the ffmpeg audio filter. Pitch shifting rides on
// asetrate plus a compensating atempo so duration is preserved; the
// caller's tempo multiplier stacks on top. atempo only accepts 0.5-2.0
// per stage, so larger shifts are chained.
func buildFilter(pitchSemitones, tempoMultiplier float64) string {
	parts := []string{}

	ratio := math.Pow(2, pitchSemitones/12)
	if pitchSemitones != 0 {
		parts = append(parts,
			fmt.Sprintf("asetrate=%d", int(sampleRate*ratio)),
			fmt.Sprintf("aresample=%d", sampleRate),
		)
	}

	// Compensate the speed change asetrate introduced, then apply the
	// requested tempo.
	tempo := tempoMultiplier
	if pitchSemitones != 0 {
		tempo /= ratio
	}
	for _, stage := range atempoStages(tempo) {
		parts = append(parts, fmt.Sprintf("atempo=%f", stage))
	}

	if len(parts) == 0 {
		return "anull"
	}
	return strings.Join(parts, ",")
}

func atempoStages(tempo float64) []float64 {
	if tempo <= 0 || tempo == 1 {
		return nil
	}
	var stages []float64
	for tempo > 2 {
		stages = append(stages, 2)
		tempo /= 2
	}
	for tempo < 0.5 {
		stages = append(stages, 0.5)
		tempo /= 0.5
	}
	return append(stages, tempo)
}
