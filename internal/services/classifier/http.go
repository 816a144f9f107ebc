package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/takaki719/emoguchi/internal/modules/game/domain"
	"github.com/takaki719/emoguchi/pkg/logger"
)

// Client calls the external emotion inference API with an audio file
// and a target class.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type predictResponse struct {
	PredictedClass string  `json:"predicted_class"`
	Confidence     float64 `json:"confidence"`
	Score          int     `json:"score"`
}

func (c *Client) Classify(ctx context.Context, audioPath, targetClass string) (domain.ClassifyResult, error) {
	if c.baseURL == "" {
		return domain.ClassifyResult{}, fmt.Errorf("inference api not configured")
	}

	audio, err := os.Open(audioPath)
	if err != nil {
		return domain.ClassifyResult{}, fmt.Errorf("open audio: %w", err)
	}
	defer audio.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return domain.ClassifyResult{}, err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return domain.ClassifyResult{}, fmt.Errorf("read audio: %w", err)
	}
	if err := mw.WriteField("target_class", targetClass); err != nil {
		return domain.ClassifyResult{}, err
	}
	if err := mw.Close(); err != nil {
		return domain.ClassifyResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", &body)
	if err != nil {
		return domain.ClassifyResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ClassifyResult{}, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.ClassifyResult{}, fmt.Errorf("inference api returned %d: %s", resp.StatusCode, raw)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.ClassifyResult{}, fmt.Errorf("decode inference response: %w", err)
	}

	logger.Debug(ctx).
		Str("target_class", targetClass).
		Str("predicted_class", out.PredictedClass).
		Float64("confidence", out.Confidence).
		Dur("took", time.Since(start)).
		Msg("audio classified")

	return domain.ClassifyResult{
		Emotion:        out.PredictedClass,
		PredictedClass: out.PredictedClass,
		TargetClass:    targetClass,
		Score:          out.Score,
		Confidence:     out.Confidence,
		IsCorrect:      out.PredictedClass == targetClass,
	}, nil
}
