package phrase

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"github.com/takaki719/emoguchi/internal/modules/emotion"
	"github.com/takaki719/emoguchi/internal/modules/game/domain"
	"github.com/takaki719/emoguchi/pkg/logger"
)

const (
	requestTimeout  = 10 * time.Second
	maxPhraseLength = 40 // characters, keeps phrases speakable in one breath
)

// fallbackPhrases are short everyday utterances that carry any target
// emotion; used whenever the API is unavailable or misbehaves.
var fallbackPhrases = []string{
	"はぁ…",
	"うそでしょ…",
	"なんで…",
	"まじか",
	"やばい！",
	"えっ！？",
	"なんでよ！",
	"あーあ…",
	"なるほどね",
	"ふーん",
}

// Generator produces phrases via the OpenAI chat API, with a local
// fallback pool so rounds always start.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator returns a generator. An empty apiKey means fallback-only
// operation, which is fine for local development.
func NewGenerator(apiKey, model string) *Generator {
	g := &Generator{model: model}
	if apiKey != "" {
		g.client = openai.NewClient(apiKey)
	}
	return g
}

type generatedPhraseJSON struct {
	Phrase    string `json:"phrase"`
	EmotionID string `json:"emotion_id"`
}

// Generate never fails: any upstream problem degrades to the fallback
// pool with a random target emotion.
func (g *Generator) Generate(ctx context.Context, mode, voteType string) domain.GeneratedPhrase {
	if g.client == nil {
		return g.fallback(mode, voteType)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	universe := emotion.ForMode(mode, voteType)
	ids := make([]string, 0, len(universe))
	for id := range universe {
		ids = append(ids, id)
	}

	prompt := fmt.Sprintf(
		`あなたはパーティーゲームの台本作家です。感情を込めて読み上げる短いセリフを1つ作ってください。
セリフは日本語で%d文字以内、感情語を含めない日常の一言にしてください。
対象の感情は次のいずれかからランダムに選んでください: %s
JSONで {"phrase": "...", "emotion_id": "..."} の形式のみで答えてください。`,
		maxPhraseLength, strings.Join(ids, ", "))

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 1.2,
	})
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("phrase generation failed, using fallback")
		return g.fallback(mode, voteType)
	}
	if len(resp.Choices) == 0 {
		return g.fallback(mode, voteType)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var out generatedPhraseJSON
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &out); err != nil {
		logger.Warn(ctx).Err(err).Str("content", content).Msg("unparseable phrase response, using fallback")
		return g.fallback(mode, voteType)
	}
	if out.Phrase == "" || utf8.RuneCountInString(out.Phrase) > maxPhraseLength*2 {
		return g.fallback(mode, voteType)
	}
	if _, ok := universe[out.EmotionID]; !ok {
		out.EmotionID = emotion.RandomID(mode, voteType)
	}

	return domain.GeneratedPhrase{Phrase: out.Phrase, EmotionID: out.EmotionID}
}

// GenerateBatch fetches n phrases, degrading per-item.
func (g *Generator) GenerateBatch(ctx context.Context, n int, mode, voteType string) []domain.GeneratedPhrase {
	out := make([]domain.GeneratedPhrase, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Generate(ctx, mode, voteType))
	}
	return out
}

func (g *Generator) fallback(mode, voteType string) domain.GeneratedPhrase {
	return domain.GeneratedPhrase{
		Phrase:    fallbackPhrases[rand.Intn(len(fallbackPhrases))],
		EmotionID: emotion.RandomID(mode, voteType),
	}
}
