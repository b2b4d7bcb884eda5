package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	altai "github.com/sashabaranov/go-openai"

	"matchday/internal/model"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("openai disabled")

const maxPromptGames = 150

// chatCompleter is the slice of the go-openai client the digest needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req altai.ChatCompletionRequest) (altai.ChatCompletionResponse, error)
}

type OpenAIClient struct {
	apiKey  string
	model   string
	timeout time.Duration
	chat    chatCompleter
}

func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	c := &OpenAIClient{apiKey: apiKey, model: model, timeout: timeout}
	if apiKey != "" {
		cfg := altai.DefaultConfig(apiKey)
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		c.chat = altai.NewClientWithConfig(cfg)
	}
	return c
}

// Digest asks the model for a short viewing guide for the listed games.
func (c *OpenAIClient) Digest(ctx context.Context, date string, games []model.Game) (string, error) {
	if c == nil || c.apiKey == "" || c.chat == nil {
		return "", ErrDisabled
	}
	if len(games) == 0 {
		return "", errors.New("no games to summarize")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.chat.CreateChatCompletion(ctx, altai.ChatCompletionRequest{
		Model: c.model,
		Messages: []altai.ChatCompletionMessage{
			{Role: altai.ChatMessageRoleSystem, Content: "You write short TV viewing guides for football fans. Plain text, no markdown tables, at most 12 lines."},
			{Role: altai.ChatMessageRoleUser, Content: BuildDigestPrompt(date, games)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// BuildDigestPrompt renders the games as compact lines for the model.
func BuildDigestPrompt(date string, games []model.Game) string {
	n := min(len(games), maxPromptGames)
	var b strings.Builder
	fmt.Fprintf(&b, "Schedule for %s (%d games). Pick the highlights, group by competition and name the channel to watch.\n", date, len(games))
	b.WriteString("Games:\n")
	for _, g := range games[:n] {
		fmt.Fprintf(&b, "%s | %s | %s | %s\n", model.DisplayTime(g), g.TeamsDisplay, g.Competition, strings.Join(g.Channels, ", "))
	}
	if n < len(games) {
		fmt.Fprintf(&b, "(%d more omitted)\n", len(games)-n)
	}
	return b.String()
}
