package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const claudeMaxTokens = 8192

// ClaudeClient is a TextClient backed by the Anthropic Messages API. Timeouts and
// retries are applied per request by the SDK.
type ClaudeClient struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewClaudeClient(apiKey, model string, timeout time.Duration, retries int) *ClaudeClient {
	if model == "" {
		model = string(anthropic.ModelClaude3_5SonnetLatest)
	}
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(retries),
	)
	return &ClaudeClient{client: client, model: anthropic.Model(model)}
}

func (c *ClaudeClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(c.model),
		MaxTokens: anthropic.F(int64(claudeMaxTokens)),
		System: anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(system),
		}),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		}),
	})
	if err != nil {
		return "", fmt.Errorf("claude api error: %w", err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		b.WriteString(block.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", errors.New("empty response from claude")
	}
	return b.String(), nil
}
