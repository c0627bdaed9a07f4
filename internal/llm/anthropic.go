package llm

// AnthropicProvider implements the Provider interface for Anthropic Claude models.
//
// Anthropic's Messages API differs from OpenAI's in shape (the system prompt is
// a top-level field, content comes back as typed blocks), but since Provider only
// deals in single prompts and plain text the conversion is small: one user
// message out, concatenated text blocks back.

import (
	"context"
	"fmt"
	"math"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// defaultMaxTokens is the default max_tokens sent to Anthropic.
// Anthropic requires this field; 4096 is a safe default for expert answers.
const defaultMaxTokens int64 = 4096

// AnthropicProvider implements Provider using the Anthropic SDK.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicProvider creates a new AnthropicProvider.
//
// apiKey is your Anthropic API key (https://console.anthropic.com/).
// model is the Claude model identifier (e.g. "claude-sonnet-4-6").
// baseURL overrides the default Anthropic API endpoint; leave empty to use the default.
func NewAnthropicProvider(apiKey, model, baseURL string) *AnthropicProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	c := anthropic.NewClient(opts...)
	return &AnthropicProvider{
		client: &c,
		model:  model,
	}
}

// Generate sends the prompt to Anthropic Claude and returns the response text.
func (p *AnthropicProvider) Generate(ctx context.Context, prompt string) (string, error) {
	reqParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: defaultMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	resp, err := p.callWithRetry(ctx, reqParams)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	return textFromBlocks(resp), nil
}

// callWithRetry calls the Anthropic Messages API with exponential backoff.
// Max 3 attempts; delays: 1s, 2s (capped at 10s). Only network/5xx/429 errors are retried.
func (p *AnthropicProvider) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	const maxRetries = 3
	baseDelay := time.Second

	var resp *anthropic.Message
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err = p.client.Messages.New(ctx, params)
		if err == nil {
			return resp, nil
		}

		if attempt < maxRetries-1 && isRetryableError(err) {
			delay := time.Duration(math.Min(
				float64(baseDelay.Milliseconds()*int64(math.Pow(2, float64(attempt)))),
				10000,
			)) * time.Millisecond

			select {
			case <-time.After(delay):
				// continue to next attempt
			case <-ctx.Done():
				return nil, fmt.Errorf("context cancelled during retry: %w", ctx.Err())
			}
		} else {
			break
		}
	}

	return nil, err
}

// textFromBlocks concatenates the text content blocks of an Anthropic response.
// Non-text blocks (thinking, redacted_thinking, etc.) are ignored.
func textFromBlocks(resp *anthropic.Message) string {
	var out string
	for _, block := range resp.Content {
		if block.Type != "text" {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += block.Text
	}
	return out
}
