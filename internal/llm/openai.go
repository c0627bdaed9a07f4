package llm

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAIProvider
func NewOpenAIProvider(apiKey string, model string, baseURL string) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Generate sends the prompt as a single user message and returns the completion text.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	// Exponential backoff retry: max 3 attempts, 1s-10s intervals
	var resp openai.ChatCompletionResponse
	var err error
	maxRetries := 3
	baseDelay := time.Second

	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err = p.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		// Check if error is retryable (network error or 5xx)
		if attempt < maxRetries-1 && isRetryableError(err) {
			delay := time.Duration(math.Min(float64(baseDelay.Milliseconds()*int64(math.Pow(2, float64(attempt)))), 10000)) * time.Millisecond
			select {
			case <-time.After(delay):
				// Continue to next attempt
			case <-ctx.Done():
				return "", fmt.Errorf("context cancelled during retry: %w", ctx.Err())
			}
		} else {
			// Non-retryable error, break immediately
			break
		}
	}

	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from openai")
	}

	return resp.Choices[0].Message.Content, nil
}

// isRetryableError determines if an error should trigger a retry
// Retryable errors include network timeouts and 5xx server errors
// Non-retryable errors include 4xx client errors (auth, validation, etc.)
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()

	// Check for timeout/context errors (network issues)
	if errStr == "context deadline exceeded" || errStr == "context cancelled" {
		return true
	}

	// Check for network-related errors (simplified pattern matching)
	// In production, you'd use proper error type assertions with go-openai's error types
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "429") { // Rate limit - also retryable with backoff
		return true
	}

	// 4xx errors (except 429) are not retryable
	return false
}
