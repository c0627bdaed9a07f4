package llm

import "context"

// Provider is the minimal contract every LLM backend implements: one prompt
// in, one completion string out. Conversation history, tool calling and
// streaming are deliberately out of scope; callers that need multi-turn
// behaviour compose their own prompts.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
