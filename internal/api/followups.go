package api

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// defaultFollowUps are used whenever the LLM is unavailable or its reply
// yields fewer than two usable questions.
var defaultFollowUps = []string{
	"What else can you tell me about this topic?",
	"Can you provide more detail on any part of that answer?",
}

// followUps generates two suggested next questions for the UI. Failures are
// absorbed: the endpoint always returns exactly two suggestions.
func (s *Server) followUps(ctx context.Context, question, answer string) []string {
	if s.llmRouter == nil {
		return defaultFollowUps
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	prompt := fmt.Sprintf(
		"A user asked: %q\n\nThe assistant answered:\n%s\n\nSuggest exactly 2 short follow-up questions the user might ask next. Output one question per line, no numbering.",
		question, truncateForPrompt(answer, 2000))

	reply, err := s.llmRouter.Generate(ctx, prompt)
	if err != nil {
		s.log.V(1).Info("follow-up generation failed", "error", err)
		return defaultFollowUps
	}

	suggestions := parseFollowUps(reply)
	for len(suggestions) < 2 {
		suggestions = append(suggestions, defaultFollowUps[len(suggestions)%len(defaultFollowUps)])
	}
	return suggestions[:2]
}

// parseFollowUps extracts question lines from an LLM reply, tolerating the
// numbering and bullets models add despite instructions.
func parseFollowUps(reply string) []string {
	var out []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "0123456789.)- *")
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasSuffix(line, "?") {
			continue
		}
		out = append(out, line)
		if len(out) == 2 {
			break
		}
	}
	return out
}

func truncateForPrompt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
