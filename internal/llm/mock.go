package llm

import (
	"context"
	"strings"
)

// MockProvider implements Provider for testing without real API calls
type MockProvider struct {
	responses map[string]string
	err       error
	callCount int
}

// NewMockProvider creates a new MockProvider with predefined responses
func NewMockProvider() *MockProvider {
	return &MockProvider{
		responses: map[string]string{
			"server":   "intersight",
			"gpu":      "ai_pods",
			"fabric":   "nexus_dashboard",
			"switches": "infrastructure",
			"default":  "general",
		},
		callCount: 0,
	}
}

// Generate returns a mock response keyed by substrings of the prompt.
// The first matching key wins; "default" is returned when nothing matches.
func (m *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount++

	if m.err != nil {
		return "", m.err
	}

	lower := strings.ToLower(prompt)
	for key, response := range m.responses {
		if key == "default" {
			continue
		}
		if strings.Contains(lower, key) {
			return response, nil
		}
	}
	return m.responses["default"], nil
}

// SetResponse allows tests to customize responses
func (m *MockProvider) SetResponse(key string, response string) {
	m.responses[key] = response
}

// SetError makes every subsequent Generate call fail with err.
func (m *MockProvider) SetError(err error) {
	m.err = err
}

// GetCallCount returns how many times Generate was called
func (m *MockProvider) GetCallCount() int {
	return m.callCount
}
