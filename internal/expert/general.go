package expert

import (
	"context"
	"fmt"
)

// GeneralExpert is the catch-all and the fallback target for vendor-backed
// experts. It has no downstream data source, only the LLM.
type GeneralExpert struct {
	llm LLM
}

func NewGeneralExpert(llm LLM) *GeneralExpert {
	return &GeneralExpert{llm: llm}
}

func (e *GeneralExpert) Kind() Kind { return KindGeneral }

func (e *GeneralExpert) Answer(ctx context.Context, question string) (string, error) {
	if e.llm == nil {
		return "", fmt.Errorf("general: %w", ErrUnavailable)
	}
	prompt := "You are a helpful data center infrastructure assistant. Answer the following question clearly and concisely.\n\nQuestion: " + question
	text, err := e.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("general generation: %w", err)
	}
	return text, nil
}
