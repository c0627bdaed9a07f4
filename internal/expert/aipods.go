package expert

import (
	"context"
	"fmt"
	"log/slog"
)

// AIPodsExpert answers Cisco AI PODs sizing and design questions with
// retrieval-augmented generation over the reference documentation.
type AIPodsExpert struct {
	retriever Retriever
	llm       LLM
	logger    *slog.Logger
}

func NewAIPodsExpert(retriever Retriever, llm LLM, logger *slog.Logger) *AIPodsExpert {
	if logger == nil {
		logger = slog.Default()
	}
	return &AIPodsExpert{retriever: retriever, llm: llm, logger: logger}
}

func (e *AIPodsExpert) Kind() Kind { return KindAIPods }

func (e *AIPodsExpert) Answer(ctx context.Context, question string) (string, error) {
	if e.llm == nil {
		return "", fmt.Errorf("ai pods: %w", ErrUnavailable)
	}

	var excerpts string
	if e.retriever != nil {
		excerpts = e.retriever.Retrieve(ctx, question)
	}
	if excerpts == "" {
		e.logger.Warn("no reference excerpts retrieved, answering from model knowledge")
	}

	prompt := fmt.Sprintf(
		"You are a Cisco AI PODs solution architect. Use the reference documentation excerpts below to answer the user's question about AI infrastructure sizing and design. If the excerpts do not cover the question, answer from general knowledge and say so.\n\nReference documentation:\n%s\n\nQuestion: %s",
		excerpts, question)

	text, err := e.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("ai pods generation: %w", err)
	}
	return text, nil
}
