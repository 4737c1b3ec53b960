package generator

import (
	"context"
	"fmt"

	"github.com/quizzer/backend/internal/llm"
	"github.com/quizzer/backend/internal/models"
)

// Generator turns a quiz config into a validated question set via the
// completion API. Any API, parse, or validation failure is reported as a
// single generation error — no partial results.
type Generator struct {
	llm llm.Client
}

func New(client llm.Client) *Generator {
	return &Generator{llm: client}
}

func (g *Generator) GenerateQuiz(ctx context.Context, config models.QuizConfig) ([]models.Question, error) {
	resp, err := g.llm.Complete(ctx, "", BuildPrompt(config))
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	questions, err := ParseQuestions(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse quiz response: %w", err)
	}

	return questions, nil
}
