package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quizzer/backend/internal/models"
)

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseQuestions parses the raw completion text as a JSON array of questions
// and validates it at the trust boundary. The model is instructed to return
// bare JSON but frequently wraps it in markdown fences anyway.
func ParseQuestions(responseBody string) ([]models.Question, error) {
	cleaned := stripCodeFences(responseBody)

	var questions []models.Question
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	return questions, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func validateQuestions(questions []models.Question) error {
	var errs []string

	if len(questions) == 0 {
		return &ValidationError{Errors: []string{"no questions in response"}}
	}

	for i, q := range questions {
		qNum := i + 1

		if strings.TrimSpace(q.Question) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty question text", qNum))
		}

		if len(q.Options) != 4 {
			errs = append(errs, fmt.Sprintf("question %d: expected 4 options, got %d", qNum, len(q.Options)))
			continue
		}

		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				errs = append(errs, fmt.Sprintf("question %d: option %d is empty", qNum, j+1))
			}
		}

		if !containsOption(q.Options, q.CorrectAnswer) {
			errs = append(errs, fmt.Sprintf("question %d: correctAnswer %q is not one of the options", qNum, q.CorrectAnswer))
		}

		if strings.TrimSpace(q.Explanation) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty explanation", qNum))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	return nil
}

func containsOption(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}
