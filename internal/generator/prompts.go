package generator

import (
	"fmt"

	"github.com/quizzer/backend/internal/models"
)

const questionJSONFormat = `{
  "question": "the question text",
  "options": ["option1", "option2", "option3", "option4"],
  "correctAnswer": "the correct option",
  "explanation": "explanation why this is the correct answer"
}`

// BuildPrompt selects one of two mutually exclusive templates: content-based
// when the config carries extracted PDF text, topic-based otherwise.
func BuildPrompt(config models.QuizConfig) string {
	if config.PDFContent != "" {
		return buildContentPrompt(config)
	}
	return buildTopicPrompt(config)
}

func buildTopicPrompt(config models.QuizConfig) string {
	return fmt.Sprintf(`Generate %d multiple choice questions about %s at %s difficulty level. Format the response as a JSON array with each question having the following structure:
%s

Respond with the JSON array only — no markdown, no text outside the JSON.`,
		config.NumQuestions, config.Topic, config.Difficulty, questionJSONFormat)
}

func buildContentPrompt(config models.QuizConfig) string {
	return fmt.Sprintf(`Based on the following content, generate %d multiple choice questions at %s difficulty level. Make sure the questions are directly related to the content provided.

Content:
%s

Format the response as a JSON array with each question having the following structure:
%s

Respond with the JSON array only — no markdown, no text outside the JSON.`,
		config.NumQuestions, config.Difficulty, config.PDFContent, questionJSONFormat)
}
