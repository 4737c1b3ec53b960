package quiz

import (
	"errors"
	"math"

	"github.com/quizzer/backend/internal/models"
)

type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateInProgress State = "in_progress"
	StateComplete   State = "complete"
	StateError      State = "error"
)

var (
	ErrNotInProgress = errors.New("no question awaiting an answer")
	ErrBadTransition = errors.New("invalid session transition")
)

// Session is the in-progress quiz state machine. Transitions:
//
//	Idle ──start──▶ Loading ──questions──▶ InProgress ──last answer──▶ Complete
//	                   └──failure──▶ Error
//
// Complete and Error may re-enter Loading (reassess); Restart returns any
// state to Idle. UserAnswers[i] always corresponds to Questions[i].
type Session struct {
	State                State             `json:"state"`
	Questions            []models.Question `json:"questions"`
	CurrentQuestionIndex int               `json:"current_question_index"`
	UserAnswers          []string          `json:"user_answers"`
	Config               models.QuizConfig `json:"config"`
	ErrorMessage         string            `json:"error_message,omitempty"`
}

func NewSession() *Session {
	return &Session{State: StateIdle}
}

// BeginLoading records the config and enters Loading while the question set
// is generated. Valid from Idle, Complete, and Error.
func (s *Session) BeginLoading(config models.QuizConfig) error {
	switch s.State {
	case StateIdle, StateComplete, StateError:
	default:
		return ErrBadTransition
	}
	s.State = StateLoading
	s.Config = config
	s.ErrorMessage = ""
	return nil
}

// Begin installs the generated question set and enters InProgress with a
// fresh index and empty answer list.
func (s *Session) Begin(questions []models.Question) error {
	if s.State != StateLoading {
		return ErrBadTransition
	}
	s.State = StateInProgress
	s.Questions = questions
	s.CurrentQuestionIndex = 0
	s.UserAnswers = nil
	return nil
}

// Fail enters Error with a user-facing message. Valid only from Loading.
func (s *Session) Fail(message string) error {
	if s.State != StateLoading {
		return ErrBadTransition
	}
	s.State = StateError
	s.ErrorMessage = message
	return nil
}

// SubmitAnswer appends the answer for the current question. Returns true
// when this was the last question and the session is now Complete.
func (s *Session) SubmitAnswer(answer string) (bool, error) {
	if s.State != StateInProgress {
		return false, ErrNotInProgress
	}

	s.UserAnswers = append(s.UserAnswers, answer)

	if len(s.UserAnswers) == len(s.Questions) {
		s.State = StateComplete
		return true, nil
	}

	s.CurrentQuestionIndex++
	return false, nil
}

// Restart unconditionally clears everything and returns to Idle.
func (s *Session) Restart() {
	*s = Session{State: StateIdle}
}

// ── Scoring ──────────────────────────────────────────────

// Score counts index-aligned, case-sensitive exact matches. Pure and
// idempotent: re-scoring the same pair yields the same result.
func Score(questions []models.Question, answers []string) int {
	score := 0
	for i, answer := range answers {
		if i >= len(questions) {
			break
		}
		if questions[i].CorrectAnswer == answer {
			score++
		}
	}
	return score
}

// Percentage returns round(score/total × 100).
func Percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// Results pairs each question with the answer it received.
func Results(questions []models.Question, answers []string) []models.QuestionResult {
	results := make([]models.QuestionResult, 0, len(answers))
	for i, answer := range answers {
		if i >= len(questions) {
			break
		}
		results = append(results, models.QuestionResult{
			Question:   questions[i],
			UserAnswer: answer,
			Correct:    questions[i].CorrectAnswer == answer,
		})
	}
	return results
}
