package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/quizzer/backend/internal/models"
)

var (
	ErrNoActiveSession = errors.New("no quiz in progress")
	ErrNoPriorConfig   = errors.New("no previous quiz configuration")
)

// QuizGenerator produces a validated question set for a config.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, config models.QuizConfig) ([]models.Question, error)
}

// HistoryWriter records one completed quiz attempt.
type HistoryWriter interface {
	Insert(record *models.QuizHistoryRecord) error
}

// Service drives the session state machine against the snapshot store.
// The store is the session's only home between requests; each operation
// reconstitutes the session, transitions it, and re-persists or clears it.
type Service struct {
	generator QuizGenerator
	store     SnapshotStore
	history   HistoryWriter
}

func NewService(gen QuizGenerator, store SnapshotStore, history HistoryWriter) *Service {
	return &Service{generator: gen, store: store, history: history}
}

// Start generates a fresh question set and persists the new InProgress
// session. On generation failure nothing persisted is touched.
func (s *Service) Start(ctx context.Context, userID int64, config models.QuizConfig) (*models.QuizStartedResponse, error) {
	session := NewSession()
	if err := session.BeginLoading(config); err != nil {
		return nil, err
	}

	questions, err := s.generator.GenerateQuiz(ctx, config)
	if err != nil {
		session.Fail("Failed to generate questions. Please try again.")
		return nil, fmt.Errorf("start quiz: %w", err)
	}

	if err := session.Begin(questions); err != nil {
		return nil, err
	}

	// Prior snapshot is gone before the new quiz serves its first question.
	if err := s.store.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear previous session: %w", err)
	}
	if err := s.store.Save(ctx, userID, snapshotOf(session)); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	if err := s.store.SaveLastConfig(ctx, userID, config); err != nil {
		return nil, fmt.Errorf("persist config: %w", err)
	}

	return &models.QuizStartedResponse{
		Questions:            session.Questions,
		CurrentQuestionIndex: session.CurrentQuestionIndex,
		TotalQuestions:       len(session.Questions),
	}, nil
}

// SubmitAnswer appends an answer to the persisted session. Completing the
// quiz scores it, issues one history write (failures swallowed), and clears
// the snapshot regardless of the write's outcome.
func (s *Service) SubmitAnswer(ctx context.Context, userID int64, answer string) (*models.AnswerAcceptedResponse, *models.QuizCompletedResponse, error) {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if snap == nil {
		return nil, nil, ErrNoActiveSession
	}

	session := sessionOf(snap)
	completed, err := session.SubmitAnswer(answer)
	if err != nil {
		return nil, nil, err
	}

	if !completed {
		if err := s.store.Save(ctx, userID, snapshotOf(session)); err != nil {
			return nil, nil, fmt.Errorf("persist session: %w", err)
		}
		return &models.AnswerAcceptedResponse{
			Completed:            false,
			CurrentQuestionIndex: session.CurrentQuestionIndex,
			TotalQuestions:       len(session.Questions),
		}, nil, nil
	}

	score := Score(session.Questions, session.UserAnswers)
	total := len(session.Questions)

	if err := s.history.Insert(&models.QuizHistoryRecord{
		UserID:         userID,
		Topic:          session.Config.Topic,
		Score:          score,
		TotalQuestions: total,
		Questions:      session.Questions,
		Answers:        session.UserAnswers,
	}); err != nil {
		// Swallowed: a failed history write is invisible to the user.
		log.Printf("[quiz] history write failed for user %d: %v", userID, err)
	}

	if err := s.store.Clear(ctx, userID); err != nil {
		return nil, nil, fmt.Errorf("clear session: %w", err)
	}

	return nil, &models.QuizCompletedResponse{
		Completed:      true,
		Score:          score,
		TotalQuestions: total,
		Percentage:     Percentage(score, total),
		Results:        Results(session.Questions, session.UserAnswers),
	}, nil
}

// Resume returns the persisted snapshot, or nil when there is none.
func (s *Service) Resume(ctx context.Context, userID int64) (*models.SessionSnapshotResponse, error) {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if snap == nil {
		return nil, nil
	}
	answers := snap.UserAnswers
	if answers == nil {
		answers = []string{}
	}
	return &models.SessionSnapshotResponse{
		Questions:            snap.Questions,
		CurrentQuestionIndex: snap.CurrentQuestionIndex,
		UserAnswers:          answers,
		Config:               snap.Config,
	}, nil
}

// Reassess regenerates a fresh question set from the last-used config,
// discarding any prior answers.
func (s *Service) Reassess(ctx context.Context, userID int64) (*models.QuizStartedResponse, error) {
	config, err := s.store.LoadLastConfig(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load last config: %w", err)
	}
	if config == nil {
		return nil, ErrNoPriorConfig
	}
	return s.Start(ctx, userID, *config)
}

// Restart clears the snapshot and the remembered config, returning the
// user's session to Idle.
func (s *Service) Restart(ctx context.Context, userID int64) error {
	if err := s.store.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if err := s.store.ClearLastConfig(ctx, userID); err != nil {
		return fmt.Errorf("clear last config: %w", err)
	}
	return nil
}

func snapshotOf(session *Session) *Snapshot {
	return &Snapshot{
		Questions:            session.Questions,
		CurrentQuestionIndex: session.CurrentQuestionIndex,
		UserAnswers:          session.UserAnswers,
		Config:               session.Config,
	}
}

func sessionOf(snap *Snapshot) *Session {
	return &Session{
		State:                StateInProgress,
		Questions:            snap.Questions,
		CurrentQuestionIndex: snap.CurrentQuestionIndex,
		UserAnswers:          snap.UserAnswers,
		Config:               snap.Config,
	}
}
