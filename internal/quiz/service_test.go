package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/quizzer/backend/internal/models"
)

// fakeGenerator returns a fixed question set, or fails when err is set.
type fakeGenerator struct {
	questions []models.Question
	err       error
	calls     int
	lastCfg   models.QuizConfig
}

func (g *fakeGenerator) GenerateQuiz(ctx context.Context, config models.QuizConfig) ([]models.Question, error) {
	g.calls++
	g.lastCfg = config
	if g.err != nil {
		return nil, g.err
	}
	return g.questions, nil
}

// fakeHistory records inserts in memory, or fails when err is set.
type fakeHistory struct {
	records []models.QuizHistoryRecord
	err     error
}

func (h *fakeHistory) Insert(record *models.QuizHistoryRecord) error {
	if h.err != nil {
		return h.err
	}
	h.records = append(h.records, *record)
	return nil
}

func newTestService(gen *fakeGenerator, hist *fakeHistory) (*Service, *MemoryStore) {
	store := NewMemoryStore()
	return NewService(gen, store, hist), store
}

const testUserID int64 = 42

func testConfig() models.QuizConfig {
	return models.QuizConfig{Topic: "gravity", Difficulty: models.DifficultyMedium, NumQuestions: 3}
}

func TestService_StartPersistsSession(t *testing.T) {
	gen := &fakeGenerator{questions: sampleQuestions(3)}
	svc, store := newTestService(gen, &fakeHistory{})

	resp, err := svc.Start(context.Background(), testUserID, testConfig())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if resp.TotalQuestions != 3 || resp.CurrentQuestionIndex != 0 {
		t.Errorf("got total=%d index=%d, want 3 and 0", resp.TotalQuestions, resp.CurrentQuestionIndex)
	}

	snap, err := store.Load(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap == nil {
		t.Fatal("expected a persisted snapshot after Start")
	}
	if len(snap.Questions) != 3 || len(snap.UserAnswers) != 0 {
		t.Errorf("snapshot has %d questions, %d answers; want 3 and 0",
			len(snap.Questions), len(snap.UserAnswers))
	}

	config, err := store.LoadLastConfig(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("LoadLastConfig: %v", err)
	}
	if config == nil || config.Topic != "gravity" {
		t.Errorf("last config = %+v, want topic gravity", config)
	}
}

func TestService_StartFailureLeavesStateUntouched(t *testing.T) {
	// Seed an in-progress quiz, then fail the next generation.
	gen := &fakeGenerator{questions: sampleQuestions(2)}
	hist := &fakeHistory{}
	svc, store := newTestService(gen, hist)

	if _, err := svc.Start(context.Background(), testUserID, testConfig()); err != nil {
		t.Fatalf("seed Start: %v", err)
	}
	if _, _, err := svc.SubmitAnswer(context.Background(), testUserID, "right"); err != nil {
		t.Fatalf("seed SubmitAnswer: %v", err)
	}

	gen.err = fmt.Errorf("api unavailable")
	if _, err := svc.Start(context.Background(), testUserID, testConfig()); err == nil {
		t.Fatal("expected Start to fail")
	}

	snap, _ := store.Load(context.Background(), testUserID)
	if snap == nil {
		t.Fatal("failed Start must not clear the existing snapshot")
	}
	if len(snap.UserAnswers) != 1 {
		t.Errorf("snapshot answers = %d, want 1 (progress preserved)", len(snap.UserAnswers))
	}
	if len(hist.records) != 0 {
		t.Errorf("history records = %d, want 0 after failed generation", len(hist.records))
	}
}

func TestService_SubmitAnswerRoundTrip(t *testing.T) {
	gen := &fakeGenerator{questions: sampleQuestions(3)}
	svc, _ := newTestService(gen, &fakeHistory{})

	svc.Start(context.Background(), testUserID, testConfig())

	accepted, completed, err := svc.SubmitAnswer(context.Background(), testUserID, "right")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if completed != nil {
		t.Fatal("first of three answers should not complete the quiz")
	}
	if accepted.CurrentQuestionIndex != 1 {
		t.Errorf("index = %d, want 1", accepted.CurrentQuestionIndex)
	}
}

func TestService_CompletionScoresAndClears(t *testing.T) {
	gen := &fakeGenerator{questions: sampleQuestions(3)}
	hist := &fakeHistory{}
	svc, store := newTestService(gen, hist)

	svc.Start(context.Background(), testUserID, testConfig())

	// right, wrong, right → 2/3 → 67%
	answers := []string{"right", "wrong1", "right"}
	var completed *models.QuizCompletedResponse
	for _, a := range answers {
		var err error
		_, completed, err = svc.SubmitAnswer(context.Background(), testUserID, a)
		if err != nil {
			t.Fatalf("SubmitAnswer(%q): %v", a, err)
		}
	}

	if completed == nil {
		t.Fatal("expected completion after the last answer")
	}
	if completed.Score != 2 || completed.Percentage != 67 {
		t.Errorf("score = %d, percentage = %d, want 2 and 67", completed.Score, completed.Percentage)
	}
	if len(completed.Results) != 3 {
		t.Errorf("results = %d, want 3", len(completed.Results))
	}

	// Exactly one history record, carrying the full question/answer sets
	if len(hist.records) != 1 {
		t.Fatalf("history records = %d, want 1", len(hist.records))
	}
	rec := hist.records[0]
	if rec.UserID != testUserID || rec.Score != 2 || rec.TotalQuestions != 3 {
		t.Errorf("record = %+v, want user 42, score 2/3", rec)
	}
	if len(rec.Questions) != 3 || len(rec.Answers) != 3 {
		t.Errorf("record carries %d questions, %d answers; want 3 and 3", len(rec.Questions), len(rec.Answers))
	}

	// Snapshot is gone; answering again is a conflict
	snap, _ := store.Load(context.Background(), testUserID)
	if snap != nil {
		t.Error("snapshot should be cleared after completion")
	}
	if _, _, err := svc.SubmitAnswer(context.Background(), testUserID, "right"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("answer after completion: err = %v, want ErrNoActiveSession", err)
	}
}

func TestService_HistoryFailureStillClearsSnapshot(t *testing.T) {
	gen := &fakeGenerator{questions: sampleQuestions(1)}
	hist := &fakeHistory{err: fmt.Errorf("db down")}
	svc, store := newTestService(gen, hist)

	svc.Start(context.Background(), testUserID, testConfig())

	_, completed, err := svc.SubmitAnswer(context.Background(), testUserID, "right")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if completed == nil {
		t.Fatal("expected completion despite history failure")
	}
	if completed.Score != 1 {
		t.Errorf("score = %d, want 1", completed.Score)
	}

	snap, _ := store.Load(context.Background(), testUserID)
	if snap != nil {
		t.Error("snapshot should be cleared even when the history write fails")
	}
}

func TestService_BackToBackQuizzesSingleRecordEach(t *testing.T) {
	gen := &fakeGenerator{questions: sampleQuestions(1)}
	hist := &fakeHistory{}
	svc, _ := newTestService(gen, hist)

	for i := 0; i < 2; i++ {
		if _, err := svc.Start(context.Background(), testUserID, testConfig()); err != nil {
			t.Fatalf("Start %d: %v", i, err)
		}
		if _, _, err := svc.SubmitAnswer(context.Background(), testUserID, "right"); err != nil {
			t.Fatalf("SubmitAnswer %d: %v", i, err)
		}
	}

	if len(hist.records) != 2 {
		t.Errorf("history records = %d, want exactly one per completed quiz", len(hist.records))
	}
}

func TestService_ResumeReturnsSavedProgress(t *testing.T) {
	gen := &fakeGenerator{questions: sampleQuestions(3)}
	svc, _ := newTestService(gen, &fakeHistory{})

	// No session yet
	snap, err := svc.Resume(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot before any quiz")
	}

	svc.Start(context.Background(), testUserID, testConfig())
	svc.SubmitAnswer(context.Background(), testUserID, "right")

	snap, err = svc.Resume(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if snap == nil {
		t.Fatal("expected a snapshot mid-quiz")
	}
	if snap.CurrentQuestionIndex != 1 {
		t.Errorf("index = %d, want 1", snap.CurrentQuestionIndex)
	}
	if len(snap.UserAnswers) != 1 || snap.UserAnswers[0] != "right" {
		t.Errorf("answers = %v, want [right]", snap.UserAnswers)
	}
	if snap.Config.Topic != "gravity" {
		t.Errorf("config topic = %q, want gravity", snap.Config.Topic)
	}
}

func TestService_ReassessReusesLastConfig(t *testing.T) {
	gen := &fakeGenerator{questions: sampleQuestions(1)}
	svc, _ := newTestService(gen, &fakeHistory{})

	// Nothing to reassess yet
	if _, err := svc.Reassess(context.Background(), testUserID); !errors.Is(err, ErrNoPriorConfig) {
		t.Errorf("Reassess with no prior quiz: err = %v, want ErrNoPriorConfig", err)
	}

	svc.Start(context.Background(), testUserID, testConfig())
	svc.SubmitAnswer(context.Background(), testUserID, "right") // completes, clears snapshot

	// Config survives completion, so reassess still works
	resp, err := svc.Reassess(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("Reassess: %v", err)
	}
	if resp.TotalQuestions != 1 {
		t.Errorf("total = %d, want 1", resp.TotalQuestions)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want 2 (fresh question set)", gen.calls)
	}
	if gen.lastCfg.Topic != "gravity" {
		t.Errorf("reassess config topic = %q, want gravity", gen.lastCfg.Topic)
	}
}

func TestService_RestartForgetsEverything(t *testing.T) {
	gen := &fakeGenerator{questions: sampleQuestions(2)}
	svc, store := newTestService(gen, &fakeHistory{})

	svc.Start(context.Background(), testUserID, testConfig())
	if err := svc.Restart(context.Background(), testUserID); err != nil {
		t.Fatalf("Restart: %v", err)
	}

	snap, _ := store.Load(context.Background(), testUserID)
	if snap != nil {
		t.Error("restart should clear the snapshot")
	}
	if _, err := svc.Reassess(context.Background(), testUserID); !errors.Is(err, ErrNoPriorConfig) {
		t.Errorf("Reassess after restart: err = %v, want ErrNoPriorConfig", err)
	}
}

func TestMemoryStore_SnapshotRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	in := &Snapshot{
		Questions:            sampleQuestions(2),
		CurrentQuestionIndex: 1,
		UserAnswers:          []string{"right"},
		Config:               testConfig(),
	}
	if err := store.Save(ctx, testUserID, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := store.Load(ctx, testUserID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out == nil {
		t.Fatal("expected snapshot")
	}
	if out.CurrentQuestionIndex != in.CurrentQuestionIndex {
		t.Errorf("index = %d, want %d", out.CurrentQuestionIndex, in.CurrentQuestionIndex)
	}
	if len(out.Questions) != 2 || out.Questions[0].CorrectAnswer != "right" {
		t.Errorf("questions did not round-trip: %+v", out.Questions)
	}
	if len(out.UserAnswers) != 1 || out.UserAnswers[0] != "right" {
		t.Errorf("answers did not round-trip: %v", out.UserAnswers)
	}
	if out.Config != in.Config {
		t.Errorf("config = %+v, want %+v", out.Config, in.Config)
	}

	// Users are isolated
	other, _ := store.Load(ctx, testUserID+1)
	if other != nil {
		t.Error("expected no snapshot for a different user")
	}

	if err := store.Clear(ctx, testUserID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	gone, _ := store.Load(ctx, testUserID)
	if gone != nil {
		t.Error("expected nil after Clear")
	}
}
