package models

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

const (
	MinQuestions = 1
	MaxQuestions = 10
)

// QuizConfig identifies how to generate a question set. Topic and PDFContent
// are mutually exclusive: a non-empty PDFContent selects the content-based
// prompt template. Immutable once a session starts; reused on reassess.
type QuizConfig struct {
	Topic        string     `json:"topic"`
	Difficulty   Difficulty `json:"difficulty"`
	NumQuestions int        `json:"num_questions"`
	PDFContent   string     `json:"pdf_content,omitempty"`
}

// Question is the wire shape the completion API is instructed to return.
// The camelCase tags are part of the prompt contract — do not rename.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// ── Request Types ────────────────────────────────────────

type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

// ── Response Types ────────────────────────────────────────

type QuizStartedResponse struct {
	Questions            []Question `json:"questions"`
	CurrentQuestionIndex int        `json:"current_question_index"`
	TotalQuestions       int        `json:"total_questions"`
}

type AnswerAcceptedResponse struct {
	Completed            bool `json:"completed"`
	CurrentQuestionIndex int  `json:"current_question_index"`
	TotalQuestions       int  `json:"total_questions"`
}

type QuizCompletedResponse struct {
	Completed      bool             `json:"completed"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	Percentage     int              `json:"percentage"`
	Results        []QuestionResult `json:"results"`
}

// QuestionResult pairs one question with the answer the user gave it.
type QuestionResult struct {
	Question   Question `json:"question"`
	UserAnswer string   `json:"user_answer"`
	Correct    bool     `json:"correct"`
}

type SessionSnapshotResponse struct {
	Questions            []Question `json:"questions"`
	CurrentQuestionIndex int        `json:"current_question_index"`
	UserAnswers          []string   `json:"user_answers"`
	Config               QuizConfig `json:"config"`
}
