package models

import "time"

// QuizHistoryRecord is the durable, immutable log of one completed quiz
// attempt. Written exactly once at session completion; never updated.
type QuizHistoryRecord struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	Topic          string     `json:"topic"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	Questions      []Question `json:"questions"`
	Answers        []string   `json:"answers"`
	CreatedAt      time.Time  `json:"created_at"`
}

type HistoryListResponse struct {
	Records  []QuizHistoryRecord `json:"records"`
	Total    int                 `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}

type HistoryDetailResponse struct {
	Record     QuizHistoryRecord `json:"record"`
	Percentage int               `json:"percentage"`
	Results    []QuestionResult  `json:"results"`
}
