package history

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/quizzer/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert writes the record for one completed quiz attempt. Records are
// immutable once written.
func (s *Store) Insert(record *models.QuizHistoryRecord) error {
	questionsJSON, err := json.Marshal(record.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	answersJSON, err := json.Marshal(record.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	err = s.db.QueryRow(
		`INSERT INTO quiz_history (user_id, topic, score, total_questions, questions, answers)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		record.UserID, record.Topic, record.Score, record.TotalQuestions,
		questionsJSON, answersJSON,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}
	return nil
}

// ListByUser returns the user's records newest first.
func (s *Store) ListByUser(userID int64, page, pageSize int) ([]models.QuizHistoryRecord, int, error) {
	var total int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM quiz_history WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count history: %w", err)
	}

	offset := (page - 1) * pageSize
	rows, err := s.db.Query(
		`SELECT id, user_id, topic, score, total_questions, questions, answers, created_at
		 FROM quiz_history WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, pageSize, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var records []models.QuizHistoryRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list history: %w", err)
	}
	return records, total, nil
}

// GetByID fetches one record, scoped to its owner.
func (s *Store) GetByID(userID, id int64) (*models.QuizHistoryRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, topic, score, total_questions, questions, answers, created_at
		 FROM quiz_history WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return scanRecord(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.QuizHistoryRecord, error) {
	var record models.QuizHistoryRecord
	var questionsJSON, answersJSON []byte

	err := row.Scan(&record.ID, &record.UserID, &record.Topic, &record.Score,
		&record.TotalQuestions, &questionsJSON, &answersJSON, &record.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(questionsJSON, &record.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	if err := json.Unmarshal(answersJSON, &record.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	return &record, nil
}
