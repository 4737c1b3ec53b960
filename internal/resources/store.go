package resources

import (
	"database/sql"
	"fmt"

	"github.com/quizzer/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(resource *models.Resource) error {
	err := s.db.QueryRow(
		`INSERT INTO resources (user_id, name, description, file_url, thumbnail_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		resource.UserID, resource.Name, resource.Description,
		resource.FileURL, resource.ThumbnailURL,
	).Scan(&resource.ID, &resource.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert resource: %w", err)
	}
	return nil
}

// ListAll returns every user's resources, newest first. The library is
// shared: uploads are visible to all authenticated users.
func (s *Store) ListAll() ([]models.Resource, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, name, description, file_url, thumbnail_url, created_at
		 FROM resources ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var resources []models.Resource
	for rows.Next() {
		var res models.Resource
		if err := rows.Scan(&res.ID, &res.UserID, &res.Name, &res.Description,
			&res.FileURL, &res.ThumbnailURL, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, nil
}

func (s *Store) GetByID(id int64) (*models.Resource, error) {
	var res models.Resource
	err := s.db.QueryRow(
		`SELECT id, user_id, name, description, file_url, thumbnail_url, created_at
		 FROM resources WHERE id = $1`,
		id,
	).Scan(&res.ID, &res.UserID, &res.Name, &res.Description,
		&res.FileURL, &res.ThumbnailURL, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
