package models

import "time"

// Resource is a shared uploaded document visible to every authenticated
// user. ThumbnailURL is nil when the uploader supplied no thumbnail; a
// placeholder is rendered on demand and never written back.
type Resource struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	FileURL      string    `json:"file_url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ResourceListResponse struct {
	Resources []Resource `json:"resources"`
	Total     int        `json:"total"`
}
