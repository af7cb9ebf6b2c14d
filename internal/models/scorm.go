package models

import "time"

// SCORMPackage представляет SCORM пакет курса.
// Удаление всегда мягкое: DELETE переводит status в inactive, строка остаётся.
type SCORMPackage struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"` // active | inactive
	FileURL     string    `json:"file_url,omitempty"`
}
