package api

import "time"

// Статусы SCORM пакета
const (
	SCORMStatusActive   = "active"
	SCORMStatusInactive = "inactive"
)

// SCORMPackage представляет SCORM пакет курса
type SCORMPackage struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"` // active | inactive
	FileURL     string    `json:"file_url,omitempty"`
}

// SCORMPackageUpdate представляет частичное обновление пакета (PATCH).
// nil-поле означает "не менять". Status ограничен значениями active|inactive.
type SCORMPackageUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// IsEmpty сообщает, что обновление не затрагивает ни одного поля
func (u SCORMPackageUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil
}
