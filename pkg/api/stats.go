package api

import "time"

// UserProfile представляет профиль пользователя в admin-статистике
type UserProfile struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	RoleID      string    `json:"role_id,omitempty"`
	LevelID     string    `json:"level_id,omitempty"`
	AreaID      string    `json:"area_id,omitempty"`
	CompanySize string    `json:"company_size,omitempty"`
	Sector      string    `json:"sector,omitempty"`
}

// Question представляет вопрос опросника
type Question struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Category  string    `json:"category,omitempty"`
	Position  int       `json:"position"`
}

// Answer представляет ответ пользователя на вопрос
type Answer struct {
	CreatedAt  time.Time `json:"created_at"`
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	UserID     string    `json:"user_id"`
	Value      string    `json:"value"`
}

// GenAIAdoption представляет запись об использовании GenAI инструментов
type GenAIAdoption struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Tool      string    `json:"tool"`
	Frequency string    `json:"frequency"` // daily | weekly | monthly | never
	Notes     string    `json:"notes,omitempty"`
}

// LookupItem представляет строку справочника (roles, levels, areas, ...)
type LookupItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListResponse представляет обёртку списочных ответов admin CRUD
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
