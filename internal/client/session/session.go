// Package session хранит сохраненную сессию CLI между запусками:
// токены и адрес сервера. Кэш ресурсов сознательно НЕ персистентен —
// он живет в памяти процесса; на диск уходит только сессия.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound возвращается, когда сохраненной сессии нет
var ErrSessionNotFound = errors.New("session not found")

//go:generate moq -out store_mock.go . Store

// Store определяет интерфейс хранилища сессии
type Store interface {
	// Save сохраняет сессию
	Save(ctx context.Context, s *Session) error

	// Get возвращает сохраненную сессию или ErrSessionNotFound
	Get(ctx context.Context) (*Session, error)

	// Delete удаляет сессию (logout)
	Delete(ctx context.Context) error
}

// Session представляет сохраненную сессию пользователя
type Session struct {
	Username     string `json:"username"`
	UserID       string `json:"user_id"`
	ServerURL    string `json:"server_url"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // unix seconds
}

// Expired сообщает, что access token сессии истек
func (s *Session) Expired() bool {
	return s.ExpiresAt != 0 && time.Now().Unix() >= s.ExpiresAt
}
