package storage

import (
	"context"

	"github.com/iudanet/communitas/internal/models"
)

// UserStorage определяет интерфейс для работы с пользователями
type UserStorage interface {
	// CreateUser создает нового пользователя
	// Возвращает ErrUserAlreadyExists при дубликате username
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername возвращает пользователя по username
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID возвращает пользователя по ID
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// TokenStorage определяет интерфейс для работы с refresh токенами
type TokenStorage interface {
	// SaveRefreshToken сохраняет refresh token
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error

	// GetRefreshToken возвращает токен по хешу или ErrTokenNotFound
	GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// DeleteRefreshToken удаляет токен по хешу
	DeleteRefreshToken(ctx context.Context, tokenHash string) error

	// DeleteUserTokens удаляет все токены пользователя
	DeleteUserTokens(ctx context.Context, userID string) error
}
