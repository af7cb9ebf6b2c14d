package storage

import (
	"context"

	"github.com/iudanet/communitas/internal/models"
)

// Имена справочников admin user-stats
var LookupTables = []string{"roles", "levels", "areas", "relationships", "company_sizes", "sectors"}

// StatsStorage определяет интерфейс admin user-stats CRUD.
// Тонкий REST CRUD: методы возвращают сохраненную сущность,
// ErrRecordNotFound при отсутствии строки.
type StatsStorage interface {
	ListUserProfiles(ctx context.Context) ([]models.UserProfile, error)
	CreateUserProfile(ctx context.Context, p *models.UserProfile) error
	UpdateUserProfile(ctx context.Context, p *models.UserProfile) error
	DeleteUserProfile(ctx context.Context, id string) error

	ListQuestions(ctx context.Context) ([]models.Question, error)
	CreateQuestion(ctx context.Context, q *models.Question) error
	UpdateQuestion(ctx context.Context, q *models.Question) error
	DeleteQuestion(ctx context.Context, id string) error

	ListAnswers(ctx context.Context) ([]models.Answer, error)
	CreateAnswer(ctx context.Context, a *models.Answer) error
	DeleteAnswer(ctx context.Context, id string) error

	ListGenAIAdoption(ctx context.Context) ([]models.GenAIAdoption, error)
	CreateGenAIAdoption(ctx context.Context, g *models.GenAIAdoption) error
	DeleteGenAIAdoption(ctx context.Context, id string) error

	// ListLookup возвращает справочник по имени таблицы из LookupTables,
	// ErrUnknownLookup для прочих имен
	ListLookup(ctx context.Context, table string) ([]models.LookupItem, error)
}
