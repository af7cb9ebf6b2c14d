package storage

import (
	"context"

	"github.com/iudanet/communitas/internal/models"
)

// SCORMUpdate — явное частичное обновление пакета: nil-поле не меняется.
// Никаких map[string]any — множество изменяемых полей фиксировано.
type SCORMUpdate struct {
	Title       *string
	Description *string
	Status      *string // active | inactive
}

// SCORMStorage определяет интерфейс хранилища SCORM пакетов
type SCORMStorage interface {
	// GetSCORMPackage возвращает пакет или ErrPackageNotFound
	GetSCORMPackage(ctx context.Context, id string) (*models.SCORMPackage, error)

	// CreateSCORMPackage создает пакет
	CreateSCORMPackage(ctx context.Context, pkg *models.SCORMPackage) error

	// UpdateSCORMPackage применяет частичное обновление и возвращает
	// обновленную строку или ErrPackageNotFound
	UpdateSCORMPackage(ctx context.Context, id string, upd SCORMUpdate) (*models.SCORMPackage, error)

	// SoftDeleteSCORMPackage переводит пакет в status=inactive,
	// строка остается. Возвращает обновленную строку.
	SoftDeleteSCORMPackage(ctx context.Context, id string) (*models.SCORMPackage, error)
}
