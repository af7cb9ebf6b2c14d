package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/communitas/internal/models"
	"github.com/iudanet/communitas/internal/server/storage"
)

// GetSCORMPackage возвращает SCORM пакет по id
func (s *Storage) GetSCORMPackage(ctx context.Context, id string) (*models.SCORMPackage, error) {
	query := `
		SELECT id, title, description, status, file_url, created_at, updated_at
		FROM scorm_packages
		WHERE id = ?
	`
	return scanSCORMPackage(s.db.QueryRowContext(ctx, query, id))
}

// CreateSCORMPackage создает SCORM пакет
func (s *Storage) CreateSCORMPackage(ctx context.Context, pkg *models.SCORMPackage) error {
	query := `
		INSERT INTO scorm_packages (id, title, description, status, file_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		pkg.ID, pkg.Title, pkg.Description, pkg.Status, pkg.FileURL,
		pkg.CreatedAt.Unix(), pkg.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create scorm package: %w", err)
	}

	return nil
}

// UpdateSCORMPackage применяет частичное обновление: nil-поле не трогаем
func (s *Storage) UpdateSCORMPackage(ctx context.Context, id string, upd storage.SCORMUpdate) (*models.SCORMPackage, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if len(sets) == 0 {
		return s.GetSCORMPackage(ctx, id)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().Unix(), id)

	query := fmt.Sprintf(`UPDATE scorm_packages SET %s WHERE id = ?`, strings.Join(sets, ", "))
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update scorm package: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrPackageNotFound
	}

	return s.GetSCORMPackage(ctx, id)
}

// SoftDeleteSCORMPackage переводит пакет в status=inactive
func (s *Storage) SoftDeleteSCORMPackage(ctx context.Context, id string) (*models.SCORMPackage, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE scorm_packages SET status = 'inactive', updated_at = ? WHERE id = ?`,
		time.Now().UTC().Unix(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to soft delete scorm package: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrPackageNotFound
	}

	return s.GetSCORMPackage(ctx, id)
}

func scanSCORMPackage(row *sql.Row) (*models.SCORMPackage, error) {
	var (
		pkg       models.SCORMPackage
		createdAt int64
		updatedAt int64
	)

	err := row.Scan(&pkg.ID, &pkg.Title, &pkg.Description, &pkg.Status, &pkg.FileURL, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan scorm package: %w", err)
	}

	pkg.CreatedAt = time.Unix(createdAt, 0).UTC()
	pkg.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &pkg, nil
}
