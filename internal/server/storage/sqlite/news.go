package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/communitas/internal/models"
)

// ListNews возвращает страницу новостей, новые первыми
func (s *Storage) ListNews(ctx context.Context, page, limit int) ([]models.NewsItem, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count news: %w", err)
	}

	query := `
		SELECT id, title, summary, url, published_at
		FROM news
		ORDER BY published_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list news: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []models.NewsItem
	for rows.Next() {
		var (
			item        models.NewsItem
			publishedAt int64
		)
		if err := rows.Scan(&item.ID, &item.Title, &item.Summary, &item.URL, &publishedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan news item: %w", err)
		}
		item.PublishedAt = time.Unix(publishedAt, 0).UTC()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate news: %w", err)
	}

	return items, total, nil
}

// CreateNewsItem добавляет новость
func (s *Storage) CreateNewsItem(ctx context.Context, item *models.NewsItem) error {
	query := `
		INSERT INTO news (id, title, summary, url, published_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		item.ID, item.Title, item.Summary, item.URL, item.PublishedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create news item: %w", err)
	}

	return nil
}
