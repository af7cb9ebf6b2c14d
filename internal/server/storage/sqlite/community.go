package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/communitas/internal/models"
	"github.com/iudanet/communitas/internal/server/storage"
)

// communitySelect вычисляет флаги членства прямо в запросе: сервер
// авторитетен, флаги никогда не хранятся денормализованно.
const communitySelect = `
	SELECT c.id, c.name, c.description, c.slug, c.visibility, c.access_type,
	       c.member_count, c.created_at, c.updated_at,
	       EXISTS (
	           SELECT 1 FROM memberships m
	           WHERE m.community_id = c.id AND m.user_id = ?
	       ) AS is_member,
	       EXISTS (
	           SELECT 1 FROM access_requests r
	           WHERE r.community_id = c.id AND r.requester_id = ? AND r.status = 'pending'
	       ) AS has_pending_request
	FROM communities c
`

// ListCommunities возвращает каталог с флагами членства для viewerID
func (s *Storage) ListCommunities(ctx context.Context, viewerID string) ([]storage.CommunityView, error) {
	query := communitySelect + ` ORDER BY is_member DESC, c.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, viewerID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var views []storage.CommunityView
	for rows.Next() {
		view, err := scanCommunity(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate communities: %w", err)
	}

	return views, nil
}

// GetCommunityBySlug возвращает сообщество по slug
func (s *Storage) GetCommunityBySlug(ctx context.Context, slug, viewerID string) (*storage.CommunityView, error) {
	query := communitySelect + ` WHERE c.slug = ?`

	rows, err := s.db.QueryContext(ctx, query, viewerID, viewerID, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get community: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return oneCommunity(rows)
}

// GetCommunityByID возвращает сообщество по id
func (s *Storage) GetCommunityByID(ctx context.Context, id, viewerID string) (*storage.CommunityView, error) {
	query := communitySelect + ` WHERE c.id = ?`

	rows, err := s.db.QueryContext(ctx, query, viewerID, viewerID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get community: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return oneCommunity(rows)
}

// CreateCommunity создает сообщество
func (s *Storage) CreateCommunity(ctx context.Context, c *models.Community) error {
	query := `
		INSERT INTO communities (id, name, description, slug, visibility, access_type,
		                         member_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Description, c.Slug, c.Visibility, c.AccessType,
		c.MemberCount, c.CreatedAt.Unix(), c.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create community: %w", err)
	}

	return nil
}

// JoinCommunity добавляет membership и инкрементирует member_count
// в одной транзакции. Возвращает свежее состояние сообщества.
func (s *Storage) JoinCommunity(ctx context.Context, communityID, userID string) (*storage.CommunityView, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM communities WHERE id = ?`, communityID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrCommunityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check community: %w", err)
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO memberships (community_id, user_id, joined_at) VALUES (?, ?, ?)`,
		communityID, userID, now.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, storage.ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE communities SET member_count = member_count + 1, updated_at = ? WHERE id = ?`,
		now.Unix(), communityID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to increment member count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit join: %w", err)
	}

	return s.GetCommunityByID(ctx, communityID, userID)
}

// CreateAccessRequest создает pending заявку на доступ
func (s *Storage) CreateAccessRequest(ctx context.Context, communityID, userID string) (*models.AccessRequest, *storage.CommunityView, error) {
	current, err := s.GetCommunityByID(ctx, communityID, userID)
	if err != nil {
		return nil, nil, err
	}
	if current.IsMember {
		return nil, nil, storage.ErrAlreadyMember
	}
	if current.HasPendingRequest {
		return nil, nil, storage.ErrRequestAlreadyPending
	}

	req := &models.AccessRequest{
		ID:          uuid.New().String(),
		CommunityID: communityID,
		RequesterID: userID,
		Status:      "pending",
		CreatedAt:   time.Now().UTC(),
	}

	query := `
		INSERT INTO access_requests (id, community_id, requester_id, status, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		req.ID, req.CommunityID, req.RequesterID, req.Status, req.Note, req.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create access request: %w", err)
	}

	view, err := s.GetCommunityByID(ctx, communityID, userID)
	if err != nil {
		return nil, nil, err
	}
	return req, view, nil
}

// ListPosts возвращает страницу ленты сообщества, новые первыми
func (s *Storage) ListPosts(ctx context.Context, communityID string, page, limit int) ([]models.Post, int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE community_id = ?`, communityID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := `
		SELECT id, community_id, author_id, title, body, created_at
		FROM posts
		WHERE community_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, communityID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []models.Post
	for rows.Next() {
		var (
			post      models.Post
			createdAt int64
		)
		err := rows.Scan(&post.ID, &post.CommunityID, &post.AuthorID, &post.Title, &post.Body, &createdAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		post.CreatedAt = time.Unix(createdAt, 0).UTC()
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, total, nil
}

// CreatePost добавляет пост в ленту сообщества
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, community_id, author_id, title, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		post.ID, post.CommunityID, post.AuthorID, post.Title, post.Body, post.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

func scanCommunity(rows *sql.Rows) (*storage.CommunityView, error) {
	var (
		view      storage.CommunityView
		createdAt int64
		updatedAt int64
		isMember  int
		pending   int
	)

	err := rows.Scan(
		&view.ID, &view.Name, &view.Description, &view.Slug,
		&view.Visibility, &view.AccessType, &view.MemberCount,
		&createdAt, &updatedAt, &isMember, &pending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan community: %w", err)
	}

	view.CreatedAt = time.Unix(createdAt, 0).UTC()
	view.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	view.IsMember = isMember == 1
	// Член не может иметь pending заявку одновременно
	view.HasPendingRequest = pending == 1 && !view.IsMember
	return &view, nil
}

func oneCommunity(rows *sql.Rows) (*storage.CommunityView, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read community: %w", err)
		}
		return nil, storage.ErrCommunityNotFound
	}
	return scanCommunity(rows)
}
