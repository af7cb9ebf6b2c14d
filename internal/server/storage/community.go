package storage

import (
	"context"

	"github.com/iudanet/communitas/internal/models"
)

// CommunityView — сообщество вместе с вычисленными для конкретного
// пользователя флагами членства. Сервер авторитетен: флаги считаются
// из memberships/access_requests на каждом чтении.
type CommunityView struct {
	models.Community
	IsMember          bool
	HasPendingRequest bool
}

// CommunityStorage определяет интерфейс каталога сообществ
type CommunityStorage interface {
	// ListCommunities возвращает каталог с флагами для viewerID
	// (пустой viewerID — анонимный просмотр). Сортировка: сначала
	// сообщества, где пользователь состоит, затем по дате создания.
	ListCommunities(ctx context.Context, viewerID string) ([]CommunityView, error)

	// GetCommunityBySlug возвращает сообщество или ErrCommunityNotFound
	GetCommunityBySlug(ctx context.Context, slug, viewerID string) (*CommunityView, error)

	// GetCommunityByID возвращает сообщество или ErrCommunityNotFound
	GetCommunityByID(ctx context.Context, id, viewerID string) (*CommunityView, error)

	// CreateCommunity создает сообщество (используется сидером и тестами)
	CreateCommunity(ctx context.Context, c *models.Community) error

	// JoinCommunity добавляет membership и инкрементирует member_count.
	// Ошибки: ErrCommunityNotFound, ErrAlreadyMember.
	JoinCommunity(ctx context.Context, communityID, userID string) (*CommunityView, error)

	// CreateAccessRequest создает pending заявку на доступ.
	// Ошибки: ErrCommunityNotFound, ErrAlreadyMember, ErrRequestAlreadyPending.
	CreateAccessRequest(ctx context.Context, communityID, userID string) (*models.AccessRequest, *CommunityView, error)

	// ListPosts возвращает страницу ленты сообщества (новые первыми)
	// и общее количество постов
	ListPosts(ctx context.Context, communityID string, page, limit int) ([]models.Post, int, error)

	// CreatePost добавляет пост в ленту
	CreatePost(ctx context.Context, post *models.Post) error
}

// NewsStorage определяет интерфейс новостной ленты
type NewsStorage interface {
	// ListNews возвращает страницу новостей (новые первыми) и общее количество
	ListNews(ctx context.Context, page, limit int) ([]models.NewsItem, int, error)

	// CreateNewsItem добавляет новость
	CreateNewsItem(ctx context.Context, item *models.NewsItem) error
}
