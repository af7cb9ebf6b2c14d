package communities

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/communitas/internal/client/cache"
	"github.com/iudanet/communitas/pkg/api"
)

//go:generate moq -out api_mock.go . CommunitiesAPI

// CommunitiesAPI определяет используемую сервисом часть HTTP клиента
type CommunitiesAPI interface {
	// ListCommunities возвращает каталог сообществ
	ListCommunities(ctx context.Context) (*api.CommunityListResponse, error)

	// GetCommunity возвращает сообщество по slug
	GetCommunity(ctx context.Context, slug string) (*api.Community, error)

	// ListPosts возвращает страницу ленты сообщества
	ListPosts(ctx context.Context, slug string, page, limit int) (*api.PostListResponse, error)

	// JoinCommunity вступает в бесплатное сообщество
	JoinCommunity(ctx context.Context, communityID string) (*api.JoinResponse, error)

	// RequestAccess создает заявку на доступ
	RequestAccess(ctx context.Context, communityID string) (*api.RequestAccessResponse, error)
}

// Ключи записей кэша
const (
	listKey = "communities"
	// PostsRefreshInterval — период автообновления ленты постов
	PostsRefreshInterval = 30 * time.Second
)

func communityKey(slug string) string { return "community:" + slug }

func postsKey(slug string, page, limit int) string {
	return fmt.Sprintf("posts:%s:%d:%d", slug, page, limit)
}

// Service управляет каталогом сообществ поверх кэша ресурсов и ведет
// конечный автомат членства через протокол оптимистичных мутаций
type Service struct {
	apiClient CommunitiesAPI
	store     *cache.Store
	logger    *slog.Logger
	list      *cache.Resource
	resources map[string]*cache.Resource
	joining   map[string]bool
	opts      cache.Options
	mu        sync.Mutex
}

// NewService создает сервис сообществ.
// opts задает политику ревалидации списка (триггеры фокуса/сети, ретраи).
func NewService(apiClient CommunitiesAPI, store *cache.Store, logger *slog.Logger, opts cache.Options) *Service {
	s := &Service{
		apiClient: apiClient,
		store:     store,
		logger:    logger,
		resources: make(map[string]*cache.Resource),
		joining:   make(map[string]bool),
		opts:      opts,
	}
	s.list = cache.NewResource(store, logger, listKey, func(ctx context.Context) (any, error) {
		return apiClient.ListCommunities(ctx)
	}, opts)
	return s
}

// ListResource возвращает ресурс каталога (для фоновых триггеров Run)
func (s *Service) ListResource() *cache.Resource { return s.list }

// Communities возвращает каталог сообществ: первый вызов блокируется до
// загрузки, дальше значение отдается из кэша с фоновой ревалидацией
func (s *Service) Communities(ctx context.Context) (*api.CommunityListResponse, cache.Entry, error) {
	entry, err := s.list.Get(ctx)
	list, _ := entry.Value.(*api.CommunityListResponse)
	return list, entry, err
}

// SubscribeCommunities подписывает наблюдателя на изменения каталога
func (s *Service) SubscribeCommunities(fn func(cache.Entry)) (cancel func()) {
	return s.store.Subscribe(listKey, fn)
}

// Community возвращает ресурс одного сообщества по slug
func (s *Service) Community(slug string) *cache.Resource {
	return s.resource(communityKey(slug), func(ctx context.Context) (any, error) {
		return s.apiClient.GetCommunity(ctx, slug)
	}, s.opts)
}

// Posts возвращает ресурс страницы ленты сообщества.
// Лента автообновляется каждые 30 секунд, пока ресурс запущен.
func (s *Service) Posts(slug string, page, limit int) *cache.Resource {
	opts := s.opts
	opts.RefreshInterval = PostsRefreshInterval
	return s.resource(postsKey(slug, page, limit), func(ctx context.Context) (any, error) {
		return s.apiClient.ListPosts(ctx, slug, page, limit)
	}, opts)
}

// resource возвращает ресурс по ключу, создавая его один раз:
// все потребители ключа делят одну запись и одну политику
func (s *Service) resource(key string, fetch func(ctx context.Context) (any, error), opts cache.Options) *cache.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.resources[key]; ok {
		return r
	}
	r := cache.NewResource(s.store, s.logger, key, fetch, opts)
	s.resources[key] = r
	return r
}

// IsJoining сообщает, идет ли сейчас мутация членства по сообществу.
// UI блокирует действие, пока флаг установлен.
func (s *Service) IsJoining(communityID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joining[communityID]
}

// Join ведет автомат членства для сообщества:
//   - free: оптимистично NonMember -> Member с member_count+1,
//     коммит POST /api/communities/join;
//   - invitation_only/paid: оптимистично NonMember -> PendingRequest без
//     изменения member_count, коммит POST /api/communities/request-access.
//
// Неудачный коммит полностью откатывает запись кэша. Повторный вызов,
// пока сообщество уже Member/PendingRequest или мутация в полете, —
// no-op: сетевой запрос не уходит.
func (s *Service) Join(ctx context.Context, communityID, accessType string) error {
	s.mu.Lock()
	if s.joining[communityID] {
		s.mu.Unlock()
		return nil
	}

	// Идемпотентность: из Member и PendingRequest повторный join не уходит в сеть
	if c, ok := s.findCached(communityID); ok && StateOf(c) != StateNonMember {
		s.mu.Unlock()
		return nil
	}

	s.joining[communityID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.joining, communityID)
		s.mu.Unlock()
	}()

	var mutation cache.Mutation
	if accessType == api.AccessFree {
		mutation = cache.Mutation{
			Key:             listKey,
			RollbackOnError: true,
			Optimistic: mapCommunity(communityID, func(c api.Community) api.Community {
				c.IsMember = true
				c.HasPendingRequest = false
				c.MemberCount++
				return c
			}),
			Commit: func(ctx context.Context) (any, error) {
				resp, err := s.apiClient.JoinCommunity(ctx, communityID)
				if err != nil {
					return nil, err
				}
				return resp.Community, nil
			},
			Reconcile: reconcileCommunity,
		}
	} else {
		mutation = cache.Mutation{
			Key:             listKey,
			RollbackOnError: true,
			Optimistic: mapCommunity(communityID, func(c api.Community) api.Community {
				c.HasPendingRequest = true
				return c
			}),
			Commit: func(ctx context.Context) (any, error) {
				resp, err := s.apiClient.RequestAccess(ctx, communityID)
				if err != nil {
					return nil, err
				}
				return resp.Community, nil
			},
			Reconcile: reconcileCommunity,
		}
	}

	if _, err := s.store.Mutate(ctx, mutation); err != nil {
		s.logger.Warn("join failed, cache rolled back",
			"community_id", communityID, "access_type", accessType, "error", err)
		return fmt.Errorf("join community %s: %w", communityID, err)
	}

	s.logger.Info("membership updated", "community_id", communityID, "access_type", accessType)
	return nil
}

// findCached ищет сообщество в закэшированном каталоге
func (s *Service) findCached(communityID string) (api.Community, bool) {
	list, _ := s.store.Read(listKey).Value.(*api.CommunityListResponse)
	if list == nil {
		return api.Community{}, false
	}
	for _, c := range list.Communities {
		if c.ID == communityID {
			return c, true
		}
	}
	return api.Community{}, false
}

// mapCommunity строит updater каталога, заменяющий одно сообщество
func mapCommunity(communityID string, apply func(api.Community) api.Community) func(prev any) any {
	return func(prev any) any {
		list, _ := prev.(*api.CommunityListResponse)
		if list == nil {
			return prev
		}
		next := &api.CommunityListResponse{
			Communities: make([]api.Community, len(list.Communities)),
			Total:       list.Total,
		}
		copy(next.Communities, list.Communities)
		for i, c := range next.Communities {
			if c.ID == communityID {
				next.Communities[i] = normalize(apply(c))
			}
		}
		return next
	}
}

// reconcileCommunity встраивает подтвержденное сервером сообщество в
// текущий каталог: серверное значение побеждает локальный прогноз
func reconcileCommunity(prev, server any) any {
	confirmed, ok := server.(api.Community)
	if !ok {
		return prev
	}
	return mapCommunity(confirmed.ID, func(api.Community) api.Community {
		return confirmed
	})(prev)
}
