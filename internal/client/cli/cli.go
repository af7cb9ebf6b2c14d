// Package cli реализует команды терминального клиента communitas.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/communitas/internal/client/cache"
	"github.com/iudanet/communitas/internal/client/communities"
	"github.com/iudanet/communitas/internal/client/iocli"
	"github.com/iudanet/communitas/internal/client/session"
	"github.com/iudanet/communitas/pkg/api"
)

// Размер страницы для ленты постов и новостей
const defaultPageLimit = 20

// API определяет используемую командами часть HTTP клиента
type API interface {
	// Register регистрирует нового пользователя
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)

	// Login аутентифицирует пользователя и возвращает пару токенов
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)

	// Refresh обменивает refresh token на новую пару токенов
	Refresh(ctx context.Context, req api.RefreshRequest) (*api.TokenResponse, error)

	// ListNews возвращает страницу ленты новостей
	ListNews(ctx context.Context, page, limit int) (*api.NewsListResponse, error)

	// SetToken устанавливает access token для авторизованных запросов
	SetToken(token string)
}

// Cli связывает команды с сервисами клиента
type Cli struct {
	io        iocli.IO
	apiClient API
	sessions  session.Store
	svc       *communities.Service
	store     *cache.Store
	logger    *slog.Logger
	serverURL string
}

func New(
	io iocli.IO,
	apiClient API,
	sessions session.Store,
	svc *communities.Service,
	store *cache.Store,
	logger *slog.Logger,
	serverURL string,
) *Cli {
	return &Cli{
		io:        io,
		apiClient: apiClient,
		sessions:  sessions,
		svc:       svc,
		store:     store,
		logger:    logger,
		serverURL: serverURL,
	}
}

// requireSession возвращает сохраненную сессию и устанавливает access
// token в HTTP клиент. Истекший access token прозрачно обновляется
// через refresh token; ротация сохраняется обратно в хранилище.
func (c *Cli) requireSession(ctx context.Context) (*session.Session, error) {
	sess, err := c.sessions.Get(ctx)
	if errors.Is(err, session.ErrSessionNotFound) {
		return nil, fmt.Errorf("not logged in. Please run 'communitas login' first")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if sess.Expired() {
		tokens, err := c.apiClient.Refresh(ctx, api.RefreshRequest{RefreshToken: sess.RefreshToken})
		if err != nil {
			return nil, fmt.Errorf("session expired, please run 'communitas login' again: %w", err)
		}

		// Refresh token одноразовый: сервер выдает новый при каждом обмене
		sess.AccessToken = tokens.AccessToken
		sess.RefreshToken = tokens.RefreshToken
		sess.ExpiresAt = time.Now().Unix() + tokens.ExpiresIn

		if err := c.sessions.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("failed to save refreshed session: %w", err)
		}
		c.logger.Debug("access token refreshed", "username", sess.Username)
	}

	c.apiClient.SetToken(sess.AccessToken)
	return sess, nil
}

func PrintUsage() {
	fmt.Println("Communitas Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  communitas [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version      Show version information")
	fmt.Println("  --server URL   Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH      Path to local session database (default: communitas-client.db)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register                Register new user")
	fmt.Println("  login                   Login to server")
	fmt.Println("  logout                  Logout and forget saved session")
	fmt.Println("  status                  Show authentication status")
	fmt.Println("  communities             List communities in the catalog")
	fmt.Println("  show <slug>             Show one community")
	fmt.Println("  join <slug>             Join a community (or request access)")
	fmt.Println("  posts <slug> [--follow] Show community feed, --follow keeps it updating")
	fmt.Println("  news                    Show the news feed")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  communitas register")
	fmt.Println("  communitas login")
	fmt.Println("  communitas communities")
	fmt.Println("  communitas join go-developers")
	fmt.Println("  communitas posts go-developers --follow")
	fmt.Println("  communitas --server https://example.com news")
}
