package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/communitas/internal/server/handlers"
	"github.com/iudanet/communitas/internal/server/jwt"
	"github.com/iudanet/communitas/internal/server/middleware"
	"github.com/iudanet/communitas/internal/server/storage"
)

// Storage объединяет все интерфейсы хранилища, которые нужны серверу.
// Реализуется sqlite.Storage.
type Storage interface {
	storage.UserStorage
	storage.TokenStorage
	storage.CommunityStorage
	storage.NewsStorage
	storage.SCORMStorage
	storage.StatsStorage
}

// NewRouter собирает все маршруты API с middleware
func NewRouter(logger *slog.Logger, store Storage, jwtConfig jwt.Config, version string) http.Handler {
	mux := http.NewServeMux()

	authHandler := handlers.NewAuthHandler(logger, store, store, jwtConfig)
	communityHandler := handlers.NewCommunityHandler(logger, store)
	newsHandler := handlers.NewNewsHandler(logger, store)
	scormHandler := handlers.NewSCORMHandler(logger, store)
	statsHandler := handlers.NewStatsHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, version)

	requireAuth := middleware.AuthMiddleware(logger, jwtConfig)
	optionalAuth := middleware.OptionalAuthMiddleware(logger, jwtConfig)
	requireAdmin := middleware.RequireAdmin(logger)
	// Логин и регистрация ограничены жестче остальных endpoint'ов
	authRateLimit := middleware.RateLimitMiddleware(10, time.Minute, logger)

	mux.HandleFunc("GET /api/health", healthHandler.Health)

	mux.Handle("POST /api/auth/register", authRateLimit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/login", authRateLimit(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)

	// Каталог доступен анонимно, но viewer с токеном получает свои флаги
	mux.Handle("GET /api/communities", optionalAuth(http.HandlerFunc(communityHandler.List)))
	mux.Handle("GET /api/communities/{slug}", optionalAuth(http.HandlerFunc(communityHandler.Get)))
	mux.Handle("GET /api/communities/{slug}/posts", optionalAuth(http.HandlerFunc(communityHandler.Posts)))
	mux.Handle("POST /api/communities/join", requireAuth(http.HandlerFunc(communityHandler.Join)))
	mux.Handle("POST /api/communities/request-access", requireAuth(http.HandlerFunc(communityHandler.RequestAccess)))

	mux.HandleFunc("GET /api/news", newsHandler.List)

	mux.Handle("GET /api/scorm/packages/{id}", requireAuth(http.HandlerFunc(scormHandler.Get)))
	mux.Handle("PATCH /api/scorm/packages/{id}", requireAuth(http.HandlerFunc(scormHandler.Update)))
	mux.Handle("DELETE /api/scorm/packages/{id}", requireAuth(http.HandlerFunc(scormHandler.Delete)))

	admin := func(h http.HandlerFunc) http.Handler {
		return requireAuth(requireAdmin(h))
	}
	mux.Handle("GET /api/admin/user-stats/profiles", admin(statsHandler.ListProfiles))
	mux.Handle("POST /api/admin/user-stats/profiles", admin(statsHandler.CreateProfile))
	mux.Handle("PUT /api/admin/user-stats/profiles/{id}", admin(statsHandler.UpdateProfile))
	mux.Handle("DELETE /api/admin/user-stats/profiles/{id}", admin(statsHandler.DeleteProfile))
	mux.Handle("GET /api/admin/user-stats/questions", admin(statsHandler.ListQuestions))
	mux.Handle("POST /api/admin/user-stats/questions", admin(statsHandler.CreateQuestion))
	mux.Handle("PUT /api/admin/user-stats/questions/{id}", admin(statsHandler.UpdateQuestion))
	mux.Handle("DELETE /api/admin/user-stats/questions/{id}", admin(statsHandler.DeleteQuestion))
	mux.Handle("GET /api/admin/user-stats/answers", admin(statsHandler.ListAnswers))
	mux.Handle("POST /api/admin/user-stats/answers", admin(statsHandler.CreateAnswer))
	mux.Handle("DELETE /api/admin/user-stats/answers/{id}", admin(statsHandler.DeleteAnswer))
	mux.Handle("GET /api/admin/user-stats/genai-adoption", admin(statsHandler.ListGenAIAdoption))
	mux.Handle("POST /api/admin/user-stats/genai-adoption", admin(statsHandler.CreateGenAIAdoption))
	mux.Handle("DELETE /api/admin/user-stats/genai-adoption/{id}", admin(statsHandler.DeleteGenAIAdoption))
	mux.Handle("GET /api/admin/user-stats/lookup/{table}", admin(statsHandler.Lookup))

	// Внешняя цепочка: recovery снаружи, чтобы ловить паники в logging
	var handler http.Handler = mux
	handler = middleware.LoggingWithSkip(logger, []string{"/api/health"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return handler
}
