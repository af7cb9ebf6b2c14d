package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/communitas/internal/server/jwt"
	"github.com/iudanet/communitas/pkg/api"
)

// contextKey — приватный тип ключа контекста, чтобы избежать коллизий
type contextKey string

var (
	errMissingToken       = errors.New("missing authorization token")
	errInvalidTokenFormat = errors.New("invalid authorization header format")
)

const (
	// UserIDKey — ключ контекста с ID аутентифицированного пользователя
	UserIDKey contextKey = "user_id"
	// UsernameKey — ключ контекста с username
	UsernameKey contextKey = "username"
	// IsAdminKey — ключ контекста с admin-флагом
	IsAdminKey contextKey = "is_admin"
)

// UserID возвращает ID пользователя из контекста.
// Пустая строка — анонимный запрос.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// Username возвращает username из контекста
func Username(ctx context.Context) string {
	name, _ := ctx.Value(UsernameKey).(string)
	return name
}

// IsAdmin возвращает admin-флаг из контекста
func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(IsAdminKey).(bool)
	return admin
}

// AuthMiddleware создает middleware для проверки JWT токена.
// Без валидного токена запрос отклоняется с 401.
func AuthMiddleware(logger *slog.Logger, jwtConfig jwt.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromRequest(jwtConfig, r)
			if err != nil {
				logger.Warn("Unauthorized request", "path", r.URL.Path, "error", err)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			logger.Debug("User authenticated", "user_id", claims.UserID, "username", claims.Username)

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuthMiddleware извлекает пользователя из токена, если он есть.
// Запрос без токена проходит дальше как анонимный: каталог сообществ
// доступен без аутентификации, но флаги членства считаются для viewer.
func OptionalAuthMiddleware(logger *slog.Logger, jwtConfig jwt.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := claimsFromRequest(jwtConfig, r)
			if err != nil {
				// Предъявленный, но невалидный токен — это ошибка клиента
				logger.Warn("Invalid token on optional-auth route", "path", r.URL.Path, "error", err)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin пропускает только пользователей с admin-флагом.
// Вешается после AuthMiddleware.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(r.Context()) {
				logger.Warn("Admin access denied", "user_id", UserID(r.Context()), "path", r.URL.Path)
				writeJSONError(w, http.StatusForbidden, "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func claimsFromRequest(jwtConfig jwt.Config, r *http.Request) (*jwt.CustomClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errMissingToken
	}

	// Ожидаем формат: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errInvalidTokenFormat
	}

	return jwt.ValidateAccessToken(jwtConfig, parts[1])
}

func withClaims(ctx context.Context, claims *jwt.CustomClaims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UsernameKey, claims.Username)
	ctx = context.WithValue(ctx, IsAdminKey, claims.IsAdmin)
	return ctx
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: message})
}
