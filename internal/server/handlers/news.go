package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/communitas/internal/server/storage"
	"github.com/iudanet/communitas/internal/validation"
	"github.com/iudanet/communitas/pkg/api"
)

// NewsHandler обрабатывает запросы новостной ленты
type NewsHandler struct {
	logger  *slog.Logger
	storage storage.NewsStorage
}

// NewNewsHandler создает новый handler новостей
func NewNewsHandler(logger *slog.Logger, newsStorage storage.NewsStorage) *NewsHandler {
	return &NewsHandler{
		logger:  logger,
		storage: newsStorage,
	}
}

// List обрабатывает GET /api/news?page=N&limit=M
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, limit, err := validation.ParsePagination(r.URL.Query())
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	items, total, err := h.storage.ListNews(ctx, page, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list news", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.NewsListResponse{
		News:  make([]api.NewsItem, 0, len(items)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, item := range items {
		resp.News = append(resp.News, api.NewsItem{
			ID:          item.ID,
			Title:       item.Title,
			Summary:     item.Summary,
			URL:         item.URL,
			PublishedAt: item.PublishedAt,
		})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}
