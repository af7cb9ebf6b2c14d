package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/communitas/internal/server/middleware"
	"github.com/iudanet/communitas/internal/server/storage"
	"github.com/iudanet/communitas/internal/validation"
	"github.com/iudanet/communitas/pkg/api"
)

// CommunityHandler обрабатывает запросы каталога сообществ
type CommunityHandler struct {
	logger  *slog.Logger
	storage storage.CommunityStorage
}

// NewCommunityHandler создает новый handler каталога сообществ
func NewCommunityHandler(logger *slog.Logger, communityStorage storage.CommunityStorage) *CommunityHandler {
	return &CommunityHandler{
		logger:  logger,
		storage: communityStorage,
	}
}

// List обрабатывает GET /api/communities.
// Доступен анонимно; для аутентифицированного viewer сервер считает
// флаги членства и сортирует каталог: сначала сообщества пользователя.
func (h *CommunityHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewerID := middleware.UserID(ctx)

	views, err := h.storage.ListCommunities(ctx, viewerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list communities", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.CommunityListResponse{
		Communities: make([]api.Community, 0, len(views)),
		Total:       len(views),
	}
	for _, view := range views {
		resp.Communities = append(resp.Communities, viewToAPI(view))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get обрабатывает GET /api/communities/{slug}
func (h *CommunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slug := r.PathValue("slug")
	if err := validation.ValidateSlug(slug); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.storage.GetCommunityBySlug(ctx, slug, middleware.UserID(ctx))
	if err != nil {
		if errors.Is(err, storage.ErrCommunityNotFound) {
			sendError(h.logger, w, "community not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get community", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	community := viewToAPI(*view)
	sendJSON(h.logger, w, community, http.StatusOK)
}

// Posts обрабатывает GET /api/communities/{slug}/posts?page=N&limit=M
func (h *CommunityHandler) Posts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slug := r.PathValue("slug")
	if err := validation.ValidateSlug(slug); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	page, limit, err := validation.ParsePagination(r.URL.Query())
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.storage.GetCommunityBySlug(ctx, slug, middleware.UserID(ctx))
	if err != nil {
		if errors.Is(err, storage.ErrCommunityNotFound) {
			sendError(h.logger, w, "community not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get community", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	posts, total, err := h.storage.ListPosts(ctx, view.ID, page, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list posts", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.PostListResponse{
		Posts: make([]api.Post, 0, len(posts)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, post := range posts {
		resp.Posts = append(resp.Posts, api.Post{
			ID:          post.ID,
			CommunityID: post.CommunityID,
			AuthorID:    post.AuthorID,
			Title:       post.Title,
			Body:        post.Body,
			CreatedAt:   post.CreatedAt,
		})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Join обрабатывает POST /api/communities/join.
// Вступление напрямую доступно только в free сообщества; ответ всегда
// содержит авторитативное состояние сообщества после операции.
func (h *CommunityHandler) Join(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req api.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.CommunityID == "" {
		sendError(h.logger, w, "communityId is required", http.StatusBadRequest)
		return
	}

	current, err := h.storage.GetCommunityByID(ctx, req.CommunityID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrCommunityNotFound) {
			sendError(h.logger, w, "community not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get community", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if current.AccessType != api.AccessFree {
		sendError(h.logger, w, "community requires an access request", http.StatusBadRequest)
		return
	}

	view, err := h.storage.JoinCommunity(ctx, req.CommunityID, userID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrCommunityNotFound):
			sendError(h.logger, w, "community not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrAlreadyMember):
			sendError(h.logger, w, "already a member", http.StatusConflict)
		default:
			h.logger.ErrorContext(ctx, "failed to join community", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "user joined community",
		slog.String("user_id", userID),
		slog.String("community_id", req.CommunityID))

	resp := api.JoinResponse{
		Community: viewToAPI(*view),
		Message:   "joined",
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// RequestAccess обрабатывает POST /api/communities/request-access.
// Повторная заявка при уже существующей pending — 409.
func (h *CommunityHandler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req api.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.CommunityID == "" {
		sendError(h.logger, w, "communityId is required", http.StatusBadRequest)
		return
	}

	accessReq, view, err := h.storage.CreateAccessRequest(ctx, req.CommunityID, userID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrCommunityNotFound):
			sendError(h.logger, w, "community not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrAlreadyMember):
			sendError(h.logger, w, "already a member", http.StatusConflict)
		case errors.Is(err, storage.ErrRequestAlreadyPending):
			sendError(h.logger, w, "access request already pending", http.StatusConflict)
		default:
			h.logger.ErrorContext(ctx, "failed to create access request", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "access request created",
		slog.String("user_id", userID),
		slog.String("community_id", req.CommunityID),
		slog.String("request_id", accessReq.ID))

	resp := api.RequestAccessResponse{
		Community: viewToAPI(*view),
		Request: api.AccessRequest{
			ID:          accessReq.ID,
			CommunityID: accessReq.CommunityID,
			RequesterID: accessReq.RequesterID,
			Status:      accessReq.Status,
			Note:        accessReq.Note,
			CreatedAt:   accessReq.CreatedAt,
			ReviewedAt:  accessReq.ReviewedAt,
		},
	}

	sendJSON(h.logger, w, resp, http.StatusCreated)
}

// viewToAPI конвертирует storage view в wire-представление
func viewToAPI(view storage.CommunityView) api.Community {
	return api.Community{
		ID:                view.ID,
		Name:              view.Name,
		Description:       view.Description,
		Slug:              view.Slug,
		Visibility:        view.Visibility,
		AccessType:        view.AccessType,
		MemberCount:       view.MemberCount,
		IsMember:          view.IsMember,
		HasPendingRequest: view.HasPendingRequest,
		CreatedAt:         view.CreatedAt,
		UpdatedAt:         view.UpdatedAt,
	}
}
