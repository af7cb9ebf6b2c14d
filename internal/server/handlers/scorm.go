package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/communitas/internal/models"
	"github.com/iudanet/communitas/internal/server/storage"
	"github.com/iudanet/communitas/internal/validation"
	"github.com/iudanet/communitas/pkg/api"
)

// SCORMHandler обрабатывает запросы SCORM пакетов.
// Все операции требуют аутентификации (вешается в router).
type SCORMHandler struct {
	logger  *slog.Logger
	storage storage.SCORMStorage
}

// NewSCORMHandler создает новый handler SCORM пакетов
func NewSCORMHandler(logger *slog.Logger, scormStorage storage.SCORMStorage) *SCORMHandler {
	return &SCORMHandler{
		logger:  logger,
		storage: scormStorage,
	}
}

// Get обрабатывает GET /api/scorm/packages/{id}
func (h *SCORMHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := r.PathValue("id")
	pkg, err := h.storage.GetSCORMPackage(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrPackageNotFound) {
			sendError(h.logger, w, "scorm package not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get scorm package", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, packageToAPI(pkg), http.StatusOK)
}

// Update обрабатывает PATCH /api/scorm/packages/{id}.
// Частичное обновление: поля, отсутствующие в теле, не меняются.
func (h *SCORMHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var upd api.SCORMPackageUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if upd.Status != nil {
		if err := validation.ValidateSCORMStatus(*upd.Status); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	pkg, err := h.storage.UpdateSCORMPackage(ctx, id, storage.SCORMUpdate{
		Title:       upd.Title,
		Description: upd.Description,
		Status:      upd.Status,
	})
	if err != nil {
		if errors.Is(err, storage.ErrPackageNotFound) {
			sendError(h.logger, w, "scorm package not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update scorm package", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "scorm package updated", slog.String("id", id))

	sendJSON(h.logger, w, packageToAPI(pkg), http.StatusOK)
}

// Delete обрабатывает DELETE /api/scorm/packages/{id}.
// Удаление мягкое: пакет переводится в status=inactive и остается читаемым.
func (h *SCORMHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	pkg, err := h.storage.SoftDeleteSCORMPackage(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrPackageNotFound) {
			sendError(h.logger, w, "scorm package not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete scorm package", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "scorm package deactivated", slog.String("id", id))

	sendJSON(h.logger, w, packageToAPI(pkg), http.StatusOK)
}

func packageToAPI(pkg *models.SCORMPackage) api.SCORMPackage {
	return api.SCORMPackage{
		ID:          pkg.ID,
		Title:       pkg.Title,
		Description: pkg.Description,
		Status:      pkg.Status,
		FileURL:     pkg.FileURL,
		CreatedAt:   pkg.CreatedAt,
		UpdatedAt:   pkg.UpdatedAt,
	}
}
