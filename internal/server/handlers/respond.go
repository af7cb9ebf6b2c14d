package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/communitas/pkg/api"
)

// sendJSON отправляет JSON ответ с указанным статусом
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   message,
		Message: http.StatusText(statusCode),
	}
	sendJSON(logger, w, resp, statusCode)
}
