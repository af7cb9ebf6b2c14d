package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/communitas/internal/models"
	"github.com/iudanet/communitas/internal/server/storage"
	"github.com/iudanet/communitas/pkg/api"
)

// StatsHandler обрабатывает admin CRUD по user-stats.
// Все маршруты за AuthMiddleware + RequireAdmin.
type StatsHandler struct {
	logger  *slog.Logger
	storage storage.StatsStorage
}

// NewStatsHandler создает новый handler admin user-stats
func NewStatsHandler(logger *slog.Logger, statsStorage storage.StatsStorage) *StatsHandler {
	return &StatsHandler{
		logger:  logger,
		storage: statsStorage,
	}
}

// ListProfiles обрабатывает GET /api/admin/user-stats/profiles
func (h *StatsHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profiles, err := h.storage.ListUserProfiles(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list profiles", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ListResponse[api.UserProfile]{
		Items: make([]api.UserProfile, 0, len(profiles)),
		Total: len(profiles),
	}
	for _, p := range profiles {
		resp.Items = append(resp.Items, profileToAPI(p))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// CreateProfile обрабатывает POST /api/admin/user-stats/profiles
func (h *StatsHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		sendError(h.logger, w, "user_id is required", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	profile := &models.UserProfile{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		RoleID:      req.RoleID,
		LevelID:     req.LevelID,
		AreaID:      req.AreaID,
		CompanySize: req.CompanySize,
		Sector:      req.Sector,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.storage.CreateUserProfile(ctx, profile); err != nil {
		h.logger.ErrorContext(ctx, "failed to create profile", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, profileToAPI(*profile), http.StatusCreated)
}

// UpdateProfile обрабатывает PUT /api/admin/user-stats/profiles/{id}
func (h *StatsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var req api.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	profile := &models.UserProfile{
		ID:          id,
		UserID:      req.UserID,
		RoleID:      req.RoleID,
		LevelID:     req.LevelID,
		AreaID:      req.AreaID,
		CompanySize: req.CompanySize,
		Sector:      req.Sector,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := h.storage.UpdateUserProfile(ctx, profile); err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			sendError(h.logger, w, "profile not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update profile", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, profileToAPI(*profile), http.StatusOK)
}

// DeleteProfile обрабатывает DELETE /api/admin/user-stats/profiles/{id}
func (h *StatsHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, "profile", h.storage.DeleteUserProfile)
}

// ListQuestions обрабатывает GET /api/admin/user-stats/questions
func (h *StatsHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	questions, err := h.storage.ListQuestions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list questions", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ListResponse[api.Question]{
		Items: make([]api.Question, 0, len(questions)),
		Total: len(questions),
	}
	for _, q := range questions {
		resp.Items = append(resp.Items, questionToAPI(q))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// CreateQuestion обрабатывает POST /api/admin/user-stats/questions
func (h *StatsHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.Question
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		sendError(h.logger, w, "text is required", http.StatusBadRequest)
		return
	}

	question := &models.Question{
		ID:        uuid.New().String(),
		Text:      req.Text,
		Category:  req.Category,
		Position:  req.Position,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.storage.CreateQuestion(ctx, question); err != nil {
		h.logger.ErrorContext(ctx, "failed to create question", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, questionToAPI(*question), http.StatusCreated)
}

// UpdateQuestion обрабатывает PUT /api/admin/user-stats/questions/{id}
func (h *StatsHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var req api.Question
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	question := &models.Question{
		ID:       id,
		Text:     req.Text,
		Category: req.Category,
		Position: req.Position,
	}

	if err := h.storage.UpdateQuestion(ctx, question); err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			sendError(h.logger, w, "question not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update question", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, questionToAPI(*question), http.StatusOK)
}

// DeleteQuestion обрабатывает DELETE /api/admin/user-stats/questions/{id}
func (h *StatsHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, "question", h.storage.DeleteQuestion)
}

// ListAnswers обрабатывает GET /api/admin/user-stats/answers
func (h *StatsHandler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	answers, err := h.storage.ListAnswers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list answers", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ListResponse[api.Answer]{
		Items: make([]api.Answer, 0, len(answers)),
		Total: len(answers),
	}
	for _, a := range answers {
		resp.Items = append(resp.Items, api.Answer{
			ID:         a.ID,
			QuestionID: a.QuestionID,
			UserID:     a.UserID,
			Value:      a.Value,
			CreatedAt:  a.CreatedAt,
		})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// CreateAnswer обрабатывает POST /api/admin/user-stats/answers
func (h *StatsHandler) CreateAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.Answer
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.QuestionID == "" || req.UserID == "" {
		sendError(h.logger, w, "question_id and user_id are required", http.StatusBadRequest)
		return
	}

	answer := &models.Answer{
		ID:         uuid.New().String(),
		QuestionID: req.QuestionID,
		UserID:     req.UserID,
		Value:      req.Value,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.storage.CreateAnswer(ctx, answer); err != nil {
		h.logger.ErrorContext(ctx, "failed to create answer", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.Answer{
		ID:         answer.ID,
		QuestionID: answer.QuestionID,
		UserID:     answer.UserID,
		Value:      answer.Value,
		CreatedAt:  answer.CreatedAt,
	}, http.StatusCreated)
}

// DeleteAnswer обрабатывает DELETE /api/admin/user-stats/answers/{id}
func (h *StatsHandler) DeleteAnswer(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, "answer", h.storage.DeleteAnswer)
}

// ListGenAIAdoption обрабатывает GET /api/admin/user-stats/genai-adoption
func (h *StatsHandler) ListGenAIAdoption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.storage.ListGenAIAdoption(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list genai adoption", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ListResponse[api.GenAIAdoption]{
		Items: make([]api.GenAIAdoption, 0, len(records)),
		Total: len(records),
	}
	for _, g := range records {
		resp.Items = append(resp.Items, genaiToAPI(g))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// CreateGenAIAdoption обрабатывает POST /api/admin/user-stats/genai-adoption
func (h *StatsHandler) CreateGenAIAdoption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.GenAIAdoption
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Tool == "" {
		sendError(h.logger, w, "user_id and tool are required", http.StatusBadRequest)
		return
	}

	record := &models.GenAIAdoption{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Tool:      req.Tool,
		Frequency: req.Frequency,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.storage.CreateGenAIAdoption(ctx, record); err != nil {
		h.logger.ErrorContext(ctx, "failed to create genai adoption", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, genaiToAPI(*record), http.StatusCreated)
}

// DeleteGenAIAdoption обрабатывает DELETE /api/admin/user-stats/genai-adoption/{id}
func (h *StatsHandler) DeleteGenAIAdoption(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, "genai adoption record", h.storage.DeleteGenAIAdoption)
}

// Lookup обрабатывает GET /api/admin/user-stats/lookup/{table}.
// Имена в URL через дефис (company-sizes), в БД через подчеркивание.
func (h *StatsHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	table := strings.ReplaceAll(r.PathValue("table"), "-", "_")

	items, err := h.storage.ListLookup(ctx, table)
	if err != nil {
		if errors.Is(err, storage.ErrUnknownLookup) {
			sendError(h.logger, w, "unknown lookup table", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to list lookup", slog.String("table", table), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ListResponse[api.LookupItem]{
		Items: make([]api.LookupItem, 0, len(items)),
		Total: len(items),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, api.LookupItem{ID: item.ID, Name: item.Name})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// deleteRecord — общий путь DELETE-обработчиков user-stats
func (h *StatsHandler) deleteRecord(w http.ResponseWriter, r *http.Request, kind string, del func(ctx context.Context, id string) error) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := del(ctx, id); err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			sendError(h.logger, w, kind+" not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete "+kind, slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, nil, http.StatusNoContent)
}

func profileToAPI(p models.UserProfile) api.UserProfile {
	return api.UserProfile{
		ID:          p.ID,
		UserID:      p.UserID,
		RoleID:      p.RoleID,
		LevelID:     p.LevelID,
		AreaID:      p.AreaID,
		CompanySize: p.CompanySize,
		Sector:      p.Sector,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func questionToAPI(q models.Question) api.Question {
	return api.Question{
		ID:        q.ID,
		Text:      q.Text,
		Category:  q.Category,
		Position:  q.Position,
		CreatedAt: q.CreatedAt,
	}
}

func genaiToAPI(g models.GenAIAdoption) api.GenAIAdoption {
	return api.GenAIAdoption{
		ID:        g.ID,
		UserID:    g.UserID,
		Tool:      g.Tool,
		Frequency: g.Frequency,
		Notes:     g.Notes,
		CreatedAt: g.CreatedAt,
	}
}
