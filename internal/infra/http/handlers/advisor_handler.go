package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/asesor-crm/internal/entity"
	"github.com/xavierca1/asesor-crm/internal/infra/http/middleware"
	"github.com/xavierca1/asesor-crm/internal/usecase"
)

type AdvisorHandler struct {
	profiles *usecase.AdvisorProfileUseCase
	activity *usecase.GetActivityLogsUseCase
	logger   *zap.Logger
}

func NewAdvisorHandler(profiles *usecase.AdvisorProfileUseCase, activity *usecase.GetActivityLogsUseCase, logger *zap.Logger) *AdvisorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisorHandler{profiles: profiles, activity: activity, logger: logger}
}

type IncrementMetricsRequest struct {
	Type entity.MetricType `json:"type"`
}

type IncrementMetricsResponse struct {
	Success bool              `json:"success"`
	Type    entity.MetricType `json:"type"`
	Value   int               `json:"value"`
}

func (h *AdvisorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	// primeira visita ao painel: cria a linha mínima
	if err := h.profiles.EnsureProfileExists(r.Context(), userID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *AdvisorHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch entity.AdvisorProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadJSON(w, err)
		return
	}

	if err := h.profiles.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}

func (h *AdvisorHandler) IncrementMetrics(w http.ResponseWriter, r *http.Request) {
	var req IncrementMetricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w, err)
		return
	}

	value, err := h.profiles.IncrementMetrics(r.Context(), usecase.IncrementAdvisorMetricsInput{
		AdvisorID: chi.URLParam(r, "id"),
		Type:      req.Type,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	middleware.RecordMetricIncrement(string(req.Type))
	writeJSON(w, http.StatusOK, IncrementMetricsResponse{Success: true, Type: req.Type, Value: value})
}

func (h *AdvisorHandler) Activity(w http.ResponseWriter, r *http.Request) {
	entries, err := h.activity.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
