package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/asesor-crm/internal/entity"
	"github.com/xavierca1/asesor-crm/internal/infra/http/middleware"
	"github.com/xavierca1/asesor-crm/internal/usecase"
)

type LeadHandler struct {
	createLead   *usecase.CreateLeadUseCase
	updateStatus *usecase.UpdateLeadStatusUseCase
	closeLead    *usecase.CloseLeadUseCase
	queries      *usecase.LeadQueryUseCase
	rateLimiter  *RateLimiter
	logger       *zap.Logger
}

func NewLeadHandler(
	createLead *usecase.CreateLeadUseCase,
	updateStatus *usecase.UpdateLeadStatusUseCase,
	closeLead *usecase.CloseLeadUseCase,
	queries *usecase.LeadQueryUseCase,
	logger *zap.Logger,
) *LeadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadHandler{
		createLead:   createLead,
		updateStatus: updateStatus,
		closeLead:    closeLead,
		queries:      queries,
		rateLimiter:  NewRateLimiter(10, time.Minute), // 10 req/min por IP
		logger:       logger,
	}
}

// UpdateStatusRequest: status + campos extras no mesmo nível do JSON.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	entity.LeadUpdate
}

type CloseLeadRequest struct {
	AdvisorID string            `json:"advisor_id"`
	Type      entity.MetricType `json:"type"`
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeBadJSON(w, err)
		return
	}

	lead, err := h.createLead.Execute(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	middleware.RecordLeadCreated(string(lead.Intent))
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.queries.List(r.Context(), r.URL.Query().Get("assigned_to"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.queries.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w, err)
		return
	}

	out, err := h.updateStatus.Execute(r.Context(), usecase.UpdateLeadStatusInput{
		ID:     chi.URLParam(r, "id"),
		Status: req.Status,
		Fields: req.LeadUpdate,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if out.PreviousStatus != out.Lead.Status {
		middleware.RecordLeadTransition(string(out.PreviousStatus), string(out.Lead.Status))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) Close(w http.ResponseWriter, r *http.Request) {
	// corpo opcional: sem ele vale o asesor atribuído e a métrica do intent
	var req CloseLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadJSON(w, err)
		return
	}

	out, err := h.closeLead.Execute(r.Context(), usecase.CloseLeadInput{
		LeadID:    chi.URLParam(r, "id"),
		AdvisorID: req.AdvisorID,
		Type:      req.Type,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if !out.AlreadyWon {
		middleware.RecordLeadTransition(string(out.PreviousStatus), string(entity.StatusClosedWon))
		middleware.RecordMetricIncrement(string(out.Metric))
	}
	writeJSON(w, http.StatusOK, out)
}

// Stop encerra a limpeza do rate limiter.
func (h *LeadHandler) Stop() {
	h.rateLimiter.Stop()
}
