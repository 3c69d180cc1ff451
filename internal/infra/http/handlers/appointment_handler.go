package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/asesor-crm/internal/entity"
	"github.com/xavierca1/asesor-crm/internal/usecase"
)

// AppointmentHandler atende citas e solicitudes de arrendamento.
type AppointmentHandler struct {
	appointments *usecase.AppointmentUseCase
	rentals      *usecase.AssignRentalApplicationUseCase
	logger       *zap.Logger
}

func NewAppointmentHandler(appointments *usecase.AppointmentUseCase, rentals *usecase.AssignRentalApplicationUseCase, logger *zap.Logger) *AppointmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentHandler{appointments: appointments, rentals: rentals, logger: logger}
}

type AssignRequest struct {
	AdvisorID string `json:"advisor_id"`
}

func (h *AppointmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w, err)
		return
	}

	if err := h.appointments.Assign(r.Context(), chi.URLParam(r, "id"), req.AdvisorID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}

func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if err := h.appointments.Confirm(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}

func (h *AppointmentHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	h.saveFeedback(w, r, false)
}

func (h *AppointmentHandler) AssignRental(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w, err)
		return
	}

	if err := h.rentals.Execute(r.Context(), chi.URLParam(r, "id"), req.AdvisorID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}

func (h *AppointmentHandler) RentalFeedback(w http.ResponseWriter, r *http.Request) {
	h.saveFeedback(w, r, true)
}

func (h *AppointmentHandler) saveFeedback(w http.ResponseWriter, r *http.Request, isRental bool) {
	var feedback entity.AppointmentFeedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		writeBadJSON(w, err)
		return
	}

	err := h.appointments.SaveFeedback(r.Context(), usecase.SaveAppointmentFeedbackInput{
		AppointmentID: chi.URLParam(r, "id"),
		Feedback:      feedback,
		IsRental:      isRental,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeOK(w)
}
