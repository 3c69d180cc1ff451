package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/asesor-crm/internal/usecase"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success bool         `json:"success"`
	Code    string       `json:"code,omitempty"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func writeBadJSON(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    usecase.CodeValidation,
		Message: "JSON inválido: " + err.Error(),
	})
}

// writeError traduz os erros dos casos de uso para status HTTP. Só erros
// técnicos são logados como erro; a mensagem crua deles não vai para o cliente.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		de *usecase.DomainError
		nf *usecase.NotFoundError
		it *usecase.InvalidTransitionError
		ce *usecase.ConflictError
	)

	switch {
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Code: usecase.CodeNotFound, Message: nf.Message})
	case errors.As(err, &it):
		writeJSON(w, http.StatusConflict, ErrorResponse{Code: usecase.CodeInvalidTransition, Message: it.Error()})
	case errors.As(err, &ce):
		writeJSON(w, http.StatusConflict, ErrorResponse{Code: usecase.CodeConflict, Message: ce.Error()})
	case errors.As(err, &de):
		resp := ErrorResponse{Code: de.Code, Message: de.Message}
		for _, f := range de.Fields {
			resp.Fields = append(resp.Fields, FieldError{Field: f.Field, Message: f.Message})
		}
		status := http.StatusUnprocessableEntity
		if de.Code == usecase.CodeValidation {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, resp)
	default:
		logger.Error("❌ erro interno", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Code:    usecase.CodeStore,
			Message: "Erro interno. Tente novamente em instantes.",
		})
	}
}
