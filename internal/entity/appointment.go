package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentAssigned  AppointmentStatus = "assigned"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	ID          string               `json:"id"`
	LeadID      *string              `json:"lead_id,omitempty"`
	PropertyID  *string              `json:"property_id,omitempty"`
	Title       string               `json:"title"`
	StartTime   time.Time            `json:"start_time"`
	EndTime     time.Time            `json:"end_time"`
	ClientName  string               `json:"client_name"`
	ClientPhone string               `json:"client_phone"`
	ClientEmail string               `json:"client_email,omitempty"`
	Status      AppointmentStatus    `json:"status"`
	AssignedTo  *string              `json:"assigned_to,omitempty"`
	Feedback    *AppointmentFeedback `json:"feedback,omitempty"`
	IsPotential bool                 `json:"is_potential"`
	CreatedAt   time.Time            `json:"created_at"`
}

// FeedbackResult classifica o resultado da visita.
type FeedbackResult string

const (
	ResultInterested    FeedbackResult = "interested"
	ResultConsidering   FeedbackResult = "considering"
	ResultNotInterested FeedbackResult = "not_interested"
	ResultNoShow        FeedbackResult = "no_show"
	ResultOther         FeedbackResult = "other"
)

func (r FeedbackResult) Valid() bool {
	switch r {
	case ResultInterested, ResultConsidering, ResultNotInterested, ResultNoShow, ResultOther:
		return true
	}
	return false
}

// AppointmentFeedback é o pós-visita. IsPotential chega do formulário em
// formatos variados (bool, "true", "on") e é normalizado por ParsePotentialFlag.
type AppointmentFeedback struct {
	Result      FeedbackResult `json:"result"`
	Notes       string         `json:"notes,omitempty"`
	IsPotential any            `json:"is_potential,omitempty"`
}

func (f AppointmentFeedback) Potential() bool {
	return ParsePotentialFlag(f.IsPotential)
}

// Marshal gera o JSON gravado na coluna feedback (jsonb).
func (f AppointmentFeedback) Marshal() ([]byte, error) {
	return json.Marshal(f)
}

// ParsePotentialFlag: true, "true" e "on" viram true. Todo o resto é false,
// inclusive " on " e "TRUE": a comparação é exata.
func ParsePotentialFlag(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case *bool:
		return t != nil && *t
	case string:
		return t == "true" || t == "on"
	case json.RawMessage:
		var decoded any
		if err := json.Unmarshal(t, &decoded); err != nil {
			return false
		}
		return ParsePotentialFlag(decoded)
	}
	return false
}

// FeedbackTarget escolhe a tabela que recebe o feedback.
type FeedbackTarget string

const (
	TargetAppointments       FeedbackTarget = "appointments"
	TargetRentalApplications FeedbackTarget = "rental_applications"
)

func FeedbackTargetFor(isRental bool) FeedbackTarget {
	if isRental {
		return TargetRentalApplications
	}
	return TargetAppointments
}

func (t FeedbackTarget) Table() (string, error) {
	switch t {
	case TargetAppointments, TargetRentalApplications:
		return string(t), nil
	}
	return "", fmt.Errorf("destino de feedback inválido: %q", string(t))
}

type AppointmentRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*Appointment, error)
	// Assign grava assigned_to e status "assigned". ErrNotFound se o id não existir.
	Assign(ctx context.Context, id, advisorID string) error
	UpdateStatus(ctx context.Context, id string, status AppointmentStatus) error
	// SaveFeedback marca como completed na tabela indicada. Zero linhas afetadas = ErrNotFound.
	SaveFeedback(ctx context.Context, target FeedbackTarget, id string, feedback AppointmentFeedback) error
}
