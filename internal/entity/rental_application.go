package entity

import (
	"context"
	"time"
)

// RentalApplication é a solicitação de arrendamento. Compartilha com Lead os
// campos de investigação, pagamento e atribuição.
type RentalApplication struct {
	ID                   string    `json:"id"`
	PropertyID           string    `json:"property_id"`
	PropertyRef          string    `json:"property_ref"`
	FullName             string    `json:"full_name"`
	Phone                string    `json:"phone"`
	Email                string    `json:"email"`
	Adults               int       `json:"adults"`
	Children             int       `json:"children"`
	HasPets              bool      `json:"has_pets"`
	IncomeSource         string    `json:"income_source"`
	BureauStatus         string    `json:"bureau_status"`
	AppointmentDate      string    `json:"appointment_date"`
	AppointmentTime      string    `json:"appointment_time"`
	AcceptedRequirements bool      `json:"accepted_requirements"`
	ApplicationType      Intent    `json:"application_type,omitempty"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	AssignedTo          *string              `json:"assigned_to,omitempty"`
	PaymentStatus       PaymentStatus        `json:"payment_status,omitempty"`
	InvestigationStatus string               `json:"investigation_status,omitempty"`
	InvestigationScore  *int                 `json:"investigation_score,omitempty"`
	Feedback            *AppointmentFeedback `json:"feedback,omitempty"`
	IsPotential         bool                 `json:"is_potential"`
}

type RentalApplicationRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*RentalApplication, error)
	// Assign grava assigned_to e updated_at. ErrNotFound se o id não existir.
	Assign(ctx context.Context, id, advisorID string, updatedAt time.Time) error
}
