package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

type RentalApplicationRepository struct {
	DB *sql.DB
}

func NewRentalApplicationRepository(db *sql.DB) *RentalApplicationRepository {
	return &RentalApplicationRepository{DB: db}
}

func (r *RentalApplicationRepository) FindByID(ctx context.Context, id string) (*entity.RentalApplication, error) {
	query := `
		SELECT
			id, COALESCE(property_id::text, ''), COALESCE(property_ref, ''), full_name,
			COALESCE(phone, ''), COALESCE(email, ''),
			COALESCE(adults, 0), COALESCE(children, 0), COALESCE(has_pets, false),
			COALESCE(income_source, ''), COALESCE(bureau_status, ''),
			COALESCE(appointment_date::text, ''), COALESCE(appointment_time::text, ''),
			COALESCE(accepted_requirements, false), COALESCE(application_type, ''),
			COALESCE(status, ''), created_at, COALESCE(updated_at, created_at),
			assigned_to, COALESCE(payment_status, ''), COALESCE(investigation_status, ''),
			investigation_score, feedback, COALESCE(is_potential, false)
		FROM rental_applications
		WHERE id = $1
	`

	var app entity.RentalApplication
	var feedback []byte
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&app.ID,
		&app.PropertyID,
		&app.PropertyRef,
		&app.FullName,
		&app.Phone,
		&app.Email,
		&app.Adults,
		&app.Children,
		&app.HasPets,
		&app.IncomeSource,
		&app.BureauStatus,
		&app.AppointmentDate,
		&app.AppointmentTime,
		&app.AcceptedRequirements,
		&app.ApplicationType,
		&app.Status,
		&app.CreatedAt,
		&app.UpdatedAt,
		&app.AssignedTo,
		&app.PaymentStatus,
		&app.InvestigationStatus,
		&app.InvestigationScore,
		&feedback,
		&app.IsPotential,
	)
	if err != nil {
		return nil, mapError(err)
	}

	if len(feedback) > 0 {
		var fb entity.AppointmentFeedback
		if err := json.Unmarshal(feedback, &fb); err != nil {
			return nil, fmt.Errorf("feedback inválido na solicitação %s: %w", id, err)
		}
		app.Feedback = &fb
	}
	return &app, nil
}

func (r *RentalApplicationRepository) Assign(ctx context.Context, id, advisorID string, updatedAt time.Time) error {
	query := `UPDATE rental_applications SET assigned_to = $2, updated_at = $3 WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query, id, advisorID, updatedAt)
	if err != nil {
		return mapError(err)
	}
	return expectRows(res)
}
