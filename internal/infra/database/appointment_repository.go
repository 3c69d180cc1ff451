package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

type AppointmentRepository struct {
	DB *sql.DB
}

func NewAppointmentRepository(db *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: db}
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	query := `
		SELECT
			id, lead_id, property_id, COALESCE(title, ''), start_time, end_time,
			COALESCE(client_name, ''), COALESCE(client_phone, ''), COALESCE(client_email, ''),
			COALESCE(status, ''), assigned_to, feedback, COALESCE(is_potential, false), created_at
		FROM appointments
		WHERE id = $1
	`

	var a entity.Appointment
	var feedback []byte
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.LeadID,
		&a.PropertyID,
		&a.Title,
		&a.StartTime,
		&a.EndTime,
		&a.ClientName,
		&a.ClientPhone,
		&a.ClientEmail,
		&a.Status,
		&a.AssignedTo,
		&feedback,
		&a.IsPotential,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	if len(feedback) > 0 {
		var fb entity.AppointmentFeedback
		if err := json.Unmarshal(feedback, &fb); err != nil {
			return nil, fmt.Errorf("feedback inválido na cita %s: %w", id, err)
		}
		a.Feedback = &fb
	}
	return &a, nil
}

func (r *AppointmentRepository) Assign(ctx context.Context, id, advisorID string) error {
	query := `UPDATE appointments SET assigned_to = $2, status = $3 WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query, id, advisorID, string(entity.AppointmentAssigned))
	if err != nil {
		return mapError(err)
	}
	return expectRows(res)
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status entity.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $2 WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return mapError(err)
	}
	return expectRows(res)
}

// SaveFeedback grava em appointments ou rental_applications. Com RLS, uma cita
// de outro asesor também volta com zero linhas e vira ErrNotFound.
func (r *AppointmentRepository) SaveFeedback(ctx context.Context, target entity.FeedbackTarget, id string, feedback entity.AppointmentFeedback) error {
	table, err := target.Table()
	if err != nil {
		return err
	}

	payload, err := feedback.Marshal()
	if err != nil {
		return fmt.Errorf("falha ao serializar feedback: %w", err)
	}

	query := fmt.Sprintf(
		`UPDATE %s SET feedback = $2, status = $3, is_potential = $4 WHERE id = $1`,
		table,
	)

	res, err := r.DB.ExecContext(ctx, query, id, payload, string(entity.AppointmentCompleted), feedback.Potential())
	if err != nil {
		return mapError(err)
	}
	return expectRows(res)
}
