package memory

import (
	"context"
	"fmt"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

type AppointmentRepository struct {
	s *Store
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	c := *a
	c.AssignedTo = cloneString(a.AssignedTo)
	return &c, nil
}

func (r *AppointmentRepository) Assign(ctx context.Context, id, advisorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return entity.ErrNotFound
	}
	a.AssignedTo = &advisorID
	a.Status = entity.AppointmentAssigned
	return nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status entity.AppointmentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return entity.ErrNotFound
	}
	a.Status = status
	return nil
}

func (r *AppointmentRepository) SaveFeedback(ctx context.Context, target entity.FeedbackTarget, id string, feedback entity.AppointmentFeedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	fb := feedback
	switch target {
	case entity.TargetAppointments:
		a, ok := r.s.appointments[id]
		if !ok {
			return entity.ErrNotFound
		}
		a.Feedback = &fb
		a.Status = entity.AppointmentCompleted
		a.IsPotential = fb.Potential()
	case entity.TargetRentalApplications:
		app, ok := r.s.rentals[id]
		if !ok {
			return entity.ErrNotFound
		}
		app.Feedback = &fb
		app.Status = string(entity.AppointmentCompleted)
		app.IsPotential = fb.Potential()
	default:
		return fmt.Errorf("destino de feedback inválido: %q", string(target))
	}
	return nil
}
