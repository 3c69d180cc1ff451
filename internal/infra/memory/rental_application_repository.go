package memory

import (
	"context"
	"time"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

type RentalApplicationRepository struct {
	s *Store
}

func (r *RentalApplicationRepository) FindByID(ctx context.Context, id string) (*entity.RentalApplication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	app, ok := r.s.rentals[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	c := *app
	c.AssignedTo = cloneString(app.AssignedTo)
	return &c, nil
}

func (r *RentalApplicationRepository) Assign(ctx context.Context, id, advisorID string, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	app, ok := r.s.rentals[id]
	if !ok {
		return entity.ErrNotFound
	}
	app.AssignedTo = &advisorID
	app.UpdatedAt = updatedAt
	return nil
}
