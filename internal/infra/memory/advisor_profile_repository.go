package memory

import (
	"context"
	"time"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

type AdvisorProfileRepository struct {
	s *Store
}

func (r *AdvisorProfileRepository) FindByUserID(ctx context.Context, userID string) (*entity.AdvisorProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r *AdvisorProfileRepository) EnsureExists(ctx context.Context, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[userID]; ok {
		return false, nil
	}
	r.s.profiles[userID] = &entity.AdvisorProfile{UserID: userID, UpdatedAt: time.Now().UTC()}
	return true, nil
}

func (r *AdvisorProfileRepository) Upsert(ctx context.Context, userID string, patch entity.AdvisorProfilePatch, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[userID]
	if !ok {
		p = &entity.AdvisorProfile{UserID: userID}
		r.s.profiles[userID] = p
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.WeeklyGoal != nil {
		p.WeeklyGoal = *patch.WeeklyGoal
	}
	if patch.AdvisorType != nil {
		p.AdvisorType = *patch.AdvisorType
	}
	p.UpdatedAt = updatedAt
	return nil
}

// IncrementCounter lê e escreve sob o mesmo lock, equivalente ao
// "SET x = x + 1" do Postgres.
func (r *AdvisorProfileRepository) IncrementCounter(ctx context.Context, userID string, metric entity.MetricType, updatedAt time.Time) (int, error) {
	if _, err := metric.Column(); err != nil {
		return 0, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[userID]
	if !ok {
		return 0, entity.ErrNotFound
	}

	var value int
	switch metric {
	case entity.MetricSale:
		p.SoldCount++
		value = p.SoldCount
	case entity.MetricRent:
		p.RentedCount++
		value = p.RentedCount
	}
	p.UpdatedAt = updatedAt
	return value, nil
}
