package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

type LeadRepository struct {
	s *Store
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	if lead.FullName == "" {
		return fmt.Errorf("%w: full_name", entity.ErrMissingField)
	}
	if lead.Intent == "" {
		return fmt.Errorf("%w: intent", entity.ErrMissingField)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.leads[lead.ID]; exists {
		return fmt.Errorf("lead %s já existe", lead.ID)
	}
	r.s.leads[lead.ID] = cloneLead(lead)
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	lead, ok := r.s.leads[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return cloneLead(lead), nil
}

func (r *LeadRepository) List(ctx context.Context, assignedTo string) ([]*entity.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.Lead
	for _, l := range r.s.leads {
		if assignedTo != "" && (l.AssignedTo == nil || *l.AssignedTo != assignedTo) {
			continue
		}
		out = append(out, cloneLead(l))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, expected entity.LeadVersion, status entity.LeadStatus, fields entity.LeadUpdate, updatedAt time.Time) (*entity.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lead, ok := r.s.leads[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if !lead.Version().Matches(expected) {
		return nil, entity.ErrConflict
	}
	lead.Status = status
	fields.Apply(lead)
	lead.UpdatedAt = updatedAt
	return cloneLead(lead), nil
}

func (r *LeadRepository) ListStale(ctx context.Context, statuses []entity.LeadStatus, before time.Time, limit int) ([]*entity.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[entity.LeadStatus]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}

	var out []*entity.Lead
	for _, l := range r.s.leads {
		if wanted[l.Status] && l.UpdatedAt.Before(before) {
			out = append(out, cloneLead(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
