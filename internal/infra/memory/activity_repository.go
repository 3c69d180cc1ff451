package memory

import (
	"context"
	"sort"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

type ActivityLogRepository struct {
	s *Store
}

func (r *ActivityLogRepository) Append(ctx context.Context, entry *entity.ActivityLogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := *entry
	r.s.activity = append(r.s.activity, &c)
	return nil
}

func (r *ActivityLogRepository) ListByAdvisor(ctx context.Context, advisorID string) ([]*entity.ActivityLogEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.ActivityLogEntry
	for i := len(r.s.activity) - 1; i >= 0; i-- {
		if e := r.s.activity[i]; e.AdvisorID == advisorID {
			c := *e
			out = append(out, &c)
		}
	}
	// estável: empates de created_at ficam na ordem inversa de inserção
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
