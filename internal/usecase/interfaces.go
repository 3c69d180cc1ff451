package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/asesor-crm/internal/infra/queue"
)

type LeadEventPublisher interface {
	PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error
}

// Clock permite fixar o relógio nos testes.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// stamp trunca para microssegundos (resolução do timestamptz do Postgres).
func stamp(c Clock) time.Time {
	if c == nil {
		c = systemClock
	}
	return c().UTC().Truncate(time.Microsecond)
}
