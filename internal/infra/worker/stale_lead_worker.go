package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/xavierca1/asesor-crm/internal/entity"
	"github.com/xavierca1/asesor-crm/internal/usecase"
)

// Leads parados nestes status são arquivados como potenciais.
var staleStatuses = []entity.LeadStatus{
	entity.StatusContacting,
	entity.StatusInterested,
	entity.StatusMeetingDoubts,
}

const staleBatchSize = 100

type StaleLeadFinder interface {
	ListStale(ctx context.Context, statuses []entity.LeadStatus, before time.Time, limit int) ([]*entity.Lead, error)
}

type StatusUpdater interface {
	Execute(ctx context.Context, input usecase.UpdateLeadStatusInput) (*usecase.UpdateLeadStatusOutput, error)
}

// StaleLeadWorker arquiva leads sem movimento há mais de `after`. A mudança
// passa pelo mesmo caso de uso da API (transição validada, evento publicado).
type StaleLeadWorker struct {
	finder   StaleLeadFinder
	updater  StatusUpdater
	after    time.Duration
	schedule string
	now      func() time.Time
	logger   *zap.Logger
}

func NewStaleLeadWorker(finder StaleLeadFinder, updater StatusUpdater, after time.Duration, schedule string, logger *zap.Logger) *StaleLeadWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaleLeadWorker{
		finder:   finder,
		updater:  updater,
		after:    after,
		schedule: schedule,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// Start roda uma varredura imediata e depois segue o agendamento cron até o
// ctx ser cancelado.
func (w *StaleLeadWorker) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(w.schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("agendamento inválido %q: %w", w.schedule, err)
	}

	w.logger.Info("🕒 worker de leads parados iniciado",
		zap.Duration("after", w.after),
		zap.String("schedule", w.schedule))

	w.RunOnce(ctx)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	w.logger.Info("⚠️ worker de leads parados encerrado")
	return nil
}

// RunOnce arquiva um lote e devolve quantos leads mudaram.
func (w *StaleLeadWorker) RunOnce(ctx context.Context) int {
	cutoff := w.now().Add(-w.after)

	leads, err := w.finder.ListStale(ctx, staleStatuses, cutoff, staleBatchSize)
	if err != nil {
		w.logger.Error("❌ erro ao buscar leads parados", zap.Error(err))
		return 0
	}

	reason := fmt.Sprintf("Sin actividad por %d días", int(w.after.Hours()/24))
	archived := 0
	for _, lead := range leads {
		if ctx.Err() != nil {
			break
		}

		// Só arquiva se o lead ainda estiver exatamente como a varredura o viu.
		swept := lead.Version()
		_, err := w.updater.Execute(ctx, usecase.UpdateLeadStatusInput{
			ID:       lead.ID,
			Status:   string(entity.StatusArchivedPotential),
			Fields:   entity.LeadUpdate{CancellationReason: &reason},
			Expected: &swept,
		})
		if usecase.IsConflictError(err) {
			w.logger.Info("lead teve atividade após a varredura, mantido", zap.String("lead_id", lead.ID))
			continue
		}
		if err != nil {
			w.logger.Warn("⚠️ não foi possível arquivar lead", zap.String("lead_id", lead.ID), zap.Error(err))
			continue
		}

		w.logger.Info("⏱️ lead arquivado por inatividade",
			zap.String("lead_id", lead.ID),
			zap.Duration("idle", w.now().Sub(lead.UpdatedAt).Round(time.Hour)))
		archived++
	}

	if archived > 0 {
		w.logger.Info("✅ leads arquivados", zap.Int("count", archived))
	}
	return archived
}
