package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/asesor-crm/internal/entity"
	"github.com/xavierca1/asesor-crm/internal/infra/queue"
)

type UpdateLeadStatusUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Events LeadEventPublisher
	Now    Clock
	logger *zap.Logger
}

func NewUpdateLeadStatusUseCase(repo entity.LeadRepositoryInterface, events LeadEventPublisher, logger *zap.Logger) *UpdateLeadStatusUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = queue.NoopProducer{}
	}
	return &UpdateLeadStatusUseCase{
		Repo:   repo,
		Events: events,
		Now:    systemClock,
		logger: logger,
	}
}

func (uc *UpdateLeadStatusUseCase) Execute(ctx context.Context, input UpdateLeadStatusInput) (*UpdateLeadStatusOutput, error) {
	fields := requireID("id", input.ID)
	status, err := entity.ParseLeadStatus(input.Status)
	if err != nil {
		fields = append(fields, ValidationError{"status", "is not a known lead status"})
	}
	fields = append(fields, ValidateLeadUpdate(input.Fields)...)
	if len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	current, err := uc.Repo.FindByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			uc.logger.Warn("lead não encontrado em leads_prospectos", zap.String("lead_id", input.ID))
			return nil, leadNotFound(input.ID)
		}
		return nil, storeError("falha ao buscar lead", err)
	}

	if input.Expected != nil && !current.Version().Matches(*input.Expected) {
		return nil, &ConflictError{ID: current.ID}
	}
	if !entity.CanTransition(current.Status, status) {
		return nil, &InvalidTransitionError{From: current.Status, To: status}
	}
	if !current.Status.Valid() {
		uc.logger.Warn("lead com status legado, aceitando transição",
			zap.String("lead_id", current.ID),
			zap.String("from", string(current.Status)),
			zap.String("to", string(status)))
	}

	updatedAt := nextUpdatedAt(stamp(uc.Now), current.UpdatedAt)

	extra := input.Fields
	if status == entity.StatusArchivedPotential && current.Status != status && extra.ArchivedAt == nil {
		extra.ArchivedAt = &updatedAt
	}

	uc.logger.Info("atualizando status do lead",
		zap.String("lead_id", current.ID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(status)))

	// A transição foi validada contra `current`; o UPDATE só vale se o lead
	// ainda estiver nessa versão.
	updated, err := uc.Repo.UpdateStatus(ctx, current.ID, current.Version(), status, extra, updatedAt)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, leadNotFound(input.ID)
		}
		if errors.Is(err, entity.ErrConflict) {
			uc.logger.Warn("lead alterado durante a atualização",
				zap.String("lead_id", current.ID),
				zap.String("from", string(current.Status)),
				zap.String("to", string(status)))
			return nil, &ConflictError{ID: current.ID}
		}
		uc.logger.Error("erro do banco ao atualizar lead", zap.String("lead_id", current.ID), zap.Error(err))
		return nil, storeError("falha ao atualizar lead", err)
	}

	if current.Status != status {
		event := queue.LeadEvent{
			Type:       queue.EventLeadStatusChanged,
			LeadID:     updated.ID,
			AdvisorID:  deref(updated.AssignedTo),
			LeadName:   updated.FullName,
			Intent:     string(updated.Intent),
			FromStatus: string(current.Status),
			ToStatus:   string(status),
			OccurredAt: updatedAt,
		}
		if err := uc.Events.PublishLeadEvent(ctx, event); err != nil {
			uc.logger.Warn("⚠️ status salvo, mas falha na fila", zap.String("lead_id", updated.ID), zap.Error(err))
		}
	}

	return &UpdateLeadStatusOutput{Lead: updated, PreviousStatus: current.Status}, nil
}

// updated_at precisa avançar mesmo se o relógio empatar com a última escrita.
func nextUpdatedAt(now, previous time.Time) time.Time {
	if now.After(previous) {
		return now
	}
	return previous.Add(time.Microsecond)
}
