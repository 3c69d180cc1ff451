package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/asesor-crm/internal/entity"
	"github.com/xavierca1/asesor-crm/internal/infra/queue"
)

// AppointmentUseCase reúne as mutações simples de citas: atribuir, confirmar e
// registrar o feedback pós-visita.
type AppointmentUseCase struct {
	Repo   entity.AppointmentRepositoryInterface
	Events LeadEventPublisher
	Now    Clock
	logger *zap.Logger
}

func NewAppointmentUseCase(repo entity.AppointmentRepositoryInterface, events LeadEventPublisher, logger *zap.Logger) *AppointmentUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = queue.NoopProducer{}
	}
	return &AppointmentUseCase{Repo: repo, Events: events, Now: systemClock, logger: logger}
}

func (uc *AppointmentUseCase) Assign(ctx context.Context, appointmentID, advisorID string) error {
	fields := append(requireID("appointment_id", appointmentID), requireID("advisor_id", advisorID)...)
	if len(fields) > 0 {
		return newValidationError(fields)
	}

	if err := uc.Repo.Assign(ctx, appointmentID, strings.TrimSpace(advisorID)); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return notFound("cita", appointmentID)
		}
		return storeError("falha ao atribuir cita", err)
	}

	event := queue.LeadEvent{
		Type:          queue.EventAppointmentAssigned,
		AppointmentID: appointmentID,
		AdvisorID:     advisorID,
		OccurredAt:    stamp(uc.Now),
	}
	if err := uc.Events.PublishLeadEvent(ctx, event); err != nil {
		uc.logger.Warn("⚠️ cita atribuída, mas falha na fila", zap.String("appointment_id", appointmentID), zap.Error(err))
	}
	return nil
}

func (uc *AppointmentUseCase) Confirm(ctx context.Context, appointmentID string) error {
	if fields := requireID("appointment_id", appointmentID); len(fields) > 0 {
		return newValidationError(fields)
	}

	if err := uc.Repo.UpdateStatus(ctx, appointmentID, entity.AppointmentConfirmed); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return notFound("cita", appointmentID)
		}
		return storeError("falha ao confirmar cita", err)
	}
	return nil
}

// SaveFeedback grava o feedback como veio, marca a cita como completed e
// deriva is_potential. A tabela alvo depende de IsRental.
func (uc *AppointmentUseCase) SaveFeedback(ctx context.Context, input SaveAppointmentFeedbackInput) error {
	fields := requireID("appointment_id", input.AppointmentID)
	if !input.Feedback.Result.Valid() {
		fields = append(fields, ValidationError{"result", "must be interested, considering, not_interested, no_show or other"})
	}
	if len(fields) > 0 {
		return newValidationError(fields)
	}

	target := entity.FeedbackTargetFor(input.IsRental)
	if err := uc.Repo.SaveFeedback(ctx, target, input.AppointmentID, input.Feedback); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			uc.logger.Warn("feedback sem linhas afetadas",
				zap.String("table", string(target)),
				zap.String("id", input.AppointmentID))
			return appointmentNotFound(target, input.AppointmentID)
		}
		return storeError("falha ao salvar feedback", err)
	}

	uc.logger.Info("feedback registrado",
		zap.String("table", string(target)),
		zap.String("id", input.AppointmentID),
		zap.String("result", string(input.Feedback.Result)),
		zap.Bool("is_potential", input.Feedback.Potential()))
	return nil
}
