package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/asesor-crm/internal/entity"
	"github.com/xavierca1/asesor-crm/internal/infra/queue"
)

type CreateLeadUseCase struct {
	Repo         entity.LeadRepositoryInterface
	ActivityRepo entity.ActivityLogRepositoryInterface
	Events       LeadEventPublisher
	Now          Clock
	logger       *zap.Logger
}

func NewCreateLeadUseCase(
	repo entity.LeadRepositoryInterface,
	activityRepo entity.ActivityLogRepositoryInterface,
	events LeadEventPublisher,
	logger *zap.Logger,
) *CreateLeadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = queue.NoopProducer{}
	}
	return &CreateLeadUseCase{
		Repo:         repo,
		ActivityRepo: activityRepo,
		Events:       events,
		Now:          systemClock,
		logger:       logger,
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	if fields := ValidateCreateLeadInput(input); len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	lead, err := entity.NewLead(input.FullName, entity.Intent(input.Intent), strings.TrimSpace(input.Phone), strings.TrimSpace(input.Email))
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	now := stamp(uc.Now)
	lead.CreatedAt = now
	lead.UpdatedAt = now
	if input.Status != "" {
		lead.Status = entity.LeadStatus(input.Status)
	}
	if id := strings.TrimSpace(input.AssignedTo); id != "" {
		lead.AssignedTo = &id
	}
	if id := strings.TrimSpace(input.ReferredBy); id != "" {
		lead.ReferredBy = &id
	}
	lead.Property = entity.PropertySnapshot{
		Ref:     input.PropertyRef,
		Title:   input.PropertyTitle,
		Address: input.PropertyAddress,
		Price:   input.PropertyPrice,
		Type:    input.PropertyType,
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrMissingField) {
			return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
		}
		return nil, storeError("falha ao criar lead", err)
	}

	uc.logActivity(ctx, lead)

	uc.publish(ctx, queue.LeadEvent{
		Type:      queue.EventLeadCreated,
		LeadID:    lead.ID,
		AdvisorID: deref(lead.AssignedTo),
		LeadName:  lead.FullName,
		Intent:    string(lead.Intent),
		ToStatus:  string(lead.Status),
	})

	uc.logger.Info("lead criado",
		zap.String("lead_id", lead.ID),
		zap.String("intent", string(lead.Intent)),
		zap.String("status", string(lead.Status)))

	return lead, nil
}

// O log de atividade alimenta a sequência (streak) do asesor. Se falhar, o lead
// já existe e não é desfeito.
func (uc *CreateLeadUseCase) logActivity(ctx context.Context, lead *entity.Lead) {
	advisorID, ok := lead.ActivityAdvisor()
	if !ok || uc.ActivityRepo == nil {
		return
	}

	entry := entity.NewActivityLogEntry(advisorID, entity.ActivityLeadRegistration, map[string]string{
		"lead_id": lead.ID,
	})
	entry.CreatedAt = lead.CreatedAt

	if err := uc.ActivityRepo.Append(ctx, entry); err != nil {
		uc.logger.Warn("⚠️ lead criado, mas falhou o registro de atividade",
			zap.String("lead_id", lead.ID),
			zap.String("advisor_id", advisorID),
			zap.Error(err))
	}
}

func (uc *CreateLeadUseCase) publish(ctx context.Context, event queue.LeadEvent) {
	event.OccurredAt = stamp(uc.Now)
	if err := uc.Events.PublishLeadEvent(ctx, event); err != nil {
		uc.logger.Warn("⚠️ lead salvo, mas falha na fila", zap.String("lead_id", event.LeadID), zap.Error(err))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
