package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

// CloseLeadUseCase fecha a venda/renta (closed_won) e credita o asesor.
// Se o incremento falhar, o status anterior é restaurado.
type CloseLeadUseCase struct {
	Repo         entity.LeadRepositoryInterface
	UpdateStatus *UpdateLeadStatusUseCase
	Profiles     *AdvisorProfileUseCase
	Now          Clock
	logger       *zap.Logger
}

func NewCloseLeadUseCase(
	repo entity.LeadRepositoryInterface,
	updateStatus *UpdateLeadStatusUseCase,
	profiles *AdvisorProfileUseCase,
	logger *zap.Logger,
) *CloseLeadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CloseLeadUseCase{
		Repo:         repo,
		UpdateStatus: updateStatus,
		Profiles:     profiles,
		Now:          systemClock,
		logger:       logger,
	}
}

func (uc *CloseLeadUseCase) Execute(ctx context.Context, input CloseLeadInput) (*CloseLeadOutput, error) {
	if fields := requireID("lead_id", input.LeadID); len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	current, err := uc.Repo.FindByID(ctx, input.LeadID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, leadNotFound(input.LeadID)
		}
		return nil, storeError("falha ao buscar lead", err)
	}

	// Fechar de novo não credita o asesor duas vezes.
	if current.Status == entity.StatusClosedWon {
		return &CloseLeadOutput{Lead: current, PreviousStatus: current.Status, AlreadyWon: true}, nil
	}

	advisorID := input.AdvisorID
	if advisorID == "" {
		advisorID = deref(current.AssignedTo)
	}
	metric := input.Type
	if metric == "" {
		metric = metricForIntent(current.Intent)
	}

	var fields []ValidationError
	if advisorID == "" {
		fields = append(fields, ValidationError{"advisor_id", "is required when the lead has no assigned advisor"})
	}
	if _, err := metric.Column(); err != nil {
		fields = append(fields, ValidationError{"type", "must be rent or sale"})
	}
	if len(fields) > 0 {
		return nil, newValidationError(fields)
	}
	if !entity.CanTransition(current.Status, entity.StatusClosedWon) {
		return nil, &InvalidTransitionError{From: current.Status, To: entity.StatusClosedWon}
	}

	previous := current.Status
	version := current.Version()
	out := &CloseLeadOutput{PreviousStatus: previous, Metric: metric}

	txn := NewTransaction(uc.logger)
	txn.AddOperation("close_lead", func(ctx context.Context) error {
		res, err := uc.UpdateStatus.Execute(ctx, UpdateLeadStatusInput{
			ID:       current.ID,
			Status:   string(entity.StatusClosedWon),
			Expected: &version,
		})
		if err != nil {
			return err
		}
		out.Lead = res.Lead
		return nil
	})
	txn.AddCompensation("reopen_lead", func(ctx context.Context) error {
		// Volta direto no repositório: closed_won -> anterior não existe no funil.
		_, err := uc.Repo.UpdateStatus(ctx, current.ID, out.Lead.Version(), previous, entity.LeadUpdate{}, nextUpdatedAt(stamp(uc.Now), out.Lead.UpdatedAt))
		return err
	})
	txn.AddOperation("increment_metrics", func(ctx context.Context) error {
		value, err := uc.Profiles.IncrementMetrics(ctx, IncrementAdvisorMetricsInput{AdvisorID: advisorID, Type: metric})
		if err != nil {
			return err
		}
		out.CounterValue = value
		return nil
	})

	if err := txn.Execute(ctx); err != nil {
		if IsConflictError(err) {
			return uc.afterConflict(ctx, current.ID, err)
		}
		uc.logger.Error("falha ao fechar lead", zap.String("lead_id", current.ID), zap.Error(err))
		return nil, err
	}
	return out, nil
}

// Outra escrita passou na frente. Se foi um fechamento, o crédito já foi dado
// por ela e este pedido vira AlreadyWon.
func (uc *CloseLeadUseCase) afterConflict(ctx context.Context, id string, cause error) (*CloseLeadOutput, error) {
	latest, err := uc.Repo.FindByID(ctx, id)
	if err != nil || latest.Status != entity.StatusClosedWon {
		uc.logger.Warn("lead alterado durante o fechamento", zap.String("lead_id", id), zap.Error(cause))
		return nil, cause
	}
	uc.logger.Info("lead já fechado por outra requisição", zap.String("lead_id", id))
	return &CloseLeadOutput{Lead: latest, PreviousStatus: latest.Status, AlreadyWon: true}, nil
}

func metricForIntent(intent entity.Intent) entity.MetricType {
	if intent == entity.IntentRent || intent == entity.IntentRentOut {
		return entity.MetricRent
	}
	return entity.MetricSale
}
