package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

type AdvisorProfileUseCase struct {
	Repo   entity.AdvisorProfileRepositoryInterface
	Now    Clock
	logger *zap.Logger
}

func NewAdvisorProfileUseCase(repo entity.AdvisorProfileRepositoryInterface, logger *zap.Logger) *AdvisorProfileUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisorProfileUseCase{Repo: repo, Now: systemClock, logger: logger}
}

// EnsureProfileExists cria a linha mínima em asesor_profiles se faltar.
// Chamar duas vezes nunca cria duas linhas.
func (uc *AdvisorProfileUseCase) EnsureProfileExists(ctx context.Context, userID string) error {
	if fields := requireID("user_id", userID); len(fields) > 0 {
		return newValidationError(fields)
	}

	created, err := uc.Repo.EnsureExists(ctx, userID)
	if err != nil {
		return storeError("falha ao garantir perfil do asesor", err)
	}
	if created {
		uc.logger.Info("perfil de asesor criado", zap.String("user_id", userID))
	}
	return nil
}

func (uc *AdvisorProfileUseCase) Get(ctx context.Context, userID string) (*entity.AdvisorProfile, error) {
	if fields := requireID("user_id", userID); len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	profile, err := uc.Repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("perfil de asesor", userID)
		}
		return nil, storeError("falha ao buscar perfil", err)
	}
	return profile, nil
}

func (uc *AdvisorProfileUseCase) Update(ctx context.Context, userID string, patch entity.AdvisorProfilePatch) error {
	fields := requireID("user_id", userID)
	if patch.AdvisorType != nil && !patch.AdvisorType.Valid() {
		fields = append(fields, ValidationError{"advisor_type", "must be cerrador or opcionador"})
	}
	if patch.WeeklyGoal != nil && *patch.WeeklyGoal < 0 {
		fields = append(fields, ValidationError{"weekly_goal", "must not be negative"})
	}
	if patch.Bio != nil && len(*patch.Bio) > 2000 {
		fields = append(fields, ValidationError{"bio", "must not exceed 2000 characters"})
	}
	if len(fields) > 0 {
		return newValidationError(fields)
	}

	if err := uc.Repo.Upsert(ctx, strings.TrimSpace(userID), patch, stamp(uc.Now)); err != nil {
		return storeError("falha ao salvar perfil", err)
	}
	return nil
}

// IncrementMetrics é create-or-update: garante o perfil e soma 1 ao contador
// (sold_count para "sale", rented_count para "rent") de forma atômica no banco.
// Devolve o novo valor do contador.
func (uc *AdvisorProfileUseCase) IncrementMetrics(ctx context.Context, input IncrementAdvisorMetricsInput) (int, error) {
	fields := requireID("advisor_id", input.AdvisorID)
	if _, err := input.Type.Column(); err != nil {
		fields = append(fields, ValidationError{"type", "must be rent or sale"})
	}
	if len(fields) > 0 {
		return 0, newValidationError(fields)
	}

	if err := uc.EnsureProfileExists(ctx, input.AdvisorID); err != nil {
		return 0, err
	}

	value, err := uc.Repo.IncrementCounter(ctx, input.AdvisorID, input.Type, stamp(uc.Now))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return 0, notFound("perfil de asesor", input.AdvisorID)
		}
		return 0, storeError("falha ao incrementar métrica", err)
	}

	uc.logger.Info("métrica do asesor incrementada",
		zap.String("advisor_id", input.AdvisorID),
		zap.String("type", string(input.Type)),
		zap.Int("value", value))
	return value, nil
}
