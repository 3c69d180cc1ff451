package usecase

import (
	"context"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

type GetActivityLogsUseCase struct {
	Repo entity.ActivityLogRepositoryInterface
}

func NewGetActivityLogsUseCase(repo entity.ActivityLogRepositoryInterface) *GetActivityLogsUseCase {
	return &GetActivityLogsUseCase{Repo: repo}
}

// Execute devolve as atividades do asesor, mais recentes primeiro.
func (uc *GetActivityLogsUseCase) Execute(ctx context.Context, advisorID string) ([]*entity.ActivityLogEntry, error) {
	if fields := requireID("advisor_id", advisorID); len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	entries, err := uc.Repo.ListByAdvisor(ctx, advisorID)
	if err != nil {
		return nil, storeError("falha ao buscar atividades", err)
	}
	if entries == nil {
		entries = []*entity.ActivityLogEntry{}
	}
	return entries, nil
}
