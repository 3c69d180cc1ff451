package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

type LeadQueryUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewLeadQueryUseCase(repo entity.LeadRepositoryInterface) *LeadQueryUseCase {
	return &LeadQueryUseCase{Repo: repo}
}

// List devolve os leads do mais novo para o mais antigo. assignedTo vazio = todos.
func (uc *LeadQueryUseCase) List(ctx context.Context, assignedTo string) ([]*entity.Lead, error) {
	leads, err := uc.Repo.List(ctx, assignedTo)
	if err != nil {
		return nil, storeError("falha ao listar leads", err)
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}
	return leads, nil
}

func (uc *LeadQueryUseCase) Get(ctx context.Context, id string) (*entity.Lead, error) {
	if fields := requireID("id", id); len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, leadNotFound(id)
		}
		return nil, storeError("falha ao buscar lead", err)
	}
	return lead, nil
}
