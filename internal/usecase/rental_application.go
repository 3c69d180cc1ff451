package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

type AssignRentalApplicationUseCase struct {
	Repo entity.RentalApplicationRepositoryInterface
	Now  Clock
}

func NewAssignRentalApplicationUseCase(repo entity.RentalApplicationRepositoryInterface) *AssignRentalApplicationUseCase {
	return &AssignRentalApplicationUseCase{Repo: repo, Now: systemClock}
}

func (uc *AssignRentalApplicationUseCase) Execute(ctx context.Context, applicationID, advisorID string) error {
	fields := append(requireID("application_id", applicationID), requireID("advisor_id", advisorID)...)
	if len(fields) > 0 {
		return newValidationError(fields)
	}

	err := uc.Repo.Assign(ctx, applicationID, strings.TrimSpace(advisorID), stamp(uc.Now))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return notFound("solicitud", applicationID)
		}
		return storeError("falha ao atribuir solicitação", err)
	}
	return nil
}
