package entity

import (
	"context"
	"fmt"
	"time"
)

type AdvisorType string

const (
	AdvisorCerrador   AdvisorType = "cerrador"
	AdvisorOpcionador AdvisorType = "opcionador"
)

func (t AdvisorType) Valid() bool {
	return t == AdvisorCerrador || t == AdvisorOpcionador
}

// MetricType diz qual contador do asesor incrementar.
type MetricType string

const (
	MetricRent MetricType = "rent"
	MetricSale MetricType = "sale"
)

// Column devolve a coluna do contador em asesor_profiles.
func (m MetricType) Column() (string, error) {
	switch m {
	case MetricRent:
		return "rented_count", nil
	case MetricSale:
		return "sold_count", nil
	}
	return "", fmt.Errorf("tipo de métrica inválido: %q", string(m))
}

type AdvisorProfile struct {
	UserID      string      `json:"user_id"`
	Bio         string      `json:"bio,omitempty"`
	WeeklyGoal  int         `json:"weekly_goal"`
	AdvisorType AdvisorType `json:"advisor_type,omitempty"`
	SoldCount   int         `json:"sold_count"`
	RentedCount int         `json:"rented_count"`
	IsVerified  bool        `json:"is_verified"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// AdvisorProfilePatch é a edição de perfil. Campos nil não mudam.
type AdvisorProfilePatch struct {
	Bio         *string      `json:"bio,omitempty"`
	WeeklyGoal  *int         `json:"weekly_goal,omitempty"`
	AdvisorType *AdvisorType `json:"advisor_type,omitempty"`
}

type AdvisorProfileRepositoryInterface interface {
	FindByUserID(ctx context.Context, userID string) (*AdvisorProfile, error)
	// EnsureExists cria a linha mínima se ainda não existir. Idempotente.
	EnsureExists(ctx context.Context, userID string) (created bool, err error)
	Upsert(ctx context.Context, userID string, patch AdvisorProfilePatch, updatedAt time.Time) error
	// IncrementCounter soma 1 de forma atômica e devolve o novo valor.
	IncrementCounter(ctx context.Context, userID string, metric MetricType, updatedAt time.Time) (int, error)
}
