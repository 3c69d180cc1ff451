package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityLeadRegistration ActivityType = "lead_registration"
)

// ActivityLogEntry é append-only: nunca é alterada nem apagada.
type ActivityLogEntry struct {
	ID           string            `json:"id"`
	AdvisorID    string            `json:"advisor_id"`
	ActivityType ActivityType      `json:"activity_type"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

func NewActivityLogEntry(advisorID string, activityType ActivityType, metadata map[string]string) *ActivityLogEntry {
	return &ActivityLogEntry{
		ID:           uuid.New().String(),
		AdvisorID:    advisorID,
		ActivityType: activityType,
		Metadata:     metadata,
		CreatedAt:    time.Now().UTC(),
	}
}

type ActivityLogRepositoryInterface interface {
	Append(ctx context.Context, entry *ActivityLogEntry) error
	// ListByAdvisor devolve as entradas do mais novo para o mais antigo.
	ListByAdvisor(ctx context.Context, advisorID string) ([]*ActivityLogEntry, error)
}
