package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

// ActivityLogRepository grava em advisor_activity_log. Só INSERT e SELECT.
type ActivityLogRepository struct {
	DB *sql.DB
}

func NewActivityLogRepository(db *sql.DB) *ActivityLogRepository {
	return &ActivityLogRepository{DB: db}
}

func (r *ActivityLogRepository) Append(ctx context.Context, entry *entity.ActivityLogEntry) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("falha ao serializar metadata: %w", err)
	}

	query := `
		INSERT INTO advisor_activity_log (id, advisor_id, activity_type, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.DB.ExecContext(ctx, query, entry.ID, entry.AdvisorID, string(entry.ActivityType), metadata, entry.CreatedAt)
	return mapError(err)
}

func (r *ActivityLogRepository) ListByAdvisor(ctx context.Context, advisorID string) ([]*entity.ActivityLogEntry, error) {
	query := `
		SELECT id, advisor_id, activity_type, metadata, created_at
		FROM advisor_activity_log
		WHERE advisor_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, advisorID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []*entity.ActivityLogEntry
	for rows.Next() {
		var e entity.ActivityLogEntry
		var metadata []byte
		if err := rows.Scan(&e.ID, &e.AdvisorID, &e.ActivityType, &metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, fmt.Errorf("metadata inválida na atividade %s: %w", e.ID, err)
			}
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
