package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

type AdvisorProfileRepository struct {
	DB *sql.DB
}

func NewAdvisorProfileRepository(db *sql.DB) *AdvisorProfileRepository {
	return &AdvisorProfileRepository{DB: db}
}

func (r *AdvisorProfileRepository) FindByUserID(ctx context.Context, userID string) (*entity.AdvisorProfile, error) {
	query := `
		SELECT
			user_id, COALESCE(bio, ''), COALESCE(weekly_goal, 0), COALESCE(advisor_type, ''),
			COALESCE(sold_count, 0), COALESCE(rented_count, 0), COALESCE(is_verified, false), updated_at
		FROM asesor_profiles
		WHERE user_id = $1
	`

	var p entity.AdvisorProfile
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.Bio,
		&p.WeeklyGoal,
		&p.AdvisorType,
		&p.SoldCount,
		&p.RentedCount,
		&p.IsVerified,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// EnsureExists usa ON CONFLICT DO NOTHING: duas chamadas simultâneas nunca
// criam duas linhas nem falham por unique.
func (r *AdvisorProfileRepository) EnsureExists(ctx context.Context, userID string) (bool, error) {
	query := `
		INSERT INTO asesor_profiles (user_id, sold_count, rented_count, updated_at)
		VALUES ($1, 0, 0, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`

	res, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return false, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *AdvisorProfileRepository) Upsert(ctx context.Context, userID string, patch entity.AdvisorProfilePatch, updatedAt time.Time) error {
	var advisorType *string
	if patch.AdvisorType != nil {
		s := string(*patch.AdvisorType)
		advisorType = &s
	}

	query := `
		INSERT INTO asesor_profiles (user_id, bio, weekly_goal, advisor_type, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET
			bio = COALESCE(EXCLUDED.bio, asesor_profiles.bio),
			weekly_goal = COALESCE(EXCLUDED.weekly_goal, asesor_profiles.weekly_goal),
			advisor_type = COALESCE(EXCLUDED.advisor_type, asesor_profiles.advisor_type),
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.DB.ExecContext(ctx, query, userID, patch.Bio, patch.WeeklyGoal, advisorType, updatedAt)
	return mapError(err)
}

// IncrementCounter faz o read-modify-write dentro do próprio UPDATE, então
// chamadas concorrentes não perdem incrementos.
func (r *AdvisorProfileRepository) IncrementCounter(ctx context.Context, userID string, metric entity.MetricType, updatedAt time.Time) (int, error) {
	query, err := incrementQuery(metric)
	if err != nil {
		return 0, err
	}

	var value int
	if err := r.DB.QueryRowContext(ctx, query, userID, updatedAt).Scan(&value); err != nil {
		return 0, mapError(err)
	}
	return value, nil
}

// A coluna vem de MetricType.Column, nunca do input cru.
func incrementQuery(metric entity.MetricType) (string, error) {
	column, err := metric.Column()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		`UPDATE asesor_profiles SET %[1]s = COALESCE(%[1]s, 0) + 1, updated_at = $2 WHERE user_id = $1 RETURNING %[1]s`,
		column,
	), nil
}
