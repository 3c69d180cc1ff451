package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

func TestMapError(t *testing.T) {
	t.Run("sem linhas vira ErrNotFound", func(t *testing.T) {
		assert.ErrorIs(t, mapError(sql.ErrNoRows), entity.ErrNotFound)
		assert.ErrorIs(t, mapError(fmt.Errorf("scan: %w", sql.ErrNoRows)), entity.ErrNotFound)
	})

	t.Run("not null vira ErrMissingField", func(t *testing.T) {
		err := mapError(&pq.Error{Code: "23502", Column: "full_name"})
		assert.ErrorIs(t, err, entity.ErrMissingField)
		assert.Contains(t, err.Error(), "full_name")
	})

	t.Run("unique vira ErrDuplicate", func(t *testing.T) {
		err := mapError(&pq.Error{Code: "23505", Constraint: "asesor_profiles_pkey"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("outros erros passam intactos", func(t *testing.T) {
		orig := &pq.Error{Code: "42501", Message: "permission denied for table leads_prospectos"}
		err := mapError(orig)
		assert.Same(t, orig, err)

		plain := errors.New("dial tcp: connection refused")
		assert.Equal(t, plain, mapError(plain))
	})

	assert.NoError(t, mapError(nil))
}

func TestLeadUpdateSetOnlyTouchesFilledFields(t *testing.T) {
	at := time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC)

	set, args := leadUpdateSet(entity.StatusInterested, entity.LeadUpdate{}, at)
	assert.Equal(t, "status = $1, updated_at = $2", set)
	assert.Equal(t, []any{"interested", at}, args)

	score := 88
	signed := false
	set, args = leadUpdateSet(entity.StatusInvestigationPassed, entity.LeadUpdate{
		InvestigationScore: &score,
		DocumentsSigned:    &signed,
	}, at)
	assert.Equal(t, "status = $1, updated_at = $2, investigation_score = $3, documents_signed = $4", set)
	require.Len(t, args, 4)
	assert.Equal(t, 88, args[2])
	assert.Equal(t, false, args[3])
}

func TestIncrementQueryWhitelistsColumns(t *testing.T) {
	q, err := incrementQuery(entity.MetricSale)
	require.NoError(t, err)
	assert.Contains(t, q, "sold_count = COALESCE(sold_count, 0) + 1")
	assert.Contains(t, q, "RETURNING sold_count")

	q, err = incrementQuery(entity.MetricRent)
	require.NoError(t, err)
	assert.Contains(t, q, "rented_count")

	_, err = incrementQuery(entity.MetricType("sold_count; DROP TABLE asesor_profiles"))
	assert.Error(t, err)
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	require.NotNil(t, nullString("x"))
	assert.Equal(t, "x", *nullString("x"))
}
