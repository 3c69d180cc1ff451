package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

// Colunas de texto/bool que podem vir NULL de linhas antigas passam por COALESCE.
const leadColumns = `
	id,
	full_name,
	COALESCE(phone, ''),
	COALESCE(email, ''),
	intent,
	COALESCE(status, ''),
	assigned_to,
	referred_by,
	COALESCE(payment_proof_url, ''),
	COALESCE(payment_status, ''),
	payment_date,
	COALESCE(investigation_notes, ''),
	investigation_score,
	COALESCE(investigation_status, ''),
	COALESCE(commission_requested, false),
	commission_amount,
	COALESCE(cancellation_reason, ''),
	archived_at,
	COALESCE(documents_signed, false),
	COALESCE(is_potential_client, false),
	COALESCE(property_ref, ''),
	COALESCE(property_title, ''),
	COALESCE(property_address, ''),
	COALESCE(property_price, 0),
	COALESCE(property_type, ''),
	created_at,
	updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(
		&l.ID,
		&l.FullName,
		&l.Phone,
		&l.Email,
		&l.Intent,
		&l.Status,
		&l.AssignedTo,
		&l.ReferredBy,
		&l.PaymentProofURL,
		&l.PaymentStatus,
		&l.PaymentDate,
		&l.InvestigationNotes,
		&l.InvestigationScore,
		&l.InvestigationStatus,
		&l.CommissionRequested,
		&l.CommissionAmount,
		&l.CancellationReason,
		&l.ArchivedAt,
		&l.DocumentsSigned,
		&l.IsPotentialClient,
		&l.Property.Ref,
		&l.Property.Title,
		&l.Property.Address,
		&l.Property.Price,
		&l.Property.Type,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// LeadRepository persiste em leads_prospectos.
type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads_prospectos (
			id, full_name, phone, email, intent, status,
			assigned_to, referred_by,
			property_ref, property_title, property_address, property_price, property_type,
			created_at, updated_at
		) VALUES (
			$1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), $6,
			$7, $8,
			$9, $10, $11, $12, $13,
			$14, $15
		)
	`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		lead.ID,
		lead.FullName,
		nullString(lead.Phone),
		nullString(lead.Email),
		string(lead.Intent),
		string(lead.Status),
		lead.AssignedTo,
		lead.ReferredBy,
		nullString(lead.Property.Ref),
		nullString(lead.Property.Title),
		nullString(lead.Property.Address),
		lead.Property.Price,
		nullString(lead.Property.Type),
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	return mapError(err)
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads_prospectos WHERE id = $1`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return lead, nil
}

func (r *LeadRepository) List(ctx context.Context, assignedTo string) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads_prospectos`
	var args []any
	if assignedTo != "" {
		query += ` WHERE assigned_to = $1`
		args = append(args, assignedTo)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	return collectLeads(rows)
}

// UpdateStatus é um compare-and-swap: o UPDATE só casa se status e updated_at
// ainda forem os de `expected`. Sem linha devolvida, uma segunda consulta
// separa id inexistente (ErrNotFound) de linha alterada (ErrConflict).
func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, expected entity.LeadVersion, status entity.LeadStatus, fields entity.LeadUpdate, updatedAt time.Time) (*entity.Lead, error) {
	query, args := updateStatusQuery(id, expected, status, fields, updatedAt)

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missingOrConflict(ctx, id)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return lead, nil
}

func updateStatusQuery(id string, expected entity.LeadVersion, status entity.LeadStatus, fields entity.LeadUpdate, updatedAt time.Time) (string, []any) {
	set, args := leadUpdateSet(status, fields, updatedAt)
	args = append(args, id, string(expected.Status), expected.UpdatedAt)
	n := len(args)

	query := fmt.Sprintf(`
		UPDATE leads_prospectos SET %s
		WHERE id = $%d AND COALESCE(status, '') = $%d AND updated_at = $%d
		RETURNING %s`,
		set, n-2, n-1, n, leadColumns,
	)
	return query, args
}

func (r *LeadRepository) missingOrConflict(ctx context.Context, id string) error {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM leads_prospectos WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return mapError(err)
	}
	if exists {
		return entity.ErrConflict
	}
	return entity.ErrNotFound
}

// ListStale busca leads parados nos status indicados desde antes de `before`,
// mais antigos primeiro.
func (r *LeadRepository) ListStale(ctx context.Context, statuses []entity.LeadStatus, before time.Time, limit int) ([]*entity.Lead, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	query := `SELECT ` + leadColumns + `
		FROM leads_prospectos
		WHERE status = ANY($1) AND updated_at < $2
		ORDER BY updated_at ASC
		LIMIT $3`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(names), before, limit)
	if err != nil {
		return nil, mapError(err)
	}
	return collectLeads(rows)
}

func collectLeads(rows *sql.Rows) ([]*entity.Lead, error) {
	defer rows.Close()

	var out []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lead)
	}
	return out, rows.Err()
}

// leadUpdateSet monta o SET do UPDATE: status e updated_at sempre, o resto só
// quando preenchido. Os placeholders começam em $1.
func leadUpdateSet(status entity.LeadStatus, fields entity.LeadUpdate, updatedAt time.Time) (string, []any) {
	cols := []string{"status", "updated_at"}
	args := []any{string(status), updatedAt}

	add := func(col string, v any) {
		cols = append(cols, col)
		args = append(args, v)
	}
	if fields.AssignedTo != nil {
		add("assigned_to", *fields.AssignedTo)
	}
	if fields.PaymentProofURL != nil {
		add("payment_proof_url", *fields.PaymentProofURL)
	}
	if fields.PaymentStatus != nil {
		add("payment_status", string(*fields.PaymentStatus))
	}
	if fields.PaymentDate != nil {
		add("payment_date", *fields.PaymentDate)
	}
	if fields.InvestigationNotes != nil {
		add("investigation_notes", *fields.InvestigationNotes)
	}
	if fields.InvestigationScore != nil {
		add("investigation_score", *fields.InvestigationScore)
	}
	if fields.InvestigationStatus != nil {
		add("investigation_status", *fields.InvestigationStatus)
	}
	if fields.CommissionRequested != nil {
		add("commission_requested", *fields.CommissionRequested)
	}
	if fields.CommissionAmount != nil {
		add("commission_amount", *fields.CommissionAmount)
	}
	if fields.CancellationReason != nil {
		add("cancellation_reason", *fields.CancellationReason)
	}
	if fields.ArchivedAt != nil {
		add("archived_at", *fields.ArchivedAt)
	}
	if fields.DocumentsSigned != nil {
		add("documents_signed", *fields.DocumentsSigned)
	}
	if fields.IsPotentialClient != nil {
		add("is_potential_client", *fields.IsPotentialClient)
	}

	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	return strings.Join(parts, ", "), args
}
