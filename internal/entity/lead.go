package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

type Intent string

const (
	IntentRent    Intent = "rent"
	IntentBuy     Intent = "buy"
	IntentSell    Intent = "sell"
	IntentRentOut Intent = "rent_out"
)

func (i Intent) Valid() bool {
	switch i {
	case IntentRent, IntentBuy, IntentSell, IntentRentOut:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "pending"
	PaymentUnderReview PaymentStatus = "under_review"
	PaymentApproved    PaymentStatus = "approved"
	PaymentRejected    PaymentStatus = "rejected"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentUnderReview, PaymentApproved, PaymentRejected:
		return true
	}
	return false
}

// Value Object: snapshot do imóvel no momento da captação. Nunca muda depois do insert.
type PropertySnapshot struct {
	Ref     string  `json:"property_ref,omitempty"`
	Title   string  `json:"property_title,omitempty"`
	Address string  `json:"property_address,omitempty"`
	Price   float64 `json:"property_price,omitempty"`
	Type    string  `json:"property_type,omitempty"`
}

// Entidade: Lead (tabela leads_prospectos)
type Lead struct {
	ID         string     `json:"id"`
	FullName   string     `json:"full_name"`
	Phone      string     `json:"phone,omitempty"`
	Email      string     `json:"email,omitempty"`
	Intent     Intent     `json:"intent"`
	Status     LeadStatus `json:"status"`
	AssignedTo *string    `json:"assigned_to,omitempty"`
	ReferredBy *string    `json:"referred_by,omitempty"`

	PaymentProofURL     string        `json:"payment_proof_url,omitempty"`
	PaymentStatus       PaymentStatus `json:"payment_status,omitempty"`
	PaymentDate         *time.Time    `json:"payment_date,omitempty"`
	InvestigationNotes  string        `json:"investigation_notes,omitempty"`
	InvestigationScore  *int          `json:"investigation_score,omitempty"`
	InvestigationStatus string        `json:"investigation_status,omitempty"`
	CommissionRequested bool          `json:"commission_requested"`
	CommissionAmount    *float64      `json:"commission_amount,omitempty"`
	CancellationReason  string        `json:"cancellation_reason,omitempty"`
	ArchivedAt          *time.Time    `json:"archived_at,omitempty"`
	DocumentsSigned     bool          `json:"documents_signed"`
	IsPotentialClient   bool          `json:"is_potential_client"`

	Property PropertySnapshot `json:"property"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLead monta um lead novo em "contacting" com ID e timestamps.
func NewLead(fullName string, intent Intent, phone, email string) (*Lead, error) {
	now := time.Now().UTC()
	lead := &Lead{
		ID:        uuid.New().String(),
		FullName:  strings.TrimSpace(fullName),
		Phone:     phone,
		Email:     email,
		Intent:    intent,
		Status:    StatusContacting,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}
	return lead, nil
}

func (l *Lead) Validate() error {
	if l.FullName == "" {
		return errors.New("full_name is required")
	}
	if !l.Intent.Valid() {
		return errors.New("intent must be rent, buy, sell or rent_out")
	}
	if !l.Status.Valid() {
		return errors.New("status is invalid")
	}
	return nil
}

// ActivityAdvisor devolve o asesor que recebe o crédito pela captação:
// assigned_to tem prioridade sobre referred_by.
func (l *Lead) ActivityAdvisor() (string, bool) {
	if l.AssignedTo != nil && *l.AssignedTo != "" {
		return *l.AssignedTo, true
	}
	if l.ReferredBy != nil && *l.ReferredBy != "" {
		return *l.ReferredBy, true
	}
	return "", false
}

// LeadVersion é o estado lido que uma escrita condicional exige que ainda
// esteja no banco. UpdatedAt funciona como número de versão.
type LeadVersion struct {
	Status    LeadStatus
	UpdatedAt time.Time
}

func (l *Lead) Version() LeadVersion {
	return LeadVersion{Status: l.Status, UpdatedAt: l.UpdatedAt}
}

func (v LeadVersion) Matches(other LeadVersion) bool {
	return v.Status == other.Status && v.UpdatedAt.Equal(other.UpdatedAt)
}

// LeadUpdate carrega os campos opcionais que acompanham uma mudança de status.
// Campos nil não são tocados.
type LeadUpdate struct {
	AssignedTo          *string        `json:"assigned_to,omitempty"`
	PaymentProofURL     *string        `json:"payment_proof_url,omitempty"`
	PaymentStatus       *PaymentStatus `json:"payment_status,omitempty"`
	PaymentDate         *time.Time     `json:"payment_date,omitempty"`
	InvestigationNotes  *string        `json:"investigation_notes,omitempty"`
	InvestigationScore  *int           `json:"investigation_score,omitempty"`
	InvestigationStatus *string        `json:"investigation_status,omitempty"`
	CommissionRequested *bool          `json:"commission_requested,omitempty"`
	CommissionAmount    *float64       `json:"commission_amount,omitempty"`
	CancellationReason  *string        `json:"cancellation_reason,omitempty"`
	ArchivedAt          *time.Time     `json:"archived_at,omitempty"`
	DocumentsSigned     *bool          `json:"documents_signed,omitempty"`
	IsPotentialClient   *bool          `json:"is_potential_client,omitempty"`
}

// Apply copia os campos preenchidos para o lead.
func (u LeadUpdate) Apply(l *Lead) {
	if u.AssignedTo != nil {
		v := *u.AssignedTo
		l.AssignedTo = &v
	}
	if u.PaymentProofURL != nil {
		l.PaymentProofURL = *u.PaymentProofURL
	}
	if u.PaymentStatus != nil {
		l.PaymentStatus = *u.PaymentStatus
	}
	if u.PaymentDate != nil {
		v := *u.PaymentDate
		l.PaymentDate = &v
	}
	if u.InvestigationNotes != nil {
		l.InvestigationNotes = *u.InvestigationNotes
	}
	if u.InvestigationScore != nil {
		v := *u.InvestigationScore
		l.InvestigationScore = &v
	}
	if u.InvestigationStatus != nil {
		l.InvestigationStatus = *u.InvestigationStatus
	}
	if u.CommissionRequested != nil {
		l.CommissionRequested = *u.CommissionRequested
	}
	if u.CommissionAmount != nil {
		v := *u.CommissionAmount
		l.CommissionAmount = &v
	}
	if u.CancellationReason != nil {
		l.CancellationReason = *u.CancellationReason
	}
	if u.ArchivedAt != nil {
		v := *u.ArchivedAt
		l.ArchivedAt = &v
	}
	if u.DocumentsSigned != nil {
		l.DocumentsSigned = *u.DocumentsSigned
	}
	if u.IsPotentialClient != nil {
		l.IsPotentialClient = *u.IsPotentialClient
	}
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, assignedTo string) ([]*Lead, error)
	// UpdateStatus grava status + campos extras só se a linha ainda estiver em
	// `expected`, e devolve a linha atualizada. ErrNotFound se o id não existir,
	// ErrConflict se existir em outra versão.
	UpdateStatus(ctx context.Context, id string, expected LeadVersion, status LeadStatus, fields LeadUpdate, updatedAt time.Time) (*Lead, error)
}
