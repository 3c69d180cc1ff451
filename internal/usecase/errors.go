package usecase

import (
	"errors"
	"fmt"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeStore             = "STORE_ERROR"
)

// DomainError: regra de negócio violada. A mensagem pode ir direto para o usuário.
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// IsValidationError cobre tanto a validação local quanto a recusa do schema do banco.
func IsValidationError(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == CodeValidation
}

func newValidationError(fields []ValidationError) *DomainError {
	msg := "validation failed: "
	for i, f := range fields {
		if i > 0 {
			msg += ", "
		}
		msg += f.Field + " (" + f.Message + ")"
	}
	return &DomainError{Code: CodeValidation, Message: msg, Fields: fields}
}

// TechnicalError: falha de infraestrutura (rede, auth, permissão, banco).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func storeError(op string, err error) error {
	return &TechnicalError{Code: CodeStore, Message: op, Err: err}
}

// NotFoundError é sintetizado quando o banco responde sucesso sem linhas.
// Message é a versão para o asesor, diferente de um erro genérico de banco.
type NotFoundError struct {
	Entity  string
	ID      string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func (e *NotFoundError) Is(target error) bool {
	return target == entity.ErrNotFound
}

func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func leadNotFound(id string) *NotFoundError {
	return &NotFoundError{
		Entity: "lead",
		ID:     id,
		Message: fmt.Sprintf(
			"No se encontró el prospecto con ID %s... en la base de datos de CRM. "+
				"Si este cliente viene de una cita, asegúrate de que haya sido registrado como prospecto primero.",
			shortID(id),
		),
	}
}

func appointmentNotFound(target entity.FeedbackTarget, id string) *NotFoundError {
	return &NotFoundError{
		Entity: string(target),
		ID:     id,
		Message: "No se pudo actualizar la cita. Verifica que tengas asignada esta cita " +
			"y que la base de datos tenga las columnas y permisos necesarios.",
	}
}

func notFound(entityName, id string) *NotFoundError {
	return &NotFoundError{
		Entity:  entityName,
		ID:      id,
		Message: fmt.Sprintf("%s %s no encontrado", entityName, shortID(id)),
	}
}

// InvalidTransitionError: mudança de status fora do funil.
type InvalidTransitionError struct {
	From entity.LeadStatus
	To   entity.LeadStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transição de status inválida: %s -> %s", e.From, e.To)
}

func IsInvalidTransitionError(err error) bool {
	var it *InvalidTransitionError
	return errors.As(err, &it)
}

// ConflictError: outra escrita mudou o lead entre a leitura e o UPDATE.
type ConflictError struct {
	ID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("El prospecto %s fue modificado por otra operación. Recarga e intenta de nuevo.", shortID(e.ID))
}

func (e *ConflictError) Is(target error) bool {
	return target == entity.ErrConflict
}

func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
