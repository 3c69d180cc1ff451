package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

// ErrDuplicate: violação de unique.
var ErrDuplicate = errors.New("registro duplicado")

const (
	pqNotNullViolation = "23502"
	pqUniqueViolation  = "23505"
	pqCheckViolation   = "23514"
)

// mapError traduz respostas do driver para os sentinelas de entity.
// Qualquer outra falha segue como veio.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqNotNullViolation:
			return fmt.Errorf("%w: %s", entity.ErrMissingField, pqErr.Column)
		case pqCheckViolation:
			return fmt.Errorf("%w: %s", entity.ErrMissingField, pqErr.Constraint)
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
		}
	}
	return err
}

// expectRows devolve ErrNotFound quando o UPDATE não casou nenhuma linha.
func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
