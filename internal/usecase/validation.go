package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var nonDigits = regexp.MustCompile(`\D`)

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.FullName) == "" {
		errors = append(errors, ValidationError{"full_name", "is required"})
	} else if len(input.FullName) > 200 {
		errors = append(errors, ValidationError{"full_name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Intent) == "" {
		errors = append(errors, ValidationError{"intent", "is required"})
	} else if !entity.Intent(input.Intent).Valid() {
		errors = append(errors, ValidationError{"intent", "must be rent, buy, sell or rent_out"})
	}

	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	if input.Status != "" && !entity.LeadStatus(input.Status).Valid() {
		errors = append(errors, ValidationError{"status", "is not a known lead status"})
	}

	if input.PropertyPrice < 0 {
		errors = append(errors, ValidationError{"property_price", "must not be negative"})
	}

	return errors
}

func ValidateLeadUpdate(fields entity.LeadUpdate) []ValidationError {
	var errors []ValidationError

	if fields.PaymentStatus != nil && !fields.PaymentStatus.Valid() {
		errors = append(errors, ValidationError{"payment_status", "must be pending, under_review, approved or rejected"})
	}
	if fields.InvestigationScore != nil && (*fields.InvestigationScore < 0 || *fields.InvestigationScore > 100) {
		errors = append(errors, ValidationError{"investigation_score", "must be between 0 and 100"})
	}
	if fields.CommissionAmount != nil && *fields.CommissionAmount < 0 {
		errors = append(errors, ValidationError{"commission_amount", "must not be negative"})
	}
	if fields.AssignedTo != nil && strings.TrimSpace(*fields.AssignedTo) == "" {
		errors = append(errors, ValidationError{"assigned_to", "must not be empty"})
	}

	return errors
}

// Aceita números mexicanos (10 dígitos) com ou sem código de país.
func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 10 && len(cleaned) <= 13
}

func requireID(field, value string) []ValidationError {
	if strings.TrimSpace(value) == "" {
		return []ValidationError{{field, "is required"}}
	}
	return nil
}
