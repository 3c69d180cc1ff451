package usecase

import "github.com/xavierca1/asesor-crm/internal/entity"

type CreateLeadInput struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Intent     string `json:"intent"`
	Status     string `json:"status"`
	AssignedTo string `json:"assigned_to"`
	ReferredBy string `json:"referred_by"`

	PropertyRef     string  `json:"property_ref"`
	PropertyTitle   string  `json:"property_title"`
	PropertyAddress string  `json:"property_address"`
	PropertyPrice   float64 `json:"property_price"`
	PropertyType    string  `json:"property_type"`
}

type UpdateLeadStatusInput struct {
	ID     string            `json:"id"`
	Status string            `json:"status"`
	Fields entity.LeadUpdate `json:"fields"`
	// Expected, quando presente, exige que o lead ainda esteja nesta versão.
	Expected *entity.LeadVersion `json:"-"`
}

type UpdateLeadStatusOutput struct {
	Lead           *entity.Lead      `json:"lead"`
	PreviousStatus entity.LeadStatus `json:"previous_status"`
}

type SaveAppointmentFeedbackInput struct {
	AppointmentID string                     `json:"appointment_id"`
	Feedback      entity.AppointmentFeedback `json:"feedback"`
	IsRental      bool                       `json:"is_rental"`
}

type IncrementAdvisorMetricsInput struct {
	AdvisorID string            `json:"advisor_id"`
	Type      entity.MetricType `json:"type"`
}

type CloseLeadInput struct {
	LeadID    string            `json:"lead_id"`
	AdvisorID string            `json:"advisor_id"`
	Type      entity.MetricType `json:"type"`
}

type CloseLeadOutput struct {
	Lead           *entity.Lead      `json:"lead"`
	PreviousStatus entity.LeadStatus `json:"previous_status"`
	Metric         entity.MetricType `json:"metric,omitempty"`
	CounterValue   int               `json:"counter_value"`
	AlreadyWon     bool              `json:"already_won"`
}
