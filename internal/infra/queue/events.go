package queue

import "time"

type EventType string

const (
	EventLeadCreated         EventType = "lead.created"
	EventLeadStatusChanged   EventType = "lead.status_changed"
	EventAppointmentAssigned EventType = "appointment.assigned"
)

// LeadEvent é a mensagem publicada em ex.leads. A routing key é o próprio Type.
type LeadEvent struct {
	Type          EventType `json:"type"`
	LeadID        string    `json:"lead_id,omitempty"`
	AppointmentID string    `json:"appointment_id,omitempty"`
	AdvisorID     string    `json:"advisor_id,omitempty"`
	LeadName      string    `json:"lead_name,omitempty"`
	Intent        string    `json:"intent,omitempty"`
	FromStatus    string    `json:"from_status,omitempty"`
	ToStatus      string    `json:"to_status,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
