package mail

import "gopkg.in/gomail.v2"

// NotificationData alimenta o template do aviso para a equipe.
type NotificationData struct {
	Headline      string
	LeadName      string
	LeadID        string
	AppointmentID string
	AdvisorID     string
	Intent        string
	FromStatus    string
	ToStatus      string
	OccurredAt    string
}

// Dialer é o que o EmailSender precisa do *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	To     string
	Dialer Dialer
}
