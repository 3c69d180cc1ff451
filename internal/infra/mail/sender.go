package mail

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/asesor-crm/internal/infra/queue"
)

var notificationTmpl = template.Must(template.New("lead_event").Parse(`{{.Headline}}

{{- if .LeadName}}
Prospecto: {{.LeadName}}{{end}}
{{- if .LeadID}}
ID: {{.LeadID}}{{end}}
{{- if .Intent}}
Operación: {{.Intent}}{{end}}
{{- if .FromStatus}}
Estado: {{.FromStatus}} -> {{.ToStatus}}{{end}}
{{- if .AppointmentID}}
Cita: {{.AppointmentID}}{{end}}
{{- if .AdvisorID}}
Asesor: {{.AdvisorID}}{{end}}
Fecha: {{.OccurredAt}}
`))

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		From:   from,
		To:     to,
		Dialer: gomail.NewDialer(host, port, user, password),
	}
}

// NotifyLeadEvent manda o aviso para a caixa da equipe comercial.
func (s *EmailSender) NotifyLeadEvent(ctx context.Context, event queue.LeadEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.buildMessage(event)
	if err != nil {
		return err
	}

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func (s *EmailSender) buildMessage(event queue.LeadEvent) (*gomail.Message, error) {
	data := NotificationData{
		Headline:      headline(event),
		LeadName:      event.LeadName,
		LeadID:        event.LeadID,
		AppointmentID: event.AppointmentID,
		AdvisorID:     event.AdvisorID,
		Intent:        event.Intent,
		FromStatus:    event.FromStatus,
		ToStatus:      event.ToStatus,
		OccurredAt:    event.OccurredAt.Format("02/01/2006 15:04 MST"),
	}

	var body bytes.Buffer
	if err := notificationTmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", "[CRM] "+data.Headline)
	m.SetBody("text/plain", body.String())
	return m, nil
}

func headline(event queue.LeadEvent) string {
	switch event.Type {
	case queue.EventLeadCreated:
		return "Nuevo prospecto registrado"
	case queue.EventAppointmentAssigned:
		return "Cita asignada"
	case queue.EventLeadStatusChanged:
		switch event.ToStatus {
		case "closed_won":
			return "Operación cerrada"
		case "closed_lost":
			return "Prospecto perdido"
		}
		return "Cambio de estado del prospecto"
	}
	return string(event.Type)
}
