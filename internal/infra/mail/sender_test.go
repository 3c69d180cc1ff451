package mail

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/asesor-crm/internal/infra/queue"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func newTestSender(d Dialer) *EmailSender {
	return &EmailSender{From: "crm@example.com", To: "ventas@example.com", Dialer: d}
}

func TestNotifyLeadEventSendsToTeamInbox(t *testing.T) {
	dialer := &recordingDialer{}
	sender := newTestSender(dialer)

	err := sender.NotifyLeadEvent(context.Background(), queue.LeadEvent{
		Type:       queue.EventLeadStatusChanged,
		LeadID:     "lead-1",
		LeadName:   "Carlos Ruiz",
		AdvisorID:  "asesor-A",
		FromStatus: "ready_to_close",
		ToStatus:   "closed_won",
		OccurredAt: time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)

	m := dialer.sent[0]
	assert.Equal(t, []string{"ventas@example.com"}, m.GetHeader("To"))
	// gomail grava o assunto com acento como encoded-word (RFC 2047)
	require.Len(t, m.GetHeader("Subject"), 1)
	subject, err := new(mime.WordDecoder).DecodeHeader(m.GetHeader("Subject")[0])
	require.NoError(t, err)
	assert.Equal(t, "[CRM] Operación cerrada", subject)

	var raw bytes.Buffer
	_, err = m.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "Carlos Ruiz")
	assert.Contains(t, raw.String(), "ready_to_close -> closed_won")
	assert.Contains(t, raw.String(), "04/05/2026 15:30 UTC")
}

func TestNotifyLeadEventWrapsSMTPError(t *testing.T) {
	sender := newTestSender(&recordingDialer{err: errors.New("535 auth failed")})

	err := sender.NotifyLeadEvent(context.Background(), queue.LeadEvent{Type: queue.EventLeadCreated})

	assert.ErrorContains(t, err, "535 auth failed")
}

func TestNotifyLeadEventHonorsCancelledContext(t *testing.T) {
	dialer := &recordingDialer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestSender(dialer).NotifyLeadEvent(ctx, queue.LeadEvent{Type: queue.EventLeadCreated})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, dialer.sent)
}

func TestHeadline(t *testing.T) {
	assert.Equal(t, "Nuevo prospecto registrado", headline(queue.LeadEvent{Type: queue.EventLeadCreated}))
	assert.Equal(t, "Cita asignada", headline(queue.LeadEvent{Type: queue.EventAppointmentAssigned}))
	assert.Equal(t, "Prospecto perdido", headline(queue.LeadEvent{Type: queue.EventLeadStatusChanged, ToStatus: "closed_lost"}))
	assert.Equal(t, "Cambio de estado del prospecto", headline(queue.LeadEvent{Type: queue.EventLeadStatusChanged, ToStatus: "interested"}))
}
