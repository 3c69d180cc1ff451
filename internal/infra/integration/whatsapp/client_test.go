package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/asesor-crm/internal/infra/queue"
)

func TestNotifyLeadEventSendsTemplate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/PHONE123/messages", r.URL.Path)
		assert.Equal(t, "Bearer token-x", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	n := NewNotifier(NewClient("token-x", "PHONE123", srv.URL, nil), "5215512345678", "crm_lead_event")
	err := n.NotifyLeadEvent(context.Background(), queue.LeadEvent{
		Type:       queue.EventLeadStatusChanged,
		LeadName:   "María López",
		FromStatus: "ready_to_close",
		ToStatus:   "closed_won",
	})
	require.NoError(t, err)

	assert.Equal(t, "5215512345678", got["to"])
	tmpl := got["template"].(map[string]any)
	assert.Equal(t, "crm_lead_event", tmpl["name"])
	params := tmpl["components"].([]any)[0].(map[string]any)["parameters"].([]any)
	require.Len(t, params, 3)
	assert.Equal(t, "María López", params[1].(map[string]any)["text"])
	assert.Equal(t, "ready_to_close -> closed_won", params[2].(map[string]any)["text"])
}

func TestSendMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Template name does not exist","code":132001}}`))
	}))
	defer srv.Close()

	err := NewClient("t", "p", srv.URL, nil).SendMessage(context.Background(), SendMessageInput{PhoneNumber: "52"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Template name does not exist")
}

func TestSendMessageTruncatedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "64")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"messages":[{"id"`))
	}))
	defer srv.Close()

	err := NewClient("token-x", "PHONE123", srv.URL, nil).SendMessage(context.Background(), SendMessageInput{
		PhoneNumber:  "5215512345678",
		TemplateName: "crm_lead_event",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "erro ao ler resposta (status 200)")
	assert.NotContains(t, err.Error(), "api error")
}

func TestSendMessageRequiresCredentials(t *testing.T) {
	err := NewClient("", "", "", nil).SendMessage(context.Background(), SendMessageInput{})
	assert.EqualError(t, err, "whatsapp não configurado")
}

func TestEventParametersFallbacks(t *testing.T) {
	assert.Equal(t,
		[]string{"appointment.assigned", "cita-1", "asesor-B"},
		eventParameters(queue.LeadEvent{Type: queue.EventAppointmentAssigned, AppointmentID: "cita-1", AdvisorID: "asesor-B"}))
	assert.Equal(t,
		[]string{"lead.created", "lead-1", "-"},
		eventParameters(queue.LeadEvent{Type: queue.EventLeadCreated, LeadID: "lead-1"}))
}
