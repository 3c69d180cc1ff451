package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/asesor-crm/internal/infra/queue"
)

const DefaultBaseURL = "https://graph.facebook.com/v18.0"

type Client struct {
	accessToken string
	phoneID     string
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewClient(accessToken, phoneID, baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		accessToken: accessToken,
		phoneID:     phoneID,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

// SendMessage envia um template aprovado na WhatsApp Cloud API.
func (c *Client) SendMessage(ctx context.Context, input SendMessageInput) error {
	if c.accessToken == "" || c.phoneID == "" {
		return fmt.Errorf("whatsapp não configurado")
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                input.PhoneNumber,
		"type":              "template",
		"template": map[string]any{
			"name": input.TemplateName,
			"language": map[string]string{
				"code": "es_MX",
			},
			"components": []map[string]any{
				{
					"type":       "body",
					"parameters": convertParametersToAPI(input.Parameters),
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whatsapp: erro ao serializar payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: erro ao criar requisição: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: erro ao enviar mensagem: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("whatsapp: erro ao ler resposta (status %d): %w", resp.StatusCode, err)
	}

	var result SendMessageResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil && resp.StatusCode < 300 {
			return fmt.Errorf("whatsapp: erro ao parsear resposta: %w", err)
		}
	}

	if result.Error != nil {
		return fmt.Errorf("whatsapp: %s (code %d)", result.Error.Message, result.Error.Code)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("whatsapp api error: %d", resp.StatusCode)
	}

	c.logger.Info("✅ WhatsApp enviado", zap.String("to", input.PhoneNumber), zap.String("template", input.TemplateName))
	return nil
}

func convertParametersToAPI(params []string) []map[string]string {
	result := make([]map[string]string, 0, len(params))
	for _, param := range params {
		result = append(result, map[string]string{
			"type": "text",
			"text": param,
		})
	}
	return result
}

// Notifier avisa o celular da equipe comercial sobre eventos de leads.
type Notifier struct {
	Client   *Client
	To       string
	Template string
}

func NewNotifier(client *Client, to, template string) *Notifier {
	return &Notifier{Client: client, To: to, Template: template}
}

func (n *Notifier) NotifyLeadEvent(ctx context.Context, event queue.LeadEvent) error {
	return n.Client.SendMessage(ctx, SendMessageInput{
		PhoneNumber:  n.To,
		TemplateName: n.Template,
		Parameters:   eventParameters(event),
	})
}

// Parâmetros do template: {{1}} tipo do evento, {{2}} prospecto, {{3}} detalhe.
func eventParameters(event queue.LeadEvent) []string {
	subject := event.LeadName
	if subject == "" {
		subject = event.LeadID
	}
	if subject == "" {
		subject = event.AppointmentID
	}

	detail := event.AdvisorID
	if event.Type == queue.EventLeadStatusChanged {
		detail = event.FromStatus + " -> " + event.ToStatus
	}
	if detail == "" {
		detail = "-"
	}
	return []string{string(event.Type), subject, detail}
}
