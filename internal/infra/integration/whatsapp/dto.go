package whatsapp

type SendMessageInput struct {
	PhoneNumber  string   // Ex: "5215512345678"
	TemplateName string   // Ex: "crm_lead_event"
	Parameters   []string // Ex: []string{"Nuevo prospecto registrado", "María López"}
}

type SendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Contacts []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Error *ErrorResponse `json:"error"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}
