package response

type StandardApiResponse struct {
	Status     string      `json:"status"`           // "success" or "error"
	StatusCode int         `json:"status_code"`      // HTTP status code
	Message    string      `json:"message"`          // Human-readable message
	Data       interface{} `json:"data,omitempty"`   // Payload for success
	Errors     interface{} `json:"errors,omitempty"` // Validation or error details
}

// AccessDenied is the errors payload for queue-gated endpoints. Clients
// switch on the machine-readable code, not the message text.
type AccessDenied struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
