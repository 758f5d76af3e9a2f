package response

// StandardApiResponse is the envelope every endpoint answers with.
type StandardApiResponse struct {
	Status     string      `json:"status"` // "success" or "error"
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}

// ErrorDetail is the machine readable part of an error response. Clients
// switch on Code and highlight Field when it is set.
type ErrorDetail struct {
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}
