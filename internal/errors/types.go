package errors

// standardized error body
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`             // short human summary, kept for older clients
	Code    string `json:"code"`              // machine-readable, e.g. "LIMIT_EXCEEDED"
	Message string `json:"message"`           // user-facing
	Details string `json:"details,omitempty"` // sanitized in production
}

// 429 body for an exhausted quota; Usage carries the current numbers
type QuotaResponse struct {
	ErrorResponse
	Usage any `json:"usage,omitempty"`
}

type ErrorInfo struct {
	category  string
	sanitized string
}
