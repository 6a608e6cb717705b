package model

// ErrorResponse is the envelope for every non-2xx body. Success bodies are
// the resource itself, matching the public API contract.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type ServiceInfo struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

type HealthStatus struct {
	Status string `json:"status"`
}
