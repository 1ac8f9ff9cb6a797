package models

import "net/http"

// APIResponse is the uniform success envelope.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// NewAPIResponse builds an envelope whose Success flag follows the status code.
func NewAPIResponse(statusCode int, data any, message string) APIResponse {
	return APIResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < http.StatusBadRequest,
	}
}

// APIError is the uniform failure envelope. Success is always false and
// Data is always null.
type APIError struct {
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// NewAPIError builds a failure envelope. A nil errs is rendered as [].
func NewAPIError(statusCode int, message string, errs ...string) APIError {
	if errs == nil {
		errs = []string{}
	}
	return APIError{
		StatusCode: statusCode,
		Message:    message,
		Errors:     errs,
	}
}

// HealthStatus is returned by the healthcheck endpoint.
type HealthStatus struct {
	Status       string `json:"status"`
	BuildVersion string `json:"buildVersion"`
	BuildDate    string `json:"buildDate"`
	BuildCommit  string `json:"buildCommit"`
}
