// Package dto defines request and response shapes exchanged with the API layer
package dto

// APIResponse is the envelope for all API responses
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    any         `json:"data,omitempty"`
	Error   ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries a machine-readable error code plus optional details
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}
