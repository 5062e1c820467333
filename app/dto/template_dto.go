package dto

import (
	"time"
)

// CreateTemplateRequest represents the request to create a certificate template
type CreateTemplateRequest struct {
	Name      string            `json:"name" validate:"required,min=2,max=255"`
	Body      string            `json:"body" validate:"required"`
	Type      string            `json:"type" validate:"required,oneof=completion achievement excellence participation"`
	Variables map[string]string `json:"variables,omitempty"`
	Styles    map[string]string `json:"styles,omitempty"`
	IsDefault bool              `json:"is_default"`
}

// CreateTemplateResponse represents the response to create a template
type CreateTemplateResponse struct {
	Message string `json:"message"`
	UUID    string `json:"uuid"`
}

// UpdateTemplateRequest represents the request to update a template
type UpdateTemplateRequest struct {
	UUID      string            `json:"-"`
	Name      *string           `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Body      *string           `json:"body,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
	Styles    map[string]string `json:"styles,omitempty"`
	IsActive  *bool             `json:"is_active,omitempty"`
}

// UpdateTemplateResponse represents the response to update a template
type UpdateTemplateResponse struct {
	Message string `json:"message"`
}

// GetTemplateResponse represents a certificate template in responses
type GetTemplateResponse struct {
	UUID      string            `json:"uuid"`
	Name      string            `json:"name"`
	Body      string            `json:"body"`
	Type      string            `json:"type"`
	Variables map[string]string `json:"variables,omitempty"`
	Styles    map[string]string `json:"styles,omitempty"`
	IsDefault bool              `json:"is_default"`
	IsActive  bool              `json:"is_active"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt *time.Time        `json:"updated_at,omitempty"`
}

// ListTemplatesResponse represents the templates of a tenant
type ListTemplatesResponse struct {
	Message string                `json:"message"`
	Items   []GetTemplateResponse `json:"items"`
}

// SetDefaultTemplateResponse represents the response to mark a template default
type SetDefaultTemplateResponse struct {
	Message string `json:"message"`
}
