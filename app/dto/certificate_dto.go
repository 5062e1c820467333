package dto

import (
	"time"
)

// GenerateCertificateRequest represents the request to issue a certificate
type GenerateCertificateRequest struct {
	CampaignUUID  string     `json:"campaign_uuid" validate:"required,uuid"`
	RecipientID   string     `json:"recipient_id" validate:"required,uuid"`
	Type          string     `json:"type" validate:"required,oneof=completion achievement excellence participation"`
	Title         *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	CustomMessage *string    `json:"custom_message,omitempty" validate:"omitempty,max=1000"`
}

// GenerateCertificateResponse represents the response to issue a certificate
type GenerateCertificateResponse struct {
	Message           string `json:"message"`
	UUID              string `json:"uuid"`
	VerificationToken string `json:"verification_token"`
	Status            string `json:"status"`
}

// UpdateCertificateRequest represents the request to update certificate details
type UpdateCertificateRequest struct {
	UUID          string     `json:"-"`
	Title         *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status        *string    `json:"status,omitempty" validate:"omitempty,oneof=generated valid revoked"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	CustomMessage *string    `json:"custom_message,omitempty" validate:"omitempty,max=1000"`
	AdminNotes    *string    `json:"admin_notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateCertificateResponse represents the response to update a certificate
type UpdateCertificateResponse struct {
	Message string `json:"message"`
}

// RevokeCertificateRequest represents the request to revoke a certificate
type RevokeCertificateRequest struct {
	UUID   string  `json:"-"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

// RevokeCertificateResponse represents the response to revoke a certificate
type RevokeCertificateResponse struct {
	Message   string    `json:"message"`
	RevokedAt time.Time `json:"revoked_at"`
}

// GetCertificateResponse represents a certificate in responses
type GetCertificateResponse struct {
	UUID              string            `json:"uuid"`
	Title             string            `json:"title"`
	Description       *string           `json:"description,omitempty"`
	RecipientID       string            `json:"recipient_id"`
	RecipientName     string            `json:"recipient_name"`
	IssuerName        string            `json:"issuer_name"`
	IssuedDate        time.Time         `json:"issued_date"`
	ExpiryDate        *time.Time        `json:"expiry_date,omitempty"`
	VerificationToken string            `json:"verification_token"`
	Status            string            `json:"status"`
	Type              string            `json:"type"`
	CampaignUUID      *string           `json:"campaign_uuid,omitempty"`
	MetaData          map[string]string `json:"meta_data,omitempty"`
	VerificationCount int64             `json:"verification_count"`
	RevokedAt         *time.Time        `json:"revoked_at,omitempty"`
	RevokedReason     *string           `json:"revoked_reason,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// ListCertificatesFilter represents filter criteria for listing certificates
type ListCertificatesFilter struct {
	RecipientID  *string `json:"recipient_id,omitempty" validate:"omitempty,uuid"`
	CampaignUUID *string `json:"campaign_uuid,omitempty" validate:"omitempty,uuid"`
	Status       *string `json:"status,omitempty"`
	Type         *string `json:"type,omitempty"`
}

// ListCertificatesRequest represents a paginated certificate list request
type ListCertificatesRequest struct {
	Page   int                     `json:"page"`
	Limit  int                     `json:"limit"`
	Filter *ListCertificatesFilter `json:"filter,omitempty"`
}

// ListCertificatesResponse represents a paginated list of certificates
type ListCertificatesResponse struct {
	Message    string                   `json:"message"`
	Items      []GetCertificateResponse `json:"items"`
	Pagination PaginationInfo           `json:"pagination"`
}

// VerifyCertificateResponse is the public verification result. It reveals
// only what the certificate attests, never tenant internals.
type VerifyCertificateResponse struct {
	Valid             bool       `json:"valid"`
	Message           string     `json:"message"`
	Title             string     `json:"title,omitempty"`
	RecipientName     string     `json:"recipient_name,omitempty"`
	IssuerName        string     `json:"issuer_name,omitempty"`
	IssuedDate        *time.Time `json:"issued_date,omitempty"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	Type              string     `json:"type,omitempty"`
	Status            string     `json:"status,omitempty"`
	VerificationCount int64      `json:"verification_count,omitempty"`
}
