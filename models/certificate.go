package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateStatus represents the lifecycle status of a certificate
type CertificateStatus string

const (
	CertificateStatusGenerated CertificateStatus = "generated"
	CertificateStatusValid     CertificateStatus = "valid"
	CertificateStatusRevoked   CertificateStatus = "revoked"
)

// String returns the string representation of the status
func (s CertificateStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s CertificateStatus) Valid() bool {
	switch s {
	case CertificateStatusGenerated, CertificateStatusValid, CertificateStatusRevoked:
		return true
	default:
		return false
	}
}

// IsActive reports whether the certificate still vouches for its holder.
// Generated and Valid are treated alike for verification purposes.
func (s CertificateStatus) IsActive() bool {
	return s == CertificateStatusGenerated || s == CertificateStatusValid
}

// Scan implements the sql.Scanner interface for CertificateStatus
func (s *CertificateStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = CertificateStatus(v)
	case []byte:
		*s = CertificateStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CertificateStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CertificateStatus
func (s CertificateStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CertificateStatus: %s", s)
	}
	return string(s), nil
}

// CertificateType classifies what a certificate attests
type CertificateType string

const (
	CertificateTypeCompletion    CertificateType = "completion"
	CertificateTypeAchievement   CertificateType = "achievement"
	CertificateTypeExcellence    CertificateType = "excellence"
	CertificateTypeParticipation CertificateType = "participation"
)

// String returns the string representation of the type
func (t CertificateType) String() string {
	return string(t)
}

// Valid checks if the type is valid
func (t CertificateType) Valid() bool {
	switch t {
	case CertificateTypeCompletion, CertificateTypeAchievement,
		CertificateTypeExcellence, CertificateTypeParticipation:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CertificateType
func (t *CertificateType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = CertificateType(v)
	case []byte:
		*t = CertificateType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CertificateType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CertificateType
func (t CertificateType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid CertificateType: %s", t)
	}
	return string(t), nil
}

// Metadata keys folded into Certificate.MetaData instead of dedicated columns.
const (
	CertificateMetaCustomMessage    = "customMessage"
	CertificateMetaAdminNotes       = "adminNotes"
	CertificateMetaRevocationReason = "revocationReason"
)

// Certificate is a verifiable record of campaign completion issued to a
// recipient, identified by a globally unique verification token. At most one
// certificate exists per (campaign, recipient); the composite unique index
// enforces that under concurrent issuance. Once revoked, the status is
// terminal.
type Certificate struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	UUID              uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uk_certificates_uuid" json:"uuid"`
	TenantID          uint              `gorm:"not null;index:idx_certificates_tenant_id" json:"tenant_id"`
	Title             string            `gorm:"size:255;not null" json:"title"`
	Description       *string           `gorm:"type:text" json:"description,omitempty"`
	RecipientID       uuid.UUID         `gorm:"type:uuid;not null;index:idx_certificates_recipient_id;uniqueIndex:uk_certificates_campaign_recipient" json:"recipient_id"`
	RecipientName     string            `gorm:"size:255;not null" json:"recipient_name"`
	RecipientEmail    string            `gorm:"size:255;not null" json:"recipient_email"`
	IssuerID          uuid.UUID         `gorm:"type:uuid;not null" json:"issuer_id"`
	IssuerName        string            `gorm:"size:255;not null" json:"issuer_name"`
	IssuedDate        time.Time         `gorm:"not null" json:"issued_date"`
	ExpiryDate        *time.Time        `json:"expiry_date,omitempty"`
	VerificationToken string            `gorm:"size:16;not null;uniqueIndex:uk_certificates_verification_token" json:"verification_token"`
	Status            CertificateStatus `gorm:"type:certificate_status;not null;default:'generated';index:idx_certificates_status" json:"status"`
	Type              CertificateType   `gorm:"type:certificate_type;not null" json:"type"`
	CampaignID        *uint             `gorm:"index:idx_certificates_campaign_id;uniqueIndex:uk_certificates_campaign_recipient" json:"campaign_id,omitempty"`
	TemplateID        *uint             `json:"template_id,omitempty"`
	MetaData          JSONMap           `gorm:"type:jsonb;not null" json:"meta_data"`
	VerificationCount int64             `gorm:"not null;default:0" json:"verification_count"`
	VerifiedAt        *time.Time        `json:"verified_at,omitempty"`
	RevokedAt         *time.Time        `json:"revoked_at,omitempty"`
	RevokedBy         *uuid.UUID        `gorm:"type:uuid" json:"revoked_by,omitempty"`
	RevokedReason     *string           `gorm:"type:text" json:"revoked_reason,omitempty"`
	CreatedAt         time.Time         `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt         *time.Time        `json:"updated_at,omitempty"`

	// Relations
	Campaign *Campaign            `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
	Template *CertificateTemplate `gorm:"foreignKey:TemplateID;references:ID" json:"template,omitempty"`
}

// TableName returns the table name for the model
func (Certificate) TableName() string {
	return "certificates"
}

// BeforeCreate is called before creating a new record
func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CertificateStatusGenerated
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Certificate) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// IsRevoked reports whether the certificate has been revoked.
func (c *Certificate) IsRevoked() bool {
	return c.Status == CertificateStatusRevoked
}

// IsExpired reports whether the certificate carries an expiry in the past.
func (c *Certificate) IsExpired() bool {
	return utils.IsExpiredPtr(c.ExpiryDate)
}

// CertificateFilter represents filter criteria for certificates
type CertificateFilter struct {
	ID                *uint              `json:"id,omitempty"`
	UUID              *uuid.UUID         `json:"uuid,omitempty"`
	TenantID          *uint              `json:"tenant_id,omitempty"`
	RecipientID       *uuid.UUID         `json:"recipient_id,omitempty"`
	CampaignID        *uint              `json:"campaign_id,omitempty"`
	Status            *CertificateStatus `json:"status,omitempty"`
	Type              *CertificateType   `json:"type,omitempty"`
	VerificationToken *string            `json:"verification_token,omitempty"`
	IssuedAfter       *time.Time         `json:"issued_after,omitempty"`
	IssuedBefore      *time.Time         `json:"issued_before,omitempty"`
	CreatedAfter      *time.Time         `json:"created_after,omitempty"`
	CreatedBefore     *time.Time         `json:"created_before,omitempty"`
}
