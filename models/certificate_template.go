package models

import (
	"time"

	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateTemplate is the render template applied to certificates of a
// given type. For a given (tenant, type) at most one template may be the
// default; promoting a new default first clears the old one in the same
// transaction.
type CertificateTemplate struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uk_certificate_templates_uuid" json:"uuid"`
	TenantID  uint            `gorm:"not null;index:idx_certificate_templates_tenant_id" json:"tenant_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Body      string          `gorm:"type:text;not null" json:"body"`
	Variables JSONMap         `gorm:"type:jsonb;not null" json:"variables"`
	Styles    JSONMap         `gorm:"type:jsonb;not null" json:"styles"`
	Type      CertificateType `gorm:"type:certificate_type;not null;index:idx_certificate_templates_type" json:"type"`
	IsDefault bool            `gorm:"not null;default:false" json:"is_default"`
	IsActive  bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (CertificateTemplate) TableName() string {
	return "certificate_templates"
}

// BeforeCreate is called before creating a new record
func (t *CertificateTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == uuid.Nil {
		t.UUID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (t *CertificateTemplate) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	t.UpdatedAt = &now
	return nil
}

// CertificateTemplateFilter represents filter criteria for templates
type CertificateTemplateFilter struct {
	ID        *uint            `json:"id,omitempty"`
	UUID      *uuid.UUID       `json:"uuid,omitempty"`
	TenantID  *uint            `json:"tenant_id,omitempty"`
	Type      *CertificateType `json:"type,omitempty"`
	IsDefault *bool            `json:"is_default,omitempty"`
	IsActive  *bool            `json:"is_active,omitempty"`
}
