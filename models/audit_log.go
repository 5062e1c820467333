package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	TenantID     *uint           `gorm:"index:idx_audit_tenant_id" json:"tenant_id,omitempty"`
	ActorID      *uuid.UUID      `gorm:"type:uuid;index:idx_audit_actor_id" json:"actor_id,omitempty"`
	Action       string          `gorm:"size:100;not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionCampaignCreated         = "campaign_created"
	AuditActionCampaignCreationFailed  = "campaign_creation_failed"
	AuditActionCampaignUpdated         = "campaign_updated"
	AuditActionCampaignStarted         = "campaign_started"
	AuditActionCampaignPaused          = "campaign_paused"
	AuditActionCampaignResumed         = "campaign_resumed"
	AuditActionCampaignCompleted       = "campaign_completed"
	AuditActionCampaignCancelled       = "campaign_cancelled"
	AuditActionGroupCreated            = "campaign_group_created"
	AuditActionEvaluationSubmitted     = "evaluation_submitted"
	AuditActionEvaluationRejected      = "evaluation_rejected"
	AuditActionCertificateGenerated    = "certificate_generated"
	AuditActionCertificateRegenerated  = "certificate_regenerated"
	AuditActionCertificateUpdated      = "certificate_updated"
	AuditActionCertificateRevoked      = "certificate_revoked"
	AuditActionCertificateVerified     = "certificate_verified"
	AuditActionTemplateCreated         = "certificate_template_created"
	AuditActionTemplateUpdated         = "certificate_template_updated"
	AuditActionTemplateDefaultSet      = "certificate_template_default_set"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	TenantID      *uint
	ActorID       *uuid.UUID
	Action        *string
	Success       *bool
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
