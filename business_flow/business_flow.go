// Package businessflow contains the core business logic and use cases for
// campaign and certification workflows
package businessflow

import (
	"context"

	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/repository"
	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
)

// Identity is the authenticated actor performing an operation. Every
// mutating flow method takes it explicitly; there is no ambient
// current-user accessor.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	TenantID uint      `json:"tenant_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
}

// ClientMetadata holds client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// getCampaign resolves a campaign by public UUID within the actor's tenant.
// A missing row and a tenant mismatch are indistinguishable by design.
func getCampaign(ctx context.Context, repo repository.CampaignRepository, tenantID uint, id uuid.UUID) (*models.Campaign, error) {
	campaign, err := repo.ByUUID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

// getUser resolves an active user within the actor's tenant.
func getUser(ctx context.Context, repo repository.UserRepository, tenantID uint, id uuid.UUID) (*models.User, error) {
	user, err := repo.ByUserID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// getCertificate resolves a certificate by public UUID within the actor's tenant.
func getCertificate(ctx context.Context, repo repository.CertificateRepository, tenantID uint, id uuid.UUID) (*models.Certificate, error) {
	certificate, err := repo.ByUUID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if certificate == nil {
		return nil, ErrCertificateNotFound
	}
	return certificate, nil
}

// writeAuditLog records a mutating operation. Audit failures are reported to
// the caller but flows treat them as best-effort.
func writeAuditLog(ctx context.Context, repo repository.AuditLogRepository, actor *Identity, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) error {
	audit := &models.AuditLog{
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		ErrorMessage: errorMsg,
	}
	if actor != nil {
		audit.TenantID = utils.ToPtr(actor.TenantID)
		audit.ActorID = utils.ToPtr(actor.ID)
	}
	if metadata != nil {
		audit.IPAddress = &metadata.IPAddress
		audit.UserAgent = &metadata.UserAgent
		if metadata.RequestID != "" {
			audit.RequestID = &metadata.RequestID
		}
	}

	if requestID, ok := ctx.Value(utils.RequestIDKey).(string); ok && audit.RequestID == nil {
		audit.RequestID = &requestID
	}

	return repo.Save(ctx, audit)
}
