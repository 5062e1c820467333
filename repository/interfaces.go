// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/evalforge/workforce-suite/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// CampaignRepository defines operations for campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByUUID(ctx context.Context, tenantID uint, uuid uuid.UUID) (*models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	TitleExists(ctx context.Context, tenantID uint, title string, excludeID *uint) (bool, error)
}

// CampaignGroupRepository defines operations for campaign groups
type CampaignGroupRepository interface {
	Repository[models.CampaignGroup, models.CampaignGroupFilter]
	ByCampaignID(ctx context.Context, tenantID, campaignID uint) ([]*models.CampaignGroup, error)
	Update(ctx context.Context, group *models.CampaignGroup) error
}

// CampaignEvaluationRepository defines operations for campaign evaluations
type CampaignEvaluationRepository interface {
	Repository[models.CampaignEvaluation, models.CampaignEvaluationFilter]
	ByCampaignID(ctx context.Context, tenantID, campaignID uint) ([]*models.CampaignEvaluation, error)
	ByTriple(ctx context.Context, campaignID uint, evaluatedUserID, evaluatorID uuid.UUID) (*models.CampaignEvaluation, error)
	Update(ctx context.Context, evaluation *models.CampaignEvaluation) error
}

// CertificateRepository defines operations for certificates
type CertificateRepository interface {
	Repository[models.Certificate, models.CertificateFilter]
	ByUUID(ctx context.Context, tenantID uint, uuid uuid.UUID) (*models.Certificate, error)
	ByVerificationToken(ctx context.Context, token string) (*models.Certificate, error)
	ByCampaignAndRecipient(ctx context.Context, tenantID, campaignID uint, recipientID uuid.UUID) (*models.Certificate, error)
	Update(ctx context.Context, certificate *models.Certificate) error
	// IncrementVerification bumps the verification counter atomically in the
	// database and stamps verified_at; it must never be a load-then-save.
	IncrementVerification(ctx context.Context, id uint, verifiedAt time.Time) error
}

// CertificateTemplateRepository defines operations for certificate templates
type CertificateTemplateRepository interface {
	Repository[models.CertificateTemplate, models.CertificateTemplateFilter]
	DefaultByType(ctx context.Context, tenantID uint, certType models.CertificateType) (*models.CertificateTemplate, error)
	Update(ctx context.Context, template *models.CertificateTemplate) error
	ClearDefault(ctx context.Context, tenantID uint, certType models.CertificateType) error
}

// UserRepository is the engine's read-only view of users
type UserRepository interface {
	ByUserID(ctx context.Context, tenantID uint, id uuid.UUID) (*models.User, error)
	Exists(ctx context.Context, tenantID uint, id uuid.UUID) (bool, error)
	AllExist(ctx context.Context, tenantID uint, ids []uuid.UUID) (bool, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Save(ctx context.Context, log *models.AuditLog) error
	ByFilter(ctx context.Context, filter models.AuditLogFilter, orderBy string, limit, offset int) ([]*models.AuditLog, error)
}
