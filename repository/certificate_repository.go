package repository

import (
	"context"
	"errors"
	"time"

	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateRepositoryImpl implements the CertificateRepository interface
type CertificateRepositoryImpl struct {
	*BaseRepository[models.Certificate, models.CertificateFilter]
}

// NewCertificateRepository creates a new certificate repository
func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &CertificateRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Certificate, models.CertificateFilter](db),
	}
}

// ByUUID retrieves a certificate by UUID scoped to a tenant
func (r *CertificateRepositoryImpl) ByUUID(ctx context.Context, tenantID uint, id uuid.UUID) (*models.Certificate, error) {
	db := r.getDB(ctx)

	var certificate models.Certificate
	err := db.Where("uuid = ? AND tenant_id = ?", id, tenantID).
		First(&certificate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &certificate, nil
}

// ByVerificationToken resolves a certificate by exact token match. The
// lookup is deliberately tenant-unscoped: verification is a public,
// authentication-free surface keyed only by the opaque token.
func (r *CertificateRepositoryImpl) ByVerificationToken(ctx context.Context, token string) (*models.Certificate, error) {
	db := r.getDB(ctx)

	var certificate models.Certificate
	err := db.Where("verification_token = ?", token).
		First(&certificate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &certificate, nil
}

// ByCampaignAndRecipient retrieves the unique certificate for a
// (campaign, recipient) pair, or nil.
func (r *CertificateRepositoryImpl) ByCampaignAndRecipient(ctx context.Context, tenantID, campaignID uint, recipientID uuid.UUID) (*models.Certificate, error) {
	db := r.getDB(ctx)

	var certificate models.Certificate
	err := db.Where("tenant_id = ? AND campaign_id = ? AND recipient_id = ?",
		tenantID, campaignID, recipientID).
		First(&certificate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &certificate, nil
}

// Update persists the full certificate row
func (r *CertificateRepositoryImpl) Update(ctx context.Context, certificate *models.Certificate) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	certificate.UpdatedAt = utils.UTCNowPtr()

	err = db.Save(certificate).Error
	if err != nil {
		return err
	}

	return nil
}

// IncrementVerification bumps the verification counter with a single atomic
// UPDATE so concurrent verifications of the same token never lose counts.
func (r *CertificateRepositoryImpl) IncrementVerification(ctx context.Context, id uint, verifiedAt time.Time) error {
	db := r.getDB(ctx)

	return db.Model(&models.Certificate{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"verification_count": gorm.Expr("verification_count + 1"),
			"verified_at":        verifiedAt,
			"updated_at":         verifiedAt,
		}).Error
}

// ByFilter retrieves certificates based on filter criteria
func (r *CertificateRepositoryImpl) ByFilter(ctx context.Context, filter models.CertificateFilter, orderBy string, limit, offset int) ([]*models.Certificate, error) {
	db := r.getDB(ctx)

	var certificates []*models.Certificate
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&certificates).Error
	if err != nil {
		return nil, err
	}

	return certificates, nil
}

// Count returns the number of certificates matching the filter
func (r *CertificateRepositoryImpl) Count(ctx context.Context, filter models.CertificateFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Certificate{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any certificate matching the filter exists
func (r *CertificateRepositoryImpl) Exists(ctx context.Context, filter models.CertificateFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CertificateRepositoryImpl) applyFilter(db *gorm.DB, filter models.CertificateFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.TenantID != nil {
		db = db.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.RecipientID != nil {
		db = db.Where("recipient_id = ?", *filter.RecipientID)
	}
	if filter.CampaignID != nil {
		db = db.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		db = db.Where("type = ?", *filter.Type)
	}
	if filter.VerificationToken != nil {
		db = db.Where("verification_token = ?", *filter.VerificationToken)
	}
	if filter.IssuedAfter != nil {
		db = db.Where("issued_date >= ?", *filter.IssuedAfter)
	}
	if filter.IssuedBefore != nil {
		db = db.Where("issued_date < ?", *filter.IssuedBefore)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
