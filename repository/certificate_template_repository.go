package repository

import (
	"context"
	"errors"

	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/utils"
	"gorm.io/gorm"
)

// CertificateTemplateRepositoryImpl implements the CertificateTemplateRepository interface
type CertificateTemplateRepositoryImpl struct {
	*BaseRepository[models.CertificateTemplate, models.CertificateTemplateFilter]
}

// NewCertificateTemplateRepository creates a new certificate template repository
func NewCertificateTemplateRepository(db *gorm.DB) CertificateTemplateRepository {
	return &CertificateTemplateRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CertificateTemplate, models.CertificateTemplateFilter](db),
	}
}

// DefaultByType retrieves the default active template for a certificate
// type, or nil when none is configured. Absence is not an error: issuance
// tolerates missing templates.
func (r *CertificateTemplateRepositoryImpl) DefaultByType(ctx context.Context, tenantID uint, certType models.CertificateType) (*models.CertificateTemplate, error) {
	db := r.getDB(ctx)

	var template models.CertificateTemplate
	err := db.Where("tenant_id = ? AND type = ? AND is_default = true AND is_active = true",
		tenantID, certType).
		First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &template, nil
}

// Update persists the full template row
func (r *CertificateTemplateRepositoryImpl) Update(ctx context.Context, template *models.CertificateTemplate) error {
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

	template.UpdatedAt = utils.UTCNowPtr()

	err = db.Save(template).Error
	if err != nil {
		return err
	}

	return nil
}

// ClearDefault unsets the default flag on every template of the given
// (tenant, type). Run inside the same transaction that promotes the new
// default so the at-most-one invariant holds.
func (r *CertificateTemplateRepositoryImpl) ClearDefault(ctx context.Context, tenantID uint, certType models.CertificateType) error {
	db := r.getDB(ctx)

	return db.Model(&models.CertificateTemplate{}).
		Where("tenant_id = ? AND type = ? AND is_default = true", tenantID, certType).
		Updates(map[string]any{
			"is_default": false,
			"updated_at": utils.UTCNow(),
		}).Error
}

// ByFilter retrieves templates based on filter criteria
func (r *CertificateTemplateRepositoryImpl) ByFilter(ctx context.Context, filter models.CertificateTemplateFilter, orderBy string, limit, offset int) ([]*models.CertificateTemplate, error) {
	db := r.getDB(ctx)

	var templates []*models.CertificateTemplate
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

	err := query.Find(&templates).Error
	if err != nil {
		return nil, err
	}

	return templates, nil
}

// Count returns the number of templates matching the filter
func (r *CertificateTemplateRepositoryImpl) Count(ctx context.Context, filter models.CertificateTemplateFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.CertificateTemplate{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any template matching the filter exists
func (r *CertificateTemplateRepositoryImpl) Exists(ctx context.Context, filter models.CertificateTemplateFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CertificateTemplateRepositoryImpl) applyFilter(db *gorm.DB, filter models.CertificateTemplateFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.TenantID != nil {
		db = db.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.Type != nil {
		db = db.Where("type = ?", *filter.Type)
	}
	if filter.IsDefault != nil {
		db = db.Where("is_default = ?", *filter.IsDefault)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}

	return db
}
