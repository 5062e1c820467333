package repository

import (
	"context"

	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/utils"
	"gorm.io/gorm"
)

// CampaignGroupRepositoryImpl implements the CampaignGroupRepository interface
type CampaignGroupRepositoryImpl struct {
	*BaseRepository[models.CampaignGroup, models.CampaignGroupFilter]
}

// NewCampaignGroupRepository creates a new campaign group repository
func NewCampaignGroupRepository(db *gorm.DB) CampaignGroupRepository {
	return &CampaignGroupRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CampaignGroup, models.CampaignGroupFilter](db),
	}
}

// ByCampaignID retrieves the groups attached to a campaign
func (r *CampaignGroupRepositoryImpl) ByCampaignID(ctx context.Context, tenantID, campaignID uint) ([]*models.CampaignGroup, error) {
	filter := models.CampaignGroupFilter{
		TenantID:   &tenantID,
		CampaignID: &campaignID,
	}
	return r.ByFilter(ctx, filter, "created_at ASC", 0, 0)
}

// Update persists the full group row
func (r *CampaignGroupRepositoryImpl) Update(ctx context.Context, group *models.CampaignGroup) error {
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

	group.UpdatedAt = utils.UTCNowPtr()

	err = db.Save(group).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves groups based on filter criteria
func (r *CampaignGroupRepositoryImpl) ByFilter(ctx context.Context, filter models.CampaignGroupFilter, orderBy string, limit, offset int) ([]*models.CampaignGroup, error) {
	db := r.getDB(ctx)

	var groups []*models.CampaignGroup
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

	err := query.Find(&groups).Error
	if err != nil {
		return nil, err
	}

	return groups, nil
}

// Count returns the number of groups matching the filter
func (r *CampaignGroupRepositoryImpl) Count(ctx context.Context, filter models.CampaignGroupFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.CampaignGroup{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any group matching the filter exists
func (r *CampaignGroupRepositoryImpl) Exists(ctx context.Context, filter models.CampaignGroupFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CampaignGroupRepositoryImpl) applyFilter(db *gorm.DB, filter models.CampaignGroupFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.TenantID != nil {
		db = db.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.CampaignID != nil {
		db = db.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.ManagerID != nil {
		db = db.Where("manager_id = ?", *filter.ManagerID)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Standalone != nil {
		if *filter.Standalone {
			db = db.Where("campaign_id IS NULL")
		} else {
			db = db.Where("campaign_id IS NOT NULL")
		}
	}

	return db
}
