package repository

import (
	"context"
	"errors"

	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignEvaluationRepositoryImpl implements the CampaignEvaluationRepository interface
type CampaignEvaluationRepositoryImpl struct {
	*BaseRepository[models.CampaignEvaluation, models.CampaignEvaluationFilter]
}

// NewCampaignEvaluationRepository creates a new campaign evaluation repository
func NewCampaignEvaluationRepository(db *gorm.DB) CampaignEvaluationRepository {
	return &CampaignEvaluationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CampaignEvaluation, models.CampaignEvaluationFilter](db),
	}
}

// ByCampaignID retrieves all evaluations recorded for a campaign
func (r *CampaignEvaluationRepositoryImpl) ByCampaignID(ctx context.Context, tenantID, campaignID uint) ([]*models.CampaignEvaluation, error) {
	filter := models.CampaignEvaluationFilter{
		TenantID:   &tenantID,
		CampaignID: &campaignID,
	}
	return r.ByFilter(ctx, filter, "created_at ASC", 0, 0)
}

// ByTriple retrieves the evaluation identified by the unique
// (campaign, evaluated user, evaluator) triple, or nil.
func (r *CampaignEvaluationRepositoryImpl) ByTriple(ctx context.Context, campaignID uint, evaluatedUserID, evaluatorID uuid.UUID) (*models.CampaignEvaluation, error) {
	db := r.getDB(ctx)

	var evaluation models.CampaignEvaluation
	err := db.Where("campaign_id = ? AND evaluated_user_id = ? AND evaluator_id = ?",
		campaignID, evaluatedUserID, evaluatorID).
		First(&evaluation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &evaluation, nil
}

// Update persists the full evaluation row
func (r *CampaignEvaluationRepositoryImpl) Update(ctx context.Context, evaluation *models.CampaignEvaluation) error {
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

	evaluation.UpdatedAt = utils.UTCNowPtr()

	err = db.Save(evaluation).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves evaluations based on filter criteria
func (r *CampaignEvaluationRepositoryImpl) ByFilter(ctx context.Context, filter models.CampaignEvaluationFilter, orderBy string, limit, offset int) ([]*models.CampaignEvaluation, error) {
	db := r.getDB(ctx)

	var evaluations []*models.CampaignEvaluation
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

	err := query.Find(&evaluations).Error
	if err != nil {
		return nil, err
	}

	return evaluations, nil
}

// Count returns the number of evaluations matching the filter
func (r *CampaignEvaluationRepositoryImpl) Count(ctx context.Context, filter models.CampaignEvaluationFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.CampaignEvaluation{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any evaluation matching the filter exists
func (r *CampaignEvaluationRepositoryImpl) Exists(ctx context.Context, filter models.CampaignEvaluationFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CampaignEvaluationRepositoryImpl) applyFilter(db *gorm.DB, filter models.CampaignEvaluationFilter) *gorm.DB {
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
	if filter.GroupID != nil {
		db = db.Where("group_id = ?", *filter.GroupID)
	}
	if filter.EvaluatedUserID != nil {
		db = db.Where("evaluated_user_id = ?", *filter.EvaluatedUserID)
	}
	if filter.EvaluatorID != nil {
		db = db.Where("evaluator_id = ?", *filter.EvaluatorID)
	}
	if filter.IsCompleted != nil {
		db = db.Where("is_completed = ?", *filter.IsCompleted)
	}
	if filter.SubmittedAfter != nil {
		db = db.Where("submitted_at >= ?", *filter.SubmittedAfter)
	}
	if filter.SubmittedBefore != nil {
		db = db.Where("submitted_at < ?", *filter.SubmittedBefore)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
