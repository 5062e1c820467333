package models

import (
	"time"

	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignEvaluation is a single evaluator's assessment of one target user
// within one campaign. The triple (campaign, evaluated user, evaluator) is
// unique: an evaluator may not assess the same person twice in a campaign.
// The composite unique index below is the authority; races between
// concurrent submissions resolve there.
type CampaignEvaluation struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UUID             uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_campaign_evaluations_uuid" json:"uuid"`
	TenantID         uint       `gorm:"not null;index:idx_campaign_evaluations_tenant_id" json:"tenant_id"`
	CampaignID       uint       `gorm:"not null;index:idx_campaign_evaluations_campaign_id;uniqueIndex:uk_campaign_evaluations_triple" json:"campaign_id"`
	GroupID          *uint      `gorm:"index:idx_campaign_evaluations_group_id" json:"group_id,omitempty"`
	EvaluatedUserID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_campaign_evaluations_triple" json:"evaluated_user_id"`
	EvaluatorID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_campaign_evaluations_triple" json:"evaluator_id"`
	RoleEvaluations  JSONMap    `gorm:"type:jsonb;not null" json:"role_evaluations"`
	ClaimEvaluations JSONMap    `gorm:"type:jsonb;not null" json:"claim_evaluations"`
	Feedback         *string    `gorm:"type:text" json:"feedback,omitempty"`
	IsCompleted      bool       `gorm:"not null;default:false;index:idx_campaign_evaluations_is_completed" json:"is_completed"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	CreatedAt        time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`

	// Relations
	Campaign *Campaign      `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
	Group    *CampaignGroup `gorm:"foreignKey:GroupID;references:ID" json:"group,omitempty"`
}

// TableName returns the table name for the model
func (CampaignEvaluation) TableName() string {
	return "campaign_evaluations"
}

// BeforeCreate is called before creating a new record
func (e *CampaignEvaluation) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == uuid.Nil {
		e.UUID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (e *CampaignEvaluation) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	e.UpdatedAt = &now
	return nil
}

// MarkSubmitted flags the evaluation completed and stamps the submission
// time. Stamped exactly once; later calls keep the original timestamp.
func (e *CampaignEvaluation) MarkSubmitted(at time.Time) {
	e.IsCompleted = true
	if e.SubmittedAt == nil {
		e.SubmittedAt = &at
	}
}

// CampaignEvaluationFilter represents filter criteria for evaluations
type CampaignEvaluationFilter struct {
	ID              *uint      `json:"id,omitempty"`
	UUID            *uuid.UUID `json:"uuid,omitempty"`
	TenantID        *uint      `json:"tenant_id,omitempty"`
	CampaignID      *uint      `json:"campaign_id,omitempty"`
	GroupID         *uint      `json:"group_id,omitempty"`
	EvaluatedUserID *uuid.UUID `json:"evaluated_user_id,omitempty"`
	EvaluatorID     *uuid.UUID `json:"evaluator_id,omitempty"`
	IsCompleted     *bool      `json:"is_completed,omitempty"`
	SubmittedAfter  *time.Time `json:"submitted_after,omitempty"`
	SubmittedBefore *time.Time `json:"submitted_before,omitempty"`
	CreatedAfter    *time.Time `json:"created_after,omitempty"`
	CreatedBefore   *time.Time `json:"created_before,omitempty"`
}
