package models

import (
	"time"

	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignGroup is a manager-owned subset of a campaign's target users, used
// to distribute evaluation workload. A group with no campaign reference is a
// standalone template of users.
type CampaignGroup struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UUID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_campaign_groups_uuid" json:"uuid"`
	TenantID      uint       `gorm:"not null;index:idx_campaign_groups_tenant_id" json:"tenant_id"`
	CampaignID    *uint      `gorm:"index:idx_campaign_groups_campaign_id" json:"campaign_id,omitempty"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	ManagerID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_campaign_groups_manager_id" json:"manager_id"`
	TargetUserIDs UUIDSet    `gorm:"type:jsonb;not null" json:"target_user_ids"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`

	// Relations
	Campaign *Campaign `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
}

// TableName returns the table name for the model
func (CampaignGroup) TableName() string {
	return "campaign_groups"
}

// BeforeCreate is called before creating a new record
func (g *CampaignGroup) BeforeCreate(tx *gorm.DB) error {
	if g.UUID == uuid.Nil {
		g.UUID = uuid.New()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (g *CampaignGroup) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	g.UpdatedAt = &now
	return nil
}

// IsStandalone reports whether the group exists outside any campaign.
func (g *CampaignGroup) IsStandalone() bool {
	return g.CampaignID == nil
}

// CampaignGroupFilter represents filter criteria for campaign groups
type CampaignGroupFilter struct {
	ID         *uint      `json:"id,omitempty"`
	UUID       *uuid.UUID `json:"uuid,omitempty"`
	TenantID   *uint      `json:"tenant_id,omitempty"`
	CampaignID *uint      `json:"campaign_id,omitempty"`
	ManagerID  *uuid.UUID `json:"manager_id,omitempty"`
	IsActive   *bool      `json:"is_active,omitempty"`
	Standalone *bool      `json:"standalone,omitempty"`
}
