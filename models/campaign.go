package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignStatus represents the lifecycle status of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

// String returns the string representation of the status
func (s CampaignStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusPaused,
		CampaignStatusCompleted, CampaignStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition can leave this status.
func (s CampaignStatus) IsTerminal() bool {
	return s == CampaignStatusCompleted || s == CampaignStatusCancelled
}

// Scan implements the sql.Scanner interface for CampaignStatus
func (s *CampaignStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = CampaignStatus(v)
	case []byte:
		*s = CampaignStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CampaignStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CampaignStatus
func (s CampaignStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CampaignStatus: %s", s)
	}
	return string(s), nil
}

// CampaignType classifies what a campaign evaluates
type CampaignType string

const (
	CampaignTypePerformance CampaignType = "performance"
	CampaignTypeTraining    CampaignType = "training"
	CampaignTypeEvaluation  CampaignType = "evaluation"
	CampaignTypeDevelopment CampaignType = "development"
)

// String returns the string representation of the type
func (t CampaignType) String() string {
	return string(t)
}

// Valid checks if the type is valid
func (t CampaignType) Valid() bool {
	switch t {
	case CampaignTypePerformance, CampaignTypeTraining,
		CampaignTypeEvaluation, CampaignTypeDevelopment:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CampaignType
func (t *CampaignType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = CampaignType(v)
	case []byte:
		*t = CampaignType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CampaignType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CampaignType
func (t CampaignType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid CampaignType: %s", t)
	}
	return string(t), nil
}

// Campaign represents a time-boxed evaluation initiative targeting a set of
// users, run by one or more managers.
type Campaign struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UUID             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid" json:"uuid"`
	TenantID         uint           `gorm:"not null;index:idx_campaigns_tenant_id" json:"tenant_id"`
	Title            string         `gorm:"size:255;not null;index:idx_campaigns_title" json:"title"`
	Description      *string        `gorm:"type:text" json:"description,omitempty"`
	Type             CampaignType   `gorm:"type:campaign_type;not null" json:"type"`
	Status           CampaignStatus `gorm:"type:campaign_status;not null;default:'draft';index:idx_campaigns_status" json:"status"`
	StartDate        time.Time      `gorm:"not null" json:"start_date"`
	EndDate          time.Time      `gorm:"not null" json:"end_date"`
	ActualStartDate  *time.Time     `json:"actual_start_date,omitempty"`
	ActualEndDate    *time.Time     `json:"actual_end_date,omitempty"`
	AssignedManagers UUIDSet        `gorm:"type:jsonb;not null" json:"assigned_managers"`
	TargetUserIDs    UUIDSet        `gorm:"type:jsonb;not null" json:"target_user_ids"`
	CreatedBy        uuid.UUID      `gorm:"type:uuid;not null" json:"created_by"`
	IsDeleted        bool           `gorm:"not null;default:false;index:idx_campaigns_is_deleted" json:"is_deleted"`
	CreatedAt        time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_campaigns_created_at" json:"created_at"`
	UpdatedAt        *time.Time     `json:"updated_at,omitempty"`

	// Relations
	Groups      []CampaignGroup      `gorm:"foreignKey:CampaignID" json:"groups,omitempty"`
	Evaluations []CampaignEvaluation `gorm:"foreignKey:CampaignID" json:"evaluations,omitempty"`
}

// TableName returns the table name for the model
func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate is called before creating a new record
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CampaignStatusDraft
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Campaign) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// CanTransitionTo checks if the campaign can transition to the given status
func (c *Campaign) CanTransitionTo(newStatus CampaignStatus) bool {
	switch c.Status {
	case CampaignStatusDraft:
		return newStatus == CampaignStatusActive ||
			newStatus == CampaignStatusCancelled
	case CampaignStatusActive:
		return newStatus == CampaignStatusPaused ||
			newStatus == CampaignStatusCompleted ||
			newStatus == CampaignStatusCancelled
	case CampaignStatusPaused:
		return newStatus == CampaignStatusActive ||
			newStatus == CampaignStatusCancelled
	default:
		return false
	}
}

// CanStart reports whether the Start transition is allowed. Only draft
// campaigns can be started.
func (c *Campaign) CanStart() bool {
	return c.Status == CampaignStatusDraft
}

// CanComplete reports whether the Complete transition is allowed. Only
// active campaigns can be completed.
func (c *Campaign) CanComplete() bool {
	return c.Status == CampaignStatusActive
}

// CanCancel reports whether cancellation is allowed: any state except the
// terminal ones.
func (c *Campaign) CanCancel() bool {
	return !c.Status.IsTerminal()
}

// GetStatusDisplayName returns a human-readable status name
func (c *Campaign) GetStatusDisplayName() string {
	switch c.Status {
	case CampaignStatusDraft:
		return "Draft"
	case CampaignStatusActive:
		return "Active"
	case CampaignStatusPaused:
		return "Paused"
	case CampaignStatusCompleted:
		return "Completed"
	case CampaignStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// CampaignFilter represents filter criteria for campaigns
type CampaignFilter struct {
	ID            *uint           `json:"id,omitempty"`
	UUID          *uuid.UUID      `json:"uuid,omitempty"`
	TenantID      *uint           `json:"tenant_id,omitempty"`
	Title         *string         `json:"title,omitempty"`
	TitleExact    *string         `json:"title_exact,omitempty"`
	Type          *CampaignType   `json:"type,omitempty"`
	Status        *CampaignStatus `json:"status,omitempty"`
	CreatedBy     *uuid.UUID      `json:"created_by,omitempty"`
	IsDeleted     *bool           `json:"is_deleted,omitempty"`
	ExcludeID     *uint           `json:"exclude_id,omitempty"`
	CreatedAfter  *time.Time      `json:"created_after,omitempty"`
	CreatedBefore *time.Time      `json:"created_before,omitempty"`
	EndsAfter     *time.Time      `json:"ends_after,omitempty"`
	EndsBefore    *time.Time      `json:"ends_before,omitempty"`
}
