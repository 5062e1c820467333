package dto

import (
	"time"
)

// CreateCampaignRequest represents the request to create a new campaign
type CreateCampaignRequest struct {
	Title          string    `json:"title" validate:"required,min=3,max=255"`
	Description    *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Type           string    `json:"type" validate:"required,oneof=performance training evaluation development"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required"`
	ManagerIDs     []string  `json:"manager_ids" validate:"required,min=1,dive,uuid"`
	TargetUserIDs  []string  `json:"target_user_ids" validate:"required,min=1,dive,uuid"`
}

// CreateCampaignResponse represents the response to create a new campaign
type CreateCampaignResponse struct {
	Message   string `json:"message"`
	UUID      string `json:"uuid"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// UpdateCampaignRequest represents the request to update an existing campaign
type UpdateCampaignRequest struct {
	UUID          string     `json:"-"`
	Title         *string    `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	ManagerIDs    []string   `json:"manager_ids,omitempty" validate:"omitempty,min=1,dive,uuid"`
	TargetUserIDs []string   `json:"target_user_ids,omitempty" validate:"omitempty,min=1,dive,uuid"`
}

// UpdateCampaignResponse represents the response to update an existing campaign
type UpdateCampaignResponse struct {
	Message string `json:"message"`
}

// GetCampaignResponse represents a campaign in responses
type GetCampaignResponse struct {
	UUID             string     `json:"uuid"`
	Title            string     `json:"title"`
	Description      *string    `json:"description,omitempty"`
	Type             string     `json:"type"`
	Status           string     `json:"status"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          time.Time  `json:"end_date"`
	ActualStartDate  *time.Time `json:"actual_start_date,omitempty"`
	ActualEndDate    *time.Time `json:"actual_end_date,omitempty"`
	AssignedManagers []string   `json:"assigned_managers"`
	TargetUserIDs    []string   `json:"target_user_ids"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// CampaignTransitionResponse represents the outcome of a lifecycle transition
type CampaignTransitionResponse struct {
	Message  string              `json:"message"`
	Campaign GetCampaignResponse `json:"campaign"`
}

// ListCampaignsFilter represents filter criteria for listing campaigns
type ListCampaignsFilter struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
	Type   *string `json:"type,omitempty"`
}

// ListCampaignsRequest represents a paginated list request for campaigns
type ListCampaignsRequest struct {
	Page    int                  `json:"page"`
	Limit   int                  `json:"limit"`
	OrderBy string               `json:"orderby"` // newest, oldest
	Filter  *ListCampaignsFilter `json:"filter,omitempty"`
}

// ListCampaignsResponse represents a paginated list of campaigns
type ListCampaignsResponse struct {
	Message    string                `json:"message"`
	Items      []GetCampaignResponse `json:"items"`
	Pagination PaginationInfo        `json:"pagination"`
}

// CreateGroupRequest represents the request to create a campaign group
type CreateGroupRequest struct {
	CampaignUUID  *string  `json:"campaign_uuid,omitempty" validate:"omitempty,uuid"`
	Name          string   `json:"name" validate:"required,min=2,max=255"`
	ManagerID     string   `json:"manager_id" validate:"required,uuid"`
	TargetUserIDs []string `json:"target_user_ids" validate:"required,min=1,dive,uuid"`
}

// CreateGroupResponse represents the response to create a campaign group
type CreateGroupResponse struct {
	Message string `json:"message"`
	UUID    string `json:"uuid"`
}

// GetGroupResponse represents a campaign group in responses
type GetGroupResponse struct {
	UUID          string     `json:"uuid"`
	CampaignUUID  *string    `json:"campaign_uuid,omitempty"`
	Name          string     `json:"name"`
	ManagerID     string     `json:"manager_id"`
	TargetUserIDs []string   `json:"target_user_ids"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// ListGroupsResponse represents the groups of a campaign
type ListGroupsResponse struct {
	Message string             `json:"message"`
	Items   []GetGroupResponse `json:"items"`
}

// CampaignProgressResponse reports aggregated campaign completion
type CampaignProgressResponse struct {
	Message              string            `json:"message"`
	CampaignUUID         string            `json:"campaign_uuid"`
	TotalTargets         int               `json:"total_targets"`
	CompletedEvaluations int               `json:"completed_evaluations"`
	PendingEvaluations   int               `json:"pending_evaluations"`
	ProgressPercentage   float64           `json:"progress_percentage"`
	DaysRemaining        int               `json:"days_remaining"`
	GroupProgress        []GroupProgress   `json:"group_progress"`
	ManagerProgress      []ManagerProgress `json:"manager_progress"`
}

// GroupProgress is the per-group completion rollup
type GroupProgress struct {
	GroupUUID          string  `json:"group_uuid"`
	GroupName          string  `json:"group_name"`
	ManagerID          string  `json:"manager_id"`
	TotalTargets       int     `json:"total_targets"`
	CompletedCount     int     `json:"completed_count"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

// ManagerProgress is the per-manager completion rollup across their groups
type ManagerProgress struct {
	ManagerID          string  `json:"manager_id"`
	GroupCount         int     `json:"group_count"`
	TotalTargets       int     `json:"total_targets"`
	CompletedCount     int     `json:"completed_count"`
	ProgressPercentage float64 `json:"progress_percentage"`
}
