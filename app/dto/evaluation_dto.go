package dto

import (
	"time"
)

// SubmitEvaluationRequest represents the request to submit an evaluation
type SubmitEvaluationRequest struct {
	CampaignUUID     string            `json:"campaign_uuid" validate:"required,uuid"`
	GroupUUID        *string           `json:"group_uuid,omitempty" validate:"omitempty,uuid"`
	EvaluatedUserID  string            `json:"evaluated_user_id" validate:"required,uuid"`
	RoleEvaluations  map[string]string `json:"role_evaluations,omitempty"`
	ClaimEvaluations map[string]string `json:"claim_evaluations,omitempty"`
	Feedback         *string           `json:"feedback,omitempty" validate:"omitempty,max=4000"`
}

// SubmitEvaluationResponse represents the response to submit an evaluation
type SubmitEvaluationResponse struct {
	Message     string    `json:"message"`
	UUID        string    `json:"uuid"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// GetEvaluationResponse represents an evaluation in responses
type GetEvaluationResponse struct {
	UUID             string            `json:"uuid"`
	CampaignUUID     string            `json:"campaign_uuid"`
	GroupUUID        *string           `json:"group_uuid,omitempty"`
	EvaluatedUserID  string            `json:"evaluated_user_id"`
	EvaluatorID      string            `json:"evaluator_id"`
	RoleEvaluations  map[string]string `json:"role_evaluations"`
	ClaimEvaluations map[string]string `json:"claim_evaluations"`
	Feedback         *string           `json:"feedback,omitempty"`
	IsCompleted      bool              `json:"is_completed"`
	SubmittedAt      *time.Time        `json:"submitted_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// ListEvaluationsResponse represents the evaluations of a campaign
type ListEvaluationsResponse struct {
	Message string                  `json:"message"`
	Items   []GetEvaluationResponse `json:"items"`
}
