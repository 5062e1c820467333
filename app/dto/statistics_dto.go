package dto

import (
	"time"
)

// StatisticsResponse is the tenant-wide dashboard aggregate
type StatisticsResponse struct {
	Message                string             `json:"message"`
	GeneratedAt            time.Time          `json:"generated_at"`
	TotalCampaigns         int                `json:"total_campaigns"`
	CampaignsByStatus      map[string]int     `json:"campaigns_by_status"`
	CampaignsByType        map[string]int     `json:"campaigns_by_type"`
	MostActiveCampaignType string             `json:"most_active_campaign_type"`
	TotalEvaluations       int                `json:"total_evaluations"`
	CompletedEvaluations   int                `json:"completed_evaluations"`
	CompletionPercentage   float64            `json:"completion_percentage"`
	AvgCompletionDays      float64            `json:"avg_completion_days"`
	TotalCertificates      int                `json:"total_certificates"`
	ActiveCertificates     int                `json:"active_certificates"`
	RevokedCertificates    int                `json:"revoked_certificates"`
	RecentActivity         []ActivityFeedItem `json:"recent_activity"`
}

// ActivityFeedItem is a single entry in the merged recent-activity feed
type ActivityFeedItem struct {
	Kind       string    `json:"kind"` // campaign, evaluation
	Title      string    `json:"title"`
	Reference  string    `json:"reference"`
	OccurredAt time.Time `json:"occurred_at"`
}
