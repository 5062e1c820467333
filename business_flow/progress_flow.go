package businessflow

import (
	"context"
	"time"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/repository"
	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
)

// ProgressFlow reports aggregated campaign completion
type ProgressFlow interface {
	GetCampaignProgress(ctx context.Context, actor *Identity, campaignUUID uuid.UUID) (*dto.CampaignProgressResponse, error)
}

// ProgressFlowImpl implements the progress business flow
type ProgressFlowImpl struct {
	campaignRepo   repository.CampaignRepository
	groupRepo      repository.CampaignGroupRepository
	evaluationRepo repository.CampaignEvaluationRepository
}

// NewProgressFlow creates a new progress flow instance
func NewProgressFlow(
	campaignRepo repository.CampaignRepository,
	groupRepo repository.CampaignGroupRepository,
	evaluationRepo repository.CampaignEvaluationRepository,
) ProgressFlow {
	return &ProgressFlowImpl{
		campaignRepo:   campaignRepo,
		groupRepo:      groupRepo,
		evaluationRepo: evaluationRepo,
	}
}

// GetCampaignProgress computes the completion rollup for one campaign
func (s *ProgressFlowImpl) GetCampaignProgress(ctx context.Context, actor *Identity, campaignUUID uuid.UUID) (*dto.CampaignProgressResponse, error) {
	campaign, err := getCampaign(ctx, s.campaignRepo, actor.TenantID, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}

	groups, err := s.groupRepo.ByCampaignID(ctx, actor.TenantID, campaign.ID)
	if err != nil {
		return nil, NewBusinessError("PROGRESS_FAILED", "Failed to load campaign groups", err)
	}

	evaluations, err := s.evaluationRepo.ByCampaignID(ctx, actor.TenantID, campaign.ID)
	if err != nil {
		return nil, NewBusinessError("PROGRESS_FAILED", "Failed to load campaign evaluations", err)
	}

	resp := ComputeCampaignProgress(campaign, groups, evaluations, utils.UTCNow())
	return resp, nil
}

// ComputeCampaignProgress aggregates evaluation completion for a campaign.
//
// Totals come from the campaign's target set; the completed count is the raw
// number of completed evaluation records, not distinct evaluated users. The
// pending count is totals minus completed and is intentionally not clamped:
// over-submission relative to the target set drives it negative, which
// surfaces target-set drift instead of hiding it.
//
// Group rollups are keyed on the evaluation's group reference: an evaluation
// submitted without a group, or against a foreign group, counts toward the
// campaign total but no group.
//
// daysRemaining is the whole-day floor until the planned end date and goes
// negative once the end date has passed.
func ComputeCampaignProgress(campaign *models.Campaign, groups []*models.CampaignGroup, evaluations []*models.CampaignEvaluation, now time.Time) *dto.CampaignProgressResponse {
	completed := 0
	completedByGroup := make(map[uint]int)
	for _, evaluation := range evaluations {
		if !evaluation.IsCompleted {
			continue
		}
		completed++
		if evaluation.GroupID != nil {
			completedByGroup[*evaluation.GroupID]++
		}
	}

	totalTargets := campaign.TargetUserIDs.Len()
	pending := totalTargets - completed

	groupProgress := make([]dto.GroupProgress, 0, len(groups))
	managerIndex := make(map[uuid.UUID]int)
	managerProgress := make([]dto.ManagerProgress, 0)

	for _, group := range groups {
		groupCompleted := completedByGroup[group.ID]
		groupTotal := group.TargetUserIDs.Len()

		groupProgress = append(groupProgress, dto.GroupProgress{
			GroupUUID:          group.UUID.String(),
			GroupName:          group.Name,
			ManagerID:          group.ManagerID.String(),
			TotalTargets:       groupTotal,
			CompletedCount:     groupCompleted,
			ProgressPercentage: utils.Percentage(groupCompleted, groupTotal),
		})

		idx, ok := managerIndex[group.ManagerID]
		if !ok {
			idx = len(managerProgress)
			managerIndex[group.ManagerID] = idx
			managerProgress = append(managerProgress, dto.ManagerProgress{
				ManagerID: group.ManagerID.String(),
			})
		}
		managerProgress[idx].GroupCount++
		managerProgress[idx].TotalTargets += groupTotal
		managerProgress[idx].CompletedCount += groupCompleted
	}

	for i := range managerProgress {
		managerProgress[i].ProgressPercentage = utils.Percentage(managerProgress[i].CompletedCount, managerProgress[i].TotalTargets)
	}

	return &dto.CampaignProgressResponse{
		Message:              "Campaign progress retrieved successfully",
		CampaignUUID:         campaign.UUID.String(),
		TotalTargets:         totalTargets,
		CompletedEvaluations: completed,
		PendingEvaluations:   pending,
		ProgressPercentage:   utils.Percentage(completed, totalTargets),
		DaysRemaining:        utils.DaysUntil(campaign.EndDate, now),
		GroupProgress:        groupProgress,
		ManagerProgress:      managerProgress,
	}
}
