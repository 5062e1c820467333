package businessflow

import (
	"testing"
	"time"

	"github.com/evalforge/workforce-suite/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedEvaluation(target uuid.UUID, groupID *uint) *models.CampaignEvaluation {
	return &models.CampaignEvaluation{
		UUID:            uuid.New(),
		GroupID:         groupID,
		EvaluatedUserID: target,
		EvaluatorID:     uuid.New(),
		IsCompleted:     true,
	}
}

func TestComputeCampaignProgress(t *testing.T) {
	targetA := uuid.New()
	targetB := uuid.New()
	targetC := uuid.New()
	targetD := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	campaign := &models.Campaign{
		UUID:          uuid.New(),
		TargetUserIDs: models.NewUUIDSet(targetA, targetB, targetC, targetD),
		EndDate:       now.Add(72 * time.Hour),
	}

	evaluations := []*models.CampaignEvaluation{
		completedEvaluation(targetA, nil),
		completedEvaluation(targetB, nil),
		// Every completed record counts, even a second one for the same target
		completedEvaluation(targetA, nil),
		// Incomplete evaluations do not count
		{UUID: uuid.New(), EvaluatedUserID: targetC, EvaluatorID: uuid.New(), IsCompleted: false},
	}

	resp := ComputeCampaignProgress(campaign, nil, evaluations, now)

	assert.Equal(t, campaign.UUID.String(), resp.CampaignUUID)
	assert.Equal(t, 4, resp.TotalTargets)
	assert.Equal(t, 3, resp.CompletedEvaluations)
	assert.Equal(t, 1, resp.PendingEvaluations)
	assert.Equal(t, 75.0, resp.ProgressPercentage)
	assert.Equal(t, 3, resp.DaysRemaining)
	assert.Empty(t, resp.GroupProgress)
	assert.Empty(t, resp.ManagerProgress)
}

func TestComputeCampaignProgressCountsEveryEvaluation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	targets := make([]uuid.UUID, 10)
	for i := range targets {
		targets[i] = uuid.New()
	}
	campaign := &models.Campaign{
		UUID:          uuid.New(),
		TargetUserIDs: models.NewUUIDSet(targets...),
		EndDate:       now.Add(24 * time.Hour),
	}

	// Four completed evaluations over only two distinct targets: the rollup
	// counts records, not evaluated users.
	evaluations := []*models.CampaignEvaluation{
		completedEvaluation(targets[0], nil),
		completedEvaluation(targets[0], nil),
		completedEvaluation(targets[1], nil),
		completedEvaluation(targets[1], nil),
	}

	resp := ComputeCampaignProgress(campaign, nil, evaluations, now)

	assert.Equal(t, 10, resp.TotalTargets)
	assert.Equal(t, 4, resp.CompletedEvaluations)
	assert.Equal(t, 6, resp.PendingEvaluations)
	assert.Equal(t, 40.0, resp.ProgressPercentage)
}

func TestComputeCampaignProgressEmptyCampaign(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	campaign := &models.Campaign{
		UUID:          uuid.New(),
		TargetUserIDs: models.UUIDSet{},
		EndDate:       now.Add(-48 * time.Hour),
	}

	resp := ComputeCampaignProgress(campaign, nil, nil, now)

	assert.Equal(t, 0, resp.TotalTargets)
	assert.Equal(t, 0, resp.CompletedEvaluations)
	assert.Equal(t, 0, resp.PendingEvaluations)
	assert.Equal(t, 0.0, resp.ProgressPercentage)
	// End date already passed
	assert.Equal(t, -2, resp.DaysRemaining)
}

func TestComputeCampaignProgressNegativePending(t *testing.T) {
	target := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	campaign := &models.Campaign{
		UUID:          uuid.New(),
		TargetUserIDs: models.NewUUIDSet(target),
		EndDate:       now.Add(24 * time.Hour),
	}

	// Over-submission relative to the target set pushes pending negative;
	// the rollup surfaces the drift instead of clamping it away.
	evaluations := []*models.CampaignEvaluation{
		completedEvaluation(target, nil),
		completedEvaluation(target, nil),
	}

	resp := ComputeCampaignProgress(campaign, nil, evaluations, now)

	assert.Equal(t, 1, resp.TotalTargets)
	assert.Equal(t, 2, resp.CompletedEvaluations)
	assert.Equal(t, -1, resp.PendingEvaluations)
}

func TestComputeCampaignProgressGroupRollup(t *testing.T) {
	manager := uuid.New()
	otherManager := uuid.New()
	targetA := uuid.New()
	targetB := uuid.New()
	targetC := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	campaign := &models.Campaign{
		UUID:          uuid.New(),
		TargetUserIDs: models.NewUUIDSet(targetA, targetB, targetC),
		EndDate:       now.Add(24 * time.Hour),
	}

	groups := []*models.CampaignGroup{
		{
			ID:            1,
			UUID:          uuid.New(),
			Name:          "Group One",
			ManagerID:     manager,
			TargetUserIDs: models.NewUUIDSet(targetA, targetB),
		},
		{
			ID:            2,
			UUID:          uuid.New(),
			Name:          "Group Two",
			ManagerID:     manager,
			TargetUserIDs: models.NewUUIDSet(targetC),
		},
		{
			ID:            3,
			UUID:          uuid.New(),
			Name:          "Group Three",
			ManagerID:     otherManager,
			TargetUserIDs: models.UUIDSet{},
		},
	}

	groupOne := uint(1)
	evaluations := []*models.CampaignEvaluation{
		completedEvaluation(targetA, &groupOne),
	}

	resp := ComputeCampaignProgress(campaign, groups, evaluations, now)

	require.Len(t, resp.GroupProgress, 3)
	assert.Equal(t, "Group One", resp.GroupProgress[0].GroupName)
	assert.Equal(t, 2, resp.GroupProgress[0].TotalTargets)
	assert.Equal(t, 1, resp.GroupProgress[0].CompletedCount)
	assert.Equal(t, 50.0, resp.GroupProgress[0].ProgressPercentage)
	assert.Equal(t, 0, resp.GroupProgress[1].CompletedCount)
	assert.Equal(t, 0, resp.GroupProgress[2].TotalTargets)
	assert.Equal(t, 0.0, resp.GroupProgress[2].ProgressPercentage)

	// Two groups share a manager and roll up into one entry
	require.Len(t, resp.ManagerProgress, 2)
	assert.Equal(t, manager.String(), resp.ManagerProgress[0].ManagerID)
	assert.Equal(t, 2, resp.ManagerProgress[0].GroupCount)
	assert.Equal(t, 3, resp.ManagerProgress[0].TotalTargets)
	assert.Equal(t, 1, resp.ManagerProgress[0].CompletedCount)
	assert.InDelta(t, 33.33, resp.ManagerProgress[0].ProgressPercentage, 0.001)
	assert.Equal(t, otherManager.String(), resp.ManagerProgress[1].ManagerID)
	assert.Equal(t, 1, resp.ManagerProgress[1].GroupCount)
}

func TestComputeCampaignProgressGroupAttribution(t *testing.T) {
	manager := uuid.New()
	targetA := uuid.New()
	targetB := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	campaign := &models.Campaign{
		UUID:          uuid.New(),
		TargetUserIDs: models.NewUUIDSet(targetA, targetB),
		EndDate:       now.Add(24 * time.Hour),
	}

	groups := []*models.CampaignGroup{
		{
			ID:            7,
			UUID:          uuid.New(),
			Name:          "Only Group",
			ManagerID:     manager,
			TargetUserIDs: models.NewUUIDSet(targetA),
		},
	}

	// A groupless evaluation of a group member, and one against a group this
	// campaign does not own: both count campaign-wide, neither for the group.
	foreignGroup := uint(99)
	evaluations := []*models.CampaignEvaluation{
		completedEvaluation(targetA, nil),
		completedEvaluation(targetB, &foreignGroup),
	}

	resp := ComputeCampaignProgress(campaign, groups, evaluations, now)

	assert.Equal(t, 2, resp.CompletedEvaluations)
	require.Len(t, resp.GroupProgress, 1)
	assert.Equal(t, 0, resp.GroupProgress[0].CompletedCount)
	assert.Equal(t, 0.0, resp.GroupProgress[0].ProgressPercentage)
	require.Len(t, resp.ManagerProgress, 1)
	assert.Equal(t, 0, resp.ManagerProgress[0].CompletedCount)
}
