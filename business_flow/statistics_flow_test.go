package businessflow

import (
	"testing"
	"time"

	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/repository"
	testingutil "github.com/evalforge/workforce-suite/testing"
	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsCampaign(campaignType models.CampaignType, status models.CampaignStatus, createdAt time.Time) *models.Campaign {
	return &models.Campaign{
		UUID:      uuid.New(),
		Title:     "Campaign " + string(campaignType),
		Type:      campaignType,
		Status:    status,
		CreatedAt: createdAt,
	}
}

func TestComputeStatisticsEmpty(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	resp := ComputeStatistics(nil, nil, nil, now)

	assert.Equal(t, now, resp.GeneratedAt)
	assert.Equal(t, 0, resp.TotalCampaigns)
	assert.Empty(t, resp.CampaignsByStatus)
	assert.Empty(t, resp.CampaignsByType)
	assert.Equal(t, "", resp.MostActiveCampaignType)
	assert.Equal(t, 0, resp.TotalEvaluations)
	assert.Equal(t, 0.0, resp.CompletionPercentage)
	assert.Equal(t, 0.0, resp.AvgCompletionDays)
	assert.Equal(t, 0, resp.TotalCertificates)
	assert.Empty(t, resp.RecentActivity)
}

func TestComputeStatisticsCounts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	base := now.Add(-10 * 24 * time.Hour)

	campaigns := []*models.Campaign{
		statsCampaign(models.CampaignTypeTraining, models.CampaignStatusActive, base),
		statsCampaign(models.CampaignTypeTraining, models.CampaignStatusDraft, base.Add(time.Hour)),
		statsCampaign(models.CampaignTypePerformance, models.CampaignStatusActive, base.Add(2*time.Hour)),
	}

	submittedAt := base.Add(3 * time.Hour)
	evaluations := []*models.CampaignEvaluation{
		{UUID: uuid.New(), EvaluatedUserID: uuid.New(), IsCompleted: true, SubmittedAt: &submittedAt},
		{UUID: uuid.New(), EvaluatedUserID: uuid.New(), IsCompleted: false},
		{UUID: uuid.New(), EvaluatedUserID: uuid.New(), IsCompleted: false},
		{UUID: uuid.New(), EvaluatedUserID: uuid.New(), IsCompleted: false},
	}

	certificates := []*models.Certificate{
		{UUID: uuid.New(), Status: models.CertificateStatusGenerated},
		{UUID: uuid.New(), Status: models.CertificateStatusValid},
		{UUID: uuid.New(), Status: models.CertificateStatusRevoked},
	}

	resp := ComputeStatistics(campaigns, evaluations, certificates, now)

	assert.Equal(t, 3, resp.TotalCampaigns)
	assert.Equal(t, map[string]int{"active": 2, "draft": 1}, resp.CampaignsByStatus)
	assert.Equal(t, map[string]int{"training": 2, "performance": 1}, resp.CampaignsByType)
	assert.Equal(t, "training", resp.MostActiveCampaignType)

	assert.Equal(t, 4, resp.TotalEvaluations)
	assert.Equal(t, 1, resp.CompletedEvaluations)
	assert.Equal(t, 25.0, resp.CompletionPercentage)

	assert.Equal(t, 3, resp.TotalCertificates)
	assert.Equal(t, 2, resp.ActiveCertificates)
	assert.Equal(t, 1, resp.RevokedCertificates)
}

func TestComputeStatisticsMostActiveTieBreak(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	base := now.Add(-24 * time.Hour)

	// Two types tied at one campaign each: the type seen first wins
	campaigns := []*models.Campaign{
		statsCampaign(models.CampaignTypeDevelopment, models.CampaignStatusDraft, base),
		statsCampaign(models.CampaignTypeTraining, models.CampaignStatusDraft, base.Add(time.Hour)),
	}

	resp := ComputeStatistics(campaigns, nil, nil, now)

	assert.Equal(t, "development", resp.MostActiveCampaignType)
}

func TestComputeStatisticsAvgCompletionDays(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	start1 := now.Add(-20 * 24 * time.Hour)
	end1 := start1.Add(10 * 24 * time.Hour)
	start2 := now.Add(-10 * 24 * time.Hour)
	end2 := start2.Add(5 * 24 * time.Hour)

	completed1 := statsCampaign(models.CampaignTypeTraining, models.CampaignStatusCompleted, start1)
	completed1.ActualStartDate = &start1
	completed1.ActualEndDate = &end1

	// No actual start: the planned start date stands in
	completed2 := statsCampaign(models.CampaignTypeTraining, models.CampaignStatusCompleted, start2)
	completed2.StartDate = start2
	completed2.ActualEndDate = &end2

	// Completed without an end stamp: excluded from the average
	unstamped := statsCampaign(models.CampaignTypeTraining, models.CampaignStatusCompleted, now)

	resp := ComputeStatistics([]*models.Campaign{completed1, completed2, unstamped}, nil, nil, now)

	assert.Equal(t, 7.5, resp.AvgCompletionDays)
}

func TestGetStatisticsDateWindow(t *testing.T) {
	withFlowDB(t, func(t *testing.T, testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)

		campaignRepo := repository.NewCampaignRepository(testDB.DB)
		evaluationRepo := repository.NewCampaignEvaluationRepository(testDB.DB)
		certificateRepo := repository.NewCertificateRepository(testDB.DB)

		flow := NewStatisticsFlow(campaignRepo, evaluationRepo, certificateRepo, nil, nil)

		manager, err := fixtures.CreateTestUser(1)
		require.NoError(t, err)
		target, err := fixtures.CreateTestUser(1)
		require.NoError(t, err)
		campaign, err := fixtures.CreateTestActiveCampaign(1, manager.ID,
			[]uuid.UUID{manager.ID}, []uuid.UUID{target.ID})
		require.NoError(t, err)
		_, err = fixtures.CreateTestEvaluation(1, campaign.ID, nil, target.ID, manager.ID)
		require.NoError(t, err)

		actor := testIdentity(manager)
		ctx := testingutil.CreateTestContext()

		unwindowed, err := flow.GetStatistics(ctx, actor, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, unwindowed.TotalCampaigns)
		assert.Equal(t, 1, unwindowed.TotalEvaluations)

		// A window entirely in the future matches nothing
		future := utils.UTCNow().Add(time.Hour)
		empty, err := flow.GetStatistics(ctx, actor, &future, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, empty.TotalCampaigns)
		assert.Equal(t, 0, empty.TotalEvaluations)
		assert.Equal(t, 0, empty.TotalCertificates)

		// A window ending before creation matches nothing either
		past := utils.UTCNow().Add(-time.Hour)
		before, err := flow.GetStatistics(ctx, actor, nil, &past)
		require.NoError(t, err)
		assert.Equal(t, 0, before.TotalCampaigns)

		// A window spanning now sees everything
		spanning, err := flow.GetStatistics(ctx, actor, &past, &future)
		require.NoError(t, err)
		assert.Equal(t, 1, spanning.TotalCampaigns)
		assert.Equal(t, 1, spanning.TotalEvaluations)
	})
}

func TestBuildActivityFeed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Seven campaigns: only the five newest appear in the feed
	campaigns := make([]*models.Campaign, 0, 7)
	for i := 0; i < 7; i++ {
		campaigns = append(campaigns, statsCampaign(
			models.CampaignTypeTraining,
			models.CampaignStatusActive,
			now.Add(-time.Duration(i)*time.Hour),
		))
	}

	submittedAt := now.Add(-30 * time.Minute)
	notSubmitted := &models.CampaignEvaluation{
		UUID:            uuid.New(),
		EvaluatedUserID: uuid.New(),
		IsCompleted:     false,
	}
	submitted := &models.CampaignEvaluation{
		UUID:            uuid.New(),
		EvaluatedUserID: uuid.New(),
		IsCompleted:     true,
		SubmittedAt:     &submittedAt,
	}

	feed := buildActivityFeed(campaigns, []*models.CampaignEvaluation{notSubmitted, submitted})

	// Five campaigns plus one completed evaluation
	require.Len(t, feed, 6)

	// Newest first across kinds
	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].OccurredAt.After(feed[i-1].OccurredAt),
			"feed not sorted newest first at index %d", i)
	}

	// Newest campaign leads, the evaluation slots in by timestamp
	assert.Equal(t, "campaign", feed[0].Kind)
	assert.Equal(t, campaigns[0].UUID.String(), feed[0].Reference)
	assert.Equal(t, "evaluation", feed[1].Kind)
	assert.Equal(t, submitted.UUID.String(), feed[1].Reference)
}
