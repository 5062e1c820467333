package businessflow

import (
	"testing"
	"time"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/repository"
	testingutil "github.com/evalforge/workforce-suite/testing"
	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUUIDSet(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	set, err := parseUUIDSet([]string{a.String(), b.String(), a.String()})
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains(a))
	assert.True(t, set.Contains(b))

	_, err = parseUUIDSet([]string{a.String(), "not-a-uuid"})
	assert.Error(t, err)
}

func TestValidateCreateCampaignRequest(t *testing.T) {
	flow := &CampaignFlowImpl{}
	now := utils.UTCNow()

	validRequest := func() *dto.CreateCampaignRequest {
		return &dto.CreateCampaignRequest{
			Title:         "Quarterly Review",
			Type:          "evaluation",
			StartDate:     now,
			EndDate:       now.Add(30 * 24 * time.Hour),
			ManagerIDs:    []string{uuid.New().String()},
			TargetUserIDs: []string{uuid.New().String(), uuid.New().String()},
		}
	}

	tests := []struct {
		name    string
		mutate  func(req *dto.CreateCampaignRequest)
		wantErr error
	}{
		{
			name:    "valid request",
			mutate:  func(req *dto.CreateCampaignRequest) {},
			wantErr: nil,
		},
		{
			name:    "missing title",
			mutate:  func(req *dto.CreateCampaignRequest) { req.Title = "" },
			wantErr: ErrCampaignTitleRequired,
		},
		{
			name:    "unknown type",
			mutate:  func(req *dto.CreateCampaignRequest) { req.Type = "marketing" },
			wantErr: ErrCampaignTypeInvalid,
		},
		{
			name:    "end date before start date",
			mutate:  func(req *dto.CreateCampaignRequest) { req.EndDate = req.StartDate.Add(-time.Hour) },
			wantErr: ErrEndDateBeforeStartDate,
		},
		{
			name:    "end date equal to start date",
			mutate:  func(req *dto.CreateCampaignRequest) { req.EndDate = req.StartDate },
			wantErr: ErrEndDateBeforeStartDate,
		},
		{
			name:    "no managers",
			mutate:  func(req *dto.CreateCampaignRequest) { req.ManagerIDs = nil },
			wantErr: ErrManagersRequired,
		},
		{
			name:    "no targets",
			mutate:  func(req *dto.CreateCampaignRequest) { req.TargetUserIDs = nil },
			wantErr: ErrTargetUsersRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			managers, targets, err := flow.validateCreateCampaignRequest(req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, managers.Len())
			assert.Equal(t, 2, targets.Len())
		})
	}
}

func TestToCampaignResponse(t *testing.T) {
	manager := uuid.New()
	target := uuid.New()
	now := utils.UTCNow()

	campaign := &models.Campaign{
		UUID:             uuid.New(),
		Title:            "Annual Assessment",
		Type:             models.CampaignTypePerformance,
		Status:           models.CampaignStatusActive,
		StartDate:        now,
		EndDate:          now.Add(24 * time.Hour),
		ActualStartDate:  &now,
		AssignedManagers: models.NewUUIDSet(manager),
		TargetUserIDs:    models.NewUUIDSet(target),
		CreatedAt:        now,
	}

	resp := toCampaignResponse(campaign)

	assert.Equal(t, campaign.UUID.String(), resp.UUID)
	assert.Equal(t, "Annual Assessment", resp.Title)
	assert.Equal(t, "performance", resp.Type)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, []string{manager.String()}, resp.AssignedManagers)
	assert.Equal(t, []string{target.String()}, resp.TargetUserIDs)
	assert.Equal(t, &now, resp.ActualStartDate)
	assert.Nil(t, resp.ActualEndDate)
}

func TestCampaignLifecycle(t *testing.T) {
	withFlowDB(t, func(t *testing.T, testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)

		campaignRepo := repository.NewCampaignRepository(testDB.DB)
		userRepo := repository.NewUserRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		flow := NewCampaignFlow(campaignRepo, userRepo, auditRepo, testNotificationService(), testDB.DB)

		creator, err := fixtures.CreateTestUser(1)
		require.NoError(t, err)
		manager, err := fixtures.CreateTestUser(1)
		require.NoError(t, err)
		target, err := fixtures.CreateTestUser(1)
		require.NoError(t, err)

		actor := testIdentity(creator)
		metadata := testMetadata()
		ctx := testingutil.CreateTestContext()
		now := utils.UTCNow()

		t.Run("CreateCampaign", func(t *testing.T) {
			resp, err := flow.CreateCampaign(ctx, actor, &dto.CreateCampaignRequest{
				Title:         "Lifecycle Campaign",
				Type:          "evaluation",
				StartDate:     now,
				EndDate:       now.Add(14 * 24 * time.Hour),
				ManagerIDs:    []string{manager.ID.String()},
				TargetUserIDs: []string{target.ID.String()},
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "draft", resp.Status)
			assert.NotEmpty(t, resp.UUID)
		})

		t.Run("DuplicateTitleRejected", func(t *testing.T) {
			_, err := flow.CreateCampaign(ctx, actor, &dto.CreateCampaignRequest{
				Title:         "Lifecycle Campaign",
				Type:          "evaluation",
				StartDate:     now,
				EndDate:       now.Add(14 * 24 * time.Hour),
				ManagerIDs:    []string{manager.ID.String()},
				TargetUserIDs: []string{target.ID.String()},
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsCampaignTitleExists(err))
		})

		t.Run("UnknownManagerRejected", func(t *testing.T) {
			_, err := flow.CreateCampaign(ctx, actor, &dto.CreateCampaignRequest{
				Title:         "Orphan Manager Campaign",
				Type:          "evaluation",
				StartDate:     now,
				EndDate:       now.Add(14 * 24 * time.Hour),
				ManagerIDs:    []string{uuid.New().String()},
				TargetUserIDs: []string{target.ID.String()},
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsManagerNotFound(err))
		})

		t.Run("FullTransitionPath", func(t *testing.T) {
			campaign, err := fixtures.CreateTestCampaign(1, creator.ID,
				[]uuid.UUID{manager.ID}, []uuid.UUID{target.ID})
			require.NoError(t, err)

			// Draft cannot be paused or completed
			_, err = flow.PauseCampaign(ctx, actor, campaign.UUID, metadata)
			require.Error(t, err)
			assert.True(t, IsInvalidState(err))
			_, err = flow.CompleteCampaign(ctx, actor, campaign.UUID, metadata)
			require.Error(t, err)
			assert.True(t, IsInvalidState(err))

			started, err := flow.StartCampaign(ctx, actor, campaign.UUID, metadata)
			require.NoError(t, err)
			assert.Equal(t, "active", started.Campaign.Status)
			assert.NotNil(t, started.Campaign.ActualStartDate)

			// Starting twice is invalid
			_, err = flow.StartCampaign(ctx, actor, campaign.UUID, metadata)
			require.Error(t, err)
			assert.True(t, IsInvalidState(err))

			paused, err := flow.PauseCampaign(ctx, actor, campaign.UUID, metadata)
			require.NoError(t, err)
			assert.Equal(t, "paused", paused.Campaign.Status)

			resumed, err := flow.ResumeCampaign(ctx, actor, campaign.UUID, metadata)
			require.NoError(t, err)
			assert.Equal(t, "active", resumed.Campaign.Status)

			completed, err := flow.CompleteCampaign(ctx, actor, campaign.UUID, metadata)
			require.NoError(t, err)
			assert.Equal(t, "completed", completed.Campaign.Status)
			assert.NotNil(t, completed.Campaign.ActualEndDate)

			// Completed is terminal
			_, err = flow.CancelCampaign(ctx, actor, campaign.UUID, metadata)
			require.Error(t, err)
			assert.True(t, IsInvalidState(err))
		})

		t.Run("CancelFromDraft", func(t *testing.T) {
			campaign, err := fixtures.CreateTestCampaign(1, creator.ID,
				[]uuid.UUID{manager.ID}, []uuid.UUID{target.ID})
			require.NoError(t, err)

			cancelled, err := flow.CancelCampaign(ctx, actor, campaign.UUID, metadata)
			require.NoError(t, err)
			assert.Equal(t, "cancelled", cancelled.Campaign.Status)
			// Only completion stamps the actual end date
			assert.Nil(t, cancelled.Campaign.ActualEndDate)
		})

		t.Run("CancelDoesNotStampEndDate", func(t *testing.T) {
			campaign, err := fixtures.CreateTestActiveCampaign(1, creator.ID,
				[]uuid.UUID{manager.ID}, []uuid.UUID{target.ID})
			require.NoError(t, err)

			cancelled, err := flow.CancelCampaign(ctx, actor, campaign.UUID, metadata)
			require.NoError(t, err)
			assert.Equal(t, "cancelled", cancelled.Campaign.Status)
			assert.Nil(t, cancelled.Campaign.ActualEndDate)

			stored, err := flow.GetCampaign(ctx, actor, campaign.UUID)
			require.NoError(t, err)
			assert.Nil(t, stored.ActualEndDate)
		})

		t.Run("TenantIsolation", func(t *testing.T) {
			campaign, err := fixtures.CreateTestCampaign(1, creator.ID,
				[]uuid.UUID{manager.ID}, []uuid.UUID{target.ID})
			require.NoError(t, err)

			outsider, err := fixtures.CreateTestUser(2)
			require.NoError(t, err)

			_, err = flow.GetCampaign(ctx, testIdentity(outsider), campaign.UUID)
			require.Error(t, err)
			assert.True(t, IsCampaignNotFound(err))
		})

		t.Run("UpdateInAnyState", func(t *testing.T) {
			campaign, err := fixtures.CreateTestActiveCampaign(1, creator.ID,
				[]uuid.UUID{manager.ID}, []uuid.UUID{target.ID})
			require.NoError(t, err)

			newTitle := "Renamed Campaign"
			_, err = flow.UpdateCampaign(ctx, actor, &dto.UpdateCampaignRequest{
				UUID:  campaign.UUID.String(),
				Title: &newTitle,
			}, metadata)
			require.NoError(t, err)

			stored, err := flow.GetCampaign(ctx, actor, campaign.UUID)
			require.NoError(t, err)
			assert.Equal(t, "Renamed Campaign", stored.Title)
			// Lifecycle state is untouched by updates
			assert.Equal(t, "active", stored.Status)
		})

		t.Run("UpdateRevalidatesTitleAndManagers", func(t *testing.T) {
			campaign, err := fixtures.CreateTestActiveCampaign(1, creator.ID,
				[]uuid.UUID{manager.ID}, []uuid.UUID{target.ID})
			require.NoError(t, err)

			duplicate := "Lifecycle Campaign"
			_, err = flow.UpdateCampaign(ctx, actor, &dto.UpdateCampaignRequest{
				UUID:  campaign.UUID.String(),
				Title: &duplicate,
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsCampaignTitleExists(err))

			_, err = flow.UpdateCampaign(ctx, actor, &dto.UpdateCampaignRequest{
				UUID:       campaign.UUID.String(),
				ManagerIDs: []string{uuid.New().String()},
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsManagerNotFound(err))
		})

		t.Run("ListCampaigns", func(t *testing.T) {
			resp, err := flow.ListCampaigns(ctx, actor, &dto.ListCampaignsRequest{Page: 1, Limit: 50})
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Items)
			assert.Equal(t, 1, resp.Pagination.Page)

			status := "draft"
			filtered, err := flow.ListCampaigns(ctx, actor, &dto.ListCampaignsRequest{
				Page:   1,
				Limit:  50,
				Filter: &dto.ListCampaignsFilter{Status: &status},
			})
			require.NoError(t, err)
			for _, item := range filtered.Items {
				assert.Equal(t, "draft", item.Status)
			}

			bogus := "archived"
			_, err = flow.ListCampaigns(ctx, actor, &dto.ListCampaignsRequest{
				Filter: &dto.ListCampaignsFilter{Status: &bogus},
			})
			assert.Error(t, err)
		})
	})
}
