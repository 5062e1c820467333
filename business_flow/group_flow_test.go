package businessflow

import (
	"testing"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/evalforge/workforce-suite/repository"
	testingutil "github.com/evalforge/workforce-suite/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroup(t *testing.T) {
	withFlowDB(t, func(t *testing.T, testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)

		groupRepo := repository.NewCampaignGroupRepository(testDB.DB)
		campaignRepo := repository.NewCampaignRepository(testDB.DB)
		userRepo := repository.NewUserRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		flow := NewGroupFlow(groupRepo, campaignRepo, userRepo, auditRepo, testDB.DB)

		manager, err := fixtures.CreateTestUser(1)
		require.NoError(t, err)
		target, err := fixtures.CreateTestUser(1)
		require.NoError(t, err)

		campaign, err := fixtures.CreateTestCampaign(1, manager.ID,
			[]uuid.UUID{manager.ID}, []uuid.UUID{target.ID})
		require.NoError(t, err)
		campaignRef := campaign.UUID.String()

		actor := testIdentity(manager)
		metadata := testMetadata()
		ctx := testingutil.CreateTestContext()

		t.Run("CreateGroupInCampaign", func(t *testing.T) {
			resp, err := flow.CreateGroup(ctx, actor, &dto.CreateGroupRequest{
				CampaignUUID:  &campaignRef,
				Name:          "Engineering",
				ManagerID:     manager.ID.String(),
				TargetUserIDs: []string{target.ID.String()},
			}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, resp.UUID)
		})

		t.Run("CreateStandaloneGroup", func(t *testing.T) {
			resp, err := flow.CreateGroup(ctx, actor, &dto.CreateGroupRequest{
				Name:          "Floating Pool",
				ManagerID:     manager.ID.String(),
				TargetUserIDs: []string{target.ID.String()},
			}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, resp.UUID)
		})

		t.Run("MissingNameRejected", func(t *testing.T) {
			_, err := flow.CreateGroup(ctx, actor, &dto.CreateGroupRequest{
				CampaignUUID:  &campaignRef,
				ManagerID:     manager.ID.String(),
				TargetUserIDs: []string{target.ID.String()},
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})

		t.Run("MissingTargetsRejected", func(t *testing.T) {
			_, err := flow.CreateGroup(ctx, actor, &dto.CreateGroupRequest{
				CampaignUUID: &campaignRef,
				Name:         "Empty Group",
				ManagerID:    manager.ID.String(),
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})

		t.Run("UnknownManagerRejected", func(t *testing.T) {
			_, err := flow.CreateGroup(ctx, actor, &dto.CreateGroupRequest{
				CampaignUUID:  &campaignRef,
				Name:          "Orphan Group",
				ManagerID:     uuid.New().String(),
				TargetUserIDs: []string{target.ID.String()},
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsManagerNotFound(err))
		})

		t.Run("UnknownCampaignRejected", func(t *testing.T) {
			unknown := uuid.New().String()
			_, err := flow.CreateGroup(ctx, actor, &dto.CreateGroupRequest{
				CampaignUUID:  &unknown,
				Name:          "Lost Group",
				ManagerID:     manager.ID.String(),
				TargetUserIDs: []string{target.ID.String()},
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsCampaignNotFound(err))
		})

		t.Run("ListGroups", func(t *testing.T) {
			resp, err := flow.ListGroups(ctx, actor, campaign.UUID)
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "Engineering", resp.Items[0].Name)
			require.NotNil(t, resp.Items[0].CampaignUUID)
			assert.Equal(t, campaignRef, *resp.Items[0].CampaignUUID)
			assert.Equal(t, []string{target.ID.String()}, resp.Items[0].TargetUserIDs)
			assert.True(t, resp.Items[0].IsActive)
		})

		t.Run("TenantIsolation", func(t *testing.T) {
			outsider, err := fixtures.CreateTestUser(2)
			require.NoError(t, err)

			_, err = flow.ListGroups(ctx, testIdentity(outsider), campaign.UUID)
			require.Error(t, err)
			assert.True(t, IsCampaignNotFound(err))
		})
	})
}
