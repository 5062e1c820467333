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

func TestSubmitEvaluation(t *testing.T) {
	withFlowDB(t, func(t *testing.T, testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)

		evaluationRepo := repository.NewCampaignEvaluationRepository(testDB.DB)
		campaignRepo := repository.NewCampaignRepository(testDB.DB)
		groupRepo := repository.NewCampaignGroupRepository(testDB.DB)
		userRepo := repository.NewUserRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		flow := NewEvaluationFlow(evaluationRepo, campaignRepo, groupRepo, userRepo, auditRepo, testDB.DB)

		manager, err := fixtures.CreateTestUser(1)
		require.NoError(t, err)
		target, err := fixtures.CreateTestUser(1)
		require.NoError(t, err)

		campaign, err := fixtures.CreateTestActiveCampaign(1, manager.ID,
			[]uuid.UUID{manager.ID}, []uuid.UUID{target.ID})
		require.NoError(t, err)

		actor := testIdentity(manager)
		metadata := testMetadata()
		ctx := testingutil.CreateTestContext()

		t.Run("SuccessfulSubmission", func(t *testing.T) {
			resp, err := flow.SubmitEvaluation(ctx, actor, &dto.SubmitEvaluationRequest{
				CampaignUUID:    campaign.UUID.String(),
				EvaluatedUserID: target.ID.String(),
				RoleEvaluations: map[string]string{"communication": "4"},
			}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, resp.UUID)
			assert.False(t, resp.SubmittedAt.IsZero())
		})

		t.Run("DuplicateRejected", func(t *testing.T) {
			_, err := flow.SubmitEvaluation(ctx, actor, &dto.SubmitEvaluationRequest{
				CampaignUUID:    campaign.UUID.String(),
				EvaluatedUserID: target.ID.String(),
				RoleEvaluations: map[string]string{"communication": "5"},
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsDuplicateEvaluation(err))
		})

		t.Run("DifferentEvaluatorAccepted", func(t *testing.T) {
			other, err := fixtures.CreateTestUser(1)
			require.NoError(t, err)

			resp, err := flow.SubmitEvaluation(ctx, testIdentity(other), &dto.SubmitEvaluationRequest{
				CampaignUUID:    campaign.UUID.String(),
				EvaluatedUserID: target.ID.String(),
				RoleEvaluations: map[string]string{"communication": "3"},
			}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, resp.UUID)
		})

		t.Run("EmptyPayloadRejected", func(t *testing.T) {
			_, err := flow.SubmitEvaluation(ctx, actor, &dto.SubmitEvaluationRequest{
				CampaignUUID:    campaign.UUID.String(),
				EvaluatedUserID: target.ID.String(),
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})

		t.Run("InactiveCampaignRejected", func(t *testing.T) {
			draft, err := fixtures.CreateTestCampaign(1, manager.ID,
				[]uuid.UUID{manager.ID}, []uuid.UUID{target.ID})
			require.NoError(t, err)

			_, err = flow.SubmitEvaluation(ctx, actor, &dto.SubmitEvaluationRequest{
				CampaignUUID:    draft.UUID.String(),
				EvaluatedUserID: target.ID.String(),
				RoleEvaluations: map[string]string{"communication": "4"},
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsInvalidState(err))
		})

		t.Run("UnknownEvaluatedUserRejected", func(t *testing.T) {
			_, err := flow.SubmitEvaluation(ctx, actor, &dto.SubmitEvaluationRequest{
				CampaignUUID:    campaign.UUID.String(),
				EvaluatedUserID: uuid.New().String(),
				RoleEvaluations: map[string]string{"communication": "4"},
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsUserNotFound(err))
		})

		t.Run("UnknownGroupRejected", func(t *testing.T) {
			other, err := fixtures.CreateTestUser(1)
			require.NoError(t, err)

			groupRef := uuid.New().String()
			_, err = flow.SubmitEvaluation(ctx, actor, &dto.SubmitEvaluationRequest{
				CampaignUUID:    campaign.UUID.String(),
				GroupUUID:       &groupRef,
				EvaluatedUserID: other.ID.String(),
				RoleEvaluations: map[string]string{"communication": "4"},
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsGroupNotFound(err))
		})

		t.Run("ListEvaluations", func(t *testing.T) {
			resp, err := flow.ListEvaluations(ctx, actor, campaign.UUID)
			require.NoError(t, err)
			assert.Len(t, resp.Items, 2)
			for _, item := range resp.Items {
				assert.Equal(t, campaign.UUID.String(), item.CampaignUUID)
				assert.True(t, item.IsCompleted)
				assert.NotNil(t, item.SubmittedAt)
			}
		})
	})
}
