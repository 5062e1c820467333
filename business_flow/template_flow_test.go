package businessflow

import (
	"testing"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/repository"
	testingutil "github.com/evalforge/workforce-suite/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateLifecycle(t *testing.T) {
	withFlowDB(t, func(t *testing.T, testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)

		templateRepo := repository.NewCertificateTemplateRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		flow := NewTemplateFlow(templateRepo, auditRepo, testDB.DB)

		admin, err := fixtures.CreateTestUser(1)
		require.NoError(t, err)

		actor := testIdentity(admin)
		metadata := testMetadata()
		ctx := testingutil.CreateTestContext()

		defaultByUUID := func(t *testing.T) map[string]bool {
			t.Helper()
			resp, err := flow.ListTemplates(ctx, actor)
			require.NoError(t, err)
			out := make(map[string]bool, len(resp.Items))
			for _, item := range resp.Items {
				out[item.UUID] = item.IsDefault
			}
			return out
		}

		var firstUUID, secondUUID string

		t.Run("CreateDefaultTemplate", func(t *testing.T) {
			resp, err := flow.CreateTemplate(ctx, actor, &dto.CreateTemplateRequest{
				Name:      "Classic Completion",
				Body:      "Certificate awarded to {{recipient_name}} for {{campaign_title}}",
				Type:      "completion",
				Variables: map[string]string{"recipient_name": "string"},
				IsDefault: true,
			}, metadata)
			require.NoError(t, err)
			firstUUID = resp.UUID

			stored, err := templateRepo.DefaultByType(ctx, 1, models.CertificateTypeCompletion)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, firstUUID, stored.UUID.String())
		})

		t.Run("NewDefaultDemotesPrevious", func(t *testing.T) {
			resp, err := flow.CreateTemplate(ctx, actor, &dto.CreateTemplateRequest{
				Name:      "Modern Completion",
				Body:      "{{recipient_name}} completed {{campaign_title}}",
				Type:      "completion",
				IsDefault: true,
			}, metadata)
			require.NoError(t, err)
			secondUUID = resp.UUID

			defaults := defaultByUUID(t)
			assert.False(t, defaults[firstUUID])
			assert.True(t, defaults[secondUUID])
		})

		t.Run("SetDefaultSwapsBack", func(t *testing.T) {
			_, err := flow.SetDefaultTemplate(ctx, actor, uuid.MustParse(firstUUID), metadata)
			require.NoError(t, err)

			defaults := defaultByUUID(t)
			assert.True(t, defaults[firstUUID])
			assert.False(t, defaults[secondUUID])
		})

		t.Run("DeactivationClearsDefault", func(t *testing.T) {
			inactive := false
			_, err := flow.UpdateTemplate(ctx, actor, &dto.UpdateTemplateRequest{
				UUID:     firstUUID,
				IsActive: &inactive,
			}, metadata)
			require.NoError(t, err)

			defaults := defaultByUUID(t)
			assert.False(t, defaults[firstUUID])

			// An inactive template cannot be promoted back
			_, err = flow.SetDefaultTemplate(ctx, actor, uuid.MustParse(firstUUID), metadata)
			assert.Error(t, err)
		})

		t.Run("UpdateUnknownTemplate", func(t *testing.T) {
			name := "Renamed"
			_, err := flow.UpdateTemplate(ctx, actor, &dto.UpdateTemplateRequest{
				UUID: uuid.New().String(),
				Name: &name,
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsTemplateNotFound(err))
		})

		t.Run("ValidationErrors", func(t *testing.T) {
			_, err := flow.CreateTemplate(ctx, actor, &dto.CreateTemplateRequest{
				Body: "body without a name",
				Type: "completion",
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsValidation(err))

			_, err = flow.CreateTemplate(ctx, actor, &dto.CreateTemplateRequest{
				Name: "No Body",
				Type: "completion",
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsValidation(err))

			_, err = flow.CreateTemplate(ctx, actor, &dto.CreateTemplateRequest{
				Name: "Bad Type",
				Body: "body",
				Type: "diploma",
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	})
}
