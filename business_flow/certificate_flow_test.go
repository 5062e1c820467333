package businessflow

import (
	"testing"
	"time"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/evalforge/workforce-suite/repository"
	testingutil "github.com/evalforge/workforce-suite/testing"
	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateLifecycle(t *testing.T) {
	withFlowDB(t, func(t *testing.T, testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)

		certificateRepo := repository.NewCertificateRepository(testDB.DB)
		templateRepo := repository.NewCertificateTemplateRepository(testDB.DB)
		campaignRepo := repository.NewCampaignRepository(testDB.DB)
		userRepo := repository.NewUserRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		flow := NewCertificateFlow(certificateRepo, templateRepo, campaignRepo, userRepo, auditRepo, testNotificationService(), testDB.DB)

		issuer, err := fixtures.CreateTestUser(1)
		require.NoError(t, err)
		recipient, err := fixtures.CreateTestUser(1)
		require.NoError(t, err)

		campaign, err := fixtures.CreateTestActiveCampaign(1, issuer.ID,
			[]uuid.UUID{issuer.ID}, []uuid.UUID{recipient.ID})
		require.NoError(t, err)

		actor := testIdentity(issuer)
		metadata := testMetadata()
		ctx := testingutil.CreateTestContext()

		var certificateUUID uuid.UUID
		var firstToken string

		t.Run("GenerateCertificate", func(t *testing.T) {
			resp, err := flow.GenerateCertificate(ctx, actor, &dto.GenerateCertificateRequest{
				CampaignUUID: campaign.UUID.String(),
				RecipientID:  recipient.ID.String(),
				Type:         "completion",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "generated", resp.Status)
			assert.True(t, utils.IsVerificationToken(resp.VerificationToken))

			certificateUUID = uuid.MustParse(resp.UUID)
			firstToken = resp.VerificationToken
		})

		t.Run("SecondIssuanceConflicts", func(t *testing.T) {
			_, err := flow.GenerateCertificate(ctx, actor, &dto.GenerateCertificateRequest{
				CampaignUUID: campaign.UUID.String(),
				RecipientID:  recipient.ID.String(),
				Type:         "completion",
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsCertificateAlreadyExists(err))
		})

		t.Run("VerifyCertificate", func(t *testing.T) {
			resp, err := flow.VerifyCertificate(ctx, firstToken)
			require.NoError(t, err)
			assert.True(t, resp.Valid)
			assert.Equal(t, recipient.Name, resp.RecipientName)
			assert.Equal(t, int64(1), resp.VerificationCount)

			// Every lookup counts
			resp, err = flow.VerifyCertificate(ctx, firstToken)
			require.NoError(t, err)
			assert.Equal(t, int64(2), resp.VerificationCount)
		})

		t.Run("VerifyRejectsBadTokens", func(t *testing.T) {
			_, err := flow.VerifyCertificate(ctx, "short")
			require.Error(t, err)
			assert.True(t, IsInvalidVerificationToken(err))

			// Well-formed but unknown token
			_, err = flow.VerifyCertificate(ctx, "0123456789ABCDEF")
			require.Error(t, err)
			assert.True(t, IsInvalidVerificationToken(err))
		})

		t.Run("RegenerateRotatesToken", func(t *testing.T) {
			resp, err := flow.RegenerateCertificate(ctx, actor, certificateUUID, metadata)
			require.NoError(t, err)
			assert.NotEqual(t, firstToken, resp.VerificationToken)
			assert.True(t, utils.IsVerificationToken(resp.VerificationToken))

			// The old token stops resolving, the new one starts fresh
			_, err = flow.VerifyCertificate(ctx, firstToken)
			require.Error(t, err)
			assert.True(t, IsInvalidVerificationToken(err))

			verified, err := flow.VerifyCertificate(ctx, resp.VerificationToken)
			require.NoError(t, err)
			assert.True(t, verified.Valid)
			assert.Equal(t, int64(1), verified.VerificationCount)
		})

		t.Run("UpdateCannotRevoke", func(t *testing.T) {
			status := "revoked"
			_, err := flow.UpdateCertificate(ctx, actor, &dto.UpdateCertificateRequest{
				UUID:   certificateUUID.String(),
				Status: &status,
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsInvalidState(err))
		})

		t.Run("UpdateFoldsMessagesIntoMetadata", func(t *testing.T) {
			message := "Awarded with distinction"
			notes := "Reviewed by the program office"
			expiry := utils.UTCNow().Add(365 * 24 * time.Hour)
			_, err := flow.UpdateCertificate(ctx, actor, &dto.UpdateCertificateRequest{
				UUID:          certificateUUID.String(),
				CustomMessage: &message,
				AdminNotes:    &notes,
				ExpiryDate:    &expiry,
			}, metadata)
			require.NoError(t, err)

			stored, err := flow.GetCertificate(ctx, actor, certificateUUID)
			require.NoError(t, err)
			assert.Equal(t, message, stored.MetaData["customMessage"])
			assert.Equal(t, notes, stored.MetaData["adminNotes"])
			require.NotNil(t, stored.ExpiryDate)
			assert.WithinDuration(t, expiry, *stored.ExpiryDate, time.Second)
		})

		t.Run("RevokeCertificate", func(t *testing.T) {
			reason := "Issued in error"
			resp, err := flow.RevokeCertificate(ctx, actor, &dto.RevokeCertificateRequest{
				UUID:   certificateUUID.String(),
				Reason: &reason,
			}, metadata)
			require.NoError(t, err)
			assert.False(t, resp.RevokedAt.IsZero())

			// Revoking twice conflicts
			_, err = flow.RevokeCertificate(ctx, actor, &dto.RevokeCertificateRequest{
				UUID: certificateUUID.String(),
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsCertificateAlreadyRevoked(err))

			// Revoked certificates cannot be regenerated or updated
			_, err = flow.RegenerateCertificate(ctx, actor, certificateUUID, metadata)
			require.Error(t, err)
			assert.True(t, IsCertificateAlreadyRevoked(err))

			title := "New Title"
			_, err = flow.UpdateCertificate(ctx, actor, &dto.UpdateCertificateRequest{
				UUID:  certificateUUID.String(),
				Title: &title,
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsCertificateAlreadyRevoked(err))
		})

		t.Run("VerifyRevokedReportsInvalid", func(t *testing.T) {
			cert, err := flow.GetCertificate(ctx, actor, certificateUUID)
			require.NoError(t, err)

			resp, err := flow.VerifyCertificate(ctx, cert.VerificationToken)
			require.NoError(t, err)
			assert.False(t, resp.Valid)
			assert.Equal(t, "revoked", resp.Status)
		})

		t.Run("ListCertificates", func(t *testing.T) {
			resp, err := flow.ListCertificates(ctx, actor, &dto.ListCertificatesRequest{Page: 1, Limit: 20})
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Items)

			status := "revoked"
			filtered, err := flow.ListCertificates(ctx, actor, &dto.ListCertificatesRequest{
				Page:   1,
				Limit:  20,
				Filter: &dto.ListCertificatesFilter{Status: &status},
			})
			require.NoError(t, err)
			for _, item := range filtered.Items {
				assert.Equal(t, "revoked", item.Status)
			}
		})
	})
}

func TestGenerateCertificateBindsDefaultTemplate(t *testing.T) {
	withFlowDB(t, func(t *testing.T, testDB *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(testDB)

		certificateRepo := repository.NewCertificateRepository(testDB.DB)
		templateRepo := repository.NewCertificateTemplateRepository(testDB.DB)
		campaignRepo := repository.NewCampaignRepository(testDB.DB)
		userRepo := repository.NewUserRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		flow := NewCertificateFlow(certificateRepo, templateRepo, campaignRepo, userRepo, auditRepo, testNotificationService(), testDB.DB)

		issuer, err := fixtures.CreateTestUser(1)
		require.NoError(t, err)
		recipient, err := fixtures.CreateTestUser(1)
		require.NoError(t, err)
		campaign, err := fixtures.CreateTestActiveCampaign(1, issuer.ID,
			[]uuid.UUID{issuer.ID}, []uuid.UUID{recipient.ID})
		require.NoError(t, err)

		template, err := fixtures.CreateTestTemplate(1, true)
		require.NoError(t, err)

		ctx := testingutil.CreateTestContext()
		resp, err := flow.GenerateCertificate(ctx, testIdentity(issuer), &dto.GenerateCertificateRequest{
			CampaignUUID: campaign.UUID.String(),
			RecipientID:  recipient.ID.String(),
			Type:         "completion",
		}, testMetadata())
		require.NoError(t, err)

		stored, err := certificateRepo.ByUUID(ctx, 1, uuid.MustParse(resp.UUID))
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.NotNil(t, stored.TemplateID)
		assert.Equal(t, template.ID, *stored.TemplateID)
	})
}
