package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
)

// TestFixtures provides helper functions for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates a test user with a unique email
func (f *TestFixtures) CreateTestUser(tenantID uint) (*models.User, error) {
	user := &models.User{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     fmt.Sprintf("Test User %d", rand.Intn(100000)),
		Email:    fmt.Sprintf("user_%d_%d@example.com", time.Now().UnixNano(), rand.Intn(10000)),
		IsActive: true,
	}

	if err := f.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}
	return user, nil
}

// CreateTestCampaign creates a draft campaign owned by the given creator
func (f *TestFixtures) CreateTestCampaign(tenantID uint, createdBy uuid.UUID, managers, targets []uuid.UUID) (*models.Campaign, error) {
	now := utils.UTCNow()
	start := now.Add(24 * time.Hour)
	end := start.Add(30 * 24 * time.Hour)

	campaign := &models.Campaign{
		UUID:             uuid.New(),
		TenantID:         tenantID,
		Title:            fmt.Sprintf("Test Campaign %d", rand.Intn(100000)),
		Type:             models.CampaignTypeEvaluation,
		Status:           models.CampaignStatusDraft,
		StartDate:        start,
		EndDate:          end,
		AssignedManagers: models.NewUUIDSet(managers...),
		TargetUserIDs:    models.NewUUIDSet(targets...),
		CreatedBy:        createdBy,
	}

	if err := f.DB.DB.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign: %w", err)
	}
	return campaign, nil
}

// CreateTestActiveCampaign creates a campaign already moved to active
func (f *TestFixtures) CreateTestActiveCampaign(tenantID uint, createdBy uuid.UUID, managers, targets []uuid.UUID) (*models.Campaign, error) {
	campaign, err := f.CreateTestCampaign(tenantID, createdBy, managers, targets)
	if err != nil {
		return nil, err
	}

	now := utils.UTCNow()
	campaign.Status = models.CampaignStatusActive
	campaign.ActualStartDate = &now
	if err := f.DB.DB.Save(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to activate test campaign: %w", err)
	}
	return campaign, nil
}

// CreateTestGroup creates a campaign group led by the given manager
func (f *TestFixtures) CreateTestGroup(tenantID, campaignID uint, managerID uuid.UUID, targets []uuid.UUID) (*models.CampaignGroup, error) {
	group := &models.CampaignGroup{
		UUID:          uuid.New(),
		TenantID:      tenantID,
		CampaignID:    &campaignID,
		Name:          fmt.Sprintf("Test Group %d", rand.Intn(100000)),
		ManagerID:     managerID,
		TargetUserIDs: models.NewUUIDSet(targets...),
		IsActive:      true,
	}

	if err := f.DB.DB.Create(group).Error; err != nil {
		return nil, fmt.Errorf("failed to create test group: %w", err)
	}
	return group, nil
}

// CreateTestEvaluation creates a completed evaluation for the given campaign
func (f *TestFixtures) CreateTestEvaluation(tenantID, campaignID uint, groupID *uint, evaluatedUserID, evaluatorID uuid.UUID) (*models.CampaignEvaluation, error) {
	now := utils.UTCNow()
	evaluation := &models.CampaignEvaluation{
		UUID:             uuid.New(),
		TenantID:         tenantID,
		CampaignID:       campaignID,
		GroupID:          groupID,
		EvaluatedUserID:  evaluatedUserID,
		EvaluatorID:      evaluatorID,
		RoleEvaluations:  models.JSONMap{"communication": "4", "leadership": "3"},
		ClaimEvaluations: models.JSONMap{},
		IsCompleted:      true,
		SubmittedAt:      &now,
	}

	if err := f.DB.DB.Create(evaluation).Error; err != nil {
		return nil, fmt.Errorf("failed to create test evaluation: %w", err)
	}
	return evaluation, nil
}

// CreateTestTemplate creates an active certificate template
func (f *TestFixtures) CreateTestTemplate(tenantID uint, isDefault bool) (*models.CertificateTemplate, error) {
	template := &models.CertificateTemplate{
		UUID:     uuid.New(),
		TenantID: tenantID,
		Name:     fmt.Sprintf("Test Template %d", rand.Intn(100000)),
		Body:     "Certificate awarded to {{recipient_name}} for {{campaign_title}}",
		Variables: models.JSONMap{
			"recipient_name": "string",
			"campaign_title": "string",
		},
		Styles:    models.JSONMap{},
		Type:      models.CertificateTypeCompletion,
		IsDefault: isDefault,
		IsActive:  true,
	}

	if err := f.DB.DB.Create(template).Error; err != nil {
		return nil, fmt.Errorf("failed to create test template: %w", err)
	}
	return template, nil
}

// CreateTestCertificate creates a valid certificate for the given recipient
func (f *TestFixtures) CreateTestCertificate(tenantID uint, recipient *models.User, issuerID uuid.UUID, campaignID *uint) (*models.Certificate, error) {
	certificate := &models.Certificate{
		UUID:              uuid.New(),
		TenantID:          tenantID,
		Title:             fmt.Sprintf("Test Certificate %d", rand.Intn(100000)),
		RecipientID:       recipient.ID,
		RecipientName:     recipient.Name,
		RecipientEmail:    recipient.Email,
		IssuerID:          issuerID,
		IssuerName:        "Test Issuer",
		IssuedDate:        utils.UTCNow(),
		VerificationToken: utils.NewVerificationToken(),
		Status:            models.CertificateStatusValid,
		Type:              models.CertificateTypeCompletion,
		CampaignID:        campaignID,
		MetaData:          models.JSONMap{},
	}

	if err := f.DB.DB.Create(certificate).Error; err != nil {
		return nil, fmt.Errorf("failed to create test certificate: %w", err)
	}
	return certificate, nil
}
