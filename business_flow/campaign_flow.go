package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/evalforge/workforce-suite/app/services"
	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/repository"
	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignFlow handles the campaign lifecycle business logic
type CampaignFlow interface {
	CreateCampaign(ctx context.Context, actor *Identity, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error)
	UpdateCampaign(ctx context.Context, actor *Identity, req *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.UpdateCampaignResponse, error)
	GetCampaign(ctx context.Context, actor *Identity, campaignUUID uuid.UUID) (*dto.GetCampaignResponse, error)
	ListCampaigns(ctx context.Context, actor *Identity, req *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error)
	StartCampaign(ctx context.Context, actor *Identity, campaignUUID uuid.UUID, metadata *ClientMetadata) (*dto.CampaignTransitionResponse, error)
	PauseCampaign(ctx context.Context, actor *Identity, campaignUUID uuid.UUID, metadata *ClientMetadata) (*dto.CampaignTransitionResponse, error)
	ResumeCampaign(ctx context.Context, actor *Identity, campaignUUID uuid.UUID, metadata *ClientMetadata) (*dto.CampaignTransitionResponse, error)
	CompleteCampaign(ctx context.Context, actor *Identity, campaignUUID uuid.UUID, metadata *ClientMetadata) (*dto.CampaignTransitionResponse, error)
	CancelCampaign(ctx context.Context, actor *Identity, campaignUUID uuid.UUID, metadata *ClientMetadata) (*dto.CampaignTransitionResponse, error)
}

// CampaignFlowImpl implements the campaign business flow
type CampaignFlowImpl struct {
	campaignRepo repository.CampaignRepository
	userRepo     repository.UserRepository
	auditRepo    repository.AuditLogRepository
	notifier     services.NotificationService
	db           *gorm.DB
}

// NewCampaignFlow creates a new campaign flow instance
func NewCampaignFlow(
	campaignRepo repository.CampaignRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	notifier services.NotificationService,
	db *gorm.DB,
) CampaignFlow {
	return &CampaignFlowImpl{
		campaignRepo: campaignRepo,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		notifier:     notifier,
		db:           db,
	}
}

// CreateCampaign handles the complete campaign creation process
func (s *CampaignFlowImpl) CreateCampaign(ctx context.Context, actor *Identity, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error) {
	// Validate business rules
	managers, targets, err := s.validateCreateCampaignRequest(req)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
	}

	ok, err := s.userRepo.AllExist(ctx, actor.TenantID, managers)
	if err != nil {
		return nil, NewBusinessError("MANAGER_LOOKUP_FAILED", "Failed to lookup assigned managers", err)
	}
	if !ok {
		return nil, NewBusinessError("MANAGER_NOT_FOUND", "Assigned manager not found", ErrManagerNotFound)
	}

	exists, err := s.campaignRepo.TitleExists(ctx, actor.TenantID, req.Title, nil)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to check campaign title", err)
	}
	if exists {
		return nil, NewBusinessError("CAMPAIGN_TITLE_EXISTS", "Campaign title already in use", ErrCampaignTitleExists)
	}

	campaign := &models.Campaign{
		TenantID:         actor.TenantID,
		Title:            req.Title,
		Description:      req.Description,
		Type:             models.CampaignType(req.Type),
		Status:           models.CampaignStatusDraft,
		StartDate:        utils.TimeToUTC(req.StartDate),
		EndDate:          utils.TimeToUTC(req.EndDate),
		AssignedManagers: managers,
		TargetUserIDs:    targets,
		CreatedBy:        actor.ID,
	}

	// Use transaction for atomicity
	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.campaignRepo.Save(txCtx, campaign)
	})

	if err != nil {
		if repository.IsUniqueViolation(err) {
			err = ErrCampaignTitleExists
		}
		errMsg := fmt.Sprintf("Campaign creation failed: %s", err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionCampaignCreationFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("CAMPAIGN_CREATION_FAILED", "Campaign creation failed", err)
	}

	msg := fmt.Sprintf("Campaign created successfully: %s", campaign.UUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionCampaignCreated, msg, true, nil, metadata)

	return &dto.CreateCampaignResponse{
		Message:   "Campaign created successfully",
		UUID:      campaign.UUID.String(),
		Status:    campaign.Status.String(),
		CreatedAt: campaign.CreatedAt.Format(time.RFC3339),
	}, nil
}

// UpdateCampaign handles the campaign update process. Updates are permitted
// in any status; status itself and the lifecycle stamps are only ever touched
// by the transition commands.
func (s *CampaignFlowImpl) UpdateCampaign(ctx context.Context, actor *Identity, req *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.UpdateCampaignResponse, error) {
	campaignUUID, err := uuid.Parse(req.UUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Invalid campaign identifier", err)
	}

	campaign, err := getCampaign(ctx, s.campaignRepo, actor.TenantID, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}

	if req.Title != nil && *req.Title != campaign.Title {
		exists, err := s.campaignRepo.TitleExists(ctx, actor.TenantID, *req.Title, &campaign.ID)
		if err != nil {
			return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to check campaign title", err)
		}
		if exists {
			return nil, NewBusinessError("CAMPAIGN_TITLE_EXISTS", "Campaign title already in use", ErrCampaignTitleExists)
		}
		campaign.Title = *req.Title
	}
	if req.Description != nil {
		campaign.Description = req.Description
	}
	if req.StartDate != nil {
		campaign.StartDate = utils.TimeToUTC(*req.StartDate)
	}
	if req.EndDate != nil {
		campaign.EndDate = utils.TimeToUTC(*req.EndDate)
	}
	if !campaign.EndDate.After(campaign.StartDate) {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", ErrEndDateBeforeStartDate)
	}
	if len(req.ManagerIDs) > 0 {
		managers, err := parseUUIDSet(req.ManagerIDs)
		if err != nil {
			return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
		}
		ok, err := s.userRepo.AllExist(ctx, actor.TenantID, managers)
		if err != nil {
			return nil, NewBusinessError("MANAGER_LOOKUP_FAILED", "Failed to lookup assigned managers", err)
		}
		if !ok {
			return nil, NewBusinessError("MANAGER_NOT_FOUND", "Assigned manager not found", ErrManagerNotFound)
		}
		campaign.AssignedManagers = managers
	}
	if len(req.TargetUserIDs) > 0 {
		targets, err := parseUUIDSet(req.TargetUserIDs)
		if err != nil {
			return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
		}
		campaign.TargetUserIDs = targets
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.campaignRepo.Update(txCtx, campaign)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Campaign update failed: %s", err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionCampaignUpdated, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("CAMPAIGN_UPDATE_FAILED", "Campaign update failed", err)
	}

	msg := fmt.Sprintf("Campaign updated successfully: %s", campaign.UUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionCampaignUpdated, msg, true, nil, metadata)

	return &dto.UpdateCampaignResponse{Message: "Campaign updated successfully"}, nil
}

// GetCampaign retrieves a single campaign by public UUID
func (s *CampaignFlowImpl) GetCampaign(ctx context.Context, actor *Identity, campaignUUID uuid.UUID) (*dto.GetCampaignResponse, error) {
	campaign, err := getCampaign(ctx, s.campaignRepo, actor.TenantID, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}

	resp := toCampaignResponse(campaign)
	return &resp, nil
}

// ListCampaigns retrieves campaigns for the actor's tenant with pagination
func (s *CampaignFlowImpl) ListCampaigns(ctx context.Context, actor *Identity, req *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = utils.DefaultPageSize
	}
	if limit > utils.MaxPageSize {
		limit = utils.MaxPageSize
	}
	offset := (page - 1) * limit

	orderBy := "created_at DESC"
	if req.OrderBy == "oldest" {
		orderBy = "created_at ASC"
	}

	filter := models.CampaignFilter{
		TenantID:  &actor.TenantID,
		IsDeleted: utils.ToPtr(false),
	}
	if req.Filter != nil {
		filter.Title = req.Filter.Title
		if req.Filter.Status != nil {
			status := models.CampaignStatus(*req.Filter.Status)
			if !status.Valid() {
				return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", fmt.Errorf("unknown status %q", *req.Filter.Status))
			}
			filter.Status = &status
		}
		if req.Filter.Type != nil {
			campaignType := models.CampaignType(*req.Filter.Type)
			if !campaignType.Valid() {
				return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", ErrCampaignTypeInvalid)
			}
			filter.Type = &campaignType
		}
	}

	total, err := s.campaignRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to count campaigns", err)
	}

	campaigns, err := s.campaignRepo.ByFilter(ctx, filter, orderBy, limit, offset)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}

	items := make([]dto.GetCampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, toCampaignResponse(campaign))
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &dto.ListCampaignsResponse{
		Message: "Campaigns retrieved successfully",
		Items:   items,
		Pagination: dto.PaginationInfo{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

// StartCampaign transitions a draft campaign to active and stamps the actual
// start time.
func (s *CampaignFlowImpl) StartCampaign(ctx context.Context, actor *Identity, campaignUUID uuid.UUID, metadata *ClientMetadata) (*dto.CampaignTransitionResponse, error) {
	return s.transition(ctx, actor, campaignUUID, metadata, models.AuditActionCampaignStarted, "started",
		func(campaign *models.Campaign, now time.Time) error {
			if !campaign.CanStart() {
				return ErrOnlyDraftCanStart
			}
			campaign.Status = models.CampaignStatusActive
			campaign.ActualStartDate = &now
			return nil
		})
}

// PauseCampaign transitions an active campaign to paused
func (s *CampaignFlowImpl) PauseCampaign(ctx context.Context, actor *Identity, campaignUUID uuid.UUID, metadata *ClientMetadata) (*dto.CampaignTransitionResponse, error) {
	return s.transition(ctx, actor, campaignUUID, metadata, models.AuditActionCampaignPaused, "paused",
		func(campaign *models.Campaign, now time.Time) error {
			if campaign.Status != models.CampaignStatusActive {
				return ErrOnlyActiveCanPause
			}
			campaign.Status = models.CampaignStatusPaused
			return nil
		})
}

// ResumeCampaign transitions a paused campaign back to active
func (s *CampaignFlowImpl) ResumeCampaign(ctx context.Context, actor *Identity, campaignUUID uuid.UUID, metadata *ClientMetadata) (*dto.CampaignTransitionResponse, error) {
	return s.transition(ctx, actor, campaignUUID, metadata, models.AuditActionCampaignResumed, "resumed",
		func(campaign *models.Campaign, now time.Time) error {
			if campaign.Status != models.CampaignStatusPaused {
				return ErrOnlyPausedCanResume
			}
			campaign.Status = models.CampaignStatusActive
			return nil
		})
}

// CompleteCampaign transitions an active campaign to completed and stamps the
// actual end time. Completion is broadcast to the assigned managers.
func (s *CampaignFlowImpl) CompleteCampaign(ctx context.Context, actor *Identity, campaignUUID uuid.UUID, metadata *ClientMetadata) (*dto.CampaignTransitionResponse, error) {
	resp, err := s.transition(ctx, actor, campaignUUID, metadata, models.AuditActionCampaignCompleted, "completed",
		func(campaign *models.Campaign, now time.Time) error {
			if !campaign.CanComplete() {
				return ErrOnlyActiveCanComplete
			}
			campaign.Status = models.CampaignStatusCompleted
			campaign.ActualEndDate = &now
			return nil
		})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		go s.notifier.NotifyCampaignCompleted(context.WithoutCancel(ctx), actor.TenantID, resp.Campaign.UUID, resp.Campaign.Title)
	}

	return resp, nil
}

// CancelCampaign cancels a campaign from any non-terminal status. Unlike
// completion, cancellation does not stamp the actual end date: that field
// records when a campaign actually ran to completion.
func (s *CampaignFlowImpl) CancelCampaign(ctx context.Context, actor *Identity, campaignUUID uuid.UUID, metadata *ClientMetadata) (*dto.CampaignTransitionResponse, error) {
	return s.transition(ctx, actor, campaignUUID, metadata, models.AuditActionCampaignCancelled, "cancelled",
		func(campaign *models.Campaign, now time.Time) error {
			if !campaign.CanCancel() {
				return ErrCampaignNotCancellable
			}
			campaign.Status = models.CampaignStatusCancelled
			return nil
		})
}

// transition loads the campaign inside a transaction, applies the mutation
// and persists the result. Reloading under the transaction keeps concurrent
// transitions from both succeeding.
func (s *CampaignFlowImpl) transition(
	ctx context.Context,
	actor *Identity,
	campaignUUID uuid.UUID,
	metadata *ClientMetadata,
	auditAction, verb string,
	mutate func(campaign *models.Campaign, now time.Time) error,
) (*dto.CampaignTransitionResponse, error) {
	var campaign *models.Campaign

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		campaign, err = getCampaign(txCtx, s.campaignRepo, actor.TenantID, campaignUUID)
		if err != nil {
			return err
		}

		if err := mutate(campaign, utils.UTCNow()); err != nil {
			return err
		}

		return s.campaignRepo.Update(txCtx, campaign)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Campaign could not be %s: %s", verb, err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, actor, auditAction, errMsg, false, &errMsg, metadata)

		if IsCampaignNotFound(err) {
			return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", err)
		}
		if IsInvalidState(err) {
			return nil, NewBusinessError("CAMPAIGN_INVALID_STATE", fmt.Sprintf("Campaign cannot be %s in its current status", verb), err)
		}
		return nil, NewBusinessError("CAMPAIGN_TRANSITION_FAILED", fmt.Sprintf("Campaign could not be %s", verb), err)
	}

	msg := fmt.Sprintf("Campaign %s: %s", verb, campaign.UUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, actor, auditAction, msg, true, nil, metadata)

	return &dto.CampaignTransitionResponse{
		Message:  fmt.Sprintf("Campaign %s successfully", verb),
		Campaign: toCampaignResponse(campaign),
	}, nil
}

// validateCreateCampaignRequest validates the campaign creation request
func (s *CampaignFlowImpl) validateCreateCampaignRequest(req *dto.CreateCampaignRequest) (models.UUIDSet, models.UUIDSet, error) {
	if req.Title == "" {
		return nil, nil, ErrCampaignTitleRequired
	}
	if !models.CampaignType(req.Type).Valid() {
		return nil, nil, ErrCampaignTypeInvalid
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, nil, ErrEndDateBeforeStartDate
	}
	if len(req.ManagerIDs) == 0 {
		return nil, nil, ErrManagersRequired
	}
	if len(req.TargetUserIDs) == 0 {
		return nil, nil, ErrTargetUsersRequired
	}

	managers, err := parseUUIDSet(req.ManagerIDs)
	if err != nil {
		return nil, nil, err
	}
	targets, err := parseUUIDSet(req.TargetUserIDs)
	if err != nil {
		return nil, nil, err
	}

	return managers, targets, nil
}

// parseUUIDSet parses and deduplicates request-level ID strings
func parseUUIDSet(ids []string) (models.UUIDSet, error) {
	set := models.NewUUIDSet()
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", raw, err)
		}
		set = set.Add(id)
	}
	return set, nil
}

// uuidStrings converts a UUID set into its string form for responses
func uuidStrings(set models.UUIDSet) []string {
	out := make([]string, 0, len(set))
	for _, id := range set {
		out = append(out, id.String())
	}
	return out
}

// toCampaignResponse maps a campaign entity to its response DTO
func toCampaignResponse(campaign *models.Campaign) dto.GetCampaignResponse {
	return dto.GetCampaignResponse{
		UUID:             campaign.UUID.String(),
		Title:            campaign.Title,
		Description:      campaign.Description,
		Type:             campaign.Type.String(),
		Status:           campaign.Status.String(),
		StartDate:        campaign.StartDate,
		EndDate:          campaign.EndDate,
		ActualStartDate:  campaign.ActualStartDate,
		ActualEndDate:    campaign.ActualEndDate,
		AssignedManagers: uuidStrings(campaign.AssignedManagers),
		TargetUserIDs:    uuidStrings(campaign.TargetUserIDs),
		CreatedAt:        campaign.CreatedAt,
		UpdatedAt:        campaign.UpdatedAt,
	}
}
