package businessflow

import (
	"context"
	"fmt"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupFlow handles campaign group business logic
type GroupFlow interface {
	CreateGroup(ctx context.Context, actor *Identity, req *dto.CreateGroupRequest, metadata *ClientMetadata) (*dto.CreateGroupResponse, error)
	ListGroups(ctx context.Context, actor *Identity, campaignUUID uuid.UUID) (*dto.ListGroupsResponse, error)
}

// GroupFlowImpl implements the campaign group business flow
type GroupFlowImpl struct {
	groupRepo    repository.CampaignGroupRepository
	campaignRepo repository.CampaignRepository
	userRepo     repository.UserRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

// NewGroupFlow creates a new group flow instance
func NewGroupFlow(
	groupRepo repository.CampaignGroupRepository,
	campaignRepo repository.CampaignRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) GroupFlow {
	return &GroupFlowImpl{
		groupRepo:    groupRepo,
		campaignRepo: campaignRepo,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// CreateGroup creates a group inside a campaign, or a standalone group when
// no campaign is referenced.
func (s *GroupFlowImpl) CreateGroup(ctx context.Context, actor *Identity, req *dto.CreateGroupRequest, metadata *ClientMetadata) (*dto.CreateGroupResponse, error) {
	if req.Name == "" {
		return nil, NewBusinessError("GROUP_VALIDATION_FAILED", "Group validation failed", ErrGroupNameRequired)
	}
	if len(req.TargetUserIDs) == 0 {
		return nil, NewBusinessError("GROUP_VALIDATION_FAILED", "Group validation failed", ErrTargetUsersRequired)
	}

	managerID, err := uuid.Parse(req.ManagerID)
	if err != nil {
		return nil, NewBusinessError("GROUP_VALIDATION_FAILED", "Group validation failed", err)
	}
	targets, err := parseUUIDSet(req.TargetUserIDs)
	if err != nil {
		return nil, NewBusinessError("GROUP_VALIDATION_FAILED", "Group validation failed", err)
	}

	if _, err := getUser(ctx, s.userRepo, actor.TenantID, managerID); err != nil {
		return nil, NewBusinessError("MANAGER_NOT_FOUND", "Group manager not found", ErrManagerNotFound)
	}

	var campaignID *uint
	if req.CampaignUUID != nil {
		campaignUUID, err := uuid.Parse(*req.CampaignUUID)
		if err != nil {
			return nil, NewBusinessError("GROUP_VALIDATION_FAILED", "Group validation failed", err)
		}
		campaign, err := getCampaign(ctx, s.campaignRepo, actor.TenantID, campaignUUID)
		if err != nil {
			return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
		}
		campaignID = &campaign.ID
	}

	group := &models.CampaignGroup{
		TenantID:      actor.TenantID,
		CampaignID:    campaignID,
		Name:          req.Name,
		ManagerID:     managerID,
		TargetUserIDs: targets,
		IsActive:      true,
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.groupRepo.Save(txCtx, group)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Group creation failed: %s", err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionGroupCreated, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("GROUP_CREATION_FAILED", "Group creation failed", err)
	}

	msg := fmt.Sprintf("Group created successfully: %s", group.UUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionGroupCreated, msg, true, nil, metadata)

	return &dto.CreateGroupResponse{
		Message: "Group created successfully",
		UUID:    group.UUID.String(),
	}, nil
}

// ListGroups returns the groups of a campaign in creation order
func (s *GroupFlowImpl) ListGroups(ctx context.Context, actor *Identity, campaignUUID uuid.UUID) (*dto.ListGroupsResponse, error) {
	campaign, err := getCampaign(ctx, s.campaignRepo, actor.TenantID, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}

	groups, err := s.groupRepo.ByCampaignID(ctx, actor.TenantID, campaign.ID)
	if err != nil {
		return nil, NewBusinessError("GROUP_LIST_FAILED", "Failed to list groups", err)
	}

	items := make([]dto.GetGroupResponse, 0, len(groups))
	campaignRef := campaign.UUID.String()
	for _, group := range groups {
		item := dto.GetGroupResponse{
			UUID:          group.UUID.String(),
			Name:          group.Name,
			ManagerID:     group.ManagerID.String(),
			TargetUserIDs: uuidStrings(group.TargetUserIDs),
			IsActive:      group.IsActive,
			CreatedAt:     group.CreatedAt,
			UpdatedAt:     group.UpdatedAt,
		}
		if !group.IsStandalone() {
			item.CampaignUUID = &campaignRef
		}
		items = append(items, item)
	}

	return &dto.ListGroupsResponse{
		Message: "Groups retrieved successfully",
		Items:   items,
	}, nil
}
