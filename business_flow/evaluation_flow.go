package businessflow

import (
	"context"
	"fmt"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/repository"
	"github.com/evalforge/workforce-suite/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EvaluationFlow handles evaluation submission and retrieval
type EvaluationFlow interface {
	SubmitEvaluation(ctx context.Context, actor *Identity, req *dto.SubmitEvaluationRequest, metadata *ClientMetadata) (*dto.SubmitEvaluationResponse, error)
	ListEvaluations(ctx context.Context, actor *Identity, campaignUUID uuid.UUID) (*dto.ListEvaluationsResponse, error)
}

// EvaluationFlowImpl implements the evaluation business flow
type EvaluationFlowImpl struct {
	evaluationRepo repository.CampaignEvaluationRepository
	campaignRepo   repository.CampaignRepository
	groupRepo      repository.CampaignGroupRepository
	userRepo       repository.UserRepository
	auditRepo      repository.AuditLogRepository
	db             *gorm.DB
}

// NewEvaluationFlow creates a new evaluation flow instance
func NewEvaluationFlow(
	evaluationRepo repository.CampaignEvaluationRepository,
	campaignRepo repository.CampaignRepository,
	groupRepo repository.CampaignGroupRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) EvaluationFlow {
	return &EvaluationFlowImpl{
		evaluationRepo: evaluationRepo,
		campaignRepo:   campaignRepo,
		groupRepo:      groupRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
		db:             db,
	}
}

// SubmitEvaluation records one evaluator's assessment of a target user. An
// evaluator gets exactly one submission per target per campaign; resubmission
// is rejected rather than merged. The database unique index backs up the
// pre-check under concurrency.
func (s *EvaluationFlowImpl) SubmitEvaluation(ctx context.Context, actor *Identity, req *dto.SubmitEvaluationRequest, metadata *ClientMetadata) (*dto.SubmitEvaluationResponse, error) {
	campaignUUID, err := uuid.Parse(req.CampaignUUID)
	if err != nil {
		return nil, NewBusinessError("EVALUATION_VALIDATION_FAILED", "Evaluation validation failed", err)
	}
	evaluatedUserID, err := uuid.Parse(req.EvaluatedUserID)
	if err != nil {
		return nil, NewBusinessError("EVALUATION_VALIDATION_FAILED", "Evaluation validation failed", err)
	}
	if len(req.RoleEvaluations) == 0 && len(req.ClaimEvaluations) == 0 {
		return nil, NewBusinessError("EVALUATION_VALIDATION_FAILED", "Evaluation validation failed", ErrEvaluationPayloadEmpty)
	}

	campaign, err := getCampaign(ctx, s.campaignRepo, actor.TenantID, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if campaign.Status != models.CampaignStatusActive {
		return nil, NewBusinessError("CAMPAIGN_INVALID_STATE", "Evaluations are only accepted for active campaigns", ErrCampaignNotActive)
	}

	if _, err := getUser(ctx, s.userRepo, actor.TenantID, evaluatedUserID); err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to lookup evaluated user", err)
	}

	var groupID *uint
	if req.GroupUUID != nil {
		groupUUID, err := uuid.Parse(*req.GroupUUID)
		if err != nil {
			return nil, NewBusinessError("EVALUATION_VALIDATION_FAILED", "Evaluation validation failed", err)
		}
		group, err := s.findGroup(ctx, actor.TenantID, campaign.ID, groupUUID)
		if err != nil {
			return nil, err
		}
		groupID = &group.ID
	}

	existing, err := s.evaluationRepo.ByTriple(ctx, campaign.ID, evaluatedUserID, actor.ID)
	if err != nil {
		return nil, NewBusinessError("EVALUATION_LOOKUP_FAILED", "Failed to check existing evaluation", err)
	}
	if existing != nil {
		errMsg := fmt.Sprintf("Duplicate evaluation rejected: campaign=%s evaluated=%s", campaign.UUID, evaluatedUserID)
		_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionEvaluationRejected, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("EVALUATION_ALREADY_EXISTS", "Evaluation already submitted", ErrDuplicateEvaluation)
	}

	now := utils.UTCNow()
	evaluation := &models.CampaignEvaluation{
		TenantID:         actor.TenantID,
		CampaignID:       campaign.ID,
		GroupID:          groupID,
		EvaluatedUserID:  evaluatedUserID,
		EvaluatorID:      actor.ID,
		RoleEvaluations:  models.JSONMap(req.RoleEvaluations),
		ClaimEvaluations: models.JSONMap(req.ClaimEvaluations),
		Feedback:         req.Feedback,
	}
	evaluation.MarkSubmitted(now)

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.evaluationRepo.Save(txCtx, evaluation)
	})

	if err != nil {
		// A concurrent submission that slipped past the pre-check lands on
		// the unique index instead.
		if repository.IsUniqueViolation(err) {
			err = ErrDuplicateEvaluation
		}
		errMsg := fmt.Sprintf("Evaluation submission failed: %s", err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionEvaluationRejected, errMsg, false, &errMsg, metadata)

		if IsDuplicateEvaluation(err) {
			return nil, NewBusinessError("EVALUATION_ALREADY_EXISTS", "Evaluation already submitted", err)
		}
		return nil, NewBusinessError("EVALUATION_SUBMISSION_FAILED", "Evaluation submission failed", err)
	}

	msg := fmt.Sprintf("Evaluation submitted: %s", evaluation.UUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionEvaluationSubmitted, msg, true, nil, metadata)

	return &dto.SubmitEvaluationResponse{
		Message:     "Evaluation submitted successfully",
		UUID:        evaluation.UUID.String(),
		SubmittedAt: *evaluation.SubmittedAt,
	}, nil
}

// ListEvaluations returns all evaluations recorded for a campaign
func (s *EvaluationFlowImpl) ListEvaluations(ctx context.Context, actor *Identity, campaignUUID uuid.UUID) (*dto.ListEvaluationsResponse, error) {
	campaign, err := getCampaign(ctx, s.campaignRepo, actor.TenantID, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}

	evaluations, err := s.evaluationRepo.ByCampaignID(ctx, actor.TenantID, campaign.ID)
	if err != nil {
		return nil, NewBusinessError("EVALUATION_LIST_FAILED", "Failed to list evaluations", err)
	}

	groupUUIDs, err := s.groupUUIDsByID(ctx, actor.TenantID, campaign.ID)
	if err != nil {
		return nil, NewBusinessError("EVALUATION_LIST_FAILED", "Failed to resolve groups", err)
	}

	campaignRef := campaign.UUID.String()
	items := make([]dto.GetEvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		item := dto.GetEvaluationResponse{
			UUID:             evaluation.UUID.String(),
			CampaignUUID:     campaignRef,
			EvaluatedUserID:  evaluation.EvaluatedUserID.String(),
			EvaluatorID:      evaluation.EvaluatorID.String(),
			RoleEvaluations:  evaluation.RoleEvaluations,
			ClaimEvaluations: evaluation.ClaimEvaluations,
			Feedback:         evaluation.Feedback,
			IsCompleted:      evaluation.IsCompleted,
			SubmittedAt:      evaluation.SubmittedAt,
			CreatedAt:        evaluation.CreatedAt,
		}
		if evaluation.GroupID != nil {
			if ref, ok := groupUUIDs[*evaluation.GroupID]; ok {
				item.GroupUUID = &ref
			}
		}
		items = append(items, item)
	}

	return &dto.ListEvaluationsResponse{
		Message: "Evaluations retrieved successfully",
		Items:   items,
	}, nil
}

func (s *EvaluationFlowImpl) findGroup(ctx context.Context, tenantID, campaignID uint, groupUUID uuid.UUID) (*models.CampaignGroup, error) {
	groups, err := s.groupRepo.ByFilter(ctx, models.CampaignGroupFilter{
		TenantID:   &tenantID,
		CampaignID: &campaignID,
		UUID:       &groupUUID,
	}, "", 1, 0)
	if err != nil {
		return nil, NewBusinessError("GROUP_LOOKUP_FAILED", "Failed to lookup group", err)
	}
	if len(groups) == 0 {
		return nil, NewBusinessError("GROUP_NOT_FOUND", "Group not found", ErrGroupNotFound)
	}
	return groups[0], nil
}

func (s *EvaluationFlowImpl) groupUUIDsByID(ctx context.Context, tenantID, campaignID uint) (map[uint]string, error) {
	groups, err := s.groupRepo.ByCampaignID(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]string, len(groups))
	for _, group := range groups {
		out[group.ID] = group.UUID.String()
	}
	return out, nil
}
