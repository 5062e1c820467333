package handlers

import (
	"log"

	"github.com/evalforge/workforce-suite/app/dto"
	businessflow "github.com/evalforge/workforce-suite/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// EvaluationHandlerInterface defines the contract for evaluation handlers
type EvaluationHandlerInterface interface {
	SubmitEvaluation(c fiber.Ctx) error
	ListEvaluations(c fiber.Ctx) error
}

// EvaluationHandler handles evaluation HTTP requests
type EvaluationHandler struct {
	evaluationFlow businessflow.EvaluationFlow
	validator      *validator.Validate
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(evaluationFlow businessflow.EvaluationFlow) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationFlow: evaluationFlow,
		validator:      validator.New(),
	}
}

func (h *EvaluationHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *EvaluationHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SubmitEvaluation records an evaluation submitted by the authenticated user
// @Summary Submit Evaluation
// @Description Submit an evaluation of a target user within an active campaign. Each evaluator may evaluate a given user once per campaign.
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param request body dto.SubmitEvaluationRequest true "Evaluation data"
// @Success 201 {object} dto.APIResponse{data=dto.SubmitEvaluationResponse} "Evaluation submitted successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign, group, or evaluated user not found"
// @Failure 409 {object} dto.APIResponse "Duplicate evaluation"
// @Failure 422 {object} dto.APIResponse "Campaign is not active"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/evaluations [post]
func (h *EvaluationHandler) SubmitEvaluation(c fiber.Ctx) error {
	var req dto.SubmitEvaluationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	metadata := clientMetadata(c)

	result, err := h.evaluationFlow.SubmitEvaluation(createRequestContext(c, "/api/v1/evaluations"), actor, &req, metadata)
	if err != nil {
		if businessflow.IsDuplicateEvaluation(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "An evaluation for this user already exists in the campaign", "DUPLICATE_EVALUATION", nil)
		}
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsGroupNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign group not found", "GROUP_NOT_FOUND", nil)
		}
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Evaluated user not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidState(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Evaluations are only accepted on active campaigns", "CAMPAIGN_NOT_ACTIVE", nil)
		}
		if businessflow.IsValidation(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Evaluation validation failed", "EVALUATION_VALIDATION_FAILED", err.Error())
		}

		log.Println("Evaluation submission failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Evaluation submission failed", "EVALUATION_SUBMISSION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Evaluation submitted successfully", fiber.Map{
		"message":      result.Message,
		"uuid":         result.UUID,
		"submitted_at": result.SubmittedAt,
	})
}

// ListEvaluations returns the evaluations of a campaign
// @Summary List Campaign Evaluations
// @Description Retrieve the evaluations recorded for a campaign of the authenticated tenant
// @Tags Evaluations
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ListEvaluationsResponse}
// @Failure 400 {object} dto.APIResponse "Invalid UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/{uuid}/evaluations [get]
func (h *EvaluationHandler) ListEvaluations(c fiber.Ctx) error {
	campaignUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid campaign UUID", "INVALID_CAMPAIGN_UUID", nil)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	result, err := h.evaluationFlow.ListEvaluations(createRequestContext(c, "/api/v1/campaigns/"+campaignUUID.String()+"/evaluations"), actor, campaignUUID)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}

		log.Println("List evaluations failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list evaluations", "LIST_EVALUATIONS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Evaluations retrieved successfully", fiber.Map{
		"message": result.Message,
		"items":   result.Items,
	})
}
