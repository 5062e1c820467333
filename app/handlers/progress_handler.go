package handlers

import (
	"log"

	"github.com/evalforge/workforce-suite/app/dto"
	businessflow "github.com/evalforge/workforce-suite/business_flow"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ProgressHandlerInterface defines the contract for progress handlers
type ProgressHandlerInterface interface {
	GetCampaignProgress(c fiber.Ctx) error
}

// ProgressHandler handles campaign progress HTTP requests
type ProgressHandler struct {
	progressFlow businessflow.ProgressFlow
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressFlow businessflow.ProgressFlow) *ProgressHandler {
	return &ProgressHandler{progressFlow: progressFlow}
}

func (h *ProgressHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ProgressHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GetCampaignProgress returns aggregated completion for a campaign
// @Summary Get Campaign Progress
// @Description Retrieve per-campaign, per-group, and per-manager completion rollups
// @Tags Progress
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignProgressResponse}
// @Failure 400 {object} dto.APIResponse "Invalid UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/{uuid}/progress [get]
func (h *ProgressHandler) GetCampaignProgress(c fiber.Ctx) error {
	campaignUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid campaign UUID", "INVALID_CAMPAIGN_UUID", nil)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	result, err := h.progressFlow.GetCampaignProgress(createRequestContext(c, "/api/v1/campaigns/"+campaignUUID.String()+"/progress"), actor, campaignUUID)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}

		log.Println("Get campaign progress failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get campaign progress", "GET_PROGRESS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign progress retrieved successfully", result)
}
