package handlers

import (
	"log"

	"github.com/evalforge/workforce-suite/app/dto"
	businessflow "github.com/evalforge/workforce-suite/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// GroupHandlerInterface defines the contract for campaign group handlers
type GroupHandlerInterface interface {
	CreateGroup(c fiber.Ctx) error
	ListGroups(c fiber.Ctx) error
}

// GroupHandler handles campaign group HTTP requests
type GroupHandler struct {
	groupFlow businessflow.GroupFlow
	validator *validator.Validate
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groupFlow businessflow.GroupFlow) *GroupHandler {
	return &GroupHandler{
		groupFlow: groupFlow,
		validator: validator.New(),
	}
}

func (h *GroupHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *GroupHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateGroup handles group creation, optionally bound to a campaign
// @Summary Create Group
// @Description Create an evaluation group with a manager and target users, optionally bound to a campaign
// @Tags Groups
// @Accept json
// @Produce json
// @Param request body dto.CreateGroupRequest true "Group creation data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateGroupResponse} "Group created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign or manager not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/groups [post]
func (h *GroupHandler) CreateGroup(c fiber.Ctx) error {
	var req dto.CreateGroupRequest
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

	result, err := h.groupFlow.CreateGroup(createRequestContext(c, "/api/v1/groups"), actor, &req, metadata)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsUserNotFound(err) || businessflow.IsManagerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Group manager not found", "MANAGER_NOT_FOUND", nil)
		}
		if businessflow.IsValidation(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Group validation failed", "GROUP_VALIDATION_FAILED", err.Error())
		}

		log.Println("Group creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Group creation failed", "GROUP_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Group created successfully", fiber.Map{
		"message": result.Message,
		"uuid":    result.UUID,
	})
}

// ListGroups returns the groups of a campaign
// @Summary List Campaign Groups
// @Description Retrieve the groups bound to a campaign of the authenticated tenant
// @Tags Groups
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ListGroupsResponse}
// @Failure 400 {object} dto.APIResponse "Invalid UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/{uuid}/groups [get]
func (h *GroupHandler) ListGroups(c fiber.Ctx) error {
	campaignUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid campaign UUID", "INVALID_CAMPAIGN_UUID", nil)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	result, err := h.groupFlow.ListGroups(createRequestContext(c, "/api/v1/campaigns/"+campaignUUID.String()+"/groups"), actor, campaignUUID)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}

		log.Println("List groups failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list groups", "LIST_GROUPS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Groups retrieved successfully", fiber.Map{
		"message": result.Message,
		"items":   result.Items,
	})
}
