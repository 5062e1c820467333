package handlers

import (
	"context"
	"log"
	"strconv"

	"github.com/evalforge/workforce-suite/app/dto"
	businessflow "github.com/evalforge/workforce-suite/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// CampaignHandlerInterface defines the contract for campaign handlers
type CampaignHandlerInterface interface {
	CreateCampaign(c fiber.Ctx) error
	UpdateCampaign(c fiber.Ctx) error
	GetCampaign(c fiber.Ctx) error
	ListCampaigns(c fiber.Ctx) error
	StartCampaign(c fiber.Ctx) error
	PauseCampaign(c fiber.Ctx) error
	ResumeCampaign(c fiber.Ctx) error
	CompleteCampaign(c fiber.Ctx) error
	CancelCampaign(c fiber.Ctx) error
}

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	campaignFlow businessflow.CampaignFlow
	validator    *validator.Validate
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignFlow businessflow.CampaignFlow) *CampaignHandler {
	return &CampaignHandler{
		campaignFlow: campaignFlow,
		validator:    validator.New(),
	}
}

func (h *CampaignHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CampaignHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateCampaign handles the campaign creation process
// @Summary Create Campaign
// @Description Create a new draft campaign with managers and target users
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param request body dto.CreateCampaignRequest true "Campaign creation data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateCampaignResponse} "Campaign created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 409 {object} dto.APIResponse "Campaign title already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns [post]
func (h *CampaignHandler) CreateCampaign(c fiber.Ctx) error {
	var req dto.CreateCampaignRequest
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

	result, err := h.campaignFlow.CreateCampaign(createRequestContext(c, "/api/v1/campaigns"), actor, &req, metadata)
	if err != nil {
		if businessflow.IsCampaignTitleExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "A campaign with this title already exists", "CAMPAIGN_TITLE_EXISTS", nil)
		}
		if businessflow.IsManagerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Assigned manager does not resolve to an active user", "MANAGER_NOT_FOUND", nil)
		}
		if businessflow.IsValidation(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Campaign validation failed", "CAMPAIGN_VALIDATION_FAILED", err.Error())
		}

		log.Println("Campaign creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign creation failed", "CAMPAIGN_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Campaign created successfully", fiber.Map{
		"message":    result.Message,
		"uuid":       result.UUID,
		"status":     result.Status,
		"created_at": result.CreatedAt,
	})
}

// UpdateCampaign handles the campaign update process
// @Summary Update Campaign
// @Description Update campaign details with the specified parameters
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Param request body dto.UpdateCampaignRequest true "Campaign update data"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateCampaignResponse} "Campaign updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 409 {object} dto.APIResponse "Campaign title already exists"
// @Failure 422 {object} dto.APIResponse "Campaign is not editable in its current status"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/{uuid} [put]
func (h *CampaignHandler) UpdateCampaign(c fiber.Ctx) error {
	campaignUUID := c.Params("uuid")
	if campaignUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required", "MISSING_CAMPAIGN_UUID", nil)
	}

	var req dto.UpdateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = campaignUUID

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

	result, err := h.campaignFlow.UpdateCampaign(createRequestContext(c, "/api/v1/campaigns/"+campaignUUID), actor, &req, metadata)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignTitleExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "A campaign with this title already exists", "CAMPAIGN_TITLE_EXISTS", nil)
		}
		if businessflow.IsManagerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Assigned manager does not resolve to an active user", "MANAGER_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidState(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Campaign cannot be updated in its current status", "CAMPAIGN_NOT_EDITABLE", nil)
		}
		if businessflow.IsValidation(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Campaign validation failed", "CAMPAIGN_VALIDATION_FAILED", err.Error())
		}

		log.Println("Campaign update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign update failed", "CAMPAIGN_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign updated successfully", fiber.Map{
		"message": result.Message,
	})
}

// GetCampaign returns a single campaign by UUID
// @Summary Get Campaign
// @Description Retrieve a campaign of the authenticated tenant by UUID
// @Tags Campaigns
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetCampaignResponse}
// @Failure 400 {object} dto.APIResponse "Invalid UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/{uuid} [get]
func (h *CampaignHandler) GetCampaign(c fiber.Ctx) error {
	campaignUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid campaign UUID", "INVALID_CAMPAIGN_UUID", nil)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	result, err := h.campaignFlow.GetCampaign(createRequestContext(c, "/api/v1/campaigns/"+campaignUUID.String()), actor, campaignUUID)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}

		log.Println("Get campaign failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get campaign", "GET_CAMPAIGN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign retrieved successfully", result)
}

// ListCampaigns returns the tenant's campaigns with filters and pagination
// @Summary List Campaigns
// @Description Retrieve the authenticated tenant's campaigns with pagination, ordering, and filters
// @Tags Campaigns
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 100)" default(10)
// @Param orderby query string false "Order by (newest|oldest)" default(newest)
// @Param title query string false "Filter by title (contains)"
// @Param status query string false "Filter by status (draft|active|paused|completed|cancelled)"
// @Param type query string false "Filter by type (performance|training|evaluation|development)"
// @Success 200 {object} dto.APIResponse{data=dto.ListCampaignsResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns [get]
func (h *CampaignHandler) ListCampaigns(c fiber.Ctx) error {
	// Parse query params
	page := 1
	if v, err := strconv.Atoi(c.Query("page", "1")); err == nil && v > 0 {
		page = v
	}
	limit := 10
	if v, err := strconv.Atoi(c.Query("limit", "10")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	orderby := c.Query("orderby", "newest")
	title := c.Query("title")
	status := c.Query("status")
	campaignType := c.Query("type")

	actor, ok := actorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	var filter *dto.ListCampaignsFilter
	if title != "" || status != "" || campaignType != "" {
		filter = &dto.ListCampaignsFilter{}
		if title != "" {
			filter.Title = &title
		}
		if status != "" {
			filter.Status = &status
		}
		if campaignType != "" {
			filter.Type = &campaignType
		}
	}
	req := &dto.ListCampaignsRequest{
		Page:    page,
		Limit:   limit,
		OrderBy: orderby,
		Filter:  filter,
	}

	result, err := h.campaignFlow.ListCampaigns(createRequestContext(c, "/api/v1/campaigns"), actor, req)
	if err != nil {
		log.Println("List campaigns failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list campaigns", "LIST_CAMPAIGNS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaigns retrieved successfully", fiber.Map{
		"message":    result.Message,
		"items":      result.Items,
		"pagination": result.Pagination,
	})
}

// StartCampaign activates a draft campaign
// @Summary Start Campaign
// @Description Transition a draft campaign to active, stamping the actual start date
// @Tags Campaigns
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignTransitionResponse}
// @Failure 400 {object} dto.APIResponse "Invalid UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 422 {object} dto.APIResponse "Campaign is not in a startable status"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/{uuid}/start [post]
func (h *CampaignHandler) StartCampaign(c fiber.Ctx) error {
	return h.transition(c, "start", h.campaignFlow.StartCampaign)
}

// PauseCampaign pauses an active campaign
// @Summary Pause Campaign
// @Description Transition an active campaign to paused
// @Tags Campaigns
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignTransitionResponse}
// @Failure 400 {object} dto.APIResponse "Invalid UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 422 {object} dto.APIResponse "Campaign is not pausable"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/{uuid}/pause [post]
func (h *CampaignHandler) PauseCampaign(c fiber.Ctx) error {
	return h.transition(c, "pause", h.campaignFlow.PauseCampaign)
}

// ResumeCampaign resumes a paused campaign
// @Summary Resume Campaign
// @Description Transition a paused campaign back to active
// @Tags Campaigns
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignTransitionResponse}
// @Failure 400 {object} dto.APIResponse "Invalid UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 422 {object} dto.APIResponse "Campaign is not resumable"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/{uuid}/resume [post]
func (h *CampaignHandler) ResumeCampaign(c fiber.Ctx) error {
	return h.transition(c, "resume", h.campaignFlow.ResumeCampaign)
}

// CompleteCampaign completes an active campaign
// @Summary Complete Campaign
// @Description Transition an active campaign to completed, stamping the actual end date
// @Tags Campaigns
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignTransitionResponse}
// @Failure 400 {object} dto.APIResponse "Invalid UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 422 {object} dto.APIResponse "Campaign is not completable"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/{uuid}/complete [post]
func (h *CampaignHandler) CompleteCampaign(c fiber.Ctx) error {
	return h.transition(c, "complete", h.campaignFlow.CompleteCampaign)
}

// CancelCampaign cancels a campaign that has not finished
// @Summary Cancel Campaign
// @Description Transition a draft, active, or paused campaign to cancelled
// @Tags Campaigns
// @Produce json
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignTransitionResponse}
// @Failure 400 {object} dto.APIResponse "Invalid UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 422 {object} dto.APIResponse "Campaign is not cancellable"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/{uuid}/cancel [post]
func (h *CampaignHandler) CancelCampaign(c fiber.Ctx) error {
	return h.transition(c, "cancel", h.campaignFlow.CancelCampaign)
}

// transition runs one lifecycle verb with the shared parse/auth/error plumbing
func (h *CampaignHandler) transition(
	c fiber.Ctx,
	verb string,
	call func(ctx context.Context, actor *businessflow.Identity, campaignUUID uuid.UUID, metadata *businessflow.ClientMetadata) (*dto.CampaignTransitionResponse, error),
) error {
	campaignUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid campaign UUID", "INVALID_CAMPAIGN_UUID", nil)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	metadata := clientMetadata(c)
	endpoint := "/api/v1/campaigns/" + campaignUUID.String() + "/" + verb

	result, err := call(createRequestContext(c, endpoint), actor, campaignUUID, metadata)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidState(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Campaign cannot "+verb+" in its current status", "CAMPAIGN_INVALID_STATE", err.Error())
		}

		log.Println("Campaign transition failed", verb, err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign transition failed", "CAMPAIGN_TRANSITION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"message":  result.Message,
		"campaign": result.Campaign,
	})
}
