package handlers

import (
	"log"

	"github.com/evalforge/workforce-suite/app/dto"
	businessflow "github.com/evalforge/workforce-suite/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// TemplateHandlerInterface defines the contract for certificate template handlers
type TemplateHandlerInterface interface {
	CreateTemplate(c fiber.Ctx) error
	UpdateTemplate(c fiber.Ctx) error
	ListTemplates(c fiber.Ctx) error
	SetDefaultTemplate(c fiber.Ctx) error
}

// TemplateHandler handles certificate template HTTP requests
type TemplateHandler struct {
	templateFlow businessflow.TemplateFlow
	validator    *validator.Validate
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateFlow businessflow.TemplateFlow) *TemplateHandler {
	return &TemplateHandler{
		templateFlow: templateFlow,
		validator:    validator.New(),
	}
}

func (h *TemplateHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *TemplateHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateTemplate creates a certificate template
// @Summary Create Template
// @Description Create a certificate template. A default template demotes any previous default of the same type.
// @Tags Templates
// @Accept json
// @Produce json
// @Param request body dto.CreateTemplateRequest true "Template data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateTemplateResponse} "Template created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/templates [post]
func (h *TemplateHandler) CreateTemplate(c fiber.Ctx) error {
	var req dto.CreateTemplateRequest
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

	result, err := h.templateFlow.CreateTemplate(createRequestContext(c, "/api/v1/templates"), actor, &req, metadata)
	if err != nil {
		if businessflow.IsValidation(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Template validation failed", "TEMPLATE_VALIDATION_FAILED", err.Error())
		}

		log.Println("Template creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Template creation failed", "TEMPLATE_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Template created successfully", fiber.Map{
		"message": result.Message,
		"uuid":    result.UUID,
	})
}

// UpdateTemplate edits template content and activation
// @Summary Update Template
// @Description Update template content, variables, styles, or activation. Deactivating a template also clears its default flag.
// @Tags Templates
// @Accept json
// @Produce json
// @Param uuid path string true "Template UUID"
// @Param request body dto.UpdateTemplateRequest true "Template update data"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateTemplateResponse} "Template updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Template not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/templates/{uuid} [put]
func (h *TemplateHandler) UpdateTemplate(c fiber.Ctx) error {
	templateUUID := c.Params("uuid")
	if templateUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Template UUID is required", "MISSING_TEMPLATE_UUID", nil)
	}

	var req dto.UpdateTemplateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = templateUUID

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

	result, err := h.templateFlow.UpdateTemplate(createRequestContext(c, "/api/v1/templates/"+templateUUID), actor, &req, metadata)
	if err != nil {
		if businessflow.IsTemplateNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Template not found", "TEMPLATE_NOT_FOUND", nil)
		}
		if businessflow.IsValidation(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Template validation failed", "TEMPLATE_VALIDATION_FAILED", err.Error())
		}

		log.Println("Template update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Template update failed", "TEMPLATE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Template updated successfully", fiber.Map{
		"message": result.Message,
	})
}

// ListTemplates returns the tenant's certificate templates
// @Summary List Templates
// @Description Retrieve all certificate templates of the authenticated tenant
// @Tags Templates
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListTemplatesResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/templates [get]
func (h *TemplateHandler) ListTemplates(c fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	result, err := h.templateFlow.ListTemplates(createRequestContext(c, "/api/v1/templates"), actor)
	if err != nil {
		log.Println("List templates failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list templates", "LIST_TEMPLATES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Templates retrieved successfully", fiber.Map{
		"message": result.Message,
		"items":   result.Items,
	})
}

// SetDefaultTemplate promotes a template to the default for its type
// @Summary Set Default Template
// @Description Mark a template as the default for its certificate type, demoting the previous default
// @Tags Templates
// @Produce json
// @Param uuid path string true "Template UUID"
// @Success 200 {object} dto.APIResponse{data=dto.SetDefaultTemplateResponse} "Default template set successfully"
// @Failure 400 {object} dto.APIResponse "Invalid UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Template not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/templates/{uuid}/default [post]
func (h *TemplateHandler) SetDefaultTemplate(c fiber.Ctx) error {
	templateUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid template UUID", "INVALID_TEMPLATE_UUID", nil)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	metadata := clientMetadata(c)
	endpoint := "/api/v1/templates/" + templateUUID.String() + "/default"

	result, err := h.templateFlow.SetDefaultTemplate(createRequestContext(c, endpoint), actor, templateUUID, metadata)
	if err != nil {
		if businessflow.IsTemplateNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Template not found", "TEMPLATE_NOT_FOUND", nil)
		}

		log.Println("Set default template failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Default template change failed", "TEMPLATE_DEFAULT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Default template set successfully", fiber.Map{
		"message": result.Message,
	})
}
