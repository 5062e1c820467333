package handlers

import (
	"log"
	"strconv"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/evalforge/workforce-suite/app/middleware"
	businessflow "github.com/evalforge/workforce-suite/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// CertificateHandlerInterface defines the contract for certificate handlers
type CertificateHandlerInterface interface {
	GenerateCertificate(c fiber.Ctx) error
	RegenerateCertificate(c fiber.Ctx) error
	UpdateCertificate(c fiber.Ctx) error
	RevokeCertificate(c fiber.Ctx) error
	GetCertificate(c fiber.Ctx) error
	ListCertificates(c fiber.Ctx) error
	VerifyCertificate(c fiber.Ctx) error
}

// CertificateHandler handles certificate-related HTTP requests
type CertificateHandler struct {
	certificateFlow businessflow.CertificateFlow
	validator       *validator.Validate
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(certificateFlow businessflow.CertificateFlow) *CertificateHandler {
	return &CertificateHandler{
		certificateFlow: certificateFlow,
		validator:       validator.New(),
	}
}

func (h *CertificateHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CertificateHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GenerateCertificate issues a certificate for a campaign recipient
// @Summary Generate Certificate
// @Description Issue a certificate for a campaign recipient with a fresh verification token. One certificate per (campaign, recipient).
// @Tags Certificates
// @Accept json
// @Produce json
// @Param request body dto.GenerateCertificateRequest true "Certificate issuance data"
// @Success 201 {object} dto.APIResponse{data=dto.GenerateCertificateResponse} "Certificate generated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign or recipient not found"
// @Failure 409 {object} dto.APIResponse "Certificate already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/certificates [post]
func (h *CertificateHandler) GenerateCertificate(c fiber.Ctx) error {
	var req dto.GenerateCertificateRequest
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

	result, err := h.certificateFlow.GenerateCertificate(createRequestContext(c, "/api/v1/certificates"), actor, &req, metadata)
	if err != nil {
		if businessflow.IsCertificateAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "A certificate for this campaign and recipient already exists", "CERTIFICATE_ALREADY_EXISTS", nil)
		}
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Recipient not found", "RECIPIENT_NOT_FOUND", nil)
		}
		if businessflow.IsValidation(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Certificate validation failed", "CERTIFICATE_VALIDATION_FAILED", err.Error())
		}

		log.Println("Certificate generation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Certificate generation failed", "CERTIFICATE_GENERATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Certificate generated successfully", fiber.Map{
		"message":            result.Message,
		"uuid":               result.UUID,
		"verification_token": result.VerificationToken,
		"status":             result.Status,
	})
}

// RegenerateCertificate reissues a certificate with a fresh token
// @Summary Regenerate Certificate
// @Description Reissue a certificate with a new verification token, resetting its verification count
// @Tags Certificates
// @Produce json
// @Param uuid path string true "Certificate UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GenerateCertificateResponse} "Certificate regenerated successfully"
// @Failure 400 {object} dto.APIResponse "Invalid UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Certificate not found"
// @Failure 422 {object} dto.APIResponse "Certificate is revoked"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/certificates/{uuid}/regenerate [post]
func (h *CertificateHandler) RegenerateCertificate(c fiber.Ctx) error {
	certificateUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid certificate UUID", "INVALID_CERTIFICATE_UUID", nil)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	metadata := clientMetadata(c)
	endpoint := "/api/v1/certificates/" + certificateUUID.String() + "/regenerate"

	result, err := h.certificateFlow.RegenerateCertificate(createRequestContext(c, endpoint), actor, certificateUUID, metadata)
	if err != nil {
		if businessflow.IsCertificateNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Certificate not found", "CERTIFICATE_NOT_FOUND", nil)
		}
		if businessflow.IsCertificateAlreadyRevoked(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Revoked certificates cannot be regenerated", "CERTIFICATE_REVOKED", nil)
		}

		log.Println("Certificate regeneration failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Certificate regeneration failed", "CERTIFICATE_REGENERATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Certificate regenerated successfully", fiber.Map{
		"message":            result.Message,
		"uuid":               result.UUID,
		"verification_token": result.VerificationToken,
		"status":             result.Status,
	})
}

// UpdateCertificate edits certificate details
// @Summary Update Certificate
// @Description Update certificate title, description, status, or admin notes. Revocation must go through the revoke endpoint.
// @Tags Certificates
// @Accept json
// @Produce json
// @Param uuid path string true "Certificate UUID"
// @Param request body dto.UpdateCertificateRequest true "Certificate update data"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateCertificateResponse} "Certificate updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Certificate not found"
// @Failure 422 {object} dto.APIResponse "Certificate is revoked or the update is not allowed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/certificates/{uuid} [put]
func (h *CertificateHandler) UpdateCertificate(c fiber.Ctx) error {
	certificateUUID := c.Params("uuid")
	if certificateUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Certificate UUID is required", "MISSING_CERTIFICATE_UUID", nil)
	}

	var req dto.UpdateCertificateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = certificateUUID

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

	result, err := h.certificateFlow.UpdateCertificate(createRequestContext(c, "/api/v1/certificates/"+certificateUUID), actor, &req, metadata)
	if err != nil {
		if businessflow.IsCertificateNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Certificate not found", "CERTIFICATE_NOT_FOUND", nil)
		}
		if businessflow.IsCertificateAlreadyRevoked(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Revoked certificates cannot be updated", "CERTIFICATE_REVOKED", nil)
		}
		if businessflow.IsInvalidState(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Revocation must go through the revoke endpoint", "REVOKE_VIA_UPDATE", nil)
		}

		log.Println("Certificate update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Certificate update failed", "CERTIFICATE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Certificate updated successfully", fiber.Map{
		"message": result.Message,
	})
}

// RevokeCertificate permanently revokes a certificate
// @Summary Revoke Certificate
// @Description Revoke a certificate with an optional reason. Revocation is permanent.
// @Tags Certificates
// @Accept json
// @Produce json
// @Param uuid path string true "Certificate UUID"
// @Param request body dto.RevokeCertificateRequest true "Revocation data"
// @Success 200 {object} dto.APIResponse{data=dto.RevokeCertificateResponse} "Certificate revoked successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Certificate not found"
// @Failure 409 {object} dto.APIResponse "Certificate already revoked"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/certificates/{uuid}/revoke [post]
func (h *CertificateHandler) RevokeCertificate(c fiber.Ctx) error {
	certificateUUID := c.Params("uuid")
	if certificateUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Certificate UUID is required", "MISSING_CERTIFICATE_UUID", nil)
	}

	var req dto.RevokeCertificateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = certificateUUID

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

	result, err := h.certificateFlow.RevokeCertificate(createRequestContext(c, "/api/v1/certificates/"+certificateUUID+"/revoke"), actor, &req, metadata)
	if err != nil {
		if businessflow.IsCertificateNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Certificate not found", "CERTIFICATE_NOT_FOUND", nil)
		}
		if businessflow.IsCertificateAlreadyRevoked(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Certificate is already revoked", "CERTIFICATE_ALREADY_REVOKED", nil)
		}

		log.Println("Certificate revocation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Certificate revocation failed", "CERTIFICATE_REVOCATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Certificate revoked successfully", fiber.Map{
		"message":    result.Message,
		"revoked_at": result.RevokedAt,
	})
}

// GetCertificate returns a single certificate by UUID
// @Summary Get Certificate
// @Description Retrieve a certificate of the authenticated tenant by UUID
// @Tags Certificates
// @Produce json
// @Param uuid path string true "Certificate UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetCertificateResponse}
// @Failure 400 {object} dto.APIResponse "Invalid UUID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Certificate not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/certificates/{uuid} [get]
func (h *CertificateHandler) GetCertificate(c fiber.Ctx) error {
	certificateUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid certificate UUID", "INVALID_CERTIFICATE_UUID", nil)
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	result, err := h.certificateFlow.GetCertificate(createRequestContext(c, "/api/v1/certificates/"+certificateUUID.String()), actor, certificateUUID)
	if err != nil {
		if businessflow.IsCertificateNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Certificate not found", "CERTIFICATE_NOT_FOUND", nil)
		}

		log.Println("Get certificate failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get certificate", "GET_CERTIFICATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Certificate retrieved successfully", result)
}

// ListCertificates returns the tenant's certificates with filters and pagination
// @Summary List Certificates
// @Description Retrieve the authenticated tenant's certificates with pagination and filters
// @Tags Certificates
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 100)" default(10)
// @Param recipient_id query string false "Filter by recipient UUID"
// @Param campaign_uuid query string false "Filter by campaign UUID"
// @Param status query string false "Filter by status (generated|valid|revoked)"
// @Param type query string false "Filter by type (completion|achievement|excellence|participation)"
// @Success 200 {object} dto.APIResponse{data=dto.ListCertificatesResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/certificates [get]
func (h *CertificateHandler) ListCertificates(c fiber.Ctx) error {
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
	recipientID := c.Query("recipient_id")
	campaignUUID := c.Query("campaign_uuid")
	status := c.Query("status")
	certType := c.Query("type")

	actor, ok := actorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	var filter *dto.ListCertificatesFilter
	if recipientID != "" || campaignUUID != "" || status != "" || certType != "" {
		filter = &dto.ListCertificatesFilter{}
		if recipientID != "" {
			filter.RecipientID = &recipientID
		}
		if campaignUUID != "" {
			filter.CampaignUUID = &campaignUUID
		}
		if status != "" {
			filter.Status = &status
		}
		if certType != "" {
			filter.Type = &certType
		}
	}
	req := &dto.ListCertificatesRequest{
		Page:   page,
		Limit:  limit,
		Filter: filter,
	}

	result, err := h.certificateFlow.ListCertificates(createRequestContext(c, "/api/v1/certificates"), actor, req)
	if err != nil {
		log.Println("List certificates failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list certificates", "LIST_CERTIFICATES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Certificates retrieved successfully", fiber.Map{
		"message":    result.Message,
		"items":      result.Items,
		"pagination": result.Pagination,
	})
}

// VerifyCertificate is the public verification endpoint
// @Summary Verify Certificate
// @Description Verify a certificate by its public token. No authentication required; each lookup increments the verification counter.
// @Tags Verification
// @Produce json
// @Param token path string true "Verification token (16 uppercase hex characters)"
// @Success 200 {object} dto.APIResponse{data=dto.VerifyCertificateResponse}
// @Failure 400 {object} dto.APIResponse "Malformed token"
// @Failure 404 {object} dto.APIResponse "No certificate matches the token"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/verify/{token} [get]
func (h *CertificateHandler) VerifyCertificate(c fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Verification token is required", "MISSING_VERIFICATION_TOKEN", nil)
	}

	result, err := h.certificateFlow.VerifyCertificate(createRequestContext(c, "/api/v1/verify/"+token), token)
	if err != nil {
		if businessflow.IsInvalidVerificationToken(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Verification token is malformed", "INVALID_VERIFICATION_TOKEN", nil)
		}
		if businessflow.IsCertificateNotFound(err) {
			middleware.ObserveCertificateVerification("not_found")
			return h.ErrorResponse(c, fiber.StatusNotFound, "No certificate matches this token", "CERTIFICATE_NOT_FOUND", nil)
		}

		log.Println("Certificate verification failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Certificate verification failed", "CERTIFICATE_VERIFICATION_FAILED", nil)
	}

	if result.Valid {
		middleware.ObserveCertificateVerification("valid")
	} else {
		middleware.ObserveCertificateVerification("invalid")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}
