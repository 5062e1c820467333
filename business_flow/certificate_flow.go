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

// CertificateFlow handles certificate issuance, lifecycle and verification
type CertificateFlow interface {
	GenerateCertificate(ctx context.Context, actor *Identity, req *dto.GenerateCertificateRequest, metadata *ClientMetadata) (*dto.GenerateCertificateResponse, error)
	RegenerateCertificate(ctx context.Context, actor *Identity, certificateUUID uuid.UUID, metadata *ClientMetadata) (*dto.GenerateCertificateResponse, error)
	UpdateCertificate(ctx context.Context, actor *Identity, req *dto.UpdateCertificateRequest, metadata *ClientMetadata) (*dto.UpdateCertificateResponse, error)
	RevokeCertificate(ctx context.Context, actor *Identity, req *dto.RevokeCertificateRequest, metadata *ClientMetadata) (*dto.RevokeCertificateResponse, error)
	VerifyCertificate(ctx context.Context, token string) (*dto.VerifyCertificateResponse, error)
	GetCertificate(ctx context.Context, actor *Identity, certificateUUID uuid.UUID) (*dto.GetCertificateResponse, error)
	ListCertificates(ctx context.Context, actor *Identity, req *dto.ListCertificatesRequest) (*dto.ListCertificatesResponse, error)
}

// CertificateFlowImpl implements the certificate business flow
type CertificateFlowImpl struct {
	certificateRepo repository.CertificateRepository
	templateRepo    repository.CertificateTemplateRepository
	campaignRepo    repository.CampaignRepository
	userRepo        repository.UserRepository
	auditRepo       repository.AuditLogRepository
	notifier        services.NotificationService
	db              *gorm.DB
}

// NewCertificateFlow creates a new certificate flow instance
func NewCertificateFlow(
	certificateRepo repository.CertificateRepository,
	templateRepo repository.CertificateTemplateRepository,
	campaignRepo repository.CampaignRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	notifier services.NotificationService,
	db *gorm.DB,
) CertificateFlow {
	return &CertificateFlowImpl{
		certificateRepo: certificateRepo,
		templateRepo:    templateRepo,
		campaignRepo:    campaignRepo,
		userRepo:        userRepo,
		auditRepo:       auditRepo,
		notifier:        notifier,
		db:              db,
	}
}

// GenerateCertificate issues a certificate for a campaign recipient. At most
// one certificate exists per (campaign, recipient); a second call conflicts.
func (s *CertificateFlowImpl) GenerateCertificate(ctx context.Context, actor *Identity, req *dto.GenerateCertificateRequest, metadata *ClientMetadata) (*dto.GenerateCertificateResponse, error) {
	campaignUUID, err := uuid.Parse(req.CampaignUUID)
	if err != nil {
		return nil, NewBusinessError("CERTIFICATE_VALIDATION_FAILED", "Certificate validation failed", err)
	}
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		return nil, NewBusinessError("CERTIFICATE_VALIDATION_FAILED", "Certificate validation failed", err)
	}
	certType := models.CertificateType(req.Type)
	if !certType.Valid() {
		return nil, NewBusinessError("CERTIFICATE_VALIDATION_FAILED", "Certificate validation failed", ErrCertificateTypeInvalid)
	}

	campaign, err := getCampaign(ctx, s.campaignRepo, actor.TenantID, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}

	recipient, err := getUser(ctx, s.userRepo, actor.TenantID, recipientID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to lookup recipient", err)
	}

	existing, err := s.certificateRepo.ByCampaignAndRecipient(ctx, actor.TenantID, campaign.ID, recipientID)
	if err != nil {
		return nil, NewBusinessError("CERTIFICATE_LOOKUP_FAILED", "Failed to check existing certificate", err)
	}
	if existing != nil {
		return nil, NewBusinessError("CERTIFICATE_ALREADY_EXISTS", "Certificate already issued for this recipient", ErrCertificateAlreadyExists)
	}

	title := fmt.Sprintf("Certificate of %s", certType)
	if req.Title != nil && *req.Title != "" {
		title = *req.Title
	}

	certificate := &models.Certificate{
		TenantID:          actor.TenantID,
		Title:             title,
		Description:       req.Description,
		RecipientID:       recipient.ID,
		RecipientName:     recipient.Name,
		RecipientEmail:    recipient.Email,
		IssuerID:          actor.ID,
		IssuerName:        actor.Name,
		IssuedDate:        utils.UTCNow(),
		ExpiryDate:        req.ExpiryDate,
		VerificationToken: utils.NewVerificationToken(),
		Status:            models.CertificateStatusGenerated,
		Type:              certType,
		CampaignID:        &campaign.ID,
		MetaData:          models.JSONMap{},
	}
	if req.CustomMessage != nil {
		certificate.MetaData.Set(models.CertificateMetaCustomMessage, *req.CustomMessage)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		// Bind the tenant's default template for this type when one exists.
		template, err := s.templateRepo.DefaultByType(txCtx, actor.TenantID, certType)
		if err != nil {
			return err
		}
		if template != nil {
			certificate.TemplateID = &template.ID
		}

		return s.certificateRepo.Save(txCtx, certificate)
	})

	if err != nil {
		// Concurrent issuance resolves on the composite unique index.
		if repository.IsUniqueViolation(err) {
			err = ErrCertificateAlreadyExists
		}
		errMsg := fmt.Sprintf("Certificate generation failed: %s", err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionCertificateGenerated, errMsg, false, &errMsg, metadata)

		if IsCertificateAlreadyExists(err) {
			return nil, NewBusinessError("CERTIFICATE_ALREADY_EXISTS", "Certificate already issued for this recipient", err)
		}
		return nil, NewBusinessError("CERTIFICATE_GENERATION_FAILED", "Certificate generation failed", err)
	}

	msg := fmt.Sprintf("Certificate generated: %s", certificate.UUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionCertificateGenerated, msg, true, nil, metadata)

	if s.notifier != nil {
		go s.notifier.NotifyCertificateIssued(context.WithoutCancel(ctx), actor.TenantID, certificate.RecipientEmail, certificate.UUID.String())
	}

	return &dto.GenerateCertificateResponse{
		Message:           "Certificate generated successfully",
		UUID:              certificate.UUID.String(),
		VerificationToken: certificate.VerificationToken,
		Status:            certificate.Status.String(),
	}, nil
}

// RegenerateCertificate mints a fresh verification token for an existing
// certificate and restamps the issue date. The old token stops resolving.
func (s *CertificateFlowImpl) RegenerateCertificate(ctx context.Context, actor *Identity, certificateUUID uuid.UUID, metadata *ClientMetadata) (*dto.GenerateCertificateResponse, error) {
	var certificate *models.Certificate

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		certificate, err = getCertificate(txCtx, s.certificateRepo, actor.TenantID, certificateUUID)
		if err != nil {
			return err
		}
		if certificate.IsRevoked() {
			return ErrCertificateAlreadyRevoked
		}

		certificate.VerificationToken = utils.NewVerificationToken()
		certificate.IssuedDate = utils.UTCNow()
		certificate.VerificationCount = 0
		certificate.VerifiedAt = nil

		return s.certificateRepo.Update(txCtx, certificate)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Certificate regeneration failed: %s", err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionCertificateRegenerated, errMsg, false, &errMsg, metadata)

		if IsCertificateNotFound(err) {
			return nil, NewBusinessError("CERTIFICATE_NOT_FOUND", "Certificate not found", err)
		}
		if IsCertificateAlreadyRevoked(err) {
			return nil, NewBusinessError("CERTIFICATE_REVOKED", "Revoked certificates cannot be regenerated", err)
		}
		return nil, NewBusinessError("CERTIFICATE_REGENERATION_FAILED", "Certificate regeneration failed", err)
	}

	msg := fmt.Sprintf("Certificate regenerated: %s", certificate.UUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionCertificateRegenerated, msg, true, nil, metadata)

	return &dto.GenerateCertificateResponse{
		Message:           "Certificate regenerated successfully",
		UUID:              certificate.UUID.String(),
		VerificationToken: certificate.VerificationToken,
		Status:            certificate.Status.String(),
	}, nil
}

// UpdateCertificate edits certificate details. Status may move between
// Generated and Valid here; reaching Revoked requires the revoke operation.
func (s *CertificateFlowImpl) UpdateCertificate(ctx context.Context, actor *Identity, req *dto.UpdateCertificateRequest, metadata *ClientMetadata) (*dto.UpdateCertificateResponse, error) {
	certificateUUID, err := uuid.Parse(req.UUID)
	if err != nil {
		return nil, NewBusinessError("CERTIFICATE_LOOKUP_FAILED", "Invalid certificate identifier", err)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		certificate, err := getCertificate(txCtx, s.certificateRepo, actor.TenantID, certificateUUID)
		if err != nil {
			return err
		}
		if certificate.IsRevoked() {
			return ErrCertificateAlreadyRevoked
		}

		if req.Title != nil {
			certificate.Title = *req.Title
		}
		if req.Description != nil {
			certificate.Description = req.Description
		}
		if req.Status != nil {
			status := models.CertificateStatus(*req.Status)
			if status == models.CertificateStatusRevoked {
				return ErrRevokeViaUpdate
			}
			if !status.Valid() {
				return fmt.Errorf("unknown certificate status %q", *req.Status)
			}
			certificate.Status = status
		}
		if req.ExpiryDate != nil {
			certificate.ExpiryDate = utils.ToPtr(utils.TimeToUTC(*req.ExpiryDate))
		}
		if req.CustomMessage != nil {
			certificate.MetaData.Set(models.CertificateMetaCustomMessage, *req.CustomMessage)
		}
		if req.AdminNotes != nil {
			certificate.MetaData.Set(models.CertificateMetaAdminNotes, *req.AdminNotes)
		}

		return s.certificateRepo.Update(txCtx, certificate)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Certificate update failed: %s", err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionCertificateUpdated, errMsg, false, &errMsg, metadata)

		if IsCertificateNotFound(err) {
			return nil, NewBusinessError("CERTIFICATE_NOT_FOUND", "Certificate not found", err)
		}
		if IsCertificateAlreadyRevoked(err) || IsInvalidState(err) {
			return nil, NewBusinessError("CERTIFICATE_INVALID_STATE", "Certificate cannot be updated in its current status", err)
		}
		return nil, NewBusinessError("CERTIFICATE_UPDATE_FAILED", "Certificate update failed", err)
	}

	msg := fmt.Sprintf("Certificate updated: %s", certificateUUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionCertificateUpdated, msg, true, nil, metadata)

	return &dto.UpdateCertificateResponse{Message: "Certificate updated successfully"}, nil
}

// RevokeCertificate permanently invalidates a certificate. Revocation is
// terminal and idempotence is rejected: revoking twice is a conflict.
func (s *CertificateFlowImpl) RevokeCertificate(ctx context.Context, actor *Identity, req *dto.RevokeCertificateRequest, metadata *ClientMetadata) (*dto.RevokeCertificateResponse, error) {
	certificateUUID, err := uuid.Parse(req.UUID)
	if err != nil {
		return nil, NewBusinessError("CERTIFICATE_LOOKUP_FAILED", "Invalid certificate identifier", err)
	}

	var revokedAt *time.Time

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		certificate, err := getCertificate(txCtx, s.certificateRepo, actor.TenantID, certificateUUID)
		if err != nil {
			return err
		}
		if certificate.IsRevoked() {
			return ErrCertificateAlreadyRevoked
		}

		now := utils.UTCNow()
		certificate.Status = models.CertificateStatusRevoked
		certificate.RevokedAt = &now
		certificate.RevokedBy = &actor.ID
		certificate.RevokedReason = req.Reason
		if req.Reason != nil {
			certificate.MetaData.Set(models.CertificateMetaRevocationReason, *req.Reason)
		}
		revokedAt = &now

		return s.certificateRepo.Update(txCtx, certificate)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Certificate revocation failed: %s", err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionCertificateRevoked, errMsg, false, &errMsg, metadata)

		if IsCertificateNotFound(err) {
			return nil, NewBusinessError("CERTIFICATE_NOT_FOUND", "Certificate not found", err)
		}
		if IsCertificateAlreadyRevoked(err) {
			return nil, NewBusinessError("CERTIFICATE_ALREADY_REVOKED", "Certificate is already revoked", err)
		}
		return nil, NewBusinessError("CERTIFICATE_REVOCATION_FAILED", "Certificate revocation failed", err)
	}

	msg := fmt.Sprintf("Certificate revoked: %s", certificateUUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionCertificateRevoked, msg, true, nil, metadata)

	return &dto.RevokeCertificateResponse{
		Message:   "Certificate revoked successfully",
		RevokedAt: *revokedAt,
	}, nil
}

// VerifyCertificate resolves a verification token on the public surface. It
// is tenant-unscoped, counts every successful lookup, and reveals only what
// the certificate attests.
func (s *CertificateFlowImpl) VerifyCertificate(ctx context.Context, token string) (*dto.VerifyCertificateResponse, error) {
	if !utils.IsVerificationToken(token) {
		return nil, NewBusinessError("INVALID_VERIFICATION_TOKEN", "Invalid verification token", ErrInvalidVerificationToken)
	}

	certificate, err := s.certificateRepo.ByVerificationToken(ctx, token)
	if err != nil {
		return nil, NewBusinessError("CERTIFICATE_LOOKUP_FAILED", "Failed to lookup certificate", err)
	}
	if certificate == nil {
		return nil, NewBusinessError("INVALID_VERIFICATION_TOKEN", "Invalid verification token", ErrInvalidVerificationToken)
	}

	now := utils.UTCNow()
	if err := s.certificateRepo.IncrementVerification(ctx, certificate.ID, now); err != nil {
		return nil, NewBusinessError("CERTIFICATE_VERIFICATION_FAILED", "Certificate verification failed", err)
	}
	certificate.VerificationCount++
	certificate.VerifiedAt = &now

	resp := &dto.VerifyCertificateResponse{
		Title:             certificate.Title,
		RecipientName:     certificate.RecipientName,
		IssuerName:        certificate.IssuerName,
		IssuedDate:        &certificate.IssuedDate,
		ExpiryDate:        certificate.ExpiryDate,
		Type:              certificate.Type.String(),
		Status:            certificate.Status.String(),
		VerificationCount: certificate.VerificationCount,
	}

	switch {
	case certificate.IsRevoked():
		resp.Valid = false
		resp.Message = "Certificate has been revoked"
	case certificate.IsExpired():
		resp.Valid = false
		resp.Message = "Certificate has expired"
	default:
		resp.Valid = true
		resp.Message = "Certificate is valid"
	}

	return resp, nil
}

// GetCertificate retrieves a single certificate by public UUID
func (s *CertificateFlowImpl) GetCertificate(ctx context.Context, actor *Identity, certificateUUID uuid.UUID) (*dto.GetCertificateResponse, error) {
	certificate, err := getCertificate(ctx, s.certificateRepo, actor.TenantID, certificateUUID)
	if err != nil {
		return nil, NewBusinessError("CERTIFICATE_LOOKUP_FAILED", "Failed to lookup certificate", err)
	}

	resp := s.toCertificateResponse(ctx, actor.TenantID, certificate)
	return resp, nil
}

// ListCertificates retrieves certificates for the actor's tenant with pagination
func (s *CertificateFlowImpl) ListCertificates(ctx context.Context, actor *Identity, req *dto.ListCertificatesRequest) (*dto.ListCertificatesResponse, error) {
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

	filter := models.CertificateFilter{TenantID: &actor.TenantID}
	if req.Filter != nil {
		if req.Filter.RecipientID != nil {
			recipientID, err := uuid.Parse(*req.Filter.RecipientID)
			if err != nil {
				return nil, NewBusinessError("CERTIFICATE_VALIDATION_FAILED", "Certificate validation failed", err)
			}
			filter.RecipientID = &recipientID
		}
		if req.Filter.CampaignUUID != nil {
			campaignUUID, err := uuid.Parse(*req.Filter.CampaignUUID)
			if err != nil {
				return nil, NewBusinessError("CERTIFICATE_VALIDATION_FAILED", "Certificate validation failed", err)
			}
			campaign, err := getCampaign(ctx, s.campaignRepo, actor.TenantID, campaignUUID)
			if err != nil {
				return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
			}
			filter.CampaignID = &campaign.ID
		}
		if req.Filter.Status != nil {
			status := models.CertificateStatus(*req.Filter.Status)
			if !status.Valid() {
				return nil, NewBusinessError("CERTIFICATE_VALIDATION_FAILED", "Certificate validation failed", fmt.Errorf("unknown status %q", *req.Filter.Status))
			}
			filter.Status = &status
		}
		if req.Filter.Type != nil {
			certType := models.CertificateType(*req.Filter.Type)
			if !certType.Valid() {
				return nil, NewBusinessError("CERTIFICATE_VALIDATION_FAILED", "Certificate validation failed", ErrCertificateTypeInvalid)
			}
			filter.Type = &certType
		}
	}

	total, err := s.certificateRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CERTIFICATE_LIST_FAILED", "Failed to count certificates", err)
	}

	certificates, err := s.certificateRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("CERTIFICATE_LIST_FAILED", "Failed to list certificates", err)
	}

	items := make([]dto.GetCertificateResponse, 0, len(certificates))
	for _, certificate := range certificates {
		items = append(items, *s.toCertificateResponse(ctx, actor.TenantID, certificate))
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &dto.ListCertificatesResponse{
		Message:    "Certificates retrieved successfully",
		Items:      items,
		Pagination: dto.PaginationInfo{Total: total, Page: page, Limit: limit, TotalPages: totalPages},
	}, nil
}

func (s *CertificateFlowImpl) toCertificateResponse(ctx context.Context, tenantID uint, certificate *models.Certificate) *dto.GetCertificateResponse {
	resp := &dto.GetCertificateResponse{
		UUID:              certificate.UUID.String(),
		Title:             certificate.Title,
		Description:       certificate.Description,
		RecipientID:       certificate.RecipientID.String(),
		RecipientName:     certificate.RecipientName,
		IssuerName:        certificate.IssuerName,
		IssuedDate:        certificate.IssuedDate,
		ExpiryDate:        certificate.ExpiryDate,
		VerificationToken: certificate.VerificationToken,
		Status:            certificate.Status.String(),
		Type:              certificate.Type.String(),
		MetaData:          certificate.MetaData,
		VerificationCount: certificate.VerificationCount,
		RevokedAt:         certificate.RevokedAt,
		RevokedReason:     certificate.RevokedReason,
		CreatedAt:         certificate.CreatedAt,
	}
	if certificate.CampaignID != nil {
		if campaign, err := s.campaignRepo.ByID(ctx, *certificate.CampaignID); err == nil && campaign != nil && campaign.TenantID == tenantID {
			ref := campaign.UUID.String()
			resp.CampaignUUID = &ref
		}
	}
	return resp
}
