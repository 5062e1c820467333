package businessflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/evalforge/workforce-suite/models"
	"github.com/evalforge/workforce-suite/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateFlow handles certificate template business logic
type TemplateFlow interface {
	CreateTemplate(ctx context.Context, actor *Identity, req *dto.CreateTemplateRequest, metadata *ClientMetadata) (*dto.CreateTemplateResponse, error)
	UpdateTemplate(ctx context.Context, actor *Identity, req *dto.UpdateTemplateRequest, metadata *ClientMetadata) (*dto.UpdateTemplateResponse, error)
	ListTemplates(ctx context.Context, actor *Identity) (*dto.ListTemplatesResponse, error)
	SetDefaultTemplate(ctx context.Context, actor *Identity, templateUUID uuid.UUID, metadata *ClientMetadata) (*dto.SetDefaultTemplateResponse, error)
}

// TemplateFlowImpl implements the certificate template business flow
type TemplateFlowImpl struct {
	templateRepo repository.CertificateTemplateRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

// NewTemplateFlow creates a new template flow instance
func NewTemplateFlow(
	templateRepo repository.CertificateTemplateRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) TemplateFlow {
	return &TemplateFlowImpl{
		templateRepo: templateRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// CreateTemplate creates a certificate template. When the template is marked
// default, any previous default for the same (tenant, type) is demoted in the
// same transaction.
func (s *TemplateFlowImpl) CreateTemplate(ctx context.Context, actor *Identity, req *dto.CreateTemplateRequest, metadata *ClientMetadata) (*dto.CreateTemplateResponse, error) {
	if req.Name == "" {
		return nil, NewBusinessError("TEMPLATE_VALIDATION_FAILED", "Template validation failed", ErrTemplateNameRequired)
	}
	if req.Body == "" {
		return nil, NewBusinessError("TEMPLATE_VALIDATION_FAILED", "Template validation failed", ErrTemplateBodyRequired)
	}
	certType := models.CertificateType(req.Type)
	if !certType.Valid() {
		return nil, NewBusinessError("TEMPLATE_VALIDATION_FAILED", "Template validation failed", ErrCertificateTypeInvalid)
	}

	template := &models.CertificateTemplate{
		TenantID:  actor.TenantID,
		Name:      req.Name,
		Body:      req.Body,
		Variables: models.JSONMap(req.Variables),
		Styles:    models.JSONMap(req.Styles),
		Type:      certType,
		IsDefault: req.IsDefault,
		IsActive:  true,
	}

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if req.IsDefault {
			if err := s.templateRepo.ClearDefault(txCtx, actor.TenantID, certType); err != nil {
				return err
			}
		}
		return s.templateRepo.Save(txCtx, template)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Template creation failed: %s", err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionTemplateCreated, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("TEMPLATE_CREATION_FAILED", "Template creation failed", err)
	}

	msg := fmt.Sprintf("Template created: %s", template.UUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionTemplateCreated, msg, true, nil, metadata)

	return &dto.CreateTemplateResponse{
		Message: "Template created successfully",
		UUID:    template.UUID.String(),
	}, nil
}

// UpdateTemplate edits template content and activation
func (s *TemplateFlowImpl) UpdateTemplate(ctx context.Context, actor *Identity, req *dto.UpdateTemplateRequest, metadata *ClientMetadata) (*dto.UpdateTemplateResponse, error) {
	templateUUID, err := uuid.Parse(req.UUID)
	if err != nil {
		return nil, NewBusinessError("TEMPLATE_LOOKUP_FAILED", "Invalid template identifier", err)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		template, err := s.findTemplate(txCtx, actor.TenantID, templateUUID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			if *req.Name == "" {
				return ErrTemplateNameRequired
			}
			template.Name = *req.Name
		}
		if req.Body != nil {
			if *req.Body == "" {
				return ErrTemplateBodyRequired
			}
			template.Body = *req.Body
		}
		if req.Variables != nil {
			template.Variables = models.JSONMap(req.Variables)
		}
		if req.Styles != nil {
			template.Styles = models.JSONMap(req.Styles)
		}
		if req.IsActive != nil {
			template.IsActive = *req.IsActive
			// A deactivated template cannot stay the default.
			if !template.IsActive {
				template.IsDefault = false
			}
		}

		return s.templateRepo.Update(txCtx, template)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Template update failed: %s", err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionTemplateUpdated, errMsg, false, &errMsg, metadata)

		if errors.Is(err, ErrTemplateNotFound) {
			return nil, NewBusinessError("TEMPLATE_NOT_FOUND", "Template not found", err)
		}
		return nil, NewBusinessError("TEMPLATE_UPDATE_FAILED", "Template update failed", err)
	}

	msg := fmt.Sprintf("Template updated: %s", templateUUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionTemplateUpdated, msg, true, nil, metadata)

	return &dto.UpdateTemplateResponse{Message: "Template updated successfully"}, nil
}

// ListTemplates returns all templates of the actor's tenant
func (s *TemplateFlowImpl) ListTemplates(ctx context.Context, actor *Identity) (*dto.ListTemplatesResponse, error) {
	templates, err := s.templateRepo.ByFilter(ctx, models.CertificateTemplateFilter{
		TenantID: &actor.TenantID,
	}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("TEMPLATE_LIST_FAILED", "Failed to list templates", err)
	}

	items := make([]dto.GetTemplateResponse, 0, len(templates))
	for _, template := range templates {
		items = append(items, dto.GetTemplateResponse{
			UUID:      template.UUID.String(),
			Name:      template.Name,
			Body:      template.Body,
			Type:      template.Type.String(),
			Variables: template.Variables,
			Styles:    template.Styles,
			IsDefault: template.IsDefault,
			IsActive:  template.IsActive,
			CreatedAt: template.CreatedAt,
			UpdatedAt: template.UpdatedAt,
		})
	}

	return &dto.ListTemplatesResponse{
		Message: "Templates retrieved successfully",
		Items:   items,
	}, nil
}

// SetDefaultTemplate promotes a template to the default for its (tenant,
// type), demoting the previous default inside the same transaction.
func (s *TemplateFlowImpl) SetDefaultTemplate(ctx context.Context, actor *Identity, templateUUID uuid.UUID, metadata *ClientMetadata) (*dto.SetDefaultTemplateResponse, error) {
	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		template, err := s.findTemplate(txCtx, actor.TenantID, templateUUID)
		if err != nil {
			return err
		}
		if !template.IsActive {
			return fmt.Errorf("inactive template cannot be made default")
		}

		if err := s.templateRepo.ClearDefault(txCtx, actor.TenantID, template.Type); err != nil {
			return err
		}

		template.IsDefault = true
		return s.templateRepo.Update(txCtx, template)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Default template change failed: %s", err.Error())
		_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionTemplateDefaultSet, errMsg, false, &errMsg, metadata)

		if errors.Is(err, ErrTemplateNotFound) {
			return nil, NewBusinessError("TEMPLATE_NOT_FOUND", "Template not found", err)
		}
		return nil, NewBusinessError("TEMPLATE_DEFAULT_FAILED", "Default template change failed", err)
	}

	msg := fmt.Sprintf("Default template set: %s", templateUUID.String())
	_ = writeAuditLog(ctx, s.auditRepo, actor, models.AuditActionTemplateDefaultSet, msg, true, nil, metadata)

	return &dto.SetDefaultTemplateResponse{Message: "Default template set successfully"}, nil
}

func (s *TemplateFlowImpl) findTemplate(ctx context.Context, tenantID uint, templateUUID uuid.UUID) (*models.CertificateTemplate, error) {
	templates, err := s.templateRepo.ByFilter(ctx, models.CertificateTemplateFilter{
		TenantID: &tenantID,
		UUID:     &templateUUID,
	}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, ErrTemplateNotFound
	}
	return templates[0], nil
}
