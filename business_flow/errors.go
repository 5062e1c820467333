// Package businessflow contains the core business logic and use cases for
// campaign and certification workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Not-found errors. Tenant-mismatched lookups surface as these too, so
	// cross-tenant existence never leaks.
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrGroupNotFound       = errors.New("campaign group not found")
	ErrEvaluationNotFound  = errors.New("evaluation not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrTemplateNotFound    = errors.New("certificate template not found")
	ErrUserNotFound        = errors.New("user not found")

	// Invalid-state errors (guarded transitions)
	ErrOnlyDraftCanStart         = errors.New("only draft campaigns can be started")
	ErrOnlyActiveCanComplete     = errors.New("only active campaigns can be completed")
	ErrOnlyActiveCanPause        = errors.New("only active campaigns can be paused")
	ErrOnlyPausedCanResume       = errors.New("only paused campaigns can be resumed")
	ErrCampaignNotCancellable    = errors.New("campaign cannot be cancelled in its current status")
	ErrCampaignNotActive         = errors.New("campaign is not active")
	ErrCertificateAlreadyRevoked = errors.New("certificate is already revoked")
	ErrRevokeViaUpdate           = errors.New("revocation must go through the revoke operation")

	// Conflict errors (uniqueness violations)
	ErrCampaignTitleExists      = errors.New("a campaign with this title already exists")
	ErrDuplicateEvaluation      = errors.New("an evaluation for this user by this evaluator already exists in the campaign")
	ErrCertificateAlreadyExists = errors.New("a certificate for this campaign and recipient already exists")

	// Validation errors
	ErrCampaignTitleRequired   = errors.New("campaign title is required")
	ErrCampaignTypeInvalid     = errors.New("campaign type is invalid")
	ErrEndDateBeforeStartDate  = errors.New("end date must be after start date")
	ErrManagersRequired        = errors.New("at least one manager must be assigned")
	ErrTargetUsersRequired     = errors.New("at least one target user is required")
	ErrManagerNotFound         = errors.New("assigned manager does not resolve to an active user")
	ErrGroupNameRequired       = errors.New("group name is required")
	ErrTemplateNameRequired    = errors.New("template name is required")
	ErrTemplateBodyRequired    = errors.New("template body is required")
	ErrCertificateTypeInvalid  = errors.New("certificate type is invalid")
	ErrEvaluationPayloadEmpty  = errors.New("evaluation must carry role or claim assessments")

	// Verification errors
	ErrInvalidVerificationToken = errors.New("invalid verification token")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsGroupNotFound(err error) bool {
	return errors.Is(err, ErrGroupNotFound)
}

func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

func IsCertificateNotFound(err error) bool {
	return errors.Is(err, ErrCertificateNotFound)
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsInvalidState(err error) bool {
	return errors.Is(err, ErrOnlyDraftCanStart) ||
		errors.Is(err, ErrOnlyActiveCanComplete) ||
		errors.Is(err, ErrOnlyActiveCanPause) ||
		errors.Is(err, ErrOnlyPausedCanResume) ||
		errors.Is(err, ErrCampaignNotCancellable) ||
		errors.Is(err, ErrCampaignNotActive) ||
		errors.Is(err, ErrRevokeViaUpdate)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrCampaignTitleExists) ||
		errors.Is(err, ErrDuplicateEvaluation) ||
		errors.Is(err, ErrCertificateAlreadyExists) ||
		errors.Is(err, ErrCertificateAlreadyRevoked)
}

func IsDuplicateEvaluation(err error) bool {
	return errors.Is(err, ErrDuplicateEvaluation)
}

func IsCertificateAlreadyExists(err error) bool {
	return errors.Is(err, ErrCertificateAlreadyExists)
}

func IsCertificateAlreadyRevoked(err error) bool {
	return errors.Is(err, ErrCertificateAlreadyRevoked)
}

func IsInvalidVerificationToken(err error) bool {
	return errors.Is(err, ErrInvalidVerificationToken)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrCampaignTitleRequired) ||
		errors.Is(err, ErrCampaignTypeInvalid) ||
		errors.Is(err, ErrEndDateBeforeStartDate) ||
		errors.Is(err, ErrManagersRequired) ||
		errors.Is(err, ErrTargetUsersRequired) ||
		errors.Is(err, ErrGroupNameRequired) ||
		errors.Is(err, ErrTemplateNameRequired) ||
		errors.Is(err, ErrTemplateBodyRequired) ||
		errors.Is(err, ErrCertificateTypeInvalid) ||
		errors.Is(err, ErrEvaluationPayloadEmpty)
}

func IsManagerNotFound(err error) bool {
	return errors.Is(err, ErrManagerNotFound)
}

func IsCampaignTitleExists(err error) bool {
	return errors.Is(err, ErrCampaignTitleExists)
}
