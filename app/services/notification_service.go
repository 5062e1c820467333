// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// NotificationService delivers workflow notifications to interested users.
// Flows call it fire-and-forget; failures are logged, never surfaced.
type NotificationService interface {
	NotifyCampaignCompleted(ctx context.Context, tenantID uint, campaignUUID, campaignTitle string)
	NotifyCertificateIssued(ctx context.Context, tenantID uint, recipientEmail, certificateUUID string)
}

// EmailProvider interface for email sending
type EmailProvider interface {
	SendEmail(ctx context.Context, email, subject, message string) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	emailProvider EmailProvider
	senderAddress string
}

// NewNotificationService creates a new notification service
func NewNotificationService(emailProvider EmailProvider, senderAddress string) NotificationService {
	return &NotificationServiceImpl{
		emailProvider: emailProvider,
		senderAddress: senderAddress,
	}
}

// NotifyCampaignCompleted announces the completion of a campaign
func (s *NotificationServiceImpl) NotifyCampaignCompleted(ctx context.Context, tenantID uint, campaignUUID, campaignTitle string) {
	subject := "Campaign completed"
	message := fmt.Sprintf("Campaign %q (%s) has been completed.", campaignTitle, campaignUUID)

	if err := s.send(ctx, s.senderAddress, subject, message); err != nil {
		log.Printf("notification: campaign completed (tenant=%d campaign=%s): %v", tenantID, campaignUUID, err)
	}
}

// NotifyCertificateIssued informs a recipient that a certificate was issued
func (s *NotificationServiceImpl) NotifyCertificateIssued(ctx context.Context, tenantID uint, recipientEmail, certificateUUID string) {
	subject := "Certificate issued"
	message := fmt.Sprintf("A certificate (%s) has been issued to you.", certificateUUID)

	if err := s.send(ctx, recipientEmail, subject, message); err != nil {
		log.Printf("notification: certificate issued (tenant=%d certificate=%s): %v", tenantID, certificateUUID, err)
	}
}

func (s *NotificationServiceImpl) send(ctx context.Context, email, subject, message string) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}

	// Basic email validation
	if len(email) == 0 || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %s", email)
	}

	return s.emailProvider.SendEmail(ctx, email, subject, message)
}

type MockEmailProvider struct{}

func NewMockEmailProvider() EmailProvider {
	return &MockEmailProvider{}
}

func (p *MockEmailProvider) SendEmail(ctx context.Context, email, subject, message string) error {
	log.Printf("Email sent to %s: %s - %s", email, subject, message)
	return nil
}
