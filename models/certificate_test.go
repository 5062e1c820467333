package models

import (
	"testing"
	"time"

	"github.com/evalforge/workforce-suite/utils"
	"github.com/stretchr/testify/assert"
)

func TestCertificateStatusValid(t *testing.T) {
	valid := []CertificateStatus{
		CertificateStatusGenerated,
		CertificateStatusValid,
		CertificateStatusRevoked,
	}
	for _, s := range valid {
		assert.True(t, s.Valid(), "status %s should be valid", s)
	}

	assert.False(t, CertificateStatus("expired").Valid())
	assert.False(t, CertificateStatus("").Valid())
}

func TestCertificateStatusIsActive(t *testing.T) {
	assert.True(t, CertificateStatusGenerated.IsActive())
	assert.True(t, CertificateStatusValid.IsActive())
	assert.False(t, CertificateStatusRevoked.IsActive())
}

func TestCertificateTypeValid(t *testing.T) {
	valid := []CertificateType{
		CertificateTypeCompletion,
		CertificateTypeAchievement,
		CertificateTypeExcellence,
		CertificateTypeParticipation,
	}
	for _, ct := range valid {
		assert.True(t, ct.Valid(), "type %s should be valid", ct)
	}

	assert.False(t, CertificateType("honor").Valid())
	assert.False(t, CertificateType("").Valid())
}

func TestCertificateIsRevoked(t *testing.T) {
	assert.False(t, (&Certificate{Status: CertificateStatusGenerated}).IsRevoked())
	assert.False(t, (&Certificate{Status: CertificateStatusValid}).IsRevoked())
	assert.True(t, (&Certificate{Status: CertificateStatusRevoked}).IsRevoked())
}

func TestCertificateIsExpired(t *testing.T) {
	past := utils.UTCNow().Add(-time.Hour)
	future := utils.UTCNow().Add(time.Hour)

	tests := []struct {
		name       string
		expiryDate *time.Time
		want       bool
	}{
		{"no expiry never expires", nil, false},
		{"past expiry", &past, true},
		{"future expiry", &future, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cert := &Certificate{ExpiryDate: tt.expiryDate}
			assert.Equal(t, tt.want, cert.IsExpired())
		})
	}
}
