package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCampaignStatusValid(t *testing.T) {
	valid := []CampaignStatus{
		CampaignStatusDraft,
		CampaignStatusActive,
		CampaignStatusPaused,
		CampaignStatusCompleted,
		CampaignStatusCancelled,
	}
	for _, s := range valid {
		assert.True(t, s.Valid(), "status %s should be valid", s)
	}

	assert.False(t, CampaignStatus("archived").Valid())
	assert.False(t, CampaignStatus("").Valid())
}

func TestCampaignStatusIsTerminal(t *testing.T) {
	assert.True(t, CampaignStatusCompleted.IsTerminal())
	assert.True(t, CampaignStatusCancelled.IsTerminal())

	assert.False(t, CampaignStatusDraft.IsTerminal())
	assert.False(t, CampaignStatusActive.IsTerminal())
	assert.False(t, CampaignStatusPaused.IsTerminal())
}

func TestCampaignTypeValid(t *testing.T) {
	valid := []CampaignType{
		CampaignTypePerformance,
		CampaignTypeTraining,
		CampaignTypeEvaluation,
		CampaignTypeDevelopment,
	}
	for _, ct := range valid {
		assert.True(t, ct.Valid(), "type %s should be valid", ct)
	}

	assert.False(t, CampaignType("survey").Valid())
	assert.False(t, CampaignType("").Valid())
}

func TestCampaignCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from CampaignStatus
		to   CampaignStatus
		want bool
	}{
		{"draft to active", CampaignStatusDraft, CampaignStatusActive, true},
		{"draft to cancelled", CampaignStatusDraft, CampaignStatusCancelled, true},
		{"draft to paused", CampaignStatusDraft, CampaignStatusPaused, false},
		{"draft to completed", CampaignStatusDraft, CampaignStatusCompleted, false},
		{"active to paused", CampaignStatusActive, CampaignStatusPaused, true},
		{"active to completed", CampaignStatusActive, CampaignStatusCompleted, true},
		{"active to cancelled", CampaignStatusActive, CampaignStatusCancelled, true},
		{"active to draft", CampaignStatusActive, CampaignStatusDraft, false},
		{"paused to active", CampaignStatusPaused, CampaignStatusActive, true},
		{"paused to cancelled", CampaignStatusPaused, CampaignStatusCancelled, true},
		{"paused to completed", CampaignStatusPaused, CampaignStatusCompleted, false},
		{"completed is terminal", CampaignStatusCompleted, CampaignStatusActive, false},
		{"completed cannot be cancelled", CampaignStatusCompleted, CampaignStatusCancelled, false},
		{"cancelled is terminal", CampaignStatusCancelled, CampaignStatusActive, false},
		{"cancelled cannot be completed", CampaignStatusCancelled, CampaignStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaign := &Campaign{Status: tt.from}
			assert.Equal(t, tt.want, campaign.CanTransitionTo(tt.to))
		})
	}
}

func TestCampaignTransitionHelpers(t *testing.T) {
	tests := []struct {
		status      CampaignStatus
		canStart    bool
		canComplete bool
		canCancel   bool
	}{
		{CampaignStatusDraft, true, false, true},
		{CampaignStatusActive, false, true, true},
		{CampaignStatusPaused, false, false, true},
		{CampaignStatusCompleted, false, false, false},
		{CampaignStatusCancelled, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			campaign := &Campaign{Status: tt.status}
			assert.Equal(t, tt.canStart, campaign.CanStart())
			assert.Equal(t, tt.canComplete, campaign.CanComplete())
			assert.Equal(t, tt.canCancel, campaign.CanCancel())
		})
	}
}

func TestCampaignGetStatusDisplayName(t *testing.T) {
	assert.Equal(t, "Draft", (&Campaign{Status: CampaignStatusDraft}).GetStatusDisplayName())
	assert.Equal(t, "Active", (&Campaign{Status: CampaignStatusActive}).GetStatusDisplayName())
	assert.Equal(t, "Paused", (&Campaign{Status: CampaignStatusPaused}).GetStatusDisplayName())
	assert.Equal(t, "Completed", (&Campaign{Status: CampaignStatusCompleted}).GetStatusDisplayName())
	assert.Equal(t, "Cancelled", (&Campaign{Status: CampaignStatusCancelled}).GetStatusDisplayName())
	assert.Equal(t, "Unknown", (&Campaign{Status: "bogus"}).GetStatusDisplayName())
}
