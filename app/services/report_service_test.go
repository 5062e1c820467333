package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportStatisticsXLSX(t *testing.T) {
	service := NewReportService()

	stats := &dto.StatisticsResponse{
		GeneratedAt:            time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		TotalCampaigns:         3,
		CampaignsByStatus:      map[string]int{"active": 2, "draft": 1},
		CampaignsByType:        map[string]int{"training": 2, "performance": 1},
		MostActiveCampaignType: "training",
		TotalEvaluations:       4,
		CompletedEvaluations:   1,
		CompletionPercentage:   25,
		AvgCompletionDays:      7.5,
		TotalCertificates:      2,
		ActiveCertificates:     1,
		RevokedCertificates:    1,
		RecentActivity: []dto.ActivityFeedItem{
			{
				Kind:       "campaign",
				Title:      "Onboarding Drive",
				Reference:  "7b3e0c1a-0000-0000-0000-000000000001",
				OccurredAt: time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC),
			},
		},
	}

	raw, err := service.ExportStatisticsXLSX(stats)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	workbook, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer workbook.Close()

	assert.ElementsMatch(t,
		[]string{"Summary", "Campaigns by Status", "Campaigns by Type", "Recent Activity"},
		workbook.GetSheetList())

	label, err := workbook.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Total Campaigns", label)
	total, err := workbook.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", total)

	// Breakdown rows are sorted by bucket name
	bucket, err := workbook.GetCellValue("Campaigns by Status", "A2")
	require.NoError(t, err)
	assert.Equal(t, "active", bucket)

	kind, err := workbook.GetCellValue("Recent Activity", "A2")
	require.NoError(t, err)
	assert.Equal(t, "campaign", kind)
}

func TestExportStatisticsXLSXEmpty(t *testing.T) {
	service := NewReportService()

	raw, err := service.ExportStatisticsXLSX(&dto.StatisticsResponse{})
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}
