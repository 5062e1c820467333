package services

import (
	"fmt"
	"sort"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/xuri/excelize/v2"
)

// ReportService renders dashboard aggregates into downloadable reports
type ReportService interface {
	ExportStatisticsXLSX(stats *dto.StatisticsResponse) ([]byte, error)
}

// ReportServiceImpl implements ReportService
type ReportServiceImpl struct{}

// NewReportService creates a new report service
func NewReportService() ReportService {
	return &ReportServiceImpl{}
}

// ExportStatisticsXLSX renders the statistics aggregate as an Excel workbook
// with a summary sheet, per-status and per-type breakdowns, and the recent
// activity feed.
func (s *ReportServiceImpl) ExportStatisticsXLSX(stats *dto.StatisticsResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, fmt.Errorf("failed to prepare summary sheet: %w", err)
	}

	rows := [][]any{
		{"Generated At", stats.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
		{"Total Campaigns", stats.TotalCampaigns},
		{"Most Active Campaign Type", stats.MostActiveCampaignType},
		{"Total Evaluations", stats.TotalEvaluations},
		{"Completed Evaluations", stats.CompletedEvaluations},
		{"Completion Percentage", stats.CompletionPercentage},
		{"Avg Completion Days", stats.AvgCompletionDays},
		{"Total Certificates", stats.TotalCertificates},
		{"Active Certificates", stats.ActiveCertificates},
		{"Revoked Certificates", stats.RevokedCertificates},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summary, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if err := writeBreakdownSheet(f, "Campaigns by Status", stats.CampaignsByStatus); err != nil {
		return nil, err
	}
	if err := writeBreakdownSheet(f, "Campaigns by Type", stats.CampaignsByType); err != nil {
		return nil, err
	}

	const activity = "Recent Activity"
	if _, err := f.NewSheet(activity); err != nil {
		return nil, fmt.Errorf("failed to create activity sheet: %w", err)
	}
	header := []any{"Kind", "Title", "Reference", "Occurred At"}
	if err := f.SetSheetRow(activity, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write activity header: %w", err)
	}
	for i, item := range stats.RecentActivity {
		row := []any{item.Kind, item.Title, item.Reference, item.OccurredAt.Format("2006-01-02 15:04:05 UTC")}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(activity, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write activity row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeBreakdownSheet(f *excelize.File, name string, counts map[string]int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	header := []any{"Bucket", "Count"}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header on %q: %w", name, err)
	}
	for i, k := range keys {
		row := []any{k, counts[k]}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row on %q: %w", name, err)
		}
	}
	return nil
}
