package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/evalforge/workforce-suite/app/dto"
	"github.com/evalforge/workforce-suite/app/services"
	businessflow "github.com/evalforge/workforce-suite/business_flow"
	"github.com/evalforge/workforce-suite/utils"
	"github.com/gofiber/fiber/v3"
)

// StatisticsHandlerInterface defines the contract for statistics handlers
type StatisticsHandlerInterface interface {
	GetStatistics(c fiber.Ctx) error
	ExportStatistics(c fiber.Ctx) error
}

// StatisticsHandler handles dashboard statistics HTTP requests
type StatisticsHandler struct {
	statisticsFlow businessflow.StatisticsFlow
	reportService  services.ReportService
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(statisticsFlow businessflow.StatisticsFlow, reportService services.ReportService) *StatisticsHandler {
	return &StatisticsHandler{
		statisticsFlow: statisticsFlow,
		reportService:  reportService,
	}
}

func (h *StatisticsHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *StatisticsHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GetStatistics returns the tenant dashboard aggregate
// @Summary Get Statistics
// @Description Retrieve tenant-wide campaign, evaluation, and certificate statistics, optionally windowed by creation date. Served from cache when fresh and unwindowed.
// @Tags Statistics
// @Produce json
// @Param from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Window end, exclusive (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.StatisticsResponse}
// @Failure 400 {object} dto.APIResponse "Invalid date window"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/statistics [get]
func (h *StatisticsHandler) GetStatistics(c fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	from, to, err := parseStatisticsWindow(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid date window", "INVALID_DATE_WINDOW", err.Error())
	}

	result, err := h.statisticsFlow.GetStatistics(createRequestContext(c, "/api/v1/statistics"), actor, from, to)
	if err != nil {
		log.Println("Get statistics failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get statistics", "GET_STATISTICS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// parseStatisticsWindow reads the optional from/to query parameters. Values
// accept RFC3339 timestamps or bare dates.
func parseStatisticsWindow(c fiber.Ctx) (*time.Time, *time.Time, error) {
	parse := func(name string) (*time.Time, error) {
		raw := c.Query(name)
		if raw == "" {
			return nil, nil
		}
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			utc := ts.UTC()
			return &utc, nil
		}
		ts, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q", name, raw)
		}
		return &ts, nil
	}

	from, err := parse("from")
	if err != nil {
		return nil, nil, err
	}
	to, err := parse("to")
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// ExportStatistics downloads the dashboard aggregate as an Excel workbook
// @Summary Export Statistics
// @Description Download tenant-wide statistics as an XLSX workbook
// @Tags Statistics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Window end, exclusive (RFC3339 or YYYY-MM-DD)"
// @Success 200 {file} binary "XLSX workbook"
// @Failure 400 {object} dto.APIResponse "Invalid date window"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/statistics/export [get]
func (h *StatisticsHandler) ExportStatistics(c fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Actor not found in context", "MISSING_ACTOR", nil)
	}

	from, to, err := parseStatisticsWindow(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid date window", "INVALID_DATE_WINDOW", err.Error())
	}

	stats, err := h.statisticsFlow.GetStatistics(createRequestContext(c, "/api/v1/statistics/export"), actor, from, to)
	if err != nil {
		log.Println("Statistics export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export statistics", "EXPORT_STATISTICS_FAILED", nil)
	}

	workbook, err := h.reportService.ExportStatisticsXLSX(stats)
	if err != nil {
		log.Println("Statistics workbook rendering failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to render statistics workbook", "EXPORT_STATISTICS_FAILED", nil)
	}

	filename := fmt.Sprintf("statistics-%s.xlsx", utils.UTCNow().Format("2006-01-02"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(workbook)
}
