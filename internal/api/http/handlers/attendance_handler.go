package handlers

import (
	"bufio"
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/dto"
	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
	"github.com/spec-kit/attendance-service/internal/service"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// AttendanceHandler exposes absence recording, reporting, and export.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendanceService}
}

// List handles GET /api/attendance.
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	records, err := h.attendance.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		out = append(out, dto.NewAttendanceResponse(&records[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create handles POST /api/attendance and the legacy
// POST /api/attendance/add-attendance/ path.
func (h *AttendanceHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.attendance.Record(c.UserContext(), principal.UserID(), service.RecordInput{
		EmployeeID:  req.EmployeeID,
		DaysMissed:  req.AttendanceDate,
		Consequence: req.Status,
		Comments:    req.Comments,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAttendanceResponse(record)})
}

// Delete handles DELETE /api/attendance/:id.
func (h *AttendanceHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.attendance.Delete(c.UserContext(), principal.UserID(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Report handles GET /api/attendance/report.
func (h *AttendanceHandler) Report(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	report, err := h.attendance.BuildReport(c.UserContext(), service.ReportQuery{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
		Filter: filter,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// Export handles GET /api/attendance/export, streaming the filtered rows
// as a CSV attachment. Rows go to the wire as they are produced; filter
// errors still surface as the usual JSON envelope because they are caught
// before the stream starts. The stream writer runs after this handler
// returns, so it gets a context detached from the request timeout.
func (h *AttendanceHandler) Export(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	ctx := context.WithoutCancel(c.UserContext())

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+service.ExportFilename(time.Now())+`"`)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		// A failure here truncates the stream; the status line is gone.
		_ = h.attendance.ExportCSV(ctx, filter, w)
		_ = w.Flush()
	})
	return nil
}

func parseFilter(c *fiber.Ctx) (repository.AttendanceFilter, error) {
	var filter repository.AttendanceFilter

	if status := c.Query("status"); status != "" {
		consequence := domain.Consequence(status)
		if !consequence.Valid() {
			return filter, apperrors.NewValidationError("unknown status", map[string]any{"status": status})
		}
		filter.Consequence = &consequence
	}
	if raw := c.Query("startDate"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid startDate", map[string]any{"startDate": raw})
		}
		filter.StartDate = &parsed
	}
	if raw := c.Query("endDate"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid endDate", map[string]any{"endDate": raw})
		}
		filter.EndDate = &parsed
	}
	if department := c.Query("department"); department != "" {
		filter.Department = &department
	}
	return filter, nil
}

func parseDate(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", raw)
}
