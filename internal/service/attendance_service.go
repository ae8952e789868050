package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// csvHeader is the export column order. The report endpoint exposes the same
// fields under the same names.
var csvHeader = []string{"id", "employeeName", "employeeIdentifier", "department", "status", "date", "notes"}

// AttendanceService coordinates attendance recording and reporting.
type AttendanceService struct {
	attendance repository.AttendanceRepository
	employees  repository.EmployeeRepository
	dispatcher events.Dispatcher
}

// NewAttendanceService builds the service.
func NewAttendanceService(attendance repository.AttendanceRepository, employees repository.EmployeeRepository, dispatcher events.Dispatcher) *AttendanceService {
	return &AttendanceService{attendance: attendance, employees: employees, dispatcher: dispatcher}
}

// RecordInput describes an attendance submission.
type RecordInput struct {
	EmployeeID  string
	DaysMissed  int
	Consequence string
	Comments    *string
}

// Record stores one absence event. The referenced employee must exist and
// days missed must be non-negative. An explicit consequence is accepted
// as-is when recognized; an omitted one is derived from the days-missed band.
func (s *AttendanceService) Record(ctx context.Context, actorID string, input RecordInput) (*domain.Attendance, error) {
	if strings.TrimSpace(input.EmployeeID) == "" {
		return nil, apperrors.NewValidationError("employee_id is required", nil)
	}
	if input.DaysMissed < 0 {
		return nil, apperrors.NewValidationError("attendance_date must be a non-negative number", nil)
	}

	if _, err := s.employees.GetByID(ctx, input.EmployeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": input.EmployeeID})
		}
		return nil, err
	}

	consequence := domain.Consequence(input.Consequence)
	if input.Consequence == "" {
		consequence = domain.ConsequenceForDaysMissed(input.DaysMissed)
	} else if !consequence.Valid() {
		return nil, apperrors.NewValidationError("unknown consequence", map[string]any{"consequence": input.Consequence})
	}

	record := &domain.Attendance{
		EmployeeID:  input.EmployeeID,
		DaysMissed:  input.DaysMissed,
		Consequence: consequence,
		Comments:    input.Comments,
	}
	if err := s.attendance.Create(ctx, record); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventAttendanceRecorded,
		ActorID: actorID,
		Payload: events.AttendanceRecordedPayload{
			AttendanceID: record.ID,
			EmployeeID:   record.EmployeeID,
			DaysMissed:   record.DaysMissed,
			Consequence:  string(record.Consequence),
		},
	})
	return record, nil
}

// List returns all records joined with employee data, most recent first.
func (s *AttendanceService) List(ctx context.Context) ([]domain.Attendance, error) {
	return s.attendance.ListAll(ctx)
}

// Delete removes one record.
func (s *AttendanceService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.attendance.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventAttendanceDeleted,
		ActorID: actorID,
		Payload: events.AttendanceDeletedPayload{AttendanceID: id},
	})
	return nil
}

// ReportQuery carries pagination plus the shared filter.
type ReportQuery struct {
	Page   int
	Limit  int
	Filter repository.AttendanceFilter
}

// ReportRecord is one formatted report row. Missing joined employee data
// degrades to "N/A" placeholders instead of failing the row.
type ReportRecord struct {
	ID                 string             `json:"id"`
	EmployeeName       string             `json:"employeeName"`
	EmployeeIdentifier string             `json:"employeeIdentifier"`
	Department         string             `json:"department"`
	Date               time.Time          `json:"date"`
	Status             domain.Consequence `json:"status"`
	Notes              string             `json:"notes"`
}

// Report is the paginated report payload.
type Report struct {
	Records      []ReportRecord `json:"records"`
	TotalRecords int64          `json:"totalRecords"`
	TotalPages   int64          `json:"totalPages"`
}

// BuildReport runs the filtered, counted, joined report query. Offset is
// (page-1)*limit; rows are ordered by creation time descending; the total
// page count is ceil(count/limit).
func (s *AttendanceService) BuildReport(ctx context.Context, query ReportQuery) (*Report, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	rows, err := s.attendance.ListPage(ctx, query.Filter, limit, offset)
	if err != nil {
		return nil, err
	}
	count, err := s.attendance.CountWithFilter(ctx, query.Filter)
	if err != nil {
		return nil, err
	}

	records := make([]ReportRecord, 0, len(rows))
	for i := range rows {
		records = append(records, reportRecord(&rows[i]))
	}

	return &Report{
		Records:      records,
		TotalRecords: count,
		TotalPages:   (count + int64(limit) - 1) / int64(limit),
	}, nil
}

// ExportCSV streams every record matching the filter as CSV, one row at a
// time. Fields containing commas, quotes, or newlines are quoted with inner
// quotes doubled.
func (s *AttendanceService) ExportCSV(ctx context.Context, filter repository.AttendanceFilter, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	writer.Flush()

	err := s.attendance.ForEachWithFilter(ctx, filter, func(record *domain.Attendance) error {
		if err := writer.Write(csvRow(record)); err != nil {
			return err
		}
		writer.Flush()
		return writer.Error()
	})
	if err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

// ExportFilename names the CSV attachment for the given day.
func ExportFilename(now time.Time) string {
	return "attendance-export-" + now.Format("2006-01-02") + ".csv"
}

func reportRecord(record *domain.Attendance) ReportRecord {
	out := ReportRecord{
		ID:                 record.ID,
		EmployeeName:       "N/A",
		EmployeeIdentifier: "N/A",
		Department:         "N/A",
		Date:               record.CreatedAt,
		Status:             record.Consequence,
		Notes:              "—",
	}
	if record.Employee != nil {
		out.EmployeeName = record.Employee.FullName
		out.EmployeeIdentifier = record.Employee.EmployeeID
		out.Department = record.Employee.Department
	}
	if record.Comments != nil && *record.Comments != "" {
		out.Notes = *record.Comments
	}
	return out
}

func csvRow(record *domain.Attendance) []string {
	var name, identifier, department string
	if record.Employee != nil {
		name = record.Employee.FullName
		identifier = record.Employee.EmployeeID
		department = record.Employee.Department
	}
	notes := ""
	if record.Comments != nil {
		notes = strings.ReplaceAll(*record.Comments, "\n", " ")
	}
	return []string{
		record.ID,
		name,
		identifier,
		department,
		string(record.Consequence),
		record.CreatedAt.Format(time.RFC3339),
		notes,
	}
}

func (s *AttendanceService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
