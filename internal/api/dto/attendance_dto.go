package dto

import (
	"time"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// CreateAttendanceRequest payload. attendance_date carries the days-missed
// count; status may override the derived consequence band.
type CreateAttendanceRequest struct {
	EmployeeID     string  `json:"employee_id"`
	AttendanceDate int     `json:"attendance_date"`
	Status         string  `json:"status"`
	Comments       *string `json:"comments"`
}

// AttendanceResponse is the public absence record shape.
type AttendanceResponse struct {
	ID          string             `json:"id"`
	EmployeeID  string             `json:"employeeId"`
	DaysMissed  int                `json:"daysMissed"`
	Consequence domain.Consequence `json:"consequence"`
	Comments    *string            `json:"comments"`
	CreatedAt   time.Time          `json:"createdAt"`
	Employee    *EmployeeResponse  `json:"employee,omitempty"`
}

// NewAttendanceResponse maps a domain record, carrying joined employee data
// when present.
func NewAttendanceResponse(record *domain.Attendance) AttendanceResponse {
	out := AttendanceResponse{
		ID:          record.ID,
		EmployeeID:  record.EmployeeID,
		DaysMissed:  record.DaysMissed,
		Consequence: record.Consequence,
		Comments:    record.Comments,
		CreatedAt:   record.CreatedAt,
	}
	if record.Employee != nil {
		employee := NewEmployeeResponse(record.Employee)
		out.Employee = &employee
	}
	return out
}
