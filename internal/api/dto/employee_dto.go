package dto

import (
	"time"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// CreateEmployeeRequest payload.
type CreateEmployeeRequest struct {
	FullName         string `json:"fullName"`
	EmployeeID       string `json:"employeeId"`
	Department       string `json:"department"`
	DutyStation      string `json:"dutyStation"`
	Position         string `json:"position"`
	EmploymentStatus string `json:"employmentStatus"`
}

// EmployeeResponse is the public staff record shape.
type EmployeeResponse struct {
	ID               string    `json:"id"`
	FullName         string    `json:"fullName"`
	EmployeeID       string    `json:"employeeId"`
	Department       string    `json:"department"`
	DutyStation      string    `json:"dutyStation"`
	Position         string    `json:"position"`
	EmploymentStatus string    `json:"employmentStatus"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewEmployeeResponse maps a domain employee.
func NewEmployeeResponse(employee *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               employee.ID,
		FullName:         employee.FullName,
		EmployeeID:       employee.EmployeeID,
		Department:       employee.Department,
		DutyStation:      employee.DutyStation,
		Position:         employee.Position,
		EmploymentStatus: employee.EmploymentStatus,
		CreatedAt:        employee.CreatedAt,
	}
}
