package domain

import "time"

// Employee is a tracked staff member. Created and deleted by admin CRUD;
// attendance records reference it by foreign key.
type Employee struct {
	ID               string
	FullName         string
	EmployeeID       string
	Department       string
	DutyStation      string
	Position         string
	EmploymentStatus string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
