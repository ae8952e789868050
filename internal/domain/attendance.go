package domain

import "time"

// Consequence classifies the severity of an attendance infraction.
type Consequence string

const (
	ConsequenceRegular         Consequence = "regular"
	ConsequenceSalaryDeduction Consequence = "salary_deduction"
	ConsequenceSuspension      Consequence = "suspension"
	ConsequenceDismissal       Consequence = "dismissal"
)

// Valid reports whether the consequence is one of the recognized values.
func (c Consequence) Valid() bool {
	switch c {
	case ConsequenceRegular, ConsequenceSalaryDeduction, ConsequenceSuspension, ConsequenceDismissal:
		return true
	}
	return false
}

// ConsequenceForDaysMissed maps missed days onto the disciplinary bands:
// 0..2 regular, 3..5 salary deduction, 6..10 suspension, above 10 dismissal.
func ConsequenceForDaysMissed(days int) Consequence {
	switch {
	case days <= 2:
		return ConsequenceRegular
	case days <= 5:
		return ConsequenceSalaryDeduction
	case days <= 10:
		return ConsequenceSuspension
	default:
		return ConsequenceDismissal
	}
}

// Attendance is one absence/infraction event. Records are append-only:
// created on submission, immutable thereafter except delete.
type Attendance struct {
	ID          string
	EmployeeID  string
	DaysMissed  int
	Consequence Consequence
	Comments    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Employee is populated on joined reads and nil when the referenced
	// employee row is gone.
	Employee *Employee
}
