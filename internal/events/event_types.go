package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAttendanceRecorded EventType = "attendance_recorded"
	EventAttendanceDeleted  EventType = "attendance_deleted"
	EventEmployeeCreated    EventType = "employee_created"
	EventEmployeeDeleted    EventType = "employee_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AttendanceRecordedPayload payload.
type AttendanceRecordedPayload struct {
	AttendanceID string `json:"attendance_id"`
	EmployeeID   string `json:"employee_id"`
	DaysMissed   int    `json:"days_missed"`
	Consequence  string `json:"consequence"`
}

// AttendanceDeletedPayload payload.
type AttendanceDeletedPayload struct {
	AttendanceID string `json:"attendance_id"`
}

// EmployeePayload payload for employee lifecycle events.
type EmployeePayload struct {
	EmployeeID string `json:"employee_id"`
}
