package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// EmployeeService manages the tracked staff registry.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	dispatcher events.Dispatcher
}

// NewEmployeeService builds the service.
func NewEmployeeService(employees repository.EmployeeRepository, dispatcher events.Dispatcher) *EmployeeService {
	return &EmployeeService{employees: employees, dispatcher: dispatcher}
}

// EmployeeCreateInput describes a new staff record.
type EmployeeCreateInput struct {
	FullName         string
	EmployeeID       string
	Department       string
	DutyStation      string
	Position         string
	EmploymentStatus string
}

// CreateEmployee registers a staff member.
func (s *EmployeeService) CreateEmployee(ctx context.Context, actorID string, input EmployeeCreateInput) (*domain.Employee, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.EmployeeID = strings.TrimSpace(input.EmployeeID)
	if input.FullName == "" || input.EmployeeID == "" {
		return nil, apperrors.NewValidationError("fullName and employeeId required", nil)
	}

	employee := &domain.Employee{
		FullName:         input.FullName,
		EmployeeID:       input.EmployeeID,
		Department:       input.Department,
		DutyStation:      input.DutyStation,
		Position:         input.Position,
		EmploymentStatus: input.EmploymentStatus,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventEmployeeCreated,
		ActorID: actorID,
		Payload: events.EmployeePayload{EmployeeID: employee.ID},
	})
	return employee, nil
}

// ListEmployees returns all staff records.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.employees.List(ctx)
}

// DeleteEmployee removes a staff record.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, actorID, id string) error {
	if err := s.employees.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type:    events.EventEmployeeDeleted,
		ActorID: actorID,
		Payload: events.EmployeePayload{EmployeeID: id},
	})
	return nil
}

func (s *EmployeeService) publish(ctx context.Context, event events.Event) {
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
