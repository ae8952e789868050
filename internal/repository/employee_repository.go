package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// EmployeeRepository handles persistence for tracked staff members.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	Count(ctx context.Context) (int64, error)
}

type employeeRepository struct {
	db Querier
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(db Querier) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, full_name, employee_id, department, duty_station, position, employment_status, created_at, updated_at`

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (full_name, employee_id, department, duty_station, position, employment_status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		employee.FullName,
		employee.EmployeeID,
		employee.Department,
		employee.DutyStation,
		employee.Position,
		employee.EmploymentStatus,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	var employee domain.Employee
	if err := r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id=$1`, id).Scan(
		&employee.ID,
		&employee.FullName,
		&employee.EmployeeID,
		&employee.Department,
		&employee.DutyStation,
		&employee.Position,
		&employee.EmploymentStatus,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY full_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.FullName,
			&employee.EmployeeID,
			&employee.Department,
			&employee.DutyStation,
			&employee.Position,
			&employee.EmploymentStatus,
			&employee.CreatedAt,
			&employee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, employee)
	}
	return result, rows.Err()
}

func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
