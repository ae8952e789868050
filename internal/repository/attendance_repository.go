package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// AttendanceFilter captures report search parameters. The paginated report
// and the CSV export share it so identical filters produce identical row sets.
type AttendanceFilter struct {
	Consequence *domain.Consequence
	StartDate   *time.Time
	EndDate     *time.Time
	Department  *string
}

// ConsequenceCount is one dashboard aggregation bucket.
type ConsequenceCount struct {
	Consequence domain.Consequence
	Count       int64
}

// AttendanceRepository encapsulates attendance persistence.
type AttendanceRepository interface {
	Create(ctx context.Context, record *domain.Attendance) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]domain.Attendance, error)
	ListPage(ctx context.Context, filter AttendanceFilter, limit, offset int) ([]domain.Attendance, error)
	CountWithFilter(ctx context.Context, filter AttendanceFilter) (int64, error)
	ForEachWithFilter(ctx context.Context, filter AttendanceFilter, fn func(*domain.Attendance) error) error
	CountByConsequence(ctx context.Context) ([]ConsequenceCount, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type attendanceRepository struct {
	db Querier
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(db Querier) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, record *domain.Attendance) error {
	const query = `
        INSERT INTO attendance (employee_id, days_missed, consequence, comments)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		record.EmployeeID,
		record.DaysMissed,
		record.Consequence,
		record.Comments,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM attendance WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const joinedColumns = `a.id, a.employee_id, a.days_missed, a.consequence, a.comments, a.created_at, a.updated_at,
               e.id, e.full_name, e.employee_id, e.department, e.duty_station, e.position, e.employment_status`

const joinedBase = `SELECT ` + joinedColumns + `
        FROM attendance a
        LEFT JOIN employees e ON e.id = a.employee_id`

// buildFilter renders WHERE clauses for the shared filter. Date bounds are
// inclusive on both ends.
func buildFilter(filter AttendanceFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Consequence != nil {
		args = append(args, *filter.Consequence)
		clauses = append(clauses, fmt.Sprintf("a.consequence=$%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		clauses = append(clauses, fmt.Sprintf("a.created_at >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		clauses = append(clauses, fmt.Sprintf("a.created_at <= $%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("e.department=$%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

func (r *attendanceRepository) ListAll(ctx context.Context) ([]domain.Attendance, error) {
	rows, err := r.db.Query(ctx, joinedBase+` ORDER BY a.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttendance(rows)
}

func (r *attendanceRepository) ListPage(ctx context.Context, filter AttendanceFilter, limit, offset int) ([]domain.Attendance, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	where, args := buildFilter(filter)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY a.created_at DESC LIMIT %d OFFSET %d`,
		joinedBase, where, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttendance(rows)
}

// CountWithFilter counts matching records. DISTINCT on the attendance id
// keeps the count join-safe.
func (r *attendanceRepository) CountWithFilter(ctx context.Context, filter AttendanceFilter) (int64, error) {
	where, args := buildFilter(filter)
	query := fmt.Sprintf(`SELECT COUNT(DISTINCT a.id)
        FROM attendance a
        LEFT JOIN employees e ON e.id = a.employee_id WHERE %s`, where)

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ForEachWithFilter walks every matching record in creation-time descending
// order, invoking fn per row without buffering the full result set.
func (r *attendanceRepository) ForEachWithFilter(ctx context.Context, filter AttendanceFilter, fn func(*domain.Attendance) error) error {
	where, args := buildFilter(filter)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY a.created_at DESC`, joinedBase, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		record, err := scanAttendanceRow(rows)
		if err != nil {
			return err
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *attendanceRepository) CountByConsequence(ctx context.Context) ([]ConsequenceCount, error) {
	const query = `
        SELECT consequence, COUNT(id)
        FROM attendance
        GROUP BY consequence`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ConsequenceCount
	for rows.Next() {
		var bucket ConsequenceCount
		if err := rows.Scan(&bucket.Consequence, &bucket.Count); err != nil {
			return nil, err
		}
		result = append(result, bucket)
	}
	return result, rows.Err()
}

func (r *attendanceRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM attendance WHERE created_at >= $1`, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanAttendance(rows pgx.Rows) ([]domain.Attendance, error) {
	var result []domain.Attendance
	for rows.Next() {
		record, err := scanAttendanceRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *record)
	}
	return result, rows.Err()
}

func scanAttendanceRow(rows pgx.Rows) (*domain.Attendance, error) {
	var (
		record           domain.Attendance
		employeeRowID    *string
		fullName         *string
		employeeID       *string
		department       *string
		dutyStation      *string
		position         *string
		employmentStatus *string
	)
	if err := rows.Scan(
		&record.ID,
		&record.EmployeeID,
		&record.DaysMissed,
		&record.Consequence,
		&record.Comments,
		&record.CreatedAt,
		&record.UpdatedAt,
		&employeeRowID,
		&fullName,
		&employeeID,
		&department,
		&dutyStation,
		&position,
		&employmentStatus,
	); err != nil {
		return nil, err
	}

	if employeeRowID != nil {
		record.Employee = &domain.Employee{
			ID:               *employeeRowID,
			FullName:         deref(fullName),
			EmployeeID:       deref(employeeID),
			Department:       deref(department),
			DutyStation:      deref(dutyStation),
			Position:         deref(position),
			EmploymentStatus: deref(employmentStatus),
		}
	}
	return &record, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
