package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
)

func zapNop() *zap.Logger { return zap.NewNop() }

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.nextID++
	user.ID = "user-" + strconv.Itoa(f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	stored, ok := f.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.Email = user.Email
	stored.Role = user.Role
	stored.IsActive = user.IsActive
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByResetToken(_ context.Context, hashedToken string) (*domain.User, error) {
	for _, user := range f.users {
		if user.PasswordResetToken != nil && *user.PasswordResetToken == hashedToken &&
			user.PasswordResetExpires != nil && user.PasswordResetExpires.After(time.Now()) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	ids := make([]string, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.users[id])
	}
	return out, nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) SetPassword(_ context.Context, id, passwordHash string, changedAt time.Time) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	user.PasswordChangedAt = &changedAt
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	return nil
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, id string, hashedToken *string, expires *time.Time) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordResetToken = hashedToken
	user.PasswordResetExpires = expires
	return nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id string, active bool) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsActive = active
	return nil
}

type fakeEmployeeRepo struct {
	employees map[string]*domain.Employee
	nextID    int
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: map[string]*domain.Employee{}}
}

func (f *fakeEmployeeRepo) Create(_ context.Context, employee *domain.Employee) error {
	f.nextID++
	employee.ID = "emp-" + strconv.Itoa(f.nextID)
	employee.CreatedAt = time.Now()
	employee.UpdatedAt = employee.CreatedAt
	clone := *employee
	f.employees[employee.ID] = &clone
	return nil
}

func (f *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.employees[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.employees, id)
	return nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	employee, ok := f.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *employee
	return &clone, nil
}

func (f *fakeEmployeeRepo) List(_ context.Context) ([]domain.Employee, error) {
	out := make([]domain.Employee, 0, len(f.employees))
	for _, employee := range f.employees {
		out = append(out, *employee)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakeEmployeeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.employees)), nil
}

type fakeAttendanceRepo struct {
	records   []domain.Attendance
	employees *fakeEmployeeRepo
	nextID    int
}

func newFakeAttendanceRepo(employees *fakeEmployeeRepo) *fakeAttendanceRepo {
	return &fakeAttendanceRepo{employees: employees}
}

func (f *fakeAttendanceRepo) Create(_ context.Context, record *domain.Attendance) error {
	f.nextID++
	record.ID = "att-" + strconv.Itoa(f.nextID)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.UpdatedAt = record.CreatedAt
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeAttendanceRepo) Delete(_ context.Context, id string) error {
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

// matching mirrors the shared SQL filter: created_at bounds inclusive,
// consequence and department exact.
func (f *fakeAttendanceRepo) matching(filter repository.AttendanceFilter) []domain.Attendance {
	var out []domain.Attendance
	for _, record := range f.records {
		if filter.Consequence != nil && record.Consequence != *filter.Consequence {
			continue
		}
		if filter.StartDate != nil && record.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && record.CreatedAt.After(*filter.EndDate) {
			continue
		}
		joined := record
		if f.employees != nil {
			if employee, err := f.employees.GetByID(context.Background(), record.EmployeeID); err == nil {
				joined.Employee = employee
			}
		}
		if filter.Department != nil && (joined.Employee == nil || joined.Employee.Department != *filter.Department) {
			continue
		}
		out = append(out, joined)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeAttendanceRepo) ListAll(_ context.Context) ([]domain.Attendance, error) {
	return f.matching(repository.AttendanceFilter{}), nil
}

func (f *fakeAttendanceRepo) ListPage(_ context.Context, filter repository.AttendanceFilter, limit, offset int) ([]domain.Attendance, error) {
	all := f.matching(filter)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeAttendanceRepo) CountWithFilter(_ context.Context, filter repository.AttendanceFilter) (int64, error) {
	return int64(len(f.matching(filter))), nil
}

func (f *fakeAttendanceRepo) ForEachWithFilter(_ context.Context, filter repository.AttendanceFilter, fn func(*domain.Attendance) error) error {
	for _, record := range f.matching(filter) {
		record := record
		if err := fn(&record); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAttendanceRepo) CountByConsequence(_ context.Context) ([]repository.ConsequenceCount, error) {
	counts := map[domain.Consequence]int64{}
	for _, record := range f.records {
		counts[record.Consequence]++
	}
	var out []repository.ConsequenceCount
	for consequence, count := range counts {
		out = append(out, repository.ConsequenceCount{Consequence: consequence, Count: count})
	}
	return out, nil
}

func (f *fakeAttendanceRepo) CountSince(_ context.Context, since time.Time) (int64, error) {
	var count int64
	for _, record := range f.records {
		if !record.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
