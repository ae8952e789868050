package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/attendance-service/internal/domain"
)

func newUserMock(t *testing.T) (pgxmock.PgxPoolIface, UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "password_hash", "role", "is_active",
		"last_login", "password_changed_at", "password_reset_token", "password_reset_expires",
		"created_at", "updated_at",
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock, repo := newUserMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)SELECT .+ FROM users WHERE email=\$1`).
		WithArgs("jane@csa.gov.lr").
		WillReturnRows(userRows().AddRow(
			"user-1", "Jane", "Doe", "jane@csa.gov.lr", "hash", domain.RoleManager, true,
			nil, nil, nil, nil, now, now,
		))

	user, err := repo.GetByEmail(context.Background(), "jane@csa.gov.lr")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, domain.RoleManager, user.Role)
	assert.True(t, user.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_ReturnsGeneratedID(t *testing.T) {
	mock, repo := newUserMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("Jane", "Doe", "jane@csa.gov.lr", "hash", domain.RoleEmployee, true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("user-1", now, now))

	user := &domain.User{
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@csa.gov.lr",
		PasswordHash: "hash",
		Role:         domain.RoleEmployee,
		IsActive:     true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, "user-1", user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	mock, repo := newUserMock(t)

	mock.ExpectExec(`(?s)UPDATE users SET .+ WHERE id=\$6`).
		WithArgs("Jane", "Doe", "jane@csa.gov.lr", domain.RoleEmployee, true, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &domain.User{
		ID:        "missing",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@csa.gov.lr",
		Role:      domain.RoleEmployee,
		IsActive:  true,
	})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetResetToken(t *testing.T) {
	mock, repo := newUserMock(t)
	token := "hashed-token"
	expires := time.Now().Add(10 * time.Minute)

	mock.ExpectExec(`(?s)UPDATE users SET password_reset_token=\$1, password_reset_expires=\$2.+WHERE id=\$3`).
		WithArgs(&token, &expires, "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetResetToken(context.Background(), "user-1", &token, &expires))
	assert.NoError(t, mock.ExpectationsWereMet())
}
