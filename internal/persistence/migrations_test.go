package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeMigration(t *testing.T, dir, name, sql string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644))
}

func TestRunMigrations_AppliesSQLFilesInOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dir := t.TempDir()
	// Written out of order; lexical sorting decides execution order.
	writeMigration(t, dir, "002_employees.sql", "CREATE TABLE IF NOT EXISTS employees (id UUID)")
	writeMigration(t, dir, "001_users.sql", "CREATE TABLE IF NOT EXISTS users (id UUID)")
	writeMigration(t, dir, "README.md", "not a migration")

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users \(id UUID\)`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS employees \(id UUID\)`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	err = runMigrationsFrom(context.Background(), dir, mock, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_StopsOnFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dir := t.TempDir()
	writeMigration(t, dir, "001_bad.sql", "CREATE BOGUS")
	writeMigration(t, dir, "002_never_reached.sql", "CREATE TABLE t (id UUID)")

	mock.ExpectExec(`CREATE BOGUS`).WillReturnError(assert.AnError)

	err = runMigrationsFrom(context.Background(), dir, mock, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_bad.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_MissingDirectory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	err = runMigrationsFrom(context.Background(), filepath.Join(t.TempDir(), "absent"), mock, zap.NewNop())
	assert.Error(t, err)
}

func TestRunMigrations_NilPoolSkips(t *testing.T) {
	assert.NoError(t, runMigrationsFrom(context.Background(), "migrations", nil, zap.NewNop()))
}
