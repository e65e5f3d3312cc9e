package migration

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxcheck/internal/errors"
)

func TestRunCreatesSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS compliance_runs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ADD COLUMN IF NOT EXISTS catalog_fingerprint").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_compliance_runs_created_at").WillReturnResult(sqlmock.NewResult(0, 0))

	runner := NewRunner()
	require.NoError(t, runner.Run(context.Background(), sqlx.NewDb(db, "sqlmock")))
	assert.Equal(t, "1.1.0", runner.Version())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStopsOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS compliance_runs").WillReturnError(stderrors.New("permission denied"))

	err = NewRunner().Run(context.Background(), sqlx.NewDb(db, "sqlmock"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeDatabaseError, errors.GetCode(err))
	assert.Contains(t, err.Error(), "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}
