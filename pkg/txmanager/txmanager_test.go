package txmanager_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/metrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SalonScheduler/pkg/txmanager"
)

const lockQuery = "SELECT pg_advisory_xact_lock(1970606311951302665)"

func newManager(t *testing.T) (*txmanager.TransactionManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return simpletxmanager.NewTransactionManager(db), mock
}

func lockProvider(ctx context.Context) error {
	_, err := dbmetrics.GetExecutor(ctx, nil).ExecContext(ctx, lockQuery)
	return err
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockQuery)).WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockQuery)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return lockProvider(ctx)
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestDoSerializable_RetriesExhausted(t *testing.T) {
	m, mock := newManager(t)
	m.WithMaxRetries(1)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(lockQuery)).WillReturnError(&pq.Error{Code: "40P01"})
		mock.ExpectRollback()
	}

	err := m.DoSerializable(context.Background(), lockProvider)
	assert.ErrorIs(t, err, txmanager.ErrRetriesExhausted)
}

func TestDoSerializable_DoesNotRetryBusinessErrors(t *testing.T) {
	m, mock := newManager(t)
	errConflict := errors.New("slot taken")

	mock.ExpectBegin()
	mock.ExpectRollback()

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return errConflict
	})

	assert.ErrorIs(t, err, errConflict)
	assert.Equal(t, 1, attempts)
}

func TestDo_NestedCallReusesTransaction(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockQuery)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return m.DoSerializable(ctx, lockProvider)
	})
	require.NoError(t, err)
}

func TestDo_WithMetricsWrapper(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := txmanager.NewTransactionManager(dbmetrics.Wrap(db, metrics.New("txtest")))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockQuery)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, m.Do(context.Background(), lockProvider))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, txmanager.IsRetryable(&pq.Error{Code: "40001"}))
	assert.True(t, txmanager.IsRetryable(errors.Join(errors.New("wrapped"), &pq.Error{Code: "40P01"})))
	assert.False(t, txmanager.IsRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, txmanager.IsRetryable(errors.New("plain")))
}
