package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matesfu/Mela-rent/internal/lifecycle"
	"github.com/Matesfu/Mela-rent/internal/models"
)

func samplePayment(now time.Time) lifecycle.Payment {
	until := now.Add(30 * 24 * time.Hour)
	return lifecycle.Payment{
		Property: models.Property{ID: 5, OwnerID: 3, IsPaid: true, PaidUntil: &until, UpdatedAt: now},
		Log: models.PaymentLog{
			PropertyID: 5, OwnerID: 3, AmountPaid: 15, PaymentDate: now, Status: models.PaymentSuccess,
		},
	}
}

const lockQuery = "SELECT owner_id FROM properties WHERE id = ? AND is_deleted = 0 FOR UPDATE"

func TestRecordPaymentCommitsUpgradeAndLog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPaymentRepository(db)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	pay := samplePayment(now)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE properties SET is_paid = 1, paid_until = ?, updated_at = ? WHERE id = ?")).
		WithArgs(*pay.Property.PaidUntil, now, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO payment_logs").
		WithArgs(5, 3, 15.0, now, "SUCCESS").
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectCommit()

	log, err := repo.RecordPayment(context.Background(), pay)
	require.NoError(t, err)
	assert.Equal(t, 41, log.ID)
	assert.Equal(t, models.PaymentSuccess, log.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentRollsBackWhenArchived(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPaymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}))
	mock.ExpectRollback()

	_, err = repo.RecordPayment(context.Background(), samplePayment(time.Now()))
	assert.ErrorIs(t, err, models.ErrNoRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentRollsBackOnLogFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPaymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(3))
	mock.ExpectExec("UPDATE properties").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO payment_logs").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err = repo.RecordPayment(context.Background(), samplePayment(time.Now()))
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPaymentsByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPaymentRepository(db)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE owner_id = ?")).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "property_id", "owner_id", "amount_paid", "payment_date", "status"}).
			AddRow(2, 5, 3, 15.0, now, "SUCCESS").
			AddRow(1, 5, 3, 15.0, now.Add(-time.Hour), "SUCCESS"))

	logs, err := repo.ListByOwner(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, 2, logs[0].ID)
	assert.Equal(t, models.PaymentSuccess, logs[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
