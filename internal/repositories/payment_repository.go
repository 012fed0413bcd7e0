package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Matesfu/Mela-rent/internal/lifecycle"
	"github.com/Matesfu/Mela-rent/internal/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// RecordPayment persists a pay transition: the listing upgrade and its log row
// commit together or not at all. The row lock serializes concurrent payments
// and archives of the same listing.
func (r *PaymentRepository) RecordPayment(ctx context.Context, pay lifecycle.Payment) (models.PaymentLog, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.PaymentLog{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var ownerID int
	err = tx.QueryRowContext(ctx,
		`SELECT owner_id FROM properties WHERE id = ? AND is_deleted = 0 FOR UPDATE`,
		pay.Property.ID,
	).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		err = models.ErrNoRecord
		return models.PaymentLog{}, err
	}
	if err != nil {
		return models.PaymentLog{}, err
	}
	if ownerID != pay.Log.OwnerID {
		err = fmt.Errorf("%w: you do not own this property", models.ErrInvalidRequest)
		return models.PaymentLog{}, err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE properties SET is_paid = 1, paid_until = ?, updated_at = ? WHERE id = ?`,
		pay.Property.PaidUntil.UTC(), pay.Property.UpdatedAt.UTC(), pay.Property.ID,
	); err != nil {
		return models.PaymentLog{}, err
	}

	log := pay.Log
	result, err := tx.ExecContext(ctx,
		`INSERT INTO payment_logs (property_id, owner_id, amount_paid, payment_date, status) VALUES (?, ?, ?, ?, ?)`,
		log.PropertyID, log.OwnerID, log.AmountPaid, log.PaymentDate.UTC(), string(log.Status),
	)
	if err != nil {
		return models.PaymentLog{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.PaymentLog{}, err
	}
	log.ID = int(id)

	if err = tx.Commit(); err != nil {
		return models.PaymentLog{}, err
	}
	return log, nil
}

func (r *PaymentRepository) ListByOwner(ctx context.Context, ownerID int) ([]models.PaymentLog, error) {
	query := `
		SELECT id, property_id, owner_id, amount_paid, payment_date, status
		FROM payment_logs
		WHERE owner_id = ?
		ORDER BY payment_date DESC, id DESC
	`
	return r.query(ctx, query, ownerID)
}

func (r *PaymentRepository) ListByProperty(ctx context.Context, propertyID int) ([]models.PaymentLog, error) {
	query := `
		SELECT id, property_id, owner_id, amount_paid, payment_date, status
		FROM payment_logs
		WHERE property_id = ?
		ORDER BY payment_date DESC, id DESC
	`
	return r.query(ctx, query, propertyID)
}

func (r *PaymentRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.PaymentLog, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.PaymentLog{}
	for rows.Next() {
		var (
			l      models.PaymentLog
			status string
		)
		if err := rows.Scan(&l.ID, &l.PropertyID, &l.OwnerID, &l.AmountPaid, &l.PaymentDate, &status); err != nil {
			return nil, err
		}
		l.Status = models.PaymentStatus(status)
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("payment logs rows error: %w", err)
	}
	return logs, nil
}
