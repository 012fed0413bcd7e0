package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Matesfu/Mela-rent/internal/lifecycle"
	"github.com/Matesfu/Mela-rent/internal/models"
)

// PaymentService runs the mock listing payment. No money moves: a successful
// call marks the listing paid and appends an audit row.
type PaymentService struct {
	Properties PropertyStore
	Payments   PaymentStore
	Terms      lifecycle.Terms
	Now        func() time.Time
	Logger     Logger
}

func (s *PaymentService) Pay(ctx context.Context, caller models.Caller, propertyID int) (models.PayResponse, error) {
	// Role first: a tenant gets 403 whether or not the listing exists.
	if err := lifecycle.AuthorizePayment(caller, models.Property{OwnerID: caller.ID}); err != nil {
		return models.PayResponse{}, err
	}
	if propertyID <= 0 {
		return models.PayResponse{}, fmt.Errorf("%w: property_id is required", models.ErrInvalidRequest)
	}

	p, err := s.Properties.GetActive(ctx, propertyID)
	if err != nil {
		return models.PayResponse{}, notFound(err, "property does not exist or has been deleted")
	}

	pay, err := lifecycle.ApplyPayment(caller, p, s.Terms, clock(s.Now))
	if err != nil {
		return models.PayResponse{}, err
	}
	log, err := s.Payments.RecordPayment(ctx, pay)
	if err != nil {
		logger(s.Logger).Errorf("payment for property %d failed: %v", propertyID, err)
		return models.PayResponse{}, notFound(err, "property does not exist or has been deleted")
	}
	logger(s.Logger).Infof("payment %d: owner %d paid %.2f for property %d until %s",
		log.ID, caller.ID, log.AmountPaid, propertyID, pay.Property.PaidUntil.Format(time.RFC3339))

	return models.PayResponse{
		Message:    fmt.Sprintf("Payment successful. Listing is active for %d days.", s.Terms.ExpiryDays),
		Amount:     log.AmountPaid,
		PropertyID: propertyID,
		IsPaid:     true,
		PaidUntil:  pay.Property.PaidUntil,
	}, nil
}

// ListPayments returns the caller's own payment history, newest first.
func (s *PaymentService) ListPayments(ctx context.Context, caller models.Caller) ([]models.PaymentLog, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	return s.Payments.ListByOwner(ctx, caller.ID)
}

// PropertyPayments returns the audit trail of one property for operators.
func (s *PaymentService) PropertyPayments(ctx context.Context, propertyID int) ([]models.PaymentLog, error) {
	return s.Payments.ListByProperty(ctx, propertyID)
}
