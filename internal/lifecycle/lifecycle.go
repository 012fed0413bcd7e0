// Package lifecycle holds the state transitions of a listing: unpaid -> paid
// (with an expiry) and active -> archived. Persistence is left to callers,
// which must apply each transition as one atomic unit.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/Matesfu/Mela-rent/internal/models"
)

var ErrInvalidTerms = errors.New("lifecycle: listing price and expiry days must be positive")

// Terms are the configured listing fee and the paid period it buys.
type Terms struct {
	Price      float64
	ExpiryDays int
}

func (t Terms) Validate() error {
	if t.Price <= 0 || t.ExpiryDays <= 0 {
		return ErrInvalidTerms
	}
	return nil
}

// Period returns the paid period as a duration.
func (t Terms) Period() time.Duration {
	return time.Duration(t.ExpiryDays) * 24 * time.Hour
}

// AuthorizePayment checks that caller may pay for p. The role check comes
// first so non-owners learn nothing about the listing.
func AuthorizePayment(caller models.Caller, p models.Property) error {
	if !caller.Authenticated {
		return fmt.Errorf("%w: authentication credentials were not provided", models.ErrUnauthenticated)
	}
	if caller.Role != models.RoleOwner {
		return fmt.Errorf("%w: only owners can pay for listings", models.ErrForbidden)
	}
	if p.IsDeleted {
		return fmt.Errorf("%w: property does not exist or has been deleted", models.ErrNotFound)
	}
	if p.OwnerID != caller.ID {
		return fmt.Errorf("%w: you do not own this property", models.ErrInvalidRequest)
	}
	return nil
}

// Payment is the result of a pay transition: the upgraded listing and the
// audit row that must be persisted together with it.
type Payment struct {
	Property models.Property
	Log      models.PaymentLog
}

// ApplyPayment marks p paid until now + terms.ExpiryDays. Paying again
// overwrites paid_until and yields another log row.
func ApplyPayment(caller models.Caller, p models.Property, terms Terms, now time.Time) (Payment, error) {
	if err := terms.Validate(); err != nil {
		return Payment{}, err
	}
	if err := AuthorizePayment(caller, p); err != nil {
		return Payment{}, err
	}
	paidUntil := now.Add(terms.Period())
	p.IsPaid = true
	p.PaidUntil = &paidUntil
	p.UpdatedAt = now
	return Payment{
		Property: p,
		Log: models.PaymentLog{
			PropertyID:  p.ID,
			OwnerID:     caller.ID,
			AmountPaid:  terms.Price,
			PaymentDate: now,
			Status:      models.PaymentSuccess,
		},
	}, nil
}

// Archive soft-deletes p. Archiving twice is reported as not found: the
// listing no longer exists for ordinary callers.
func Archive(p models.Property, now time.Time) (models.Property, error) {
	if p.IsDeleted {
		return p, fmt.Errorf("%w: no property matches the given id", models.ErrNotFound)
	}
	p.IsDeleted = true
	p.DeletedAt = &now
	p.UpdatedAt = now
	return p, nil
}
