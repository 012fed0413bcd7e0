// Package visibility decides which listings a caller may read and mutate.
// Everything here is a pure function of its inputs: the caller, the listings,
// the clock and the payment-gating flag.
package visibility

import (
	"fmt"
	"time"

	"github.com/Matesfu/Mela-rent/internal/models"
)

// CurrentlyValid reports whether a listing's payment is active at now.
// A listing whose paid_until equals now has already expired.
func CurrentlyValid(p models.Property, now time.Time) bool {
	return p.IsPaid && p.PaidUntil != nil && p.PaidUntil.After(now)
}

// Visible reports whether caller may read p.
func Visible(caller models.Caller, p models.Property, now time.Time, gating bool) bool {
	if p.IsDeleted {
		return false
	}
	if !gating {
		return true
	}
	if CurrentlyValid(p, now) {
		return true
	}
	return caller.Owns(p.OwnerID)
}

// VisibleSet returns the subset of props caller may read, preserving order.
func VisibleSet(caller models.Caller, props []models.Property, now time.Time, gating bool) []models.Property {
	out := make([]models.Property, 0, len(props))
	for _, p := range props {
		if Visible(caller, p, now, gating) {
			out = append(out, p)
		}
	}
	return out
}

// CheckRead returns ErrNotFound when p is outside caller's visible set, so
// gated listings do not leak their existence.
func CheckRead(caller models.Caller, p models.Property, now time.Time, gating bool) error {
	if !Visible(caller, p, now, gating) {
		return fmt.Errorf("%w: no property matches the given id", models.ErrNotFound)
	}
	return nil
}

// CheckMutate distinguishes "doesn't exist for you" (ErrNotFound) from
// "exists but you can't touch it" (ErrForbidden).
func CheckMutate(caller models.Caller, p models.Property, now time.Time, gating bool) error {
	if err := CheckRead(caller, p, now, gating); err != nil {
		return err
	}
	if !caller.Authenticated {
		return fmt.Errorf("%w: authentication credentials were not provided", models.ErrUnauthenticated)
	}
	if !caller.Owns(p.OwnerID) {
		return fmt.Errorf("%w: you do not have permission to modify this property", models.ErrForbidden)
	}
	return nil
}

// Scope is the storage-level form of the policy. Repositories translate it
// into a WHERE clause so list queries return exactly VisibleSet.
type Scope struct {
	IncludeDeleted bool
	RequireValid   bool
	ValidAt        time.Time
	// OrOwnerID, when non-zero, admits the owner's listings regardless of payment.
	OrOwnerID int
}

// ScopeFor builds the read scope for caller.
func ScopeFor(caller models.Caller, now time.Time, gating bool) Scope {
	if !gating {
		return Scope{}
	}
	s := Scope{RequireValid: true, ValidAt: now}
	if caller.Authenticated {
		s.OrOwnerID = caller.ID
	}
	return s
}

// AdminScope sees every row, soft-deleted ones included.
func AdminScope() Scope {
	return Scope{IncludeDeleted: true}
}

// Admits evaluates the scope against a single listing. It must agree with
// Visible for scopes built by ScopeFor.
func (s Scope) Admits(p models.Property) bool {
	if p.IsDeleted && !s.IncludeDeleted {
		return false
	}
	if !s.RequireValid {
		return true
	}
	if CurrentlyValid(p, s.ValidAt) {
		return true
	}
	return s.OrOwnerID != 0 && p.OwnerID == s.OrOwnerID
}
