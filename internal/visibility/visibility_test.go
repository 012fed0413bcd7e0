package visibility

import (
	"errors"
	"testing"
	"time"

	"github.com/Matesfu/Mela-rent/internal/models"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time { return &t }

func fixtures() []models.Property {
	return []models.Property{
		{ID: 1, OwnerID: 10, Title: "unpaid"},
		{ID: 2, OwnerID: 10, Title: "paid", IsPaid: true, PaidUntil: at(now.Add(24 * time.Hour))},
		{ID: 3, OwnerID: 20, Title: "expired", IsPaid: true, PaidUntil: at(now.Add(-time.Hour))},
		{ID: 4, OwnerID: 20, Title: "boundary", IsPaid: true, PaidUntil: at(now)},
		{ID: 5, OwnerID: 10, Title: "deleted paid", IsPaid: true, PaidUntil: at(now.Add(time.Hour)), IsDeleted: true},
		{ID: 6, OwnerID: 20, Title: "other paid", IsPaid: true, PaidUntil: at(now.Add(time.Minute))},
	}
}

func ids(props []models.Property) []int {
	out := make([]int, 0, len(props))
	for _, p := range props {
		out = append(out, p.ID)
	}
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestVisibleSet(t *testing.T) {
	owner10 := models.Caller{ID: 10, Role: models.RoleOwner, Authenticated: true}
	tenant := models.Caller{ID: 30, Role: models.RoleTenant, Authenticated: true}

	cases := []struct {
		name   string
		caller models.Caller
		gating bool
		want   []int
	}{
		{"gating off anonymous", models.Anonymous(), false, []int{1, 2, 3, 4, 6}},
		{"gating off owner", owner10, false, []int{1, 2, 3, 4, 6}},
		{"gating on anonymous", models.Anonymous(), true, []int{2, 6}},
		{"gating on tenant", tenant, true, []int{2, 6}},
		{"gating on owner sees own unpaid", owner10, true, []int{1, 2, 6}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(VisibleSet(tc.caller, fixtures(), now, tc.gating))
			if !equalIDs(got, tc.want) {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
		})
	}
}

func TestCurrentlyValidBoundary(t *testing.T) {
	p := models.Property{IsPaid: true, PaidUntil: at(now)}
	if CurrentlyValid(p, now) {
		t.Fatal("paid_until equal to now must be treated as expired")
	}
	if !CurrentlyValid(p, now.Add(-time.Nanosecond)) {
		t.Fatal("expected listing to be valid just before paid_until")
	}
	if CurrentlyValid(models.Property{IsPaid: true}, now) {
		t.Fatal("paid listing without paid_until must not be valid")
	}
	if CurrentlyValid(models.Property{PaidUntil: at(now.Add(time.Hour))}, now) {
		t.Fatal("unpaid listing must not be valid")
	}
}

func TestOwnerSeesOwnExpiredListing(t *testing.T) {
	owner20 := models.Caller{ID: 20, Role: models.RoleOwner, Authenticated: true}
	got := ids(VisibleSet(owner20, fixtures(), now, true))
	want := []int{2, 3, 4, 6}
	if !equalIDs(got, want) {
		t.Fatalf("expected %v got %v", want, got)
	}
}

func TestDeletedNeverVisible(t *testing.T) {
	deleted := fixtures()[4]
	callers := []models.Caller{
		models.Anonymous(),
		{ID: 10, Role: models.RoleOwner, Authenticated: true},
		{ID: 1, Role: models.RoleAdmin, Authenticated: true},
	}
	for _, c := range callers {
		for _, gating := range []bool{true, false} {
			if Visible(c, deleted, now, gating) {
				t.Fatalf("deleted listing visible to %+v (gating=%v)", c, gating)
			}
		}
	}
}

func TestCheckMutate(t *testing.T) {
	props := fixtures()
	other := models.Caller{ID: 99, Role: models.RoleOwner, Authenticated: true}
	owner := models.Caller{ID: 10, Role: models.RoleOwner, Authenticated: true}

	cases := []struct {
		name   string
		caller models.Caller
		prop   models.Property
		gating bool
		want   error
	}{
		{"owner on unpaid", owner, props[0], true, nil},
		{"stranger on hidden unpaid", other, props[0], true, models.ErrNotFound},
		{"stranger on visible paid", other, props[1], true, models.ErrForbidden},
		{"stranger on unpaid without gating", other, props[0], false, models.ErrForbidden},
		{"owner on deleted", owner, props[4], true, models.ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckMutate(tc.caller, tc.prop, now, tc.gating)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v got %v", tc.want, err)
			}
		})
	}
}

func TestScopeAgreesWithVisible(t *testing.T) {
	callers := []models.Caller{
		models.Anonymous(),
		{ID: 10, Role: models.RoleOwner, Authenticated: true},
		{ID: 20, Role: models.RoleOwner, Authenticated: true},
		{ID: 30, Role: models.RoleTenant, Authenticated: true},
	}
	for _, c := range callers {
		for _, gating := range []bool{true, false} {
			scope := ScopeFor(c, now, gating)
			for _, p := range fixtures() {
				if scope.Admits(p) != Visible(c, p, now, gating) {
					t.Fatalf("scope and policy disagree for caller %+v property %d gating=%v", c, p.ID, gating)
				}
			}
		}
	}
}

func TestAdminScopeIncludesDeleted(t *testing.T) {
	scope := AdminScope()
	for _, p := range fixtures() {
		if !scope.Admits(p) {
			t.Fatalf("admin scope rejected property %d", p.ID)
		}
	}
}
