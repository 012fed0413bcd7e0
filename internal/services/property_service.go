package services

import (
	"context"
	"time"

	"github.com/Matesfu/Mela-rent/internal/lifecycle"
	"github.com/Matesfu/Mela-rent/internal/models"
	"github.com/Matesfu/Mela-rent/internal/visibility"
)

const propertyNotFound = "no property matches the given id"

type PropertyService struct {
	Repo PropertyStore
	// RequirePayment enables payment gating of public reads.
	RequirePayment bool
	Now            func() time.Time
	Logger         Logger
}

func (s *PropertyService) CreateProperty(ctx context.Context, caller models.Caller, in models.PropertyInput) (models.Property, error) {
	if err := requireRole(caller, models.RoleOwner, "only owners can create listings"); err != nil {
		return models.Property{}, err
	}
	if err := in.Validate(false); err != nil {
		return models.Property{}, err
	}
	p, err := s.Repo.Create(ctx, in.NewProperty(caller.ID, clock(s.Now)))
	if err != nil {
		return models.Property{}, err
	}
	logger(s.Logger).Infof("property %d created by owner %d", p.ID, caller.ID)
	return p, nil
}

func (s *PropertyService) GetProperty(ctx context.Context, caller models.Caller, id int) (models.Property, error) {
	p, err := s.Repo.GetActive(ctx, id)
	if err != nil {
		return models.Property{}, notFound(err, propertyNotFound)
	}
	if err := visibility.CheckRead(caller, p, clock(s.Now), s.RequirePayment); err != nil {
		return models.Property{}, err
	}
	return p, nil
}

func (s *PropertyService) ListProperties(ctx context.Context, caller models.Caller, f models.PropertyFilter) (models.PropertyListResponse, error) {
	if err := f.Normalize(); err != nil {
		return models.PropertyListResponse{}, err
	}
	f.IsDeleted = nil
	scope := visibility.ScopeFor(caller, clock(s.Now), s.RequirePayment)
	props, total, err := s.Repo.List(ctx, scope, f)
	if err != nil {
		return models.PropertyListResponse{}, err
	}
	return models.PropertyListResponse{Count: total, Page: f.Page, Limit: f.Limit, Results: props}, nil
}

// UpdateProperty applies a partial update. Ownership, payment and deletion
// state are not writable through this path.
func (s *PropertyService) UpdateProperty(ctx context.Context, caller models.Caller, id int, in models.PropertyInput) (models.Property, error) {
	p, err := s.Repo.GetActive(ctx, id)
	if err != nil {
		return models.Property{}, notFound(err, propertyNotFound)
	}
	now := clock(s.Now)
	if err := visibility.CheckMutate(caller, p, now, s.RequirePayment); err != nil {
		return models.Property{}, err
	}
	if err := in.Validate(true); err != nil {
		return models.Property{}, err
	}
	if in.Empty() {
		return p, nil
	}
	updated, err := s.Repo.Update(ctx, id, in, now)
	if err != nil {
		return models.Property{}, notFound(err, propertyNotFound)
	}
	return updated, nil
}

// ArchiveProperty soft-deletes a listing. A concurrent archive that wins the
// race makes this one report not found.
func (s *PropertyService) ArchiveProperty(ctx context.Context, caller models.Caller, id int) error {
	p, err := s.Repo.GetActive(ctx, id)
	if err != nil {
		return notFound(err, propertyNotFound)
	}
	now := clock(s.Now)
	if err := visibility.CheckMutate(caller, p, now, s.RequirePayment); err != nil {
		return err
	}
	archived, err := lifecycle.Archive(p, now)
	if err != nil {
		return err
	}
	if err := s.Repo.Archive(ctx, archived); err != nil {
		return notFound(err, propertyNotFound)
	}
	logger(s.Logger).Infof("property %d archived by owner %d", id, caller.ID)
	return nil
}

// AdminListProperties lists every property, soft-deleted ones included.
func (s *PropertyService) AdminListProperties(ctx context.Context, caller models.Caller, f models.PropertyFilter) (models.AdminPropertyListResponse, error) {
	if err := requireRole(caller, models.RoleAdmin, "admin access required"); err != nil {
		return models.AdminPropertyListResponse{}, err
	}
	if err := f.Normalize(); err != nil {
		return models.AdminPropertyListResponse{}, err
	}
	props, total, err := s.Repo.List(ctx, visibility.AdminScope(), f)
	if err != nil {
		return models.AdminPropertyListResponse{}, err
	}
	results := make([]models.AdminProperty, 0, len(props))
	for _, p := range props {
		results = append(results, models.NewAdminProperty(p))
	}
	return models.AdminPropertyListResponse{Count: total, Page: f.Page, Limit: f.Limit, Results: results}, nil
}

// PurgeProperty physically deletes a property and, by cascade, its favorites
// and payment logs.
func (s *PropertyService) PurgeProperty(ctx context.Context, caller models.Caller, id int) error {
	if err := requireRole(caller, models.RoleAdmin, "admin access required"); err != nil {
		return err
	}
	if err := s.Repo.HardDelete(ctx, id); err != nil {
		return notFound(err, propertyNotFound)
	}
	logger(s.Logger).Infof("property %d purged by admin %d", id, caller.ID)
	return nil
}
