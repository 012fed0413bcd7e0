package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Matesfu/Mela-rent/internal/models"
)

type FavoriteService struct {
	Repo       FavoriteStore
	Properties PropertyStore
	Now        func() time.Time
	Logger     Logger
}

// AddFavorite records that the caller favorited a property. Owners cannot
// favorite their own listings and archived listings cannot be favorited.
// Payment gating does not apply. The pair is unique; a repeat is a conflict.
func (s *FavoriteService) AddFavorite(ctx context.Context, caller models.Caller, propertyID int) (models.Favorite, error) {
	if err := requireAuthenticated(caller); err != nil {
		return models.Favorite{}, err
	}
	if propertyID <= 0 {
		return models.Favorite{}, fmt.Errorf("%w: property is required", models.ErrInvalidRequest)
	}
	p, err := s.Properties.GetByID(ctx, propertyID)
	if errors.Is(err, models.ErrNoRecord) {
		return models.Favorite{}, fmt.Errorf("%w: property does not exist", models.ErrInvalidRequest)
	}
	if err != nil {
		return models.Favorite{}, err
	}
	if caller.Role == models.RoleOwner && caller.Owns(p.OwnerID) {
		return models.Favorite{}, fmt.Errorf("%w: owners cannot favorite their own properties", models.ErrInvalidRequest)
	}
	if p.IsDeleted {
		return models.Favorite{}, fmt.Errorf("%w: this property is no longer available", models.ErrInvalidRequest)
	}
	fav, err := s.Repo.Create(ctx, models.Favorite{
		UserID:     caller.ID,
		PropertyID: propertyID,
		CreatedAt:  clock(s.Now),
	})
	if err != nil {
		return models.Favorite{}, err
	}
	return fav, nil
}

func (s *FavoriteService) ListFavorites(ctx context.Context, caller models.Caller) ([]models.FavoriteWithProperty, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	return s.Repo.ListByUser(ctx, caller.ID)
}

// RemoveFavorite deletes one of the caller's favorites. Another user's
// favorite is reported as not found.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, caller models.Caller, id int) error {
	if err := requireAuthenticated(caller); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id, caller.ID); err != nil {
		return notFound(err, "no favorite matches the given id")
	}
	return nil
}
