package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Matesfu/Mela-rent/internal/models"
)

type FavoriteRepository struct {
	DB *sql.DB
}

func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{DB: db}
}

// Create relies on uq_favorites_user_property to reject duplicates, so two
// concurrent adds of the same pair yield exactly one row.
func (r *FavoriteRepository) Create(ctx context.Context, fav models.Favorite) (models.Favorite, error) {
	query := `INSERT INTO favorites (user_id, property_id, created_at) VALUES (?, ?, ?)`
	result, err := r.DB.ExecContext(ctx, query, fav.UserID, fav.PropertyID, fav.CreatedAt.UTC())
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.Favorite{}, fmt.Errorf("%w: property is already in favorites", models.ErrConflict)
		}
		if isForeignKeyConstraintError(err) {
			return models.Favorite{}, fmt.Errorf("%w: property does not exist", models.ErrInvalidRequest)
		}
		return models.Favorite{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Favorite{}, err
	}
	fav.ID = int(id)
	return fav, nil
}

// Delete removes a favorite only if it belongs to userID.
func (r *FavoriteRepository) Delete(ctx context.Context, id, userID int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM favorites WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNoRecord
	}
	return nil
}

// ListByUser returns the user's favorites with current property data, newest
// first. Archived or unpaid properties are included.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int) ([]models.FavoriteWithProperty, error) {
	query := `SELECT f.id, f.created_at, ` + propertyColumns + `
		FROM favorites f
		JOIN properties p ON f.property_id = p.id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC, f.id DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favs := []models.FavoriteWithProperty{}
	for rows.Next() {
		var fav models.FavoriteWithProperty
		p, err := scanProperty(prefixScanner{rows: rows, prefix: []interface{}{&fav.ID, &fav.CreatedAt}})
		if err != nil {
			return nil, err
		}
		fav.Property = p
		favs = append(favs, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("favorites rows error: %w", err)
	}
	return favs, nil
}

// prefixScanner scans leading columns into prefix before the property columns.
type prefixScanner struct {
	rows   *sql.Rows
	prefix []interface{}
}

func (s prefixScanner) Scan(dest ...interface{}) error {
	return s.rows.Scan(append(append([]interface{}{}, s.prefix...), dest...)...)
}
