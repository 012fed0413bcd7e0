package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Matesfu/Mela-rent/internal/models"
	"github.com/Matesfu/Mela-rent/internal/visibility"
)

const propertyColumns = `p.id, p.owner_id, p.title, p.description, p.house_type, p.location, p.price,
p.floor_number, p.bedrooms, p.bathrooms, p.max_guests, p.amenities, p.image,
p.is_available, p.is_paid, p.paid_until, p.is_deleted, p.deleted_at, p.created_at, p.updated_at`

type PropertyRepository struct {
	DB *sql.DB
}

func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProperty(row rowScanner) (models.Property, error) {
	var (
		p         models.Property
		houseType string
		floor     sql.NullInt64
		image     sql.NullString
		paidUntil sql.NullTime
		deletedAt sql.NullTime
	)
	err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &houseType, &p.Location, &p.Price,
		&floor, &p.Bedrooms, &p.Bathrooms, &p.MaxGuests, &p.Amenities, &image,
		&p.IsAvailable, &p.IsPaid, &paidUntil, &p.IsDeleted, &deletedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Property{}, err
	}
	p.HouseType = models.HouseType(houseType)
	if floor.Valid {
		v := int(floor.Int64)
		p.FloorNumber = &v
	}
	if image.Valid {
		p.Image = &image.String
	}
	if paidUntil.Valid {
		t := paidUntil.Time
		p.PaidUntil = &t
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		p.DeletedAt = &t
	}
	return p, nil
}

func (r *PropertyRepository) Create(ctx context.Context, p models.Property) (models.Property, error) {
	query := `
		INSERT INTO properties (owner_id, title, description, house_type, location, price, floor_number,
			bedrooms, bathrooms, max_guests, amenities, image, is_available, is_paid, paid_until,
			is_deleted, deleted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, NULL, 0, NULL, ?, ?)
	`
	result, err := r.DB.ExecContext(ctx, query,
		p.OwnerID, p.Title, p.Description, string(p.HouseType), p.Location, p.Price, p.FloorNumber,
		p.Bedrooms, p.Bathrooms, p.MaxGuests, p.Amenities, p.Image, p.IsAvailable,
		p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		if isForeignKeyConstraintError(err) {
			return models.Property{}, fmt.Errorf("%w: owner does not exist", models.ErrInvalidRequest)
		}
		return models.Property{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Property{}, err
	}
	p.ID = int(id)
	p.IsPaid = false
	p.PaidUntil = nil
	p.IsDeleted = false
	p.DeletedAt = nil
	return p, nil
}

// GetByID returns the row whatever its deletion state.
func (r *PropertyRepository) GetByID(ctx context.Context, id int) (models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.id = ?`
	p, err := scanProperty(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Property{}, models.ErrNoRecord
	}
	return p, err
}

// GetActive returns the row only if it has not been soft-deleted.
func (r *PropertyRepository) GetActive(ctx context.Context, id int) (models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.id = ? AND p.is_deleted = 0`
	p, err := scanProperty(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Property{}, models.ErrNoRecord
	}
	return p, err
}

// List returns one page of properties admitted by scope and filter, plus the
// total number of matching rows. The filter must be normalized.
func (r *PropertyRepository) List(ctx context.Context, scope visibility.Scope, f models.PropertyFilter) ([]models.Property, int, error) {
	where, args := propertyWhere(scope, f)

	var total int
	countQuery := `SELECT COUNT(*) FROM properties p WHERE 1=1` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []models.Property{}, 0, nil
	}

	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE 1=1` + where +
		propertyOrderBy(f.Ordering) + ` LIMIT ? OFFSET ?`
	pageArgs := append(append([]interface{}{}, args...), f.Limit, f.Offset())

	rows, err := r.DB.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	props := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("properties rows error: %w", err)
	}
	return props, total, nil
}

// Update writes the supplied fields of a live listing. The deletion, payment
// and ownership columns are never written here, so a stale update cannot
// resurrect an archived listing.
func (r *PropertyRepository) Update(ctx context.Context, id int, in models.PropertyInput, now time.Time) (models.Property, error) {
	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if in.Title != nil {
		add("title", strings.TrimSpace(*in.Title))
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.HouseType != nil {
		add("house_type", string(*in.HouseType))
	}
	if in.Location != nil {
		add("location", strings.TrimSpace(*in.Location))
	}
	if in.Price != nil {
		add("price", *in.Price)
	}
	if in.FloorNumber != nil {
		add("floor_number", *in.FloorNumber)
	}
	if in.Bedrooms != nil {
		add("bedrooms", *in.Bedrooms)
	}
	if in.Bathrooms != nil {
		add("bathrooms", *in.Bathrooms)
	}
	if in.MaxGuests != nil {
		add("max_guests", *in.MaxGuests)
	}
	if in.Amenities != nil {
		add("amenities", *in.Amenities)
	}
	if in.Image != nil {
		add("image", *in.Image)
	}
	if in.IsAvailable != nil {
		add("is_available", *in.IsAvailable)
	}
	add("updated_at", now.UTC())

	query := `UPDATE properties SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND is_deleted = 0`
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		return models.Property{}, err
	}
	// RowsAffected is unreliable here: MySQL reports 0 for a no-op update.
	return r.GetActive(ctx, id)
}

// Archive flips the soft-delete flag with a compare-and-set on is_deleted.
func (r *PropertyRepository) Archive(ctx context.Context, p models.Property) error {
	if !p.IsDeleted || p.DeletedAt == nil {
		return fmt.Errorf("archive: property %d is not in the archived state", p.ID)
	}
	query := `UPDATE properties SET is_deleted = 1, deleted_at = ?, updated_at = ? WHERE id = ? AND is_deleted = 0`
	result, err := r.DB.ExecContext(ctx, query, p.DeletedAt.UTC(), p.UpdatedAt.UTC(), p.ID)
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

// HardDelete physically removes the row. Favorites and payment logs go with
// it through ON DELETE CASCADE.
func (r *PropertyRepository) HardDelete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
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
