package repositories

import (
	"strings"

	"github.com/Matesfu/Mela-rent/internal/models"
	"github.com/Matesfu/Mela-rent/internal/visibility"
)

// propertyWhere builds the " AND ..." tail appended to "WHERE 1=1" for a
// visibility scope and attribute filter.
func propertyWhere(scope visibility.Scope, f models.PropertyFilter) (string, []interface{}) {
	var sb strings.Builder
	args := []interface{}{}

	if !scope.IncludeDeleted {
		sb.WriteString(" AND p.is_deleted = 0")
	} else if f.IsDeleted != nil {
		sb.WriteString(" AND p.is_deleted = ?")
		args = append(args, *f.IsDeleted)
	}

	if scope.RequireValid {
		if scope.OrOwnerID != 0 {
			sb.WriteString(" AND ((p.is_paid = 1 AND p.paid_until > ?) OR p.owner_id = ?)")
			args = append(args, scope.ValidAt.UTC(), scope.OrOwnerID)
		} else {
			sb.WriteString(" AND p.is_paid = 1 AND p.paid_until > ?")
			args = append(args, scope.ValidAt.UTC())
		}
	}

	if f.OwnerID != nil {
		sb.WriteString(" AND p.owner_id = ?")
		args = append(args, *f.OwnerID)
	}
	if f.HouseType != nil {
		sb.WriteString(" AND p.house_type = ?")
		args = append(args, string(*f.HouseType))
	}
	if f.IsAvailable != nil {
		sb.WriteString(" AND p.is_available = ?")
		args = append(args, *f.IsAvailable)
	}
	if f.MinPrice != nil {
		sb.WriteString(" AND p.price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		sb.WriteString(" AND p.price <= ?")
		args = append(args, *f.MaxPrice)
	}
	if f.Bedrooms != nil {
		sb.WriteString(" AND p.bedrooms = ?")
		args = append(args, *f.Bedrooms)
	}
	if f.BedroomsMin != nil {
		sb.WriteString(" AND p.bedrooms >= ?")
		args = append(args, *f.BedroomsMin)
	}
	if f.BedroomsMax != nil {
		sb.WriteString(" AND p.bedrooms <= ?")
		args = append(args, *f.BedroomsMax)
	}
	if f.Bathrooms != nil {
		sb.WriteString(" AND p.bathrooms = ?")
		args = append(args, *f.Bathrooms)
	}
	if f.BathroomsMin != nil {
		sb.WriteString(" AND p.bathrooms >= ?")
		args = append(args, *f.BathroomsMin)
	}
	if f.BathroomsMax != nil {
		sb.WriteString(" AND p.bathrooms <= ?")
		args = append(args, *f.BathroomsMax)
	}
	if f.MaxGuests != nil {
		sb.WriteString(" AND p.max_guests = ?")
		args = append(args, *f.MaxGuests)
	}
	if f.GuestsMin != nil {
		sb.WriteString(" AND p.max_guests >= ?")
		args = append(args, *f.GuestsMin)
	}
	if f.GuestsMax != nil {
		sb.WriteString(" AND p.max_guests <= ?")
		args = append(args, *f.GuestsMax)
	}
	if f.Location != "" {
		sb.WriteString(` AND p.location LIKE ? ESCAPE '\\'`)
		args = append(args, likeContains(f.Location))
	}
	if f.Amenities != "" {
		sb.WriteString(` AND p.amenities LIKE ? ESCAPE '\\'`)
		args = append(args, likeContains(f.Amenities))
	}
	if f.Search != "" {
		pattern := likeContains(f.Search)
		sb.WriteString(` AND (p.title LIKE ? ESCAPE '\\' OR p.description LIKE ? ESCAPE '\\' OR p.location LIKE ? ESCAPE '\\')`)
		args = append(args, pattern, pattern, pattern)
	}
	return sb.String(), args
}

// propertyOrderBy maps a validated ordering value to SQL. The id tie-breaker
// keeps pages stable.
func propertyOrderBy(ordering string) string {
	switch ordering {
	case models.OrderPriceAsc:
		return " ORDER BY p.price ASC, p.id ASC"
	case models.OrderPriceDesc:
		return " ORDER BY p.price DESC, p.id DESC"
	case models.OrderCreatedAtAsc:
		return " ORDER BY p.created_at ASC, p.id ASC"
	default:
		return " ORDER BY p.created_at DESC, p.id DESC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeContains turns user input into a case-insensitive (by collation)
// substring pattern with LIKE wildcards escaped.
func likeContains(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}
