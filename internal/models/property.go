package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type HouseType string

const (
	HouseTypeCondo     HouseType = "Condo"
	HouseTypeVilla     HouseType = "Villa"
	HouseTypeApartment HouseType = "Apartment"
	HouseTypeHouse     HouseType = "House"
)

func (h HouseType) Valid() bool {
	switch h {
	case HouseTypeCondo, HouseTypeVilla, HouseTypeApartment, HouseTypeHouse:
		return true
	}
	return false
}

type Property struct {
	ID          int        `json:"id"`
	OwnerID     int        `json:"owner"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	HouseType   HouseType  `json:"house_type"`
	Location    string     `json:"location"`
	Price       float64    `json:"price"`
	FloorNumber *int       `json:"floor_number"`
	Bedrooms    int        `json:"bedrooms"`
	Bathrooms   float64    `json:"bathrooms"`
	MaxGuests   int        `json:"max_guests"`
	Amenities   string     `json:"amenities"`
	Image       *string    `json:"image"`
	IsAvailable bool       `json:"is_available"`
	IsPaid      bool       `json:"is_paid"`
	PaidUntil   *time.Time `json:"paid_until"`
	IsDeleted   bool       `json:"-"`
	DeletedAt   *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AdminProperty exposes the soft-delete columns hidden from ordinary callers.
type AdminProperty struct {
	Property
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at"`
}

func NewAdminProperty(p Property) AdminProperty {
	return AdminProperty{Property: p, IsDeleted: p.IsDeleted, DeletedAt: p.DeletedAt}
}

// PropertyInput carries the writable fields of a property. Nil fields are left
// untouched on update and are required (where noted) on create.
type PropertyInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	HouseType   *HouseType `json:"house_type"`
	Location    *string    `json:"location"`
	Price       *float64   `json:"price"`
	FloorNumber *int       `json:"floor_number"`
	Bedrooms    *int       `json:"bedrooms"`
	Bathrooms   *float64   `json:"bathrooms"`
	MaxGuests   *int       `json:"max_guests"`
	Amenities   *string    `json:"amenities"`
	Image       *string    `json:"image"`
	IsAvailable *bool      `json:"is_available"`
}

// Validate checks supplied fields. With partial=false the fields a new
// listing cannot do without must be present.
func (in PropertyInput) Validate(partial bool) error {
	if !partial {
		var missing []string
		if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
			missing = append(missing, "title")
		}
		if in.Description == nil {
			missing = append(missing, "description")
		}
		if in.HouseType == nil {
			missing = append(missing, "house_type")
		}
		if in.Location == nil || strings.TrimSpace(*in.Location) == "" {
			missing = append(missing, "location")
		}
		if in.Price == nil {
			missing = append(missing, "price")
		}
		if in.Bedrooms == nil {
			missing = append(missing, "bedrooms")
		}
		if in.Bathrooms == nil {
			missing = append(missing, "bathrooms")
		}
		if in.MaxGuests == nil {
			missing = append(missing, "max_guests")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: missing required fields: %s", ErrInvalidRequest, strings.Join(missing, ", "))
		}
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return fmt.Errorf("%w: title may not be blank", ErrInvalidRequest)
	}
	if in.Title != nil && len(*in.Title) > 255 {
		return fmt.Errorf("%w: title is longer than 255 characters", ErrInvalidRequest)
	}
	if in.Location != nil && len(*in.Location) > 255 {
		return fmt.Errorf("%w: location is longer than 255 characters", ErrInvalidRequest)
	}
	if in.HouseType != nil && !in.HouseType.Valid() {
		return fmt.Errorf("%w: %q is not a valid house type", ErrInvalidRequest, *in.HouseType)
	}
	if in.Price != nil && *in.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than zero", ErrInvalidRequest)
	}
	if in.Bedrooms != nil && *in.Bedrooms < 0 {
		return fmt.Errorf("%w: bedrooms cannot be negative", ErrInvalidRequest)
	}
	if in.Bathrooms != nil && *in.Bathrooms < 0 {
		return fmt.Errorf("%w: bathrooms cannot be negative", ErrInvalidRequest)
	}
	if in.MaxGuests != nil && *in.MaxGuests <= 0 {
		return fmt.Errorf("%w: max guests must be at least 1", ErrInvalidRequest)
	}
	return nil
}

// Empty reports whether no field was supplied.
func (in PropertyInput) Empty() bool {
	return in.Title == nil && in.Description == nil && in.HouseType == nil && in.Location == nil &&
		in.Price == nil && in.FloorNumber == nil && in.Bedrooms == nil && in.Bathrooms == nil &&
		in.MaxGuests == nil && in.Amenities == nil && in.Image == nil && in.IsAvailable == nil
}

// NewProperty builds an unpaid listing owned by ownerID from a validated input.
func (in PropertyInput) NewProperty(ownerID int, now time.Time) Property {
	p := Property{
		OwnerID:     ownerID,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	in.ApplyTo(&p)
	return p
}

// ApplyTo copies the supplied fields onto p.
func (in PropertyInput) ApplyTo(p *Property) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.HouseType != nil {
		p.HouseType = *in.HouseType
	}
	if in.Location != nil {
		p.Location = strings.TrimSpace(*in.Location)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.FloorNumber != nil {
		p.FloorNumber = in.FloorNumber
	}
	if in.Bedrooms != nil {
		p.Bedrooms = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		p.Bathrooms = *in.Bathrooms
	}
	if in.MaxGuests != nil {
		p.MaxGuests = *in.MaxGuests
	}
	if in.Amenities != nil {
		p.Amenities = *in.Amenities
	}
	if in.Image != nil {
		p.Image = in.Image
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
}

// Ordering values accepted by the property list.
const (
	OrderPriceAsc      = "price"
	OrderPriceDesc     = "-price"
	OrderCreatedAtAsc  = "created_at"
	OrderCreatedAtDesc = "-created_at"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PropertyFilter holds the optional attribute filters of the property list.
type PropertyFilter struct {
	HouseType    *HouseType
	IsAvailable  *bool
	IsDeleted    *bool // honoured on admin queries only
	OwnerID      *int
	MinPrice     *float64
	MaxPrice     *float64
	Bedrooms     *int
	BedroomsMin  *int
	BedroomsMax  *int
	Bathrooms    *float64
	BathroomsMin *float64
	BathroomsMax *float64
	MaxGuests    *int
	GuestsMin    *int
	GuestsMax    *int
	Location     string
	Amenities    string
	Search       string
	Ordering     string
	Page         int
	Limit        int
}

// Normalize applies paging and ordering defaults.
func (f *PropertyFilter) Normalize() error {
	switch f.Ordering {
	case "":
		f.Ordering = OrderCreatedAtDesc
	case OrderPriceAsc, OrderPriceDesc, OrderCreatedAtAsc, OrderCreatedAtDesc:
	default:
		return fmt.Errorf("%w: unsupported ordering %q", ErrInvalidRequest, f.Ordering)
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	// Offset must fit in an int.
	if f.Page > math.MaxInt/f.Limit {
		return fmt.Errorf("%w: page out of range", ErrInvalidRequest)
	}
	return nil
}

func (f PropertyFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type PropertyListResponse struct {
	Count   int        `json:"count"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	Results []Property `json:"results"`
}

type AdminPropertyListResponse struct {
	Count   int             `json:"count"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Results []AdminProperty `json:"results"`
}
