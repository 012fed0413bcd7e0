package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Matesfu/Mela-rent/internal/models"
)

// queryReader collects the first malformed parameter while parsing.
type queryReader struct {
	q   url.Values
	err error
}

func (qr *queryReader) fail(name, kind string) {
	if qr.err == nil {
		qr.err = fmt.Errorf("%w: %s must be %s", models.ErrInvalidRequest, name, kind)
	}
}

func (qr *queryReader) intParam(name string) *int {
	raw := strings.TrimSpace(qr.q.Get(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		qr.fail(name, "a whole number")
		return nil
	}
	return &v
}

func (qr *queryReader) floatParam(name string) *float64 {
	raw := strings.TrimSpace(qr.q.Get(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		qr.fail(name, "a number")
		return nil
	}
	return &v
}

func (qr *queryReader) boolParam(name string) *bool {
	raw := strings.TrimSpace(qr.q.Get(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		qr.fail(name, "true or false")
		return nil
	}
	return &v
}

// parsePropertyFilter reads list filters from the query string. is_deleted is
// only read for admin listings.
func parsePropertyFilter(q url.Values, admin bool) (models.PropertyFilter, error) {
	qr := &queryReader{q: q}
	f := models.PropertyFilter{
		IsAvailable:  qr.boolParam("is_available"),
		OwnerID:      qr.intParam("owner"),
		MinPrice:     qr.floatParam("min_price"),
		MaxPrice:     qr.floatParam("max_price"),
		Bedrooms:     qr.intParam("bedrooms"),
		BedroomsMin:  qr.intParam("bedrooms__gte"),
		BedroomsMax:  qr.intParam("bedrooms__lte"),
		Bathrooms:    qr.floatParam("bathrooms"),
		BathroomsMin: qr.floatParam("bathrooms__gte"),
		BathroomsMax: qr.floatParam("bathrooms__lte"),
		MaxGuests:    qr.intParam("max_guests"),
		GuestsMin:    qr.intParam("max_guests__gte"),
		GuestsMax:    qr.intParam("max_guests__lte"),
		Location:     q.Get("location"),
		Amenities:    q.Get("amenities"),
		Search:       q.Get("search"),
		Ordering:     strings.TrimSpace(q.Get("ordering")),
	}
	if admin {
		f.IsDeleted = qr.boolParam("is_deleted")
	}
	if page := qr.intParam("page"); page != nil {
		f.Page = *page
	}
	if limit := qr.intParam("limit"); limit != nil {
		f.Limit = *limit
	}
	if qr.err != nil {
		return models.PropertyFilter{}, qr.err
	}
	if raw := strings.TrimSpace(q.Get("house_type")); raw != "" {
		ht := models.HouseType(raw)
		if !ht.Valid() {
			return models.PropertyFilter{}, fmt.Errorf("%w: %q is not a valid house type", models.ErrInvalidRequest, raw)
		}
		f.HouseType = &ht
	}
	return f, nil
}
