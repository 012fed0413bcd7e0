package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Matesfu/Mela-rent/internal/models"
)

// getParam returns a path or query parameter value regardless of whether
// the router stores it with a leading colon or not.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}

	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}

	if val := r.URL.Query().Get(name); val != "" {
		return val
	}

	return r.PathValue(name)
}

// idParam reads a positive integer path parameter.
func idParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(getParam(r, name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", models.ErrInvalidRequest, name)
	}
	return id, nil
}
