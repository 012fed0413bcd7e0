package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/Matesfu/Mela-rent/internal/models"
)

type contextKey string

const callerKey contextKey = "caller"

// WithCaller attaches the authenticated caller to ctx.
func WithCaller(ctx context.Context, caller models.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFrom returns the request's caller, anonymous if none was attached.
func CallerFrom(r *http.Request) models.Caller {
	if caller, ok := r.Context().Value(callerKey).(models.Caller); ok {
		return caller
	}
	return models.Anonymous()
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// WriteError writes {"error": msg} with the status of err's kind. Unknown
// errors are logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, errorLog *log.Logger, err error) {
	status := errorStatus(err)
	msg := models.Message(err)
	if status == http.StatusInternalServerError {
		if errorLog != nil {
			errorLog.Output(2, err.Error())
		}
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", models.ErrInvalidRequest)
	}
	return nil
}
