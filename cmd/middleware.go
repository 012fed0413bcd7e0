package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Matesfu/Mela-rent/internal/handlers"
	"github.com/Matesfu/Mela-rent/internal/models"
)

type requestIDKey struct{}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}

func makeResponseJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requestID propagates X-Request-ID, generating one when the client sent none.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := r.Context().Value(requestIDKey{}).(string)
		app.infoLog.Printf("%s - %s %s %s [%s]", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI(), id)
		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests without a valid bearer token. An expired
// access token is replaced transparently when a valid Refresh-Token header is
// present; the new token is returned in the Authorization response header.
func (app *application) requireAuth(next http.Handler) http.Handler {
	return app.authenticate(next, true)
}

// optionalAuth lets anonymous requests through but still rejects a bad token.
func (app *application) optionalAuth(next http.Handler) http.Handler {
	return app.authenticate(next, false)
}

func (app *application) authenticate(next http.Handler, required bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			if required {
				handlers.WriteError(w, app.errorLog, fmt.Errorf("%w: authentication credentials were not provided", models.ErrUnauthenticated))
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			handlers.WriteError(w, app.errorLog, fmt.Errorf("%w: authorization header must be a bearer token", models.ErrUnauthenticated))
			return
		}

		caller, err := app.auth.Authenticate(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			refreshToken := r.Header.Get("Refresh-Token")
			if refreshToken == "" {
				handlers.WriteError(w, app.errorLog, err)
				return
			}
			tokens, err := app.auth.Refresh(r.Context(), refreshToken)
			if err != nil {
				handlers.WriteError(w, app.errorLog, err)
				return
			}
			caller, err = app.auth.Authenticate(tokens.AccessToken)
			if err != nil {
				handlers.WriteError(w, app.errorLog, err)
				return
			}
			w.Header().Set("Authorization", "Bearer "+tokens.AccessToken)
		}

		next.ServeHTTP(w, r.WithContext(handlers.WithCaller(r.Context(), caller)))
	})
}

// requireRole must run after requireAuth.
func (app *application) requireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if caller := handlers.CallerFrom(r); caller.Role != role {
				handlers.WriteError(w, app.errorLog, fmt.Errorf("%w: %s access required", models.ErrForbidden, strings.ToLower(string(role))))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
