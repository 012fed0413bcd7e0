package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"github.com/Matesfu/Mela-rent/internal/models"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, requestID, app.logRequest, secureHeaders, makeResponseJSON)
	publicMiddleware := standardMiddleware.Append(app.optionalAuth)
	authMiddleware := standardMiddleware.Append(app.requireAuth)
	adminMiddleware := authMiddleware.Append(app.requireRole(models.RoleAdmin))

	mux := pat.New()

	// Identity
	mux.Post("/auth/register", standardMiddleware.ThenFunc(app.userHandler.Register))
	mux.Post("/auth/token", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/auth/token/refresh", standardMiddleware.ThenFunc(app.userHandler.Refresh))
	mux.Get("/users/profile", authMiddleware.ThenFunc(app.userHandler.Profile))

	// Properties
	mux.Post("/properties", authMiddleware.ThenFunc(app.propertyHandler.CreateProperty))
	mux.Get("/properties", publicMiddleware.ThenFunc(app.propertyHandler.ListProperties))
	mux.Get("/properties/:id", publicMiddleware.ThenFunc(app.propertyHandler.GetProperty))
	mux.Put("/properties/:id", authMiddleware.ThenFunc(app.propertyHandler.UpdateProperty))
	mux.Add("PATCH", "/properties/:id", authMiddleware.ThenFunc(app.propertyHandler.UpdateProperty))
	mux.Del("/properties/:id", authMiddleware.ThenFunc(app.propertyHandler.DeleteProperty))

	// Payments
	mux.Post("/payments/pay", authMiddleware.ThenFunc(app.paymentHandler.Pay))
	mux.Get("/payments", authMiddleware.ThenFunc(app.paymentHandler.ListPayments))

	// Favorites
	mux.Post("/favorites", authMiddleware.ThenFunc(app.favoriteHandler.AddFavorite))
	mux.Get("/favorites", authMiddleware.ThenFunc(app.favoriteHandler.ListFavorites))
	mux.Del("/favorites/:id", authMiddleware.ThenFunc(app.favoriteHandler.RemoveFavorite))

	// Admin
	mux.Get("/admin/properties", adminMiddleware.ThenFunc(app.propertyHandler.AdminListProperties))
	mux.Del("/admin/properties/:id", adminMiddleware.ThenFunc(app.propertyHandler.PurgeProperty))
	mux.Put("/admin/users/:id/role", adminMiddleware.ThenFunc(app.userHandler.ChangeRole))

	return mux
}
