package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/Matesfu/Mela-rent/internal/models"
)

type FavoriteService interface {
	AddFavorite(ctx context.Context, caller models.Caller, propertyID int) (models.Favorite, error)
	ListFavorites(ctx context.Context, caller models.Caller) ([]models.FavoriteWithProperty, error)
	RemoveFavorite(ctx context.Context, caller models.Caller, id int) error
}

type FavoriteHandler struct {
	Service  FavoriteService
	ErrorLog *log.Logger
}

func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req models.FavoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	fav, err := h.Service.AddFavorite(r.Context(), CallerFrom(r), req.PropertyID)
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusCreated, fav)
}

func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.Service.ListFavorites(r.Context(), CallerFrom(r))
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, favs)
}

func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	if err := h.Service.RemoveFavorite(r.Context(), CallerFrom(r), id); err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
