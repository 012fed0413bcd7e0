package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/Matesfu/Mela-rent/internal/models"
)

type PropertyService interface {
	CreateProperty(ctx context.Context, caller models.Caller, in models.PropertyInput) (models.Property, error)
	GetProperty(ctx context.Context, caller models.Caller, id int) (models.Property, error)
	ListProperties(ctx context.Context, caller models.Caller, f models.PropertyFilter) (models.PropertyListResponse, error)
	UpdateProperty(ctx context.Context, caller models.Caller, id int, in models.PropertyInput) (models.Property, error)
	ArchiveProperty(ctx context.Context, caller models.Caller, id int) error
	AdminListProperties(ctx context.Context, caller models.Caller, f models.PropertyFilter) (models.AdminPropertyListResponse, error)
	PurgeProperty(ctx context.Context, caller models.Caller, id int) error
}

type PropertyHandler struct {
	Service  PropertyService
	ErrorLog *log.Logger
}

func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var in models.PropertyInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	p, err := h.Service.CreateProperty(r.Context(), CallerFrom(r), in)
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	f, err := parsePropertyFilter(r.URL.Query(), false)
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	resp, err := h.Service.ListProperties(r.Context(), CallerFrom(r), f)
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	p, err := h.Service.GetProperty(r.Context(), CallerFrom(r), id)
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProperty serves both PUT and PATCH; either way only supplied fields
// change.
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	var in models.PropertyInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	p, err := h.Service.UpdateProperty(r.Context(), CallerFrom(r), id, in)
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	if err := h.Service.ArchiveProperty(r.Context(), CallerFrom(r), id); err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PropertyHandler) AdminListProperties(w http.ResponseWriter, r *http.Request) {
	f, err := parsePropertyFilter(r.URL.Query(), true)
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	resp, err := h.Service.AdminListProperties(r.Context(), CallerFrom(r), f)
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PropertyHandler) PurgeProperty(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	if err := h.Service.PurgeProperty(r.Context(), CallerFrom(r), id); err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
