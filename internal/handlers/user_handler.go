package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/Matesfu/Mela-rent/internal/models"
)

type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error)
	SignIn(ctx context.Context, req models.SignInRequest) (models.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.Tokens, error)
	Profile(ctx context.Context, caller models.Caller) (models.User, error)
	ChangeRole(ctx context.Context, caller models.Caller, userID int, role string) (models.User, error)
}

type UserHandler struct {
	Service  UserService
	ErrorLog *log.Logger
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	resp, err := h.Service.Register(r.Context(), req)
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	tokens, err := h.Service.SignIn(r.Context(), req)
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	tokens, err := h.Service.Refresh(r.Context(), req.Refresh)
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": tokens.AccessToken})
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.Profile(r.Context(), CallerFrom(r))
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	var req models.ChangeRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	user, err := h.Service.ChangeRole(r.Context(), CallerFrom(r), id, req.Role)
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
