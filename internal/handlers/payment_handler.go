package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/Matesfu/Mela-rent/internal/models"
)

type PaymentService interface {
	Pay(ctx context.Context, caller models.Caller, propertyID int) (models.PayResponse, error)
	ListPayments(ctx context.Context, caller models.Caller) ([]models.PaymentLog, error)
}

type PaymentHandler struct {
	Service  PaymentService
	ErrorLog *log.Logger
}

func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req models.PayRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	resp, err := h.Service.Pay(r.Context(), CallerFrom(r), req.PropertyID)
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Service.ListPayments(r.Context(), CallerFrom(r))
	if err != nil {
		WriteError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
