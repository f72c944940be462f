package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"crowdfund/internal/core/domain"
)

// caller extracts the authenticated account from the X-Account header. An
// empty header yields HTTP 401; the handlers never reach the usecases
// without an identity.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	account := r.Header.Get("X-Account")
	if account == "" {
		http.Error(w, "missing X-Account header", http.StatusUnauthorized)
		return "", false
	}
	return account, true
}

// campaignID parses the {id} path parameter.
func campaignID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// writeErr maps domain error kinds onto HTTP statuses following the
// validation / authorization / state / resource taxonomy. Anything
// unrecognized is an internal error and is logged rather than leaked.
func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrInvalidParameters),
		errors.Is(err, domain.ErrOverflow):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrOnlyOwner):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrCampaignNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInsufficientAllowance):
		status = http.StatusPaymentRequired
	case errors.Is(err, domain.ErrCampaignCompleted),
		errors.Is(err, domain.ErrCampaignNotCompleted),
		errors.Is(err, domain.ErrCampaignSuccessful),
		errors.Is(err, domain.ErrDeadlineReached),
		errors.Is(err, domain.ErrDeadlineNotReached),
		errors.Is(err, domain.ErrNoContribution):
		status = http.StatusConflict
	default:
		h.logger.Error("internal error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
