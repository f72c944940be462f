package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"crowdfund/internal/core/port"
)

type createCampaignRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Goal        int64  `json:"goal"`
	Deadline    int64  `json:"deadline"`
}

// handleCreateCampaign creates a campaign owned by the caller. The deadline
// is unix seconds and must lie in the future. On success it returns
// HTTP 201 with the assigned id.
func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	account, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	id, err := h.escrow.CreateCampaign(r.Context(), account, port.CreateCampaignReq{
		Title:       req.Title,
		Description: req.Description,
		Goal:        req.Goal,
		Deadline:    req.Deadline,
	}, time.Now().Unix())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// handleListCampaigns returns all campaigns in creation order.
func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.escrow.ListCampaigns(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, campaigns)
}

// handleGetCampaign returns a single campaign record.
func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	c, err := h.escrow.GetCampaign(r.Context(), id)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

// handleCampaignCount returns the number of campaigns ever created.
func (h *Handler) handleCampaignCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.escrow.CampaignCount(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

type contributeRequest struct {
	Amount int64 `json:"amount"`
}

// handleContribute escrows tokens from the caller into a campaign. The
// caller must have approved the escrow account beforehand.
func (h *Handler) handleContribute(w http.ResponseWriter, r *http.Request) {
	account, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	var req contributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.escrow.Contribute(r.Context(), account, id, req.Amount, time.Now().Unix()); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetContribution returns an account's cumulative stake in a
// campaign, 0 if it never contributed.
func (h *Handler) handleGetContribution(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	amount, err := h.escrow.GetContribution(r.Context(), id, chi.URLParam(r, "account"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"amount": amount})
}

// handleFinalize closes a campaign after its deadline. Only the owner may
// call it; the response reports whether the goal was reached.
func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	account, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	success, err := h.escrow.Finalize(r.Context(), account, id, time.Now().Unix())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": success})
}

// handleClaimRefund returns the caller's stake from a failed campaign.
func (h *Handler) handleClaimRefund(w http.ResponseWriter, r *http.Request) {
	account, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	amount, err := h.escrow.ClaimRefund(r.Context(), account, id)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"amount": amount})
}
