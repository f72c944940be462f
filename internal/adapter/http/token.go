package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type mintRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// handleMint credits freshly minted tokens to an account. The endpoint is a
// faucet for test-token distribution and is only routed when enabled by
// configuration.
func (h *Handler) handleMint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.token.Mint(r.Context(), req.To, req.Amount); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type transferRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// handleTransfer moves tokens from the caller to another account.
func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	account, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.token.Transfer(r.Context(), account, req.To, req.Amount); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type approveRequest struct {
	Spender string `json:"spender"`
	Amount  int64  `json:"amount"`
}

// handleApprove sets the caller's allowance for a spender. Approving the
// escrow account is the prerequisite for contributing.
func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	account, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.token.Approve(r.Context(), account, req.Spender, req.Amount); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTokenInfo identifies the ledger: the escrow account and the total
// minted supply.
func (h *Handler) handleTokenInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.escrow.TokenInfo(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, info)
}

// handleBalance returns an account balance, 0 for unknown accounts.
func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	amount, err := h.token.BalanceOf(r.Context(), chi.URLParam(r, "account"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"amount": amount})
}

// handleAllowance returns the cap owner granted spender, 0 if none.
func (h *Handler) handleAllowance(w http.ResponseWriter, r *http.Request) {
	amount, err := h.token.Allowance(r.Context(), chi.URLParam(r, "owner"), chi.URLParam(r, "spender"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"amount": amount})
}
