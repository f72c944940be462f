package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crowdfund/internal/core/port"
)

// Handler is the inbound HTTP adapter for the crowdfunding ledger. It holds
// the escrow and token usecases and a logger, and registers one route per
// engine operation on a chi.Router. Caller identity is read from the
// X-Account header, which an upstream authenticating proxy is expected to
// populate; the engine itself does not authenticate.
type Handler struct {
	escrow port.EscrowUseCase
	token  port.TokenUseCase
	logger *slog.Logger
	router chi.Router

	faucet bool
}

// Options toggles optional surface. Faucet exposes the unrestricted mint
// endpoint, meant for test-token distribution.
type Options struct {
	Faucet bool
}

// NewHandler creates a handler with all routes configured.
func NewHandler(escrow port.EscrowUseCase, token port.TokenUseCase, logger *slog.Logger, opts Options) *Handler {
	h := &Handler{escrow: escrow, token: token, logger: logger, faucet: opts.Faucet}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/campaigns", h.handleCreateCampaign)
		r.Get("/campaigns", h.handleListCampaigns)
		r.Get("/campaigns/count", h.handleCampaignCount)
		r.Get("/campaigns/{id}", h.handleGetCampaign)
		r.Post("/campaigns/{id}/contributions", h.handleContribute)
		r.Get("/campaigns/{id}/contributions/{account}", h.handleGetContribution)
		r.Post("/campaigns/{id}/finalize", h.handleFinalize)
		r.Post("/campaigns/{id}/refund", h.handleClaimRefund)

		if h.faucet {
			r.Post("/token/mint", h.handleMint)
		}
		r.Post("/token/transfer", h.handleTransfer)
		r.Post("/token/approve", h.handleApprove)
		r.Get("/token", h.handleTokenInfo)
		r.Get("/token/balance/{account}", h.handleBalance)
		r.Get("/token/allowance/{owner}/{spender}", h.handleAllowance)

		r.Get("/events", h.handleListEvents)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
