package port

import (
	"context"

	"crowdfund/internal/core/domain"
)

// EscrowUseCase is the primary inbound port of the crowdfunding engine. A
// campaign moves active → finalized-success or finalized-failed, decided by
// goal attainment at the moment of finalization; refunds exist only on the
// failed branch. Deadlines are data compared against the caller-supplied
// now (unix seconds), never a running timer, so hosts control time.
type EscrowUseCase interface {
	// CreateCampaign validates goal > 0 and deadline > now, appends a new
	// campaign owned by caller and returns its id.
	CreateCampaign(ctx context.Context, caller string, req CreateCampaignReq, now int64) (int64, error)

	// Contribute escrows amount from caller into the campaign. The caller
	// must have approved the escrow account for at least amount.
	Contribute(ctx context.Context, caller string, campaignID, amount, now int64) error

	// Finalize closes the campaign once its deadline has passed. Only the
	// owner may call it. On success the full raised amount (over-funding
	// included) is paid to the owner; on failure funds stay escrowed for
	// refund claims. Returns whether the campaign succeeded.
	Finalize(ctx context.Context, caller string, campaignID, now int64) (bool, error)

	// ClaimRefund returns the caller's stake in a failed campaign, exactly
	// once. Returns the refunded amount.
	ClaimRefund(ctx context.Context, caller string, campaignID int64) (int64, error)

	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
	CampaignCount(ctx context.Context) (int64, error)
	GetContribution(ctx context.Context, campaignID int64, contributor string) (int64, error)
	ListEvents(ctx context.Context, campaignID *int64) ([]domain.Event, error)
	TokenInfo(ctx context.Context) (*TokenInfo, error)
}

// CreateCampaignReq carries the caller-supplied campaign fields.
type CreateCampaignReq struct {
	Title       string
	Description string
	Goal        int64
	Deadline    int64
}

// TokenInfo identifies the ledger backing the engine: the escrow account
// holding funds in transit and the current total supply.
type TokenInfo struct {
	EscrowAccount string `json:"escrow_account"`
	TotalSupply   int64  `json:"total_supply"`
}
