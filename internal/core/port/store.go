package port

import (
	"context"

	"crowdfund/internal/core/domain"
)

// Store is the outbound persistence port for the ledger. It is implemented
// by the postgres adapter (service hosting) and the memory adapter (tests,
// embedded use). Reads on the Store itself observe the last committed
// state; all mutations go through a Tx so that a token transfer, the
// campaign counters, the contribution entry and the event append commit or
// roll back as one unit.
type Store interface {
	Reader

	// Begin opens a transaction. Implementations must guarantee a single
	// logical writer: two concurrent transactions may not interleave their
	// writes on the same rows.
	Begin(ctx context.Context) (Tx, error)
}

// Reader provides snapshot-consistent reads of committed state.
type Reader interface {
	BalanceOf(ctx context.Context, account string) (int64, error)
	Allowance(ctx context.Context, owner, spender string) (int64, error)
	TotalSupply(ctx context.Context) (int64, error)

	// GetCampaign returns domain.ErrCampaignNotFound for an unknown id.
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	// ListCampaigns returns all campaigns in creation (id) order.
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
	CampaignCount(ctx context.Context) (int64, error)

	// Contribution returns 0 for an absent entry.
	Contribution(ctx context.Context, campaignID int64, contributor string) (int64, error)

	// ListEvents returns events in append order, optionally filtered by
	// campaign.
	ListEvents(ctx context.Context, campaignID *int64) ([]domain.Event, error)
}

// TokenTx is the token-ledger surface of a transaction: balances, the
// allowance table and the single total-supply counter. Reads lock the rows
// they touch; writes are raw sets, all range checking happens in the
// usecase layer before anything is written.
type TokenTx interface {
	BalanceOf(ctx context.Context, account string) (int64, error)
	SetBalance(ctx context.Context, account string, amount int64) error
	Allowance(ctx context.Context, owner, spender string) (int64, error)
	SetAllowance(ctx context.Context, owner, spender string, amount int64) error
	TotalSupply(ctx context.Context) (int64, error)
	SetTotalSupply(ctx context.Context, amount int64) error
}

// CampaignTx is the campaign-store surface of a transaction. Campaigns are
// append-only: ids are assigned sequentially starting at 0 and never
// reused, and records are never deleted.
type CampaignTx interface {
	// AppendCampaign stores c, assigns the next id into c.ID and returns it.
	AppendCampaign(ctx context.Context, c *domain.Campaign) (int64, error)
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	// AddRaised increases the raised counter. The caller guarantees the
	// campaign is not completed and the sum stays in range.
	AddRaised(ctx context.Context, id, amount int64) error
	// MarkCompleted flips completed to true. The caller guarantees this is
	// invoked at most once per id.
	MarkCompleted(ctx context.Context, id int64) error
}

// ContributionTx is the contribution-ledger surface of a transaction,
// keyed by (campaign, contributor).
type ContributionTx interface {
	Contribution(ctx context.Context, campaignID int64, contributor string) (int64, error)
	AddContribution(ctx context.Context, campaignID int64, contributor string, amount int64) error
	// ClearContribution zeroes an entry; clearing an absent entry is a no-op.
	ClearContribution(ctx context.Context, campaignID int64, contributor string) error
}

// EventTx appends to the event log.
type EventTx interface {
	AppendEvent(ctx context.Context, ev domain.Event) error
}

// Tx is one atomic unit of ledger work. Rollback after Commit is a no-op,
// so implementations support the usual defer-rollback pattern.
type Tx interface {
	TokenTx
	CampaignTx
	ContributionTx
	EventTx

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
