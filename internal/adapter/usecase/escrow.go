package usecase

import (
	"context"
	"time"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

// EscrowUseCase implements port.EscrowUseCase: the campaign state machine
// orchestrating the token ledger, the campaign store and the contribution
// ledger. Every mutating operation validates all preconditions first, then
// applies its effects inside a single transaction, so callers never observe
// a token debit without the matching campaign credit or vice versa.
type EscrowUseCase struct {
	store port.Store

	// escrowAccount holds contributed funds in transit until finalization.
	escrowAccount string
}

// NewEscrowUseCase creates the engine over the given store. escrowAccount
// is the ledger identity funds are escrowed under; contributors approve
// this account before contributing.
func NewEscrowUseCase(store port.Store, escrowAccount string) *EscrowUseCase {
	return &EscrowUseCase{store: store, escrowAccount: escrowAccount}
}

// CreateCampaign appends a new campaign owned by caller. The goal must be
// at least one token unit and the deadline strictly in the future.
func (u *EscrowUseCase) CreateCampaign(ctx context.Context, caller string, req port.CreateCampaignReq, now int64) (int64, error) {
	if caller == "" || req.Goal <= 0 || req.Deadline <= now {
		return 0, domain.ErrInvalidParameters
	}
	c := &domain.Campaign{
		Title:       req.Title,
		Description: req.Description,
		Goal:        req.Goal,
		Deadline:    req.Deadline,
		Owner:       caller,
		CreatedAt:   time.Unix(now, 0).UTC(),
	}
	err := withTx(ctx, u.store, func(tx port.Tx) error {
		if _, err := tx.AppendCampaign(ctx, c); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.CampaignCreated{
			CampaignID: c.ID,
			Owner:      c.Owner,
			Goal:       c.Goal,
			Deadline:   c.Deadline,
		}, c.CreatedAt))
	})
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

// Contribute escrows amount from caller into an active campaign. The token
// movement rides the allowance caller granted the escrow account; any
// failure, including an out-of-range raised counter, aborts the whole
// transaction so the token transfer is rolled back with it.
func (u *EscrowUseCase) Contribute(ctx context.Context, caller string, campaignID, amount, now int64) error {
	if caller == "" || amount <= 0 {
		return domain.ErrInvalidParameters
	}
	return withTx(ctx, u.store, func(tx port.Tx) error {
		c, err := tx.GetCampaign(ctx, campaignID)
		if err != nil {
			return err
		}
		if c.Completed {
			return domain.ErrCampaignCompleted
		}
		if c.Expired(now) {
			return domain.ErrDeadlineReached
		}
		if _, err := domain.AddAmount(c.Raised, amount); err != nil {
			return err
		}
		contributed, err := tx.Contribution(ctx, campaignID, caller)
		if err != nil {
			return err
		}
		if _, err := domain.AddAmount(contributed, amount); err != nil {
			return err
		}
		if err := transferFromTx(ctx, tx, u.escrowAccount, caller, u.escrowAccount, amount); err != nil {
			return err
		}
		if err := tx.AddRaised(ctx, campaignID, amount); err != nil {
			return err
		}
		if err := tx.AddContribution(ctx, campaignID, caller, amount); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.ContributionMade{
			CampaignID:  campaignID,
			Contributor: caller,
			Amount:      amount,
		}, time.Unix(now, 0)))
	})
}

// Finalize closes a campaign once its deadline has passed. Only the owner
// may finalize, and only once. When the goal was reached the full raised
// amount is paid out to the owner; otherwise funds stay escrowed so
// contributors can claim refunds.
func (u *EscrowUseCase) Finalize(ctx context.Context, caller string, campaignID, now int64) (bool, error) {
	if caller == "" {
		return false, domain.ErrInvalidParameters
	}
	var success bool
	err := withTx(ctx, u.store, func(tx port.Tx) error {
		c, err := tx.GetCampaign(ctx, campaignID)
		if err != nil {
			return err
		}
		if caller != c.Owner {
			return domain.ErrOnlyOwner
		}
		if c.Completed {
			return domain.ErrCampaignCompleted
		}
		if !c.Expired(now) {
			return domain.ErrDeadlineNotReached
		}
		if err := tx.MarkCompleted(ctx, campaignID); err != nil {
			return err
		}
		success = c.GoalReached()
		if success {
			if err := transferTx(ctx, tx, u.escrowAccount, c.Owner, c.Raised); err != nil {
				return err
			}
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.CampaignFinalized{
			CampaignID: campaignID,
			Success:    success,
		}, time.Unix(now, 0)))
	})
	if err != nil {
		return false, err
	}
	return success, nil
}

// ClaimRefund pays the caller's stake back out of escrow after a failed
// campaign. The contribution entry is cleared before the transfer is
// issued, so a replay inside any later transaction reads zero and fails
// with ErrNoContribution.
func (u *EscrowUseCase) ClaimRefund(ctx context.Context, caller string, campaignID int64) (int64, error) {
	if caller == "" {
		return 0, domain.ErrInvalidParameters
	}
	var refunded int64
	err := withTx(ctx, u.store, func(tx port.Tx) error {
		c, err := tx.GetCampaign(ctx, campaignID)
		if err != nil {
			return err
		}
		if !c.Completed {
			return domain.ErrCampaignNotCompleted
		}
		if c.GoalReached() {
			return domain.ErrCampaignSuccessful
		}
		contributed, err := tx.Contribution(ctx, campaignID, caller)
		if err != nil {
			return err
		}
		if contributed == 0 {
			return domain.ErrNoContribution
		}
		if err := tx.ClearContribution(ctx, campaignID, caller); err != nil {
			return err
		}
		if err := transferTx(ctx, tx, u.escrowAccount, caller, contributed); err != nil {
			return err
		}
		refunded = contributed
		return tx.AppendEvent(ctx, domain.NewEvent(domain.RefundClaimed{
			CampaignID:  campaignID,
			Contributor: caller,
			Amount:      contributed,
		}, time.Now()))
	})
	if err != nil {
		return 0, err
	}
	return refunded, nil
}

// GetCampaign returns a campaign by id.
func (u *EscrowUseCase) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	return u.store.GetCampaign(ctx, id)
}

// ListCampaigns returns all campaigns in creation order.
func (u *EscrowUseCase) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	return u.store.ListCampaigns(ctx)
}

// CampaignCount returns the number of campaigns ever created.
func (u *EscrowUseCase) CampaignCount(ctx context.Context) (int64, error) {
	return u.store.CampaignCount(ctx)
}

// GetContribution returns a contributor's cumulative stake, 0 if none.
func (u *EscrowUseCase) GetContribution(ctx context.Context, campaignID int64, contributor string) (int64, error) {
	return u.store.Contribution(ctx, campaignID, contributor)
}

// ListEvents returns the event log, optionally filtered by campaign.
func (u *EscrowUseCase) ListEvents(ctx context.Context, campaignID *int64) ([]domain.Event, error) {
	return u.store.ListEvents(ctx, campaignID)
}

// TokenInfo reports the ledger identity backing the engine.
func (u *EscrowUseCase) TokenInfo(ctx context.Context) (*port.TokenInfo, error) {
	supply, err := u.store.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}
	return &port.TokenInfo{EscrowAccount: u.escrowAccount, TotalSupply: supply}, nil
}
