package db

import (
	"context"
	"fmt"
	"time"

	"crowdfund/internal/core/port"
)

// Seed inserts demo data through the usecases: faucet-funded accounts, a
// long-running campaign and a nearly-expired one, plus a first
// contribution. It is skipped when the ledger already holds campaigns, so
// restarting with LEDGER_SEED=true does not double-fund accounts.
func Seed(ctx context.Context, escrow port.EscrowUseCase, token port.TokenUseCase, escrowAccount string) error {
	count, err := escrow.CampaignCount(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, account := range []string{"alice", "bob", "carol"} {
		if err := token.Mint(ctx, account, 10_000); err != nil {
			return fmt.Errorf("mint for %s: %w", account, err)
		}
	}

	now := time.Now().Unix()
	openID, err := escrow.CreateCampaign(ctx, "alice", port.CreateCampaignReq{
		Title:       "Community garden",
		Description: "Raised funds buy seeds and tools for the neighbourhood plot.",
		Goal:        5_000,
		Deadline:    now + 7*24*3600,
	}, now)
	if err != nil {
		return err
	}
	if _, err = escrow.CreateCampaign(ctx, "bob", port.CreateCampaignReq{
		Title:       "Short fuse",
		Description: "A campaign about to expire, for exercising finalization.",
		Goal:        1_000,
		Deadline:    now + 60,
	}, now); err != nil {
		return err
	}

	if err = token.Approve(ctx, "bob", escrowAccount, 5_000); err != nil {
		return err
	}
	return escrow.Contribute(ctx, "bob", openID, 1_500, now)
}
