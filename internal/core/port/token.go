package port

import "context"

// TokenUseCase is the fungible-token surface: the monetary substrate the
// escrow engine builds on. All mutating operations are atomic and preserve
// the conservation invariant (the sum of all balances equals the total
// minted supply). Mint is an open faucet; restricting issuance is a
// deliberate extension point, not part of the core contract.
type TokenUseCase interface {
	Mint(ctx context.Context, to string, amount int64) error
	Transfer(ctx context.Context, caller, to string, amount int64) error
	// Approve replaces (not accumulates) the caller's allowance for spender.
	Approve(ctx context.Context, caller, spender string, amount int64) error
	// TransferFrom spends caller's allowance on owner's balance.
	TransferFrom(ctx context.Context, caller, owner, to string, amount int64) error

	BalanceOf(ctx context.Context, account string) (int64, error)
	Allowance(ctx context.Context, owner, spender string) (int64, error)
	TotalSupply(ctx context.Context) (int64, error)
}
