package usecase

import (
	"context"
	"time"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

// TokenUseCase implements port.TokenUseCase over a ledger store. Each
// mutating operation runs in one transaction: the balance and allowance
// deltas plus the event append commit together or not at all.
type TokenUseCase struct {
	store port.Store
}

// NewTokenUseCase creates a token usecase backed by the given store.
func NewTokenUseCase(store port.Store) *TokenUseCase {
	return &TokenUseCase{store: store}
}

// Mint credits amount to an account and grows the total supply. It fails
// with domain.ErrOverflow when the new supply would leave the int64 range;
// balances can never exceed the supply, so the supply check bounds both.
func (u *TokenUseCase) Mint(ctx context.Context, to string, amount int64) error {
	if to == "" || !domain.ValidAmount(amount) {
		return domain.ErrInvalidParameters
	}
	return withTx(ctx, u.store, func(tx port.Tx) error {
		supply, err := tx.TotalSupply(ctx)
		if err != nil {
			return err
		}
		newSupply, err := domain.AddAmount(supply, amount)
		if err != nil {
			return err
		}
		bal, err := tx.BalanceOf(ctx, to)
		if err != nil {
			return err
		}
		newBal, err := domain.AddAmount(bal, amount)
		if err != nil {
			return err
		}
		if err := tx.SetTotalSupply(ctx, newSupply); err != nil {
			return err
		}
		if err := tx.SetBalance(ctx, to, newBal); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.TokensMinted{
			To:     to,
			Amount: amount,
		}, time.Now()))
	})
}

// Transfer moves amount from the caller to another account.
func (u *TokenUseCase) Transfer(ctx context.Context, caller, to string, amount int64) error {
	if caller == "" || to == "" || !domain.ValidAmount(amount) {
		return domain.ErrInvalidParameters
	}
	return withTx(ctx, u.store, func(tx port.Tx) error {
		if err := transferTx(ctx, tx, caller, to, amount); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.TokensTransferred{
			From:   caller,
			To:     to,
			Amount: amount,
		}, time.Now()))
	})
}

// Approve sets the caller's allowance for spender. The new cap replaces any
// previous one.
func (u *TokenUseCase) Approve(ctx context.Context, caller, spender string, amount int64) error {
	if caller == "" || spender == "" || !domain.ValidAmount(amount) {
		return domain.ErrInvalidParameters
	}
	return withTx(ctx, u.store, func(tx port.Tx) error {
		if err := tx.SetAllowance(ctx, caller, spender, amount); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.AllowanceSet{
			Owner:   caller,
			Spender: spender,
			Amount:  amount,
		}, time.Now()))
	})
}

// TransferFrom moves amount from owner to another account on the strength
// of the allowance owner granted the caller, decrementing it by exactly the
// amount moved.
func (u *TokenUseCase) TransferFrom(ctx context.Context, caller, owner, to string, amount int64) error {
	if caller == "" || owner == "" || to == "" || !domain.ValidAmount(amount) {
		return domain.ErrInvalidParameters
	}
	return withTx(ctx, u.store, func(tx port.Tx) error {
		if err := transferFromTx(ctx, tx, caller, owner, to, amount); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, domain.NewEvent(domain.TokensTransferred{
			From:    owner,
			To:      to,
			Amount:  amount,
			Spender: caller,
		}, time.Now()))
	})
}

// BalanceOf returns the committed balance of an account, 0 if unknown.
func (u *TokenUseCase) BalanceOf(ctx context.Context, account string) (int64, error) {
	return u.store.BalanceOf(ctx, account)
}

// Allowance returns the committed allowance, 0 if none was granted.
func (u *TokenUseCase) Allowance(ctx context.Context, owner, spender string) (int64, error) {
	return u.store.Allowance(ctx, owner, spender)
}

// TotalSupply returns the total minted supply.
func (u *TokenUseCase) TotalSupply(ctx context.Context) (int64, error) {
	return u.store.TotalSupply(ctx)
}
