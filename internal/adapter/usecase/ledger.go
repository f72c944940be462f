package usecase

import (
	"context"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

// withTx runs fn inside a store transaction, committing on success and
// rolling back on any error. Rollback after a successful commit is a no-op
// per the port contract.
func withTx(ctx context.Context, store port.Store, fn func(tx port.Tx) error) error {
	tx, err := store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// transferTx moves amount between two balances inside tx. All preconditions
// are checked before the first write so a failure leaves the transaction
// untouched.
func transferTx(ctx context.Context, tx port.Tx, from, to string, amount int64) error {
	fromBal, err := tx.BalanceOf(ctx, from)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return domain.ErrInsufficientBalance
	}
	if from == to {
		return nil
	}
	toBal, err := tx.BalanceOf(ctx, to)
	if err != nil {
		return err
	}
	newTo, err := domain.AddAmount(toBal, amount)
	if err != nil {
		return err
	}
	if err := tx.SetBalance(ctx, from, fromBal-amount); err != nil {
		return err
	}
	return tx.SetBalance(ctx, to, newTo)
}

// transferFromTx spends spender's allowance on owner's balance, decrementing
// the allowance by exactly the amount moved.
func transferFromTx(ctx context.Context, tx port.Tx, spender, owner, to string, amount int64) error {
	granted, err := tx.Allowance(ctx, owner, spender)
	if err != nil {
		return err
	}
	if granted < amount {
		return domain.ErrInsufficientAllowance
	}
	if err := transferTx(ctx, tx, owner, to, amount); err != nil {
		return err
	}
	return tx.SetAllowance(ctx, owner, spender, granted-amount)
}
