package domain

import "errors"

// Error kinds surfaced by the ledger and escrow engine. Every mutating
// operation returns either success or exactly one of these; a failed
// operation leaves no observable state change behind. Callers match with
// errors.Is.
var (
	// Validation: the caller supplied out-of-range or inconsistent input.
	ErrInvalidParameters = errors.New("invalid parameters")
	ErrOverflow          = errors.New("amount out of range")

	// Authorization: the caller lacks the required capability.
	ErrOnlyOwner = errors.New("caller is not the campaign owner")

	// State: the operation is invalid for the entity's current lifecycle state.
	ErrCampaignCompleted    = errors.New("campaign already completed")
	ErrCampaignNotCompleted = errors.New("campaign not completed")
	ErrCampaignSuccessful   = errors.New("campaign reached its goal")
	ErrDeadlineReached      = errors.New("campaign deadline has passed")
	ErrDeadlineNotReached   = errors.New("campaign deadline not reached")
	ErrNoContribution       = errors.New("no contribution to refund")

	// Resource: the referenced resource is missing or inadequate.
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrCampaignNotFound      = errors.New("campaign not found")
)
