package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/adapter/memory"
	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

const escrowAccount = "escrow"

func newEngine(t *testing.T) (*EscrowUseCase, *TokenUseCase) {
	t.Helper()
	store := memory.NewStore()
	return NewEscrowUseCase(store, escrowAccount), NewTokenUseCase(store)
}

// fund mints tokens to an account and approves the escrow account for the
// full amount, the prerequisite for contributing.
func fund(t *testing.T, token *TokenUseCase, account string, amount int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, token.Mint(ctx, account, amount))
	require.NoError(t, token.Approve(ctx, account, escrowAccount, amount))
}

func createCampaign(t *testing.T, escrow *EscrowUseCase, owner string, goal, deadline, now int64) int64 {
	t.Helper()
	id, err := escrow.CreateCampaign(context.Background(), owner, port.CreateCampaignReq{
		Title:       "test campaign",
		Description: "test",
		Goal:        goal,
		Deadline:    deadline,
	}, now)
	require.NoError(t, err)
	return id
}

func TestCreateCampaign(t *testing.T) {
	ctx := context.Background()
	escrow, _ := newEngine(t)

	id, err := escrow.CreateCampaign(ctx, "alice", port.CreateCampaignReq{
		Title:       "garden",
		Description: "seeds and tools",
		Goal:        1000,
		Deadline:    2000,
	}, 1000)
	require.NoError(t, err)
	assert.EqualValues(t, 0, id)

	c, err := escrow.GetCampaign(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", c.Owner)
	assert.EqualValues(t, 1000, c.Goal)
	assert.EqualValues(t, 2000, c.Deadline)
	assert.Zero(t, c.Raised)
	assert.False(t, c.Completed)

	// Ids are sequential from 0.
	id2, err := escrow.CreateCampaign(ctx, "bob", port.CreateCampaignReq{
		Title: "second", Goal: 1, Deadline: 2000,
	}, 1000)
	require.NoError(t, err)
	assert.EqualValues(t, 1, id2)

	count, err := escrow.CampaignCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestCreateCampaignInvalidParameters(t *testing.T) {
	ctx := context.Background()
	escrow, _ := newEngine(t)

	cases := []struct {
		name     string
		goal     int64
		deadline int64
	}{
		{"zero goal", 0, 2000},
		{"negative goal", -5, 2000},
		{"deadline in the past", 1000, 500},
		{"deadline equals now", 1000, 1000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := escrow.CreateCampaign(ctx, "alice", port.CreateCampaignReq{
				Title: "x", Goal: tc.goal, Deadline: tc.deadline,
			}, 1000)
			require.ErrorIs(t, err, domain.ErrInvalidParameters)
		})
	}

	count, err := escrow.CampaignCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

// Scenario: goal met before the deadline, finalize pays the owner the full
// raised amount including over-funding, and no refunds are claimable.
func TestSuccessfulCampaignPaysOwner(t *testing.T) {
	ctx := context.Background()
	escrow, token := newEngine(t)
	fund(t, token, "bob", 600)
	fund(t, token, "carol", 500)

	id := createCampaign(t, escrow, "alice", 1000, 2000, 1000)
	require.NoError(t, escrow.Contribute(ctx, "bob", id, 600, 1500))
	require.NoError(t, escrow.Contribute(ctx, "carol", id, 500, 2000)) // at the deadline, still open

	c, err := escrow.GetCampaign(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1100, c.Raised)

	success, err := escrow.Finalize(ctx, "alice", id, 2001)
	require.NoError(t, err)
	assert.True(t, success)

	ownerBal, err := token.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1100, ownerBal)
	escrowBal, err := token.BalanceOf(ctx, escrowAccount)
	require.NoError(t, err)
	assert.Zero(t, escrowBal)

	_, err = escrow.ClaimRefund(ctx, "bob", id)
	require.ErrorIs(t, err, domain.ErrCampaignSuccessful)

	supply, err := token.TotalSupply(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1100, supply)
}

// Scenario: goal missed, finalize moves no funds and each contributor can
// reclaim their stake exactly once.
func TestFailedCampaignRefunds(t *testing.T) {
	ctx := context.Background()
	escrow, token := newEngine(t)
	fund(t, token, "bob", 300)

	id := createCampaign(t, escrow, "alice", 1000, 1100, 1000)
	require.NoError(t, escrow.Contribute(ctx, "bob", id, 300, 1050))

	success, err := escrow.Finalize(ctx, "alice", id, 1101)
	require.NoError(t, err)
	assert.False(t, success)

	// Failure branch: funds stay escrowed, owner receives nothing.
	ownerBal, err := token.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, ownerBal)
	escrowBal, err := token.BalanceOf(ctx, escrowAccount)
	require.NoError(t, err)
	assert.EqualValues(t, 300, escrowBal)

	refunded, err := escrow.ClaimRefund(ctx, "bob", id)
	require.NoError(t, err)
	assert.EqualValues(t, 300, refunded)
	bobBal, err := token.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 300, bobBal)

	contribution, err := escrow.GetContribution(ctx, id, "bob")
	require.NoError(t, err)
	assert.Zero(t, contribution)

	_, err = escrow.ClaimRefund(ctx, "bob", id)
	require.ErrorIs(t, err, domain.ErrNoContribution)
}

func TestContributeAfterDeadline(t *testing.T) {
	ctx := context.Background()
	escrow, token := newEngine(t)
	fund(t, token, "bob", 500)

	id := createCampaign(t, escrow, "alice", 1000, 1100, 1000)
	err := escrow.Contribute(ctx, "bob", id, 500, 1101)
	require.ErrorIs(t, err, domain.ErrDeadlineReached)

	// Campaign and balances are untouched.
	c, err := escrow.GetCampaign(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, c.Raised)
	bal, err := token.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 500, bal)
}

func TestFinalizeOnlyOwner(t *testing.T) {
	ctx := context.Background()
	escrow, _ := newEngine(t)
	id := createCampaign(t, escrow, "alice", 1000, 1100, 1000)

	// Authorization is checked before deadline state: OnlyOwner both
	// before and after the deadline.
	_, err := escrow.Finalize(ctx, "mallory", id, 1050)
	require.ErrorIs(t, err, domain.ErrOnlyOwner)
	_, err = escrow.Finalize(ctx, "mallory", id, 1200)
	require.ErrorIs(t, err, domain.ErrOnlyOwner)

	c, err := escrow.GetCampaign(ctx, id)
	require.NoError(t, err)
	assert.False(t, c.Completed)
}

func TestFinalizeLifecycle(t *testing.T) {
	ctx := context.Background()
	escrow, _ := newEngine(t)
	id := createCampaign(t, escrow, "alice", 1000, 1100, 1000)

	_, err := escrow.Finalize(ctx, "alice", id, 1100) // now == deadline, not yet
	require.ErrorIs(t, err, domain.ErrDeadlineNotReached)

	_, err = escrow.Finalize(ctx, "alice", id, 1101)
	require.NoError(t, err)

	// Terminal state: finalize never fires twice.
	_, err = escrow.Finalize(ctx, "alice", id, 1200)
	require.ErrorIs(t, err, domain.ErrCampaignCompleted)
}

func TestContributeErrors(t *testing.T) {
	ctx := context.Background()
	escrow, token := newEngine(t)
	id := createCampaign(t, escrow, "alice", 1000, 2000, 1000)

	err := escrow.Contribute(ctx, "bob", 42, 100, 1500)
	require.ErrorIs(t, err, domain.ErrCampaignNotFound)

	err = escrow.Contribute(ctx, "bob", id, 0, 1500)
	require.ErrorIs(t, err, domain.ErrInvalidParameters)
	err = escrow.Contribute(ctx, "bob", id, -10, 1500)
	require.ErrorIs(t, err, domain.ErrInvalidParameters)

	// No approval at all.
	require.NoError(t, token.Mint(ctx, "bob", 100))
	err = escrow.Contribute(ctx, "bob", id, 100, 1500)
	require.ErrorIs(t, err, domain.ErrInsufficientAllowance)

	// Approval present but not enough balance.
	require.NoError(t, token.Approve(ctx, "bob", escrowAccount, 1_000))
	err = escrow.Contribute(ctx, "bob", id, 500, 1500)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// Completed campaign rejects contributions even before its deadline
	// would have passed.
	shortID := createCampaign(t, escrow, "alice", 1, 1100, 1000)
	_, err = escrow.Finalize(ctx, "alice", shortID, 1101)
	require.NoError(t, err)
	err = escrow.Contribute(ctx, "bob", shortID, 100, 1050)
	require.ErrorIs(t, err, domain.ErrCampaignCompleted)
}

// A failed contribution must leave no observable trace: no token debit, no
// allowance decrement, no raised or contribution delta, no event.
func TestContributeIsAtomic(t *testing.T) {
	ctx := context.Background()
	escrow, token := newEngine(t)
	require.NoError(t, token.Mint(ctx, "bob", 100))
	require.NoError(t, token.Approve(ctx, "bob", escrowAccount, 500))

	id := createCampaign(t, escrow, "alice", 1000, 2000, 1000)
	before, err := escrow.ListEvents(ctx, nil)
	require.NoError(t, err)

	err = escrow.Contribute(ctx, "bob", id, 500, 1500)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	bal, err := token.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 100, bal)
	granted, err := token.Allowance(ctx, "bob", escrowAccount)
	require.NoError(t, err)
	assert.EqualValues(t, 500, granted)
	c, err := escrow.GetCampaign(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, c.Raised)
	contribution, err := escrow.GetContribution(ctx, id, "bob")
	require.NoError(t, err)
	assert.Zero(t, contribution)
	after, err := escrow.ListEvents(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestRefundBeforeFinalize(t *testing.T) {
	ctx := context.Background()
	escrow, token := newEngine(t)
	fund(t, token, "bob", 300)
	id := createCampaign(t, escrow, "alice", 1000, 2000, 1000)
	require.NoError(t, escrow.Contribute(ctx, "bob", id, 300, 1500))

	_, err := escrow.ClaimRefund(ctx, "bob", id)
	require.ErrorIs(t, err, domain.ErrCampaignNotCompleted)
}

// Raised always equals the sum of contribution entries, and the total
// supply never changes across contribute/finalize/refund.
func TestAccountingInvariants(t *testing.T) {
	ctx := context.Background()
	escrow, token := newEngine(t)
	fund(t, token, "bob", 1_000)
	fund(t, token, "carol", 1_000)

	id := createCampaign(t, escrow, "alice", 500, 2000, 1000)
	require.NoError(t, escrow.Contribute(ctx, "bob", id, 200, 1100))
	require.NoError(t, escrow.Contribute(ctx, "carol", id, 300, 1200))
	require.NoError(t, escrow.Contribute(ctx, "bob", id, 400, 1300)) // over-funding allowed

	c, err := escrow.GetCampaign(ctx, id)
	require.NoError(t, err)
	bob, err := escrow.GetContribution(ctx, id, "bob")
	require.NoError(t, err)
	carol, err := escrow.GetContribution(ctx, id, "carol")
	require.NoError(t, err)
	assert.EqualValues(t, 900, c.Raised)
	assert.Equal(t, c.Raised, bob+carol)

	supply, err := token.TotalSupply(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2_000, supply)

	success, err := escrow.Finalize(ctx, "alice", id, 2001)
	require.NoError(t, err)
	assert.True(t, success) // over-funded beyond the goal, paid out in full

	ownerBal, err := token.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 900, ownerBal)

	supply, err = token.TotalSupply(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2_000, supply)
}

func TestEventLog(t *testing.T) {
	ctx := context.Background()
	escrow, token := newEngine(t)
	fund(t, token, "bob", 300)

	id := createCampaign(t, escrow, "alice", 1000, 1100, 1000)
	require.NoError(t, escrow.Contribute(ctx, "bob", id, 300, 1050))
	_, err := escrow.Finalize(ctx, "alice", id, 1101)
	require.NoError(t, err)
	_, err = escrow.ClaimRefund(ctx, "bob", id)
	require.NoError(t, err)

	events, err := escrow.ListEvents(ctx, &id)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, domain.EventCampaignCreated, events[0].Kind)
	assert.Equal(t, domain.EventContributionMade, events[1].Kind)
	assert.Equal(t, domain.EventCampaignFinalized, events[2].Kind)
	assert.Equal(t, domain.EventRefundClaimed, events[3].Kind)

	finalized, ok := events[2].Payload.(domain.CampaignFinalized)
	require.True(t, ok)
	assert.False(t, finalized.Success)

	// The unfiltered log additionally carries the token events from fund.
	all, err := escrow.ListEvents(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestTokenInfo(t *testing.T) {
	ctx := context.Background()
	escrow, token := newEngine(t)
	require.NoError(t, token.Mint(ctx, "alice", 250))

	info, err := escrow.TokenInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, escrowAccount, info.EscrowAccount)
	assert.EqualValues(t, 250, info.TotalSupply)
}
