package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/core/domain"
)

func TestCommitPublishes(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SetBalance(ctx, "alice", 100))
	require.NoError(t, tx.SetTotalSupply(ctx, 100))
	require.NoError(t, tx.Commit(ctx))

	bal, err := store.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 100, bal)
	supply, err := store.TotalSupply(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 100, supply)
}

func TestRollbackDiscards(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SetBalance(ctx, "alice", 100))
	_, err = tx.AppendCampaign(ctx, &domain.Campaign{Title: "x", Goal: 1, Deadline: 10, Owner: "alice"})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	bal, err := store.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, bal)
	count, err := store.CampaignCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

// Readers see the committed snapshot while a transaction is staging writes.
func TestReadersSeeCommittedState(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SetBalance(ctx, "alice", 100))

	bal, err := store.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, bal)

	require.NoError(t, tx.Commit(ctx))
	bal, err = store.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 100, bal)
}

func TestRollbackAfterCommitIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SetBalance(ctx, "alice", 100))
	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx))

	bal, err := store.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 100, bal)
}

func TestTransactionsSerialize(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	started := make(chan struct{})
	committed := make(chan struct{})
	go func() {
		close(started)
		tx2, err := store.Begin(ctx) // blocks until tx finishes
		if err == nil {
			_ = tx2.Rollback(ctx)
		}
		close(committed)
	}()

	<-started
	select {
	case <-committed:
		t.Fatal("second transaction started while the first was open")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, tx.Commit(ctx))
	select {
	case <-committed:
	case <-time.After(time.Second):
		t.Fatal("second transaction never unblocked")
	}
}

func TestCampaignIDsAreSequential(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	for want := int64(0); want < 3; want++ {
		tx, err := store.Begin(ctx)
		require.NoError(t, err)
		id, err := tx.AppendCampaign(ctx, &domain.Campaign{Title: "c", Goal: 1, Deadline: 10, Owner: "alice"})
		require.NoError(t, err)
		assert.Equal(t, want, id)
		require.NoError(t, tx.Commit(ctx))
	}

	campaigns, err := store.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 3)
	for i, c := range campaigns {
		assert.EqualValues(t, i, c.ID)
	}
}

func TestGetCampaignNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.GetCampaign(ctx, 0)
	require.ErrorIs(t, err, domain.ErrCampaignNotFound)
	_, err = store.GetCampaign(ctx, -1)
	require.ErrorIs(t, err, domain.ErrCampaignNotFound)
}

func TestContributionDefaultsAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	amount, err := store.Contribution(ctx, 0, "bob")
	require.NoError(t, err)
	assert.Zero(t, amount)

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.AddContribution(ctx, 0, "bob", 70))
	require.NoError(t, tx.AddContribution(ctx, 0, "bob", 30))
	require.NoError(t, tx.ClearContribution(ctx, 1, "bob")) // absent entry, no-op
	require.NoError(t, tx.Commit(ctx))

	amount, err = store.Contribution(ctx, 0, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 100, amount)
}

func TestEventFiltering(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	campaign := int64(7)
	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.AppendEvent(ctx, domain.NewEvent(domain.TokensMinted{To: "alice", Amount: 5}, time.Now())))
	require.NoError(t, tx.AppendEvent(ctx, domain.NewEvent(domain.ContributionMade{CampaignID: campaign, Contributor: "bob", Amount: 5}, time.Now())))
	require.NoError(t, tx.Commit(ctx))

	all, err := store.ListEvents(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := store.ListEvents(ctx, &campaign)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, domain.EventContributionMade, filtered[0].Kind)
}
