package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

type allowanceKey struct {
	owner   string
	spender string
}

type contributionKey struct {
	campaignID  int64
	contributor string
}

// ledgerState is one immutable snapshot of the whole ledger. Transactions
// stage their writes on a deep copy and swap it in on commit, so readers
// always see the last committed state and a rolled-back transaction leaves
// nothing behind.
type ledgerState struct {
	balances      map[string]int64
	allowances    map[allowanceKey]int64
	supply        int64
	campaigns     []domain.Campaign
	contributions map[contributionKey]int64
	events        []domain.Event
}

func (s *ledgerState) clone() *ledgerState {
	return &ledgerState{
		balances:      maps.Clone(s.balances),
		allowances:    maps.Clone(s.allowances),
		supply:        s.supply,
		campaigns:     slices.Clone(s.campaigns),
		contributions: maps.Clone(s.contributions),
		events:        slices.Clone(s.events),
	}
}

// Store is an in-memory port.Store. It backs the usecase tests and makes
// the engine usable embedded, with zero infrastructure. Writes are
// serialized by a transaction mutex held from Begin to Commit/Rollback
// (single logical writer); reads take the committed snapshot.
type Store struct {
	writeMu sync.Mutex   // serializes transactions
	stateMu sync.RWMutex // guards the committed-state pointer
	state   *ledgerState
}

// NewStore creates an empty ledger.
func NewStore() *Store {
	return &Store{state: &ledgerState{
		balances:      make(map[string]int64),
		allowances:    make(map[allowanceKey]int64),
		contributions: make(map[contributionKey]int64),
	}}
}

func (s *Store) committed() *ledgerState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Begin opens a transaction. It blocks until any in-flight transaction
// commits or rolls back.
func (s *Store) Begin(ctx context.Context) (port.Tx, error) {
	s.writeMu.Lock()
	return &memTx{store: s, staged: s.committed().clone()}, nil
}

func (s *Store) BalanceOf(ctx context.Context, account string) (int64, error) {
	return s.committed().balances[account], nil
}

func (s *Store) Allowance(ctx context.Context, owner, spender string) (int64, error) {
	return s.committed().allowances[allowanceKey{owner, spender}], nil
}

func (s *Store) TotalSupply(ctx context.Context) (int64, error) {
	return s.committed().supply, nil
}

func (s *Store) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	return getCampaign(s.committed(), id)
}

func (s *Store) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	return slices.Clone(s.committed().campaigns), nil
}

func (s *Store) CampaignCount(ctx context.Context) (int64, error) {
	return int64(len(s.committed().campaigns)), nil
}

func (s *Store) Contribution(ctx context.Context, campaignID int64, contributor string) (int64, error) {
	return s.committed().contributions[contributionKey{campaignID, contributor}], nil
}

func (s *Store) ListEvents(ctx context.Context, campaignID *int64) ([]domain.Event, error) {
	return listEvents(s.committed(), campaignID), nil
}

func getCampaign(st *ledgerState, id int64) (*domain.Campaign, error) {
	if id < 0 || id >= int64(len(st.campaigns)) {
		return nil, domain.ErrCampaignNotFound
	}
	c := st.campaigns[id]
	return &c, nil
}

func listEvents(st *ledgerState, campaignID *int64) []domain.Event {
	if campaignID == nil {
		return slices.Clone(st.events)
	}
	var out []domain.Event
	for _, ev := range st.events {
		if ev.CampaignID != nil && *ev.CampaignID == *campaignID {
			out = append(out, ev)
		}
	}
	return out
}

// memTx stages writes on a private snapshot. Commit publishes the snapshot
// and releases the writer lock; Rollback just releases it.
type memTx struct {
	store  *Store
	staged *ledgerState
	done   bool
}

func (t *memTx) BalanceOf(ctx context.Context, account string) (int64, error) {
	return t.staged.balances[account], nil
}

func (t *memTx) SetBalance(ctx context.Context, account string, amount int64) error {
	t.staged.balances[account] = amount
	return nil
}

func (t *memTx) Allowance(ctx context.Context, owner, spender string) (int64, error) {
	return t.staged.allowances[allowanceKey{owner, spender}], nil
}

func (t *memTx) SetAllowance(ctx context.Context, owner, spender string, amount int64) error {
	t.staged.allowances[allowanceKey{owner, spender}] = amount
	return nil
}

func (t *memTx) TotalSupply(ctx context.Context) (int64, error) {
	return t.staged.supply, nil
}

func (t *memTx) SetTotalSupply(ctx context.Context, amount int64) error {
	t.staged.supply = amount
	return nil
}

func (t *memTx) AppendCampaign(ctx context.Context, c *domain.Campaign) (int64, error) {
	c.ID = int64(len(t.staged.campaigns))
	t.staged.campaigns = append(t.staged.campaigns, *c)
	return c.ID, nil
}

func (t *memTx) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	return getCampaign(t.staged, id)
}

func (t *memTx) AddRaised(ctx context.Context, id, amount int64) error {
	if id < 0 || id >= int64(len(t.staged.campaigns)) {
		return domain.ErrCampaignNotFound
	}
	t.staged.campaigns[id].Raised += amount
	return nil
}

func (t *memTx) MarkCompleted(ctx context.Context, id int64) error {
	if id < 0 || id >= int64(len(t.staged.campaigns)) {
		return domain.ErrCampaignNotFound
	}
	t.staged.campaigns[id].Completed = true
	return nil
}

func (t *memTx) Contribution(ctx context.Context, campaignID int64, contributor string) (int64, error) {
	return t.staged.contributions[contributionKey{campaignID, contributor}], nil
}

func (t *memTx) AddContribution(ctx context.Context, campaignID int64, contributor string, amount int64) error {
	t.staged.contributions[contributionKey{campaignID, contributor}] += amount
	return nil
}

func (t *memTx) ClearContribution(ctx context.Context, campaignID int64, contributor string) error {
	t.staged.contributions[contributionKey{campaignID, contributor}] = 0
	return nil
}

func (t *memTx) AppendEvent(ctx context.Context, ev domain.Event) error {
	t.staged.events = append(t.staged.events, ev)
	return nil
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.stateMu.Lock()
	t.store.state = t.staged
	t.store.stateMu.Unlock()
	t.store.writeMu.Unlock()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.writeMu.Unlock()
	return nil
}
