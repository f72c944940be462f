package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

// querier is the query surface shared by pgxpool.Pool and pgx.Tx, so the
// same scan helpers serve committed reads and in-transaction reads.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements port.Store on PostgreSQL via pgxpool. Transactions run
// serializable and lock the balance and campaign rows they touch, which,
// together with the all-or-nothing commit, provides the single-writer
// guarantee the engine assumes.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Begin opens a serializable transaction.
func (s *Store) Begin(ctx context.Context) (port.Tx, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx}, nil
}

func (s *Store) BalanceOf(ctx context.Context, account string) (int64, error) {
	return scanAmount(s.pool.QueryRow(ctx,
		`SELECT amount FROM balances WHERE account = $1`, account))
}

func (s *Store) Allowance(ctx context.Context, owner, spender string) (int64, error) {
	return scanAmount(s.pool.QueryRow(ctx,
		`SELECT amount FROM allowances WHERE owner = $1 AND spender = $2`, owner, spender))
}

func (s *Store) TotalSupply(ctx context.Context) (int64, error) {
	var supply int64
	err := s.pool.QueryRow(ctx, `SELECT total_supply FROM token_meta`).Scan(&supply)
	return supply, err
}

func (s *Store) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	return getCampaign(ctx, s.pool, id, "")
}

func (s *Store) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := s.pool.Query(ctx, campaignColumns+` FROM campaigns ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanCampaign)
}

func (s *Store) CampaignCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM campaigns`).Scan(&count)
	return count, err
}

func (s *Store) Contribution(ctx context.Context, campaignID int64, contributor string) (int64, error) {
	return scanAmount(s.pool.QueryRow(ctx,
		`SELECT amount FROM contributions WHERE campaign_id = $1 AND contributor = $2`,
		campaignID, contributor))
}

func (s *Store) ListEvents(ctx context.Context, campaignID *int64) ([]domain.Event, error) {
	query := `SELECT id, kind, campaign_id, payload, created_at FROM events`
	args := []any{}
	if campaignID != nil {
		query += ` WHERE campaign_id = $1`
		args = append(args, *campaignID)
	}
	query += ` ORDER BY seq`
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Event, error) {
		var (
			ev  domain.Event
			raw []byte
		)
		if err := row.Scan(&ev.ID, &ev.Kind, &ev.CampaignID, &raw, &ev.CreatedAt); err != nil {
			return ev, err
		}
		p, err := domain.DecodePayload(ev.Kind, raw)
		if err != nil {
			return ev, err
		}
		ev.Payload = p
		return ev, nil
	})
}

// pgTx adapts pgx.Tx to port.Tx. In-transaction reads take FOR UPDATE row
// locks so concurrent mutating operations serialize on the rows they share.
type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) BalanceOf(ctx context.Context, account string) (int64, error) {
	return scanAmount(t.tx.QueryRow(ctx,
		`SELECT amount FROM balances WHERE account = $1 FOR UPDATE`, account))
}

func (t *pgTx) SetBalance(ctx context.Context, account string, amount int64) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO balances (account, amount) VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE SET amount = EXCLUDED.amount`, account, amount)
	return err
}

func (t *pgTx) Allowance(ctx context.Context, owner, spender string) (int64, error) {
	return scanAmount(t.tx.QueryRow(ctx,
		`SELECT amount FROM allowances WHERE owner = $1 AND spender = $2 FOR UPDATE`, owner, spender))
}

func (t *pgTx) SetAllowance(ctx context.Context, owner, spender string, amount int64) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO allowances (owner, spender, amount) VALUES ($1, $2, $3)
		ON CONFLICT (owner, spender) DO UPDATE SET amount = EXCLUDED.amount`, owner, spender, amount)
	return err
}

func (t *pgTx) TotalSupply(ctx context.Context) (int64, error) {
	var supply int64
	err := t.tx.QueryRow(ctx, `SELECT total_supply FROM token_meta FOR UPDATE`).Scan(&supply)
	return supply, err
}

func (t *pgTx) SetTotalSupply(ctx context.Context, amount int64) error {
	_, err := t.tx.Exec(ctx, `UPDATE token_meta SET total_supply = $1`, amount)
	return err
}

func (t *pgTx) AppendCampaign(ctx context.Context, c *domain.Campaign) (int64, error) {
	err := t.tx.QueryRow(ctx, `INSERT INTO campaigns
		(title, description, goal, deadline, owner, raised, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		c.Title, c.Description, c.Goal, c.Deadline, c.Owner, c.Raised, c.Completed, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (t *pgTx) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	return getCampaign(ctx, t.tx, id, " FOR UPDATE")
}

func (t *pgTx) AddRaised(ctx context.Context, id, amount int64) error {
	tag, err := t.tx.Exec(ctx, `UPDATE campaigns SET raised = raised + $1 WHERE id = $2`, amount, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

func (t *pgTx) MarkCompleted(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `UPDATE campaigns SET completed = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

func (t *pgTx) Contribution(ctx context.Context, campaignID int64, contributor string) (int64, error) {
	return scanAmount(t.tx.QueryRow(ctx,
		`SELECT amount FROM contributions WHERE campaign_id = $1 AND contributor = $2 FOR UPDATE`,
		campaignID, contributor))
}

func (t *pgTx) AddContribution(ctx context.Context, campaignID int64, contributor string, amount int64) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO contributions (campaign_id, contributor, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (campaign_id, contributor)
		DO UPDATE SET amount = contributions.amount + EXCLUDED.amount`,
		campaignID, contributor, amount)
	return err
}

func (t *pgTx) ClearContribution(ctx context.Context, campaignID int64, contributor string) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE contributions SET amount = 0 WHERE campaign_id = $1 AND contributor = $2`,
		campaignID, contributor)
	return err
}

func (t *pgTx) AppendEvent(ctx context.Context, ev domain.Event) error {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("encode event payload: %w", err)
	}
	_, err = t.tx.Exec(ctx, `INSERT INTO events (id, kind, campaign_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		ev.ID, string(ev.Kind), ev.CampaignID, payload, ev.CreatedAt)
	return err
}

func (t *pgTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

const campaignColumns = `SELECT id, title, description, goal, deadline, owner, raised, completed, created_at`

func getCampaign(ctx context.Context, q querier, id int64, lock string) (*domain.Campaign, error) {
	row := q.QueryRow(ctx, campaignColumns+` FROM campaigns WHERE id = $1`+lock, id)
	var c domain.Campaign
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Goal, &c.Deadline,
		&c.Owner, &c.Raised, &c.Completed, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCampaign(row pgx.CollectableRow) (domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Goal, &c.Deadline,
		&c.Owner, &c.Raised, &c.Completed, &c.CreatedAt)
	return c, err
}

// scanAmount reads a single amount column, mapping a missing row to 0.
func scanAmount(row pgx.Row) (int64, error) {
	var amount int64
	err := row.Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return amount, err
}
