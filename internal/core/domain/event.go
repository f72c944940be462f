package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventKind identifies the payload type of a ledger event.
type EventKind string

const (
	EventCampaignCreated   EventKind = "campaign_created"
	EventContributionMade  EventKind = "contribution_made"
	EventCampaignFinalized EventKind = "campaign_finalized"
	EventRefundClaimed     EventKind = "refund_claimed"
	EventTokensMinted      EventKind = "tokens_minted"
	EventTokensTransferred EventKind = "tokens_transferred"
	EventAllowanceSet      EventKind = "allowance_set"
)

// Payload is the kind-specific body of an event.
type Payload interface {
	Kind() EventKind
}

// Event is one entry in the append-only event log. Exactly one event is
// recorded per successful mutating operation, inside the same transaction
// as the state change it describes. CampaignID is set for escrow events
// and nil for pure token events.
type Event struct {
	ID         string    `json:"id"`
	Kind       EventKind `json:"kind"`
	CampaignID *int64    `json:"campaign_id,omitempty"`
	Payload    Payload   `json:"payload"`
	CreatedAt  time.Time `json:"created_at"`
}

// CampaignCreated is emitted when a campaign is appended to the store.
type CampaignCreated struct {
	CampaignID int64  `json:"campaign_id"`
	Owner      string `json:"owner"`
	Goal       int64  `json:"goal"`
	Deadline   int64  `json:"deadline"`
}

func (CampaignCreated) Kind() EventKind { return EventCampaignCreated }

// ContributionMade is emitted when a contribution is escrowed.
type ContributionMade struct {
	CampaignID  int64  `json:"campaign_id"`
	Contributor string `json:"contributor"`
	Amount      int64  `json:"amount"`
}

func (ContributionMade) Kind() EventKind { return EventContributionMade }

// CampaignFinalized is emitted on the one-time close of a campaign.
type CampaignFinalized struct {
	CampaignID int64 `json:"campaign_id"`
	Success    bool  `json:"success"`
}

func (CampaignFinalized) Kind() EventKind { return EventCampaignFinalized }

// RefundClaimed is emitted when a contributor reclaims their stake from a
// failed campaign.
type RefundClaimed struct {
	CampaignID  int64  `json:"campaign_id"`
	Contributor string `json:"contributor"`
	Amount      int64  `json:"amount"`
}

func (RefundClaimed) Kind() EventKind { return EventRefundClaimed }

// TokensMinted is emitted by the faucet.
type TokensMinted struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

func (TokensMinted) Kind() EventKind { return EventTokensMinted }

// TokensTransferred is emitted for direct and delegated transfers. Spender
// is empty for direct transfers.
type TokensTransferred struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Amount  int64  `json:"amount"`
	Spender string `json:"spender,omitempty"`
}

func (TokensTransferred) Kind() EventKind { return EventTokensTransferred }

// AllowanceSet is emitted when an owner grants a spending cap.
type AllowanceSet struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  int64  `json:"amount"`
}

func (AllowanceSet) Kind() EventKind { return EventAllowanceSet }

// NewEvent wraps a payload into an Event with a fresh identifier. Escrow
// payloads carry their campaign reference into the envelope so the log can
// be filtered by campaign.
func NewEvent(p Payload, at time.Time) Event {
	ev := Event{
		ID:        uuid.NewString(),
		Kind:      p.Kind(),
		Payload:   p,
		CreatedAt: at.UTC(),
	}
	switch body := p.(type) {
	case CampaignCreated:
		ev.CampaignID = &body.CampaignID
	case ContributionMade:
		ev.CampaignID = &body.CampaignID
	case CampaignFinalized:
		ev.CampaignID = &body.CampaignID
	case RefundClaimed:
		ev.CampaignID = &body.CampaignID
	}
	return ev
}

// DecodePayload unmarshals a stored payload body according to its kind.
func DecodePayload(kind EventKind, raw []byte) (Payload, error) {
	var (
		p   Payload
		err error
	)
	switch kind {
	case EventCampaignCreated:
		var body CampaignCreated
		err = json.Unmarshal(raw, &body)
		p = body
	case EventContributionMade:
		var body ContributionMade
		err = json.Unmarshal(raw, &body)
		p = body
	case EventCampaignFinalized:
		var body CampaignFinalized
		err = json.Unmarshal(raw, &body)
		p = body
	case EventRefundClaimed:
		var body RefundClaimed
		err = json.Unmarshal(raw, &body)
		p = body
	case EventTokensMinted:
		var body TokensMinted
		err = json.Unmarshal(raw, &body)
		p = body
	case EventTokensTransferred:
		var body TokensTransferred
		err = json.Unmarshal(raw, &body)
		p = body
	case EventAllowanceSet:
		var body AllowanceSet
		err = json.Unmarshal(raw, &body)
		p = body
	default:
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
