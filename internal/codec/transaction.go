package codec

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
)

// Transaction translates rows of the transactions table. Transactions carry
// no updated_at; Apply leaves timestamps alone.
type Transaction struct{}

func (Transaction) ID(t entity.Transaction) uuid.UUID    { return t.ID }
func (Transaction) Owner(t entity.Transaction) uuid.UUID { return t.UserID }

func (Transaction) Decode(row tablestore.Row) (entity.Transaction, error) {
	d := decoderFor(row)

	t := entity.Transaction{
		ID:          d.uuid("id"),
		UserID:      d.uuid("user_id"),
		Description: d.str("description"),
		Amount:      d.dec("amount"),
		Kind:        entity.TransactionKind(d.str("kind")),
		Category:    d.str("category"),
		OccurredOn:  d.tstamp("occurred_on"),
		CreatedAt:   d.tstamp("created_at"),
	}
	if d.err != nil {
		return entity.Transaction{}, d.err
	}

	if err := t.Kind.Validate(); err != nil {
		return entity.Transaction{}, err
	}

	return t, nil
}

func (Transaction) Encode(t entity.Transaction) (tablestore.Row, error) {
	if err := t.Kind.Validate(); err != nil {
		return nil, err
	}

	return tablestore.Row{
		"description": t.Description,
		"amount":      t.Amount,
		"kind":        string(t.Kind),
		"category":    t.Category,
		"occurred_on": t.OccurredOn,
	}, nil
}

func (Transaction) EncodePatch(p entity.TransactionPatch) (tablestore.Row, error) {
	if p.Kind != nil {
		if err := p.Kind.Validate(); err != nil {
			return nil, err
		}
	}

	row := tablestore.Row{}
	put(row, "description", p.Description)
	put(row, "amount", p.Amount)
	putString(row, "kind", p.Kind)
	put(row, "category", p.Category)
	put(row, "occurred_on", p.OccurredOn)

	return row, nil
}

func (Transaction) Apply(t entity.Transaction, p entity.TransactionPatch, _ time.Time) entity.Transaction {
	if p.Description != nil {
		t.Description = *p.Description
	}

	if p.Amount != nil {
		t.Amount = *p.Amount
	}

	if p.Kind != nil {
		t.Kind = *p.Kind
	}

	if p.Category != nil {
		t.Category = *p.Category
	}

	if p.OccurredOn != nil {
		t.OccurredOn = *p.OccurredOn
	}

	return t
}
