package codec

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
)

// Interaction translates rows of the interactions table.
type Interaction struct{}

func (Interaction) ID(i entity.Interaction) uuid.UUID    { return i.ID }
func (Interaction) Owner(i entity.Interaction) uuid.UUID { return i.UserID }

func (Interaction) Decode(row tablestore.Row) (entity.Interaction, error) {
	d := decoderFor(row)

	i := entity.Interaction{
		ID:         d.uuid("id"),
		UserID:     d.uuid("user_id"),
		ClientID:   d.uuid("client_id"),
		Kind:       entity.InteractionKind(d.str("kind")),
		Summary:    d.str("summary"),
		OccurredAt: d.tstamp("occurred_at"),
		CreatedAt:  d.tstamp("created_at"),
	}
	if d.err != nil {
		return entity.Interaction{}, d.err
	}

	if err := i.Kind.Validate(); err != nil {
		return entity.Interaction{}, err
	}

	return i, nil
}

func (Interaction) Encode(i entity.Interaction) (tablestore.Row, error) {
	if err := i.Kind.Validate(); err != nil {
		return nil, err
	}

	return tablestore.Row{
		"client_id":   i.ClientID,
		"kind":        string(i.Kind),
		"summary":     i.Summary,
		"occurred_at": i.OccurredAt,
	}, nil
}

func (Interaction) EncodePatch(p entity.InteractionPatch) (tablestore.Row, error) {
	if p.Kind != nil {
		if err := p.Kind.Validate(); err != nil {
			return nil, err
		}
	}

	row := tablestore.Row{}
	put(row, "client_id", p.ClientID)
	putString(row, "kind", p.Kind)
	put(row, "summary", p.Summary)
	put(row, "occurred_at", p.OccurredAt)

	return row, nil
}

func (Interaction) Apply(i entity.Interaction, p entity.InteractionPatch, _ time.Time) entity.Interaction {
	if p.ClientID != nil {
		i.ClientID = *p.ClientID
	}

	if p.Kind != nil {
		i.Kind = *p.Kind
	}

	if p.Summary != nil {
		i.Summary = *p.Summary
	}

	if p.OccurredAt != nil {
		i.OccurredAt = *p.OccurredAt
	}

	return i
}
