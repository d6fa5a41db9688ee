package codec

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
)

// Deal translates rows of the deals table.
type Deal struct{}

func (Deal) ID(d entity.Deal) uuid.UUID    { return d.ID }
func (Deal) Owner(d entity.Deal) uuid.UUID { return d.UserID }

func (Deal) Decode(row tablestore.Row) (entity.Deal, error) {
	d := decoderFor(row)

	deal := entity.Deal{
		ID:            d.uuid("id"),
		UserID:        d.uuid("user_id"),
		ClientID:      d.uuid("client_id"),
		Title:         d.str("title"),
		Value:         d.dec("value"),
		Stage:         entity.DealStage(d.strDefault("stage", string(entity.DealStageProspect))),
		ExpectedClose: d.tstampPtr("expected_close"),
		CreatedAt:     d.tstamp("created_at"),
		UpdatedAt:     d.tstamp("updated_at"),
	}
	if d.err != nil {
		return entity.Deal{}, d.err
	}

	if err := deal.Stage.Validate(); err != nil {
		return entity.Deal{}, err
	}

	return deal, nil
}

func (Deal) Encode(d entity.Deal) (tablestore.Row, error) {
	if d.Stage == "" {
		d.Stage = entity.DealStageProspect
	}

	if err := d.Stage.Validate(); err != nil {
		return nil, err
	}

	row := tablestore.Row{
		"client_id": d.ClientID,
		"title":     d.Title,
		"value":     d.Value,
		"stage":     string(d.Stage),
	}
	if d.ExpectedClose != nil {
		row["expected_close"] = *d.ExpectedClose
	}

	return row, nil
}

func (Deal) EncodePatch(p entity.DealPatch) (tablestore.Row, error) {
	if p.Stage != nil {
		if err := p.Stage.Validate(); err != nil {
			return nil, err
		}
	}

	row := tablestore.Row{}
	put(row, "client_id", p.ClientID)
	put(row, "title", p.Title)
	put(row, "value", p.Value)
	putString(row, "stage", p.Stage)
	put(row, "expected_close", p.ExpectedClose)

	return row, nil
}

func (Deal) Apply(d entity.Deal, p entity.DealPatch, now time.Time) entity.Deal {
	if p.ClientID != nil {
		d.ClientID = *p.ClientID
	}

	if p.Title != nil {
		d.Title = *p.Title
	}

	if p.Value != nil {
		d.Value = *p.Value
	}

	if p.Stage != nil {
		d.Stage = *p.Stage
	}

	if p.ExpectedClose != nil {
		d.ExpectedClose = p.ExpectedClose
	}

	d.UpdatedAt = now

	return d
}
