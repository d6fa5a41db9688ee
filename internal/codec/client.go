package codec

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
)

// Client translates rows of the clients table.
type Client struct{}

func (Client) ID(c entity.Client) uuid.UUID    { return c.ID }
func (Client) Owner(c entity.Client) uuid.UUID { return c.UserID }

func (Client) Decode(row tablestore.Row) (entity.Client, error) {
	d := decoderFor(row)

	c := entity.Client{
		ID:        d.uuid("id"),
		UserID:    d.uuid("user_id"),
		Name:      d.str("name"),
		Company:   d.str("company"),
		Email:     d.str("email"),
		Phone:     d.str("phone"),
		Status:    entity.ClientStatus(d.strDefault("status", string(entity.ClientStatusLead))),
		Notes:     d.str("notes"),
		CreatedAt: d.tstamp("created_at"),
		UpdatedAt: d.tstamp("updated_at"),
	}
	if d.err != nil {
		return entity.Client{}, d.err
	}

	if err := c.Status.Validate(); err != nil {
		return entity.Client{}, err
	}

	return c, nil
}

func (Client) Encode(c entity.Client) (tablestore.Row, error) {
	if c.Status == "" {
		c.Status = entity.ClientStatusLead
	}

	if err := c.Status.Validate(); err != nil {
		return nil, err
	}

	return tablestore.Row{
		"name":    c.Name,
		"company": c.Company,
		"email":   c.Email,
		"phone":   c.Phone,
		"status":  string(c.Status),
		"notes":   c.Notes,
	}, nil
}

func (Client) EncodePatch(p entity.ClientPatch) (tablestore.Row, error) {
	if p.Status != nil {
		if err := p.Status.Validate(); err != nil {
			return nil, err
		}
	}

	row := tablestore.Row{}
	put(row, "name", p.Name)
	put(row, "company", p.Company)
	put(row, "email", p.Email)
	put(row, "phone", p.Phone)
	putString(row, "status", p.Status)
	put(row, "notes", p.Notes)

	return row, nil
}

func (Client) Apply(c entity.Client, p entity.ClientPatch, now time.Time) entity.Client {
	if p.Name != nil {
		c.Name = *p.Name
	}

	if p.Company != nil {
		c.Company = *p.Company
	}

	if p.Email != nil {
		c.Email = *p.Email
	}

	if p.Phone != nil {
		c.Phone = *p.Phone
	}

	if p.Status != nil {
		c.Status = *p.Status
	}

	if p.Notes != nil {
		c.Notes = *p.Notes
	}

	c.UpdatedAt = now

	return c
}
