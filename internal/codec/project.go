package codec

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
)

// Project translates rows of the projects table.
type Project struct{}

func (Project) ID(p entity.Project) uuid.UUID    { return p.ID }
func (Project) Owner(p entity.Project) uuid.UUID { return p.UserID }

func (Project) Decode(row tablestore.Row) (entity.Project, error) {
	d := decoderFor(row)

	p := entity.Project{
		ID:          d.uuid("id"),
		UserID:      d.uuid("user_id"),
		ClientID:    d.uuid("client_id"),
		Name:        d.str("name"),
		Description: d.str("description"),
		Status:      entity.ProjectStatus(d.strDefault("status", string(entity.ProjectStatusPlanning))),
		Budget:      d.dec("budget"),
		DueDate:     d.tstampPtr("due_date"),
		CreatedAt:   d.tstamp("created_at"),
		UpdatedAt:   d.tstamp("updated_at"),
	}
	if d.err != nil {
		return entity.Project{}, d.err
	}

	if err := p.Status.Validate(); err != nil {
		return entity.Project{}, err
	}

	return p, nil
}

func (Project) Encode(p entity.Project) (tablestore.Row, error) {
	if p.Status == "" {
		p.Status = entity.ProjectStatusPlanning
	}

	if err := p.Status.Validate(); err != nil {
		return nil, err
	}

	row := tablestore.Row{
		"client_id":   p.ClientID,
		"name":        p.Name,
		"description": p.Description,
		"status":      string(p.Status),
		"budget":      p.Budget,
	}
	if p.DueDate != nil {
		row["due_date"] = *p.DueDate
	}

	return row, nil
}

func (Project) EncodePatch(p entity.ProjectPatch) (tablestore.Row, error) {
	if p.Status != nil {
		if err := p.Status.Validate(); err != nil {
			return nil, err
		}
	}

	row := tablestore.Row{}
	put(row, "client_id", p.ClientID)
	put(row, "name", p.Name)
	put(row, "description", p.Description)
	putString(row, "status", p.Status)
	put(row, "budget", p.Budget)
	put(row, "due_date", p.DueDate)

	return row, nil
}

func (Project) Apply(pr entity.Project, p entity.ProjectPatch, now time.Time) entity.Project {
	if p.ClientID != nil {
		pr.ClientID = *p.ClientID
	}

	if p.Name != nil {
		pr.Name = *p.Name
	}

	if p.Description != nil {
		pr.Description = *p.Description
	}

	if p.Status != nil {
		pr.Status = *p.Status
	}

	if p.Budget != nil {
		pr.Budget = *p.Budget
	}

	if p.DueDate != nil {
		pr.DueDate = p.DueDate
	}

	pr.UpdatedAt = now

	return pr
}
