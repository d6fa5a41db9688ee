package codec

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
)

// Note translates rows of the notes table.
type Note struct{}

func (Note) ID(n entity.Note) uuid.UUID    { return n.ID }
func (Note) Owner(n entity.Note) uuid.UUID { return n.UserID }

func (Note) Decode(row tablestore.Row) (entity.Note, error) {
	d := decoderFor(row)

	n := entity.Note{
		ID:        d.uuid("id"),
		UserID:    d.uuid("user_id"),
		Title:     d.str("title"),
		Content:   d.str("content"),
		Pinned:    d.boolean("pinned"),
		CreatedAt: d.tstamp("created_at"),
		UpdatedAt: d.tstamp("updated_at"),
	}
	if d.err != nil {
		return entity.Note{}, d.err
	}

	return n, nil
}

func (Note) Encode(n entity.Note) (tablestore.Row, error) {
	return tablestore.Row{
		"title":   n.Title,
		"content": n.Content,
		"pinned":  n.Pinned,
	}, nil
}

func (Note) EncodePatch(p entity.NotePatch) (tablestore.Row, error) {
	row := tablestore.Row{}
	put(row, "title", p.Title)
	put(row, "content", p.Content)
	put(row, "pinned", p.Pinned)

	return row, nil
}

func (Note) Apply(n entity.Note, p entity.NotePatch, now time.Time) entity.Note {
	if p.Title != nil {
		n.Title = *p.Title
	}

	if p.Content != nil {
		n.Content = *p.Content
	}

	if p.Pinned != nil {
		n.Pinned = *p.Pinned
	}

	n.UpdatedAt = now

	return n
}
