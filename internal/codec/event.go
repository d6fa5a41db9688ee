package codec

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
)

// CalendarEvent translates rows of the calendar_events table. Absent
// location decodes to "" and absent color to entity.DefaultEventColor.
type CalendarEvent struct{}

func (CalendarEvent) ID(e entity.CalendarEvent) uuid.UUID    { return e.ID }
func (CalendarEvent) Owner(e entity.CalendarEvent) uuid.UUID { return e.UserID }

func (CalendarEvent) Decode(row tablestore.Row) (entity.CalendarEvent, error) {
	d := decoderFor(row)

	e := entity.CalendarEvent{
		ID:          d.uuid("id"),
		UserID:      d.uuid("user_id"),
		Title:       d.str("title"),
		Description: d.str("description"),
		Location:    d.str("location"),
		Color:       d.strDefault("color", entity.DefaultEventColor),
		StartsAt:    d.tstamp("starts_at"),
		EndsAt:      d.tstamp("ends_at"),
		CreatedAt:   d.tstamp("created_at"),
		UpdatedAt:   d.tstamp("updated_at"),
	}
	if d.err != nil {
		return entity.CalendarEvent{}, d.err
	}

	return e, nil
}

func (CalendarEvent) Encode(e entity.CalendarEvent) (tablestore.Row, error) {
	color := e.Color
	if color == "" {
		color = entity.DefaultEventColor
	}

	return tablestore.Row{
		"title":       e.Title,
		"description": e.Description,
		"location":    e.Location,
		"color":       color,
		"starts_at":   e.StartsAt,
		"ends_at":     e.EndsAt,
	}, nil
}

func (CalendarEvent) EncodePatch(p entity.CalendarEventPatch) (tablestore.Row, error) {
	row := tablestore.Row{}
	put(row, "title", p.Title)
	put(row, "description", p.Description)
	put(row, "location", p.Location)
	put(row, "color", p.Color)
	put(row, "starts_at", p.StartsAt)
	put(row, "ends_at", p.EndsAt)

	return row, nil
}

func (CalendarEvent) Apply(e entity.CalendarEvent, p entity.CalendarEventPatch, now time.Time) entity.CalendarEvent {
	if p.Title != nil {
		e.Title = *p.Title
	}

	if p.Description != nil {
		e.Description = *p.Description
	}

	if p.Location != nil {
		e.Location = *p.Location
	}

	if p.Color != nil {
		e.Color = *p.Color
	}

	if p.StartsAt != nil {
		e.StartsAt = *p.StartsAt
	}

	if p.EndsAt != nil {
		e.EndsAt = *p.EndsAt
	}

	e.UpdatedAt = now

	return e
}
