package codec

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
)

// taskStatuses maps the application vocabulary to the storage vocabulary the
// tasks table has carried since the first schema. Both directions fail on
// values outside the table.
var taskStatuses = newEnumMap(map[entity.TaskStatus]string{
	entity.TaskStatusPending:    "todo",
	entity.TaskStatusInProgress: "doing",
	entity.TaskStatusCompleted:  "done",
})

// Task translates rows of the tasks table.
type Task struct{}

func (Task) ID(t entity.Task) uuid.UUID    { return t.ID }
func (Task) Owner(t entity.Task) uuid.UUID { return t.UserID }

func (Task) Decode(row tablestore.Row) (entity.Task, error) {
	d := decoderFor(row)

	t := entity.Task{
		ID:          d.uuid("id"),
		UserID:      d.uuid("user_id"),
		ProjectID:   d.uuid("project_id"),
		Title:       d.str("title"),
		Description: d.str("description"),
		Priority:    entity.TaskPriority(d.strDefault("priority", string(entity.TaskPriorityMedium))),
		DueDate:     d.tstampPtr("due_date"),
		CreatedAt:   d.tstamp("created_at"),
		UpdatedAt:   d.tstamp("updated_at"),
	}

	status, err := taskStatuses.domain(d.str("status"))
	if err != nil {
		return entity.Task{}, fmt.Errorf("column %q: %w", "status", err)
	}

	t.Status = status

	if d.err != nil {
		return entity.Task{}, d.err
	}

	if err := t.Priority.Validate(); err != nil {
		return entity.Task{}, err
	}

	return t, nil
}

func (Task) Encode(t entity.Task) (tablestore.Row, error) {
	if t.Status == "" {
		t.Status = entity.TaskStatusPending
	}

	status, err := taskStatuses.wire(t.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidArgument, err)
	}

	if t.Priority == "" {
		t.Priority = entity.TaskPriorityMedium
	}

	if err := t.Priority.Validate(); err != nil {
		return nil, err
	}

	row := tablestore.Row{
		"project_id":  t.ProjectID,
		"title":       t.Title,
		"description": t.Description,
		"status":      status,
		"priority":    string(t.Priority),
	}
	if t.DueDate != nil {
		row["due_date"] = *t.DueDate
	}

	return row, nil
}

func (Task) EncodePatch(p entity.TaskPatch) (tablestore.Row, error) {
	row := tablestore.Row{}

	if p.Status != nil {
		status, err := taskStatuses.wire(*p.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", entity.ErrInvalidArgument, err)
		}

		row["status"] = status
	}

	if p.Priority != nil {
		if err := p.Priority.Validate(); err != nil {
			return nil, err
		}
	}

	put(row, "project_id", p.ProjectID)
	put(row, "title", p.Title)
	put(row, "description", p.Description)
	putString(row, "priority", p.Priority)
	put(row, "due_date", p.DueDate)

	return row, nil
}

func (Task) Apply(t entity.Task, p entity.TaskPatch, now time.Time) entity.Task {
	if p.ProjectID != nil {
		t.ProjectID = *p.ProjectID
	}

	if p.Title != nil {
		t.Title = *p.Title
	}

	if p.Description != nil {
		t.Description = *p.Description
	}

	if p.Status != nil {
		t.Status = *p.Status
	}

	if p.Priority != nil {
		t.Priority = *p.Priority
	}

	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}

	t.UpdatedAt = now

	return t
}
