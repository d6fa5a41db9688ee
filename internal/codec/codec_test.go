package codec

import (
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
)

func TestTask_DecodeMapsStoredStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		stored string
		want   entity.TaskStatus
	}{
		{stored: "todo", want: entity.TaskStatusPending},
		{stored: "doing", want: entity.TaskStatusInProgress},
		{stored: "done", want: entity.TaskStatusCompleted},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.stored, func(t *testing.T) {
			t.Parallel()

			task, err := Task{}.Decode(taskRow(tt.stored))
			require.NoError(t, err)
			require.Equal(t, tt.want, task.Status)
		})
	}
}

func TestTask_DecodeRejectsUnmappedStatus(t *testing.T) {
	t.Parallel()

	_, err := Task{}.Decode(taskRow("archived"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "archived")
}

func TestTask_EncodePatchMapsStatusToWire(t *testing.T) {
	t.Parallel()

	status := entity.TaskStatusInProgress

	row, err := Task{}.EncodePatch(entity.TaskPatch{Status: &status})
	require.NoError(t, err)
	require.Equal(t, "doing", row["status"])
}

func TestTask_EncodePatchRejectsUnmappedStatus(t *testing.T) {
	t.Parallel()

	status := entity.TaskStatus("archived")

	_, err := Task{}.EncodePatch(entity.TaskPatch{Status: &status})
	require.ErrorIs(t, err, entity.ErrInvalidArgument)
}

func TestTask_EncodeMapsStatusToWire(t *testing.T) {
	t.Parallel()

	row, err := Task{}.Encode(entity.Task{Title: "write report", Status: entity.TaskStatusInProgress})
	require.NoError(t, err)
	require.Equal(t, "doing", row["status"])

	// A zero-value draft gets the documented defaults.
	row, err = Task{}.Encode(entity.Task{Title: "write report"})
	require.NoError(t, err)
	require.Equal(t, "todo", row["status"])
	require.Equal(t, "medium", row["priority"])
}

func TestTask_EncodeRejectsUnmappedStatus(t *testing.T) {
	t.Parallel()

	_, err := Task{}.Encode(entity.Task{Title: "bad", Status: "archived"})
	require.ErrorIs(t, err, entity.ErrInvalidArgument)
}

func taskRow(status string) tablestore.Row {
	return tablestore.Row{
		"id":         uuid.Must(uuid.NewV4()),
		"user_id":    uuid.Must(uuid.NewV4()),
		"project_id": uuid.Must(uuid.NewV4()),
		"title":      "write report",
		"status":     status,
		"priority":   "high",
		"created_at": time.Now().UTC(),
		"updated_at": time.Now().UTC(),
	}
}

func TestInventoryItem_DecodeRecomputesTotalValue(t *testing.T) {
	t.Parallel()

	row := tablestore.Row{
		"id":            uuid.Must(uuid.NewV4()),
		"user_id":       uuid.Must(uuid.NewV4()),
		"name":          "widget",
		"sku":           "W-1",
		"quantity":      int64(4),
		"unit_cost":     decimal.RequireFromString("2.50"),
		"reorder_level": int64(2),
		"created_at":    time.Now().UTC(),
		"updated_at":    time.Now().UTC(),
	}

	item, err := InventoryItem{}.Decode(row)
	require.NoError(t, err)
	require.True(t, item.TotalValue.Equal(decimal.RequireFromString("10")), item.TotalValue.String())
}

func TestInventoryItem_DecodeCoercesStringNumbers(t *testing.T) {
	t.Parallel()

	row := tablestore.Row{
		"id":            uuid.Must(uuid.NewV4()).String(),
		"user_id":       uuid.Must(uuid.NewV4()).String(),
		"name":          "widget",
		"sku":           "W-1",
		"quantity":      "10",
		"unit_cost":     "5",
		"reorder_level": "3",
		"created_at":    "2026-08-01T10:00:00Z",
		"updated_at":    "2026-08-01T10:00:00Z",
	}

	item, err := InventoryItem{}.Decode(row)
	require.NoError(t, err)
	require.EqualValues(t, 10, item.Quantity)
	require.True(t, item.TotalValue.Equal(decimal.NewFromInt(50)), item.TotalValue.String())
}

func TestInventoryItem_ApplyRecomputesTotalValue(t *testing.T) {
	t.Parallel()

	item := entity.InventoryItem{
		Quantity: 4,
		UnitCost: decimal.RequireFromString("2.50"),
	}.Recalculate()

	qty := int64(6)
	updated := InventoryItem{}.Apply(item, entity.InventoryItemPatch{Quantity: &qty}, time.Now())

	require.True(t, updated.TotalValue.Equal(decimal.RequireFromString("15")), updated.TotalValue.String())
}

func TestCalendarEvent_DecodeDefaults(t *testing.T) {
	t.Parallel()

	row := tablestore.Row{
		"id":         uuid.Must(uuid.NewV4()),
		"user_id":    uuid.Must(uuid.NewV4()),
		"title":      "kickoff",
		"starts_at":  time.Now().UTC(),
		"ends_at":    time.Now().UTC().Add(time.Hour),
		"created_at": time.Now().UTC(),
		"updated_at": time.Now().UTC(),
	}

	event, err := CalendarEvent{}.Decode(row)
	require.NoError(t, err)
	require.Equal(t, entity.DefaultEventColor, event.Color)
	require.Empty(t, event.Location)
}

func TestCalendarEvent_DecodeMissingTimestampFails(t *testing.T) {
	t.Parallel()

	row := tablestore.Row{
		"id":         uuid.Must(uuid.NewV4()),
		"user_id":    uuid.Must(uuid.NewV4()),
		"title":      "kickoff",
		"ends_at":    time.Now().UTC(),
		"created_at": time.Now().UTC(),
		"updated_at": time.Now().UTC(),
	}

	_, err := CalendarEvent{}.Decode(row)
	require.Error(t, err)
	require.Contains(t, err.Error(), "starts_at")
}

func TestNote_RoundTrip(t *testing.T) {
	t.Parallel()

	note := entity.Note{
		Title:   "meeting notes",
		Content: "discussed roadmap",
		Pinned:  true,
	}

	row, err := Note{}.Encode(note)
	require.NoError(t, err)

	// Server-computed columns never leave the codec.
	require.NotContains(t, row, "id")
	require.NotContains(t, row, "user_id")
	require.NotContains(t, row, "created_at")

	row["id"] = uuid.Must(uuid.NewV4())
	row["user_id"] = uuid.Must(uuid.NewV4())
	row["created_at"] = time.Now().UTC()
	row["updated_at"] = time.Now().UTC()

	decoded, err := Note{}.Decode(row)
	require.NoError(t, err)
	require.Equal(t, note.Title, decoded.Title)
	require.Equal(t, note.Content, decoded.Content)
	require.Equal(t, note.Pinned, decoded.Pinned)
}

func TestNote_EncodePatchOmitsUnsetFields(t *testing.T) {
	t.Parallel()

	pinned := false

	row, err := Note{}.EncodePatch(entity.NotePatch{Pinned: &pinned})
	require.NoError(t, err)
	require.Len(t, row, 1)
	require.Equal(t, false, row["pinned"])
}

func TestEnumMap_FailsBothDirections(t *testing.T) {
	t.Parallel()

	m := newEnumMap(map[entity.TaskStatus]string{
		entity.TaskStatusPending: "todo",
	})

	_, err := m.wire(entity.TaskStatus("unknown"))
	require.Error(t, err)

	_, err = m.domain("unknown")
	require.Error(t, err)

	wire, err := m.wire(entity.TaskStatusPending)
	require.NoError(t, err)
	require.Equal(t, "todo", wire)
}
