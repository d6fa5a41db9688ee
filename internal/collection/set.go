package collection

import (
	"github.com/bizdesk/backend/internal/codec"
	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
)

// Set groups one store per entity type, all sharing a table client and a
// notifier. Insert position and ordering follow each table's convention:
// created-descending tables prepend, naturally ascending tables append.
type Set struct {
	Clients      *Store[entity.Client, entity.ClientPatch]
	Projects     *Store[entity.Project, entity.ProjectPatch]
	Deals        *Store[entity.Deal, entity.DealPatch]
	Tasks        *Store[entity.Task, entity.TaskPatch]
	Transactions *Store[entity.Transaction, entity.TransactionPatch]
	Events       *Store[entity.CalendarEvent, entity.CalendarEventPatch]
	Inventory    *Store[entity.InventoryItem, entity.InventoryItemPatch]
	Notes        *Store[entity.Note, entity.NotePatch]
	Documents    *Store[entity.Document, entity.DocumentPatch]
	Interactions *Store[entity.Interaction, entity.InteractionPatch]
}

func NewSet(client tablestore.Client, notify Notifier) *Set {
	return &Set{
		Clients: New(client, codec.Client{}, notify, Options{
			Table:          "clients",
			ScopeToActor:   true,
			OrderBy:        "created_at",
			Descending:     true,
			Insert:         Prepend,
			TouchUpdatedAt: true,
		}),
		Projects: New(client, codec.Project{}, notify, Options{
			Table:          "projects",
			ScopeToActor:   true,
			OrderBy:        "created_at",
			Descending:     true,
			Insert:         Prepend,
			TouchUpdatedAt: true,
		}),
		Deals: New(client, codec.Deal{}, notify, Options{
			Table:          "deals",
			ScopeToActor:   true,
			OrderBy:        "created_at",
			Descending:     true,
			Insert:         Prepend,
			TouchUpdatedAt: true,
		}),
		Tasks: New(client, codec.Task{}, notify, Options{
			Table:          "tasks",
			ScopeToActor:   true,
			OrderBy:        "created_at",
			Descending:     true,
			Insert:         Prepend,
			TouchUpdatedAt: true,
		}),
		Transactions: New(client, codec.Transaction{}, notify, Options{
			Table:        "transactions",
			ScopeToActor: true,
			OrderBy:      "created_at",
			Descending:   true,
			Insert:       Prepend,
		}),
		Events: New(client, codec.CalendarEvent{}, notify, Options{
			Table:          "calendar_events",
			ScopeToActor:   true,
			OrderBy:        "starts_at",
			Insert:         Append,
			TouchUpdatedAt: true,
		}),
		Inventory: New(client, codec.InventoryItem{}, notify, Options{
			Table:          "inventory_items",
			ScopeToActor:   true,
			OrderBy:        "name",
			Insert:         Append,
			TouchUpdatedAt: true,
		}),
		Notes: New(client, codec.Note{}, notify, Options{
			Table:          "notes",
			ScopeToActor:   true,
			OrderBy:        "created_at",
			Descending:     true,
			Insert:         Prepend,
			TouchUpdatedAt: true,
		}),
		Documents: New(client, codec.Document{}, notify, Options{
			Table:        "documents",
			ScopeToActor: true,
			OrderBy:      "created_at",
			Descending:   true,
			Insert:       Prepend,
		}),
		Interactions: New(client, codec.Interaction{}, notify, Options{
			Table:        "interactions",
			ScopeToActor: true,
			OrderBy:      "occurred_at",
			Descending:   true,
			Insert:       Prepend,
		}),
	}
}
