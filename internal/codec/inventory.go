package codec

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/tablestore"
)

// InventoryItem translates rows of the inventory_items table. The table
// never stores total_value; it is recomputed on every decode and every
// quantity or unit-cost merge.
type InventoryItem struct{}

func (InventoryItem) ID(i entity.InventoryItem) uuid.UUID    { return i.ID }
func (InventoryItem) Owner(i entity.InventoryItem) uuid.UUID { return i.UserID }

func (InventoryItem) Decode(row tablestore.Row) (entity.InventoryItem, error) {
	d := decoderFor(row)

	i := entity.InventoryItem{
		ID:           d.uuid("id"),
		UserID:       d.uuid("user_id"),
		Name:         d.str("name"),
		SKU:          d.str("sku"),
		Quantity:     d.integer("quantity"),
		UnitCost:     d.dec("unit_cost"),
		ReorderLevel: d.integer("reorder_level"),
		CreatedAt:    d.tstamp("created_at"),
		UpdatedAt:    d.tstamp("updated_at"),
	}
	if d.err != nil {
		return entity.InventoryItem{}, d.err
	}

	return i.Recalculate(), nil
}

func (InventoryItem) Encode(i entity.InventoryItem) (tablestore.Row, error) {
	return tablestore.Row{
		"name":          i.Name,
		"sku":           i.SKU,
		"quantity":      i.Quantity,
		"unit_cost":     i.UnitCost,
		"reorder_level": i.ReorderLevel,
	}, nil
}

func (InventoryItem) EncodePatch(p entity.InventoryItemPatch) (tablestore.Row, error) {
	row := tablestore.Row{}
	put(row, "name", p.Name)
	put(row, "sku", p.SKU)
	put(row, "quantity", p.Quantity)
	put(row, "unit_cost", p.UnitCost)
	put(row, "reorder_level", p.ReorderLevel)

	return row, nil
}

func (InventoryItem) Apply(i entity.InventoryItem, p entity.InventoryItemPatch, now time.Time) entity.InventoryItem {
	if p.Name != nil {
		i.Name = *p.Name
	}

	if p.SKU != nil {
		i.SKU = *p.SKU
	}

	if p.Quantity != nil {
		i.Quantity = *p.Quantity
	}

	if p.UnitCost != nil {
		i.UnitCost = *p.UnitCost
	}

	if p.ReorderLevel != nil {
		i.ReorderLevel = *p.ReorderLevel
	}

	i.UpdatedAt = now

	return i.Recalculate()
}
