package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// InventoryItem is a stocked product. TotalValue is derived from Quantity and
// UnitCost on every decode and merge; it is never read from or written to the
// table.
type InventoryItem struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"userId"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Quantity     int64           `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	ReorderLevel int64           `json:"reorderLevel"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Recalculate returns the item with TotalValue recomputed.
func (i InventoryItem) Recalculate() InventoryItem {
	i.TotalValue = i.UnitCost.Mul(decimal.NewFromInt(i.Quantity))
	return i
}

// LowStock reports whether quantity has fallen to the reorder level.
func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

type InventoryItemPatch struct {
	Name         *string          `json:"name"`
	SKU          *string          `json:"sku"`
	Quantity     *int64           `json:"quantity"`
	UnitCost     *decimal.Decimal `json:"unitCost"`
	ReorderLevel *int64           `json:"reorderLevel"`
}
