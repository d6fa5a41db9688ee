package entity

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

func (k TransactionKind) Validate() error {
	switch k {
	case TransactionKindIncome, TransactionKindExpense:
		return nil
	default:
		return fmt.Errorf("%w: unknown transaction kind %q", ErrInvalidArgument, string(k))
	}
}

// Transaction is a single cash-flow entry. Entries are immutable in spirit:
// there is no updated_at column, corrections happen by delete and re-add.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        TransactionKind `json:"kind"`
	Category    string          `json:"category"`
	OccurredOn  time.Time       `json:"occurredOn"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type TransactionPatch struct {
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Kind        *TransactionKind `json:"kind"`
	Category    *string          `json:"category"`
	OccurredOn  *time.Time       `json:"occurredOn"`
}
