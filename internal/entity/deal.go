package entity

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type DealStage string

const (
	DealStageProspect    DealStage = "prospect"
	DealStageNegotiation DealStage = "negotiation"
	DealStageWon         DealStage = "won"
	DealStageLost        DealStage = "lost"
)

func (s DealStage) Validate() error {
	switch s {
	case DealStageProspect, DealStageNegotiation, DealStageWon, DealStageLost:
		return nil
	default:
		return fmt.Errorf("%w: unknown deal stage %q", ErrInvalidArgument, string(s))
	}
}

type Deal struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	ClientID      uuid.UUID       `json:"clientId"`
	Title         string          `json:"title"`
	Value         decimal.Decimal `json:"value"`
	Stage         DealStage       `json:"stage"`
	ExpectedClose *time.Time      `json:"expectedClose"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type DealPatch struct {
	ClientID      *uuid.UUID       `json:"clientId"`
	Title         *string          `json:"title"`
	Value         *decimal.Decimal `json:"value"`
	Stage         *DealStage       `json:"stage"`
	ExpectedClose *time.Time       `json:"expectedClose"`
}
