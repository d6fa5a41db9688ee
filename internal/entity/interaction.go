package entity

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
)

type InteractionKind string

const (
	InteractionKindCall    InteractionKind = "call"
	InteractionKindEmail   InteractionKind = "email"
	InteractionKindMeeting InteractionKind = "meeting"
)

func (k InteractionKind) Validate() error {
	switch k {
	case InteractionKindCall, InteractionKindEmail, InteractionKindMeeting:
		return nil
	default:
		return fmt.Errorf("%w: unknown interaction kind %q", ErrInvalidArgument, string(k))
	}
}

// Interaction is a logged touchpoint with a client.
type Interaction struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	ClientID   uuid.UUID       `json:"clientId"`
	Kind       InteractionKind `json:"kind"`
	Summary    string          `json:"summary"`
	OccurredAt time.Time       `json:"occurredAt"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type InteractionPatch struct {
	ClientID   *uuid.UUID       `json:"clientId"`
	Kind       *InteractionKind `json:"kind"`
	Summary    *string          `json:"summary"`
	OccurredAt *time.Time       `json:"occurredAt"`
}
