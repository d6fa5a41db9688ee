package entity

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
)

type ClientStatus string

const (
	ClientStatusLead     ClientStatus = "lead"
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
)

func (s ClientStatus) Validate() error {
	switch s {
	case ClientStatusLead, ClientStatusActive, ClientStatusInactive:
		return nil
	default:
		return fmt.Errorf("%w: unknown client status %q", ErrInvalidArgument, string(s))
	}
}

func (s ClientStatus) String() string {
	return string(s)
}

// Client is a CRM contact owned by one actor.
type Client struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"userId"`
	Name      string       `json:"name"`
	Company   string       `json:"company"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone"`
	Status    ClientStatus `json:"status"`
	Notes     string       `json:"notes"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// ClientPatch carries the fields of a partial update. Nil means "leave as is".
type ClientPatch struct {
	Name    *string       `json:"name"`
	Company *string       `json:"company"`
	Email   *string       `json:"email"`
	Phone   *string       `json:"phone"`
	Status  *ClientStatus `json:"status"`
	Notes   *string       `json:"notes"`
}
