package entity

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) Validate() error {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted:
		return nil
	default:
		return fmt.Errorf("%w: unknown project status %q", ErrInvalidArgument, string(s))
	}
}

type Project struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	ClientID    uuid.UUID       `json:"clientId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      ProjectStatus   `json:"status"`
	Budget      decimal.Decimal `json:"budget"`
	DueDate     *time.Time      `json:"dueDate"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ProjectPatch struct {
	ClientID    *uuid.UUID       `json:"clientId"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Status      *ProjectStatus   `json:"status"`
	Budget      *decimal.Decimal `json:"budget"`
	DueDate     *time.Time       `json:"dueDate"`
}
