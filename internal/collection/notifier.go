package collection

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Notifier receives fire-and-forget signals about collection mutations.
// Implementations must not block and must not fail the calling operation.
type Notifier interface {
	Success(ctx context.Context, table string, action Action, id uuid.UUID)
	Failure(ctx context.Context, table string, action Action, err error)
}

type NopNotifier struct{}

func (NopNotifier) Success(context.Context, string, Action, uuid.UUID) {}

func (NopNotifier) Failure(context.Context, string, Action, error) {}
