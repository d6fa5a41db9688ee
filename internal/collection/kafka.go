package collection

import (
	"context"
	"log/slog"

	"github.com/gofrs/uuid/v5"

	"github.com/bizdesk/backend/pkg/broker"
)

// KafkaNotifier bridges the Notifier contract onto the event producer.
// Successes become record-changed events; failures are logged only, the
// operation's own error return carries them to the caller.
type KafkaNotifier struct {
	p *broker.Producer
}

func NewKafkaNotifier(p *broker.Producer) *KafkaNotifier {
	return &KafkaNotifier{p: p}
}

func (n *KafkaNotifier) Success(ctx context.Context, table string, action Action, id uuid.UUID) {
	n.p.RecordChanged(ctx, table, string(action), id)
}

func (n *KafkaNotifier) Failure(ctx context.Context, table string, action Action, err error) {
	slog.ErrorContext(ctx, "collection mutation failed",
		"table", table, "action", string(action), "error", err)
}
