package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/segmentio/kafka-go"
)

// Producer publishes application events. Writes are async and
// fire-and-forget: a broker outage never fails the operation that emitted
// the event.
type Producer struct {
	l                  *slog.Logger
	w                  *kafka.Writer
	recordChangedTopic string
	lowStockTopic      string
}

func NewProducer(brokers []string, recordChangedTopic, lowStockTopic string) *Producer {
	l := slog.Default().WithGroup("kafka")

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		l:                  l,
		w:                  w,
		recordChangedTopic: recordChangedTopic,
		lowStockTopic:      lowStockTopic,
	}
}

type RecordChangedEvent struct {
	Table    string    `json:"table"`
	Action   string    `json:"action"`
	RecordID uuid.UUID `json:"record_id"`
	At       time.Time `json:"at"`
}

func (p *Producer) RecordChanged(ctx context.Context, table, action string, recordID uuid.UUID) {
	event := RecordChangedEvent{
		Table:    table,
		Action:   action,
		RecordID: recordID,
		At:       time.Now().UTC(),
	}

	p.send(ctx, p.recordChangedTopic, recordID.String(), event)
}

type LowStockEvent struct {
	ItemID       uuid.UUID `json:"item_id"`
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Quantity     int64     `json:"quantity"`
	ReorderLevel int64     `json:"reorder_level"`
}

func (p *Producer) LowStock(ctx context.Context, event LowStockEvent) {
	p.send(ctx, p.lowStockTopic, event.ItemID.String(), event)
}

func (p *Producer) send(ctx context.Context, topic, key string, event any) {
	b, err := json.Marshal(event)
	if err != nil {
		p.l.Error(fmt.Sprintf("marshal event: %s", err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: b,
		Topic: topic,
	})
	if err != nil {
		p.l.Error(fmt.Sprintf("write kafka message: %s", err))
	}
}

func (p *Producer) Close() {
	err := p.w.Close()
	if err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}

type infoLogger struct {
	l *slog.Logger
}

func (l *infoLogger) Printf(format string, v ...any) {
	l.l.Info(fmt.Sprintf(format, v...))
}

type errorLogger struct {
	l *slog.Logger
}

func (l *errorLogger) Printf(format string, v ...any) {
	l.l.Error(fmt.Sprintf(format, v...))
}
