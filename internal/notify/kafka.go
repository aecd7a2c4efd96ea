package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/craftline/orderdesk/internal/logging"
)

// Topic carrying entity-change events for downstream consumers (the search
// indexer among them).
const EntityEventsTopic = "entity_events"

// Producer publishes entity-change events. It is best-effort: a publish
// failure is logged, never surfaced to the user.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        EntityEventsTopic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *Producer) PublishEvent(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: marshal event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data}); err != nil {
		return fmt.Errorf("kafka: write: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// KafkaNotifier mirrors notifications onto the event topic so other services
// can observe mutation outcomes.
type KafkaNotifier struct {
	Producer *Producer
}

func (n *KafkaNotifier) Notify(ctx context.Context, title, description string, severity Severity) {
	event := map[string]any{
		"type":        "notification",
		"title":       title,
		"description": description,
		"severity":    string(severity),
	}
	if err := n.Producer.PublishEvent(ctx, title, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "error", err)
	}
}
