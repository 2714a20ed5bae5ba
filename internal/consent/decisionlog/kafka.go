package decisionlog

import (
	"context"
	"encoding/json"
	"fmt"

	"consentry/internal/consent/models"
	"consentry/internal/platform/kafka/producer"
)

// Producer is the part of the Kafka producer the sink needs.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// KafkaSink publishes entries as JSON keyed by website id, so one website's
// decisions stay ordered within a partition.
type KafkaSink struct {
	producer Producer
	topic    string
}

func NewKafkaSink(p Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic}
}

func (k *KafkaSink) Publish(ctx context.Context, entry models.DecisionLogEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal decision log entry: %w", err)
	}
	return k.producer.Produce(ctx, &producer.Message{
		Topic: k.topic,
		Key:   []byte(entry.WebsiteID.String()),
		Value: payload,
		Headers: map[string]string{
			"action": string(entry.Action),
		},
	})
}
