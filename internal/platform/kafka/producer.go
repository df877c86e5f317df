// Package kafka provides the producer used to fan audit entries out to
// downstream consumers. The database remains the source of truth; Kafka
// delivery is best-effort.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer publishes records to a single topic.
type Producer struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewProducer connects to the brokers and ensures the topic exists.
func NewProducer(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopic(ctx, 1, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		client.Close()
		return nil, fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}

	return &Producer{client: client, topic: topic, logger: logger}, nil
}

// Publish produces asynchronously. Delivery failures are logged, never
// surfaced: the caller already persisted the entry.
func (p *Producer) Publish(ctx context.Context, key string, value []byte) {
	record := &kgo.Record{Topic: p.topic, Key: []byte(key), Value: value}
	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("kafka publish failed",
				"topic", p.topic,
				"key", key,
				"error", err.Error(),
			)
		}
	})
}

// Close flushes pending records and releases the client.
func (p *Producer) Close(ctx context.Context) error {
	defer p.client.Close()
	return p.client.Flush(ctx)
}
