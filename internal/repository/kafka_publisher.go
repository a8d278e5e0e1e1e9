package repository

import (
	"context"

	"github.com/Nate99091/crypto/internal/domain/models"
	"github.com/Nate99091/crypto/pkg/kafka"
)

// KafkaPublisher emits discrepancy records to a Kafka topic, keyed by pair
// combination so records for the same pairs land on the same partition.
type KafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher creates a publisher over an existing producer.
func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// PublishRecords sends all records as one batch.
func (p *KafkaPublisher) PublishRecords(ctx context.Context, records []models.DiscrepancyRecord) error {
	if len(records) == 0 {
		return nil
	}

	keys := make([]string, len(records))
	values := make([]interface{}, len(records))
	for i := range records {
		keys[i] = records[i].PairA + "|" + records[i].PairB
		values[i] = records[i]
	}
	return p.producer.PublishBatch(ctx, keys, values)
}

// Close flushes and closes the producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
