package notification

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer used by KafkaNotifier.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes notifications as JSON to a Kafka topic, keyed by
// destination so every event of a run lands on the same partition.
type KafkaNotifier struct {
	writer MessageWriter
}

// NewKafkaNotifier builds a notifier writing to topic on brokers.
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return NewKafkaNotifierWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	})
}

// NewKafkaNotifierWithWriter wraps an existing writer.
func NewKafkaNotifierWithWriter(w MessageWriter) *KafkaNotifier {
	return &KafkaNotifier{writer: w}
}

// Send encodes message and writes it synchronously.
func (n *KafkaNotifier) Send(ctx context.Context, message Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(message.Destination),
		Value: data,
	})
}

// Close flushes and closes the underlying writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
