package sender

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"inflight/internal/core/domain/model/outbox"

	"github.com/segmentio/kafka-go"
)

// DefaultTopicPrefix is prepended to the message target to form the topic.
const DefaultTopicPrefix = "inflight."

// messageWriter is the part of *kafka.Writer the sender needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSender hands outgoing messages to Kafka, one topic per target.
// Writes are synchronous so that a message is marked sent only after the
// brokers acknowledged it.
type KafkaSender struct {
	writer      messageWriter
	topicPrefix string
	logger      *slog.Logger
}

// NewKafkaSender creates a sender writing to brokers. An empty topicPrefix
// uses DefaultTopicPrefix.
func NewKafkaSender(brokers []string, topicPrefix string, logger *slog.Logger) *KafkaSender {
	return newKafkaSender(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}, topicPrefix, logger)
}

func newKafkaSender(w messageWriter, topicPrefix string, logger *slog.Logger) *KafkaSender {
	if topicPrefix == "" {
		topicPrefix = DefaultTopicPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaSender{
		writer:      w,
		topicPrefix: topicPrefix,
		logger:      logger.With("component", "sender.kafka"),
	}
}

// Topic returns the topic messages for target are written to.
func (s *KafkaSender) Topic(target string) string {
	return s.topicPrefix + target
}

// Send keys the record by message id, so redeliveries of the same message
// land on the same partition and consumers can deduplicate.
func (s *KafkaSender) Send(ctx context.Context, msg *outbox.Message) error {
	id := strconv.FormatInt(msg.ID(), 10)
	record := kafka.Message{
		Topic: s.Topic(msg.Target()),
		Key:   []byte(id),
		Value: msg.Payload(),
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "message-id", Value: []byte(id)},
			{Key: "target", Value: []byte(msg.Target())},
			{Key: "attempt", Value: []byte(strconv.Itoa(msg.Attempts() + 1))},
		},
	}

	if err := s.writer.WriteMessages(ctx, record); err != nil {
		return fmt.Errorf("kafka write %s: %w", record.Topic, err)
	}

	s.logger.DebugContext(ctx, "outgoing message written", "message_id", msg.ID(), "topic", record.Topic)
	return nil
}

// Close closes the underlying writer.
func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
