package publish

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"water_dashboard/internal/models"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes readings to a Kafka topic, keyed by capture time.
type KafkaPublisher struct {
	w     messageWriter
	topic string
}

// NewKafka builds a synchronous writer for topic on brokers.
func NewKafka(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
		topic: topic,
	}
}

func (p *KafkaPublisher) Name() string { return "kafka" }

func (p *KafkaPublisher) Publish(ctx context.Context, r models.SensorReading) error {
	payload, err := encode(r)
	if err != nil {
		return fmt.Errorf("encode reading: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(r.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z")),
		Value: payload,
		Time:  r.Timestamp,
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write to %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }
