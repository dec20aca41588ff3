package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer publishes urgent reports to a topic, keyed by report id.
type KafkaProducer struct {
	writer messageWriter
	log    *zap.Logger
}

func NewKafkaProducer(brokers []string, topic string, logger *zap.Logger) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		log: logger.Named("kafka"),
	}
}

func (p *KafkaProducer) NotifyUrgent(ctx context.Context, r UrgentReport) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(r.ReportID),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish %s: %w", r.ReportID, err)
	}

	p.log.Info("urgent report published", zap.String("report_id", r.ReportID))
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
