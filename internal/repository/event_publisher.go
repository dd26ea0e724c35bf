package repository

import (
	"context"
	"fmt"

	"SentiCast/internal/domain/models"
	domrepo "SentiCast/internal/domain/repository"
	pkgkafka "SentiCast/pkg/kafka"
)

// KafkaPublisher publishes domain events as JSON.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishClassified(ctx context.Context, ev models.SentimentClassified) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(ev.ID), ev); err != nil {
		return fmt.Errorf("publish %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopPublisher drops events; used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishClassified(context.Context, models.SentimentClassified) error { return nil }
func (NopPublisher) Close() error                                                        { return nil }

var (
	_ domrepo.EventPublisher = (*KafkaPublisher)(nil)
	_ domrepo.EventPublisher = NopPublisher{}
)
