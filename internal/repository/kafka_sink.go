package repository

import (
	"context"

	"MatchCast/internal/domain/models"
	kafkapkg "MatchCast/pkg/kafka"
)

// KafkaSink publishes finished predictions to a topic for downstream
// consumers. Keyed by the pairing so per-fixture ordering holds.
type KafkaSink struct {
	producer *kafkapkg.Producer
	topic    string
}

func NewKafkaSink(producer *kafkapkg.Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) Store(ctx context.Context, p *models.Prediction) error {
	key := []byte(p.HomeID + ":" + p.AwayID)
	if err := s.producer.Publish(ctx, s.topic, key, p); err != nil {
		return models.Transient("publish prediction", err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}
