// Package kafka hands composed artifacts to the downstream posting service
// via a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/roadwatch/crashweekly/internal/config"
	"github.com/roadwatch/crashweekly/internal/domain"
)

// Publisher produces composed artifacts to the configured topic.
// It implements pipeline.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured artifact topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// artifactMessage is the wire form consumed by the posting service. The
// image travels base64-encoded inside the JSON value.
type artifactMessage struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	ImagePNG    []byte    `json:"image_png"`
	PublishedAt time.Time `json:"published_at"`
}

// Publish writes the artifact as a single message and returns the receipt.
// No retries: a failed hand-off surfaces as domain.ErrPublish and the run
// fails.
func (p *Publisher) Publish(ctx context.Context, artifact domain.ComposedArtifact) (domain.PublishReceipt, error) {
	receipt := domain.PublishReceipt{
		ID:          uuid.NewString(),
		PublishedAt: domain.Now(),
	}

	msg, err := buildMessage(receipt, artifact)
	if err != nil {
		return domain.PublishReceipt{}, err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return domain.PublishReceipt{}, fmt.Errorf("%w: %w", domain.ErrPublish, err)
	}

	p.logger.Info("artifact published",
		"receipt_id", receipt.ID,
		"topic", p.writer.Topic,
		"image_bytes", len(artifact.Image),
	)
	return receipt, nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// buildMessage marshals the artifact into a Kafka message keyed by the
// receipt ID.
func buildMessage(receipt domain.PublishReceipt, artifact domain.ComposedArtifact) (kafkago.Message, error) {
	value, err := json.Marshal(artifactMessage{
		ID:          receipt.ID,
		Text:        artifact.Text,
		ImagePNG:    artifact.Image,
		PublishedAt: receipt.PublishedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("%w: serialize artifact: %w", domain.ErrPublish, err)
	}

	return kafkago.Message{
		Key:   []byte(receipt.ID),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "content_type", Value: []byte("application/json")},
			{Key: "published_at", Value: []byte(receipt.PublishedAt.Format(time.RFC3339))},
		},
	}, nil
}
