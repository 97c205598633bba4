//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kafkacontainer "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/roadwatch/crashweekly/internal/adapter/kafka"
	"github.com/roadwatch/crashweekly/internal/config"
	"github.com/roadwatch/crashweekly/internal/domain"
)

const testArtifactTopic = "weekly-report-artifacts"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-broker Kafka container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := kafkacontainer.Run(ctx, "confluentinc/confluent-local:7.5.0",
		kafkacontainer.WithClusterID("test-cluster"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// publishedArtifact holds a deserialized message read from the artifact topic.
type publishedArtifact struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	ImagePNG    []byte    `json:"image_png"`
	PublishedAt time.Time `json:"published_at"`
}

// TestKafkaPublisher verifies that a composed artifact round-trips through a
// real broker: the message is keyed by the receipt ID and carries the text,
// the PNG bytes, and the publication headers.
func TestKafkaPublisher(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testArtifactTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testArtifactTopic,
	}

	pub := kafka.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = pub.Close() })

	artifact := domain.ComposedArtifact{
		Text:  "Week 06/02-12/02: 5 crashes in MADISON caused 3 fatalities and 2 injuries. Year to date: 120 crashes, 10 fatalities, 200 injuries.",
		Image: []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a},
	}

	receipt, err := pub.Publish(ctx, artifact)
	require.NoError(t, err)
	require.NotEmpty(t, receipt.ID)
	assert.False(t, receipt.PublishedAt.IsZero())

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testArtifactTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from artifact topic")

	assert.Equal(t, receipt.ID, string(msg.Key))

	var got publishedArtifact
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, receipt.ID, got.ID)
	assert.Equal(t, artifact.Text, got.Text)
	assert.Equal(t, artifact.Image, got.ImagePNG)
	assert.True(t, got.PublishedAt.Equal(receipt.PublishedAt))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "application/json", headers["content_type"])
	_, err = time.Parse(time.RFC3339, headers["published_at"])
	assert.NoError(t, err, "published_at should be valid RFC3339")
}
