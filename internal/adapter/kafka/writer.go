package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/raincast/internal/config"
	"github.com/couchcryptid/raincast/internal/domain"
)

// Writer publishes prediction results to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured prediction topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes the results of one query in a single
// WriteMessages call. Messages are keyed by date so repeated predictions for
// the same day land on the same partition.
func (w *Writer) LoadBatch(ctx context.Context, results []domain.PredictionResult) error {
	if len(results) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(results))
	for i := range results {
		msg, err := serializeToMessage(results[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish predictions: %w", err)
	}
	w.logger.Debug("predictions published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a PredictionResult into a Kafka message.
func serializeToMessage(result domain.PredictionResult) (kafkago.Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize prediction: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(result.Date.Format(time.DateOnly)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(result.RunID)},
			{Key: "predicted_at", Value: []byte(result.PredictedAt.Format(time.RFC3339))},
		},
	}, nil
}
