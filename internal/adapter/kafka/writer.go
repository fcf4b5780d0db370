package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// EventType is the event_type header value on every published message.
const EventType = "earthquake"

// Writer publishes parsed earthquakes to a Kafka topic, keyed by USGS event
// ID so a refresh that republishes an event lands on the same partition.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes earthquakes in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, quakes []domain.Earthquake) error {
	if len(quakes) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(quakes))
	for i := range quakes {
		msg, err := serializeToMessage(quakes[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d earthquakes: %w", len(msgs), err)
	}
	w.logger.Debug("earthquakes published", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Earthquake into a Kafka message.
func serializeToMessage(q domain.Earthquake) (kafkago.Message, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize earthquake %s: %w", q.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(q.ID),
		Value: data,
		Time:  q.Time,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(EventType)},
			{Key: "processed_at", Value: []byte(q.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
