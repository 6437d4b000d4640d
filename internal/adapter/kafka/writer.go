// Package kafka publishes sweep results to a topic for downstream charting
// and reporting consumers. The sink is feature-flagged; the core pipeline
// never depends on it.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/salt-sweep/internal/config"
	"github.com/couchcryptid/salt-sweep/internal/domain"
	"github.com/couchcryptid/salt-sweep/internal/pipeline"
)

// publishChunkSize bounds the message count per WriteMessages call; a full
// sweep melts into hundreds of thousands of rows.
const publishChunkSize = 10000

// Writer produces melted result rows to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    publishChunkSize,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishRows serializes and publishes the long-form rows in chunks. Messages
// are keyed by watershed so one watershed's rows land on one partition in
// order.
func (w *Writer) PublishRows(ctx context.Context, rows []pipeline.LongRow) error {
	if len(rows) == 0 {
		return nil
	}

	stamp := domain.Now().Format(time.RFC3339)
	published := 0
	for start := 0; start < len(rows); start += publishChunkSize {
		end := min(start+publishChunkSize, len(rows))

		msgs := make([]kafkago.Message, end-start)
		for i, row := range rows[start:end] {
			msg, err := serializeRow(row, stamp)
			if err != nil {
				return err
			}
			msgs[i] = msg
		}
		if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("publish result rows: %w", err)
		}
		published = end
	}

	w.logger.Info("published result rows", "rows", published, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeRow marshals a long-form row into a Kafka message.
func serializeRow(row pipeline.LongRow, stamp string) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize result row: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(row.Watershed),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "land_use_category", Value: []byte(row.Category)},
			{Key: "processed_at", Value: []byte(stamp)},
		},
	}, nil
}
