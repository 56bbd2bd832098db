package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oas-switchboard/broadcaster/pkg/common/logger"
	"github.com/oas-switchboard/broadcaster/pkg/common/models"
	"github.com/segmentio/kafka-go"
)

const fetchBackoff = time.Second

type Consumer struct {
	reader *kafka.Reader
}

type EventHandler func(ctx context.Context, event models.Event) error

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})

	return &Consumer{reader: reader}
}

// Consume hands every event to handler and commits it afterwards, including
// when the handler fails: a failed event is logged, never redelivered.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		message, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Log.WithError(err).Error("Failed to fetch message")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(fetchBackoff):
			}
			continue
		}

		dispatch(ctx, message, handler)

		if err := c.reader.CommitMessages(ctx, message); err != nil {
			logger.Log.WithError(err).Error("Failed to commit message")
		}
	}
}

// dispatch decodes one message and runs handler on it. Decode and handler
// errors are logged only.
func dispatch(ctx context.Context, message kafka.Message, handler EventHandler) {
	var event models.Event
	if err := json.Unmarshal(message.Value, &event); err != nil {
		logger.Log.WithError(err).WithField("offset", message.Offset).Error("Failed to unmarshal event")
		return
	}
	if err := handler(ctx, event); err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"event_id":   event.ID,
			"event_type": event.Type,
		}).Error("Failed to process event")
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
