package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/naijj/ml-shelf/config"
)

type EventType string

const (
	ModelUploaded    EventType = "model.uploaded"
	ModelDownloaded  EventType = "model.downloaded"
	ModelLikeToggled EventType = "model.like_toggled"
)

type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
}

func NewEvent(eventType EventType, data map[string]interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "mlshelf",
		Data:      data,
	}
}

// Publisher writes domain events to Kafka. The zero value and a nil Publisher
// are both safe no-ops, so the catalog works without a broker.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewPublisherFromConfig(logger *slog.Logger) (*Publisher, error) {
	if config.AppConfig == nil {
		return nil, errors.New("app config is not initialized")
	}

	cfg := config.AppConfig.Kafka
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are empty")
	}
	topic := cfg.Topic
	if topic == "" {
		topic = "model.events"
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Publisher{
		writer: writer,
		logger: logger.With(slog.String("component", "event_publisher")),
	}, nil
}

// Publish sends one event keyed by key. Failures are logged and swallowed:
// events are best-effort and must never fail a user operation.
func (p *Publisher) Publish(ctx context.Context, key string, event *Event) {
	if p == nil || p.writer == nil || event == nil {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal event failed", "type", event.Type, "error", err)
		return
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	}); err != nil {
		p.logger.Warn("publish event failed", "type", event.Type, "key", key, "error", err)
	}
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
