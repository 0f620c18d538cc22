// Package events publishes credential lifecycle events to a message broker through Watermill.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
)

// DefaultTopic is the stream credential events are published to.
const DefaultTopic = "wemakepass.credentials"

// metadataEventType carries the event type so consumers can route without decoding.
const metadataEventType = "event_type"

// WatermillPublisher publishes CredentialEvents as JSON messages.
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a publisher writing to topic. An empty topic falls back
// to DefaultTopic.
func NewWatermillPublisher(publisher message.Publisher, topic string) *WatermillPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &WatermillPublisher{
		publisher: publisher,
		topic:     topic,
	}
}

// Publish encodes event and hands it to the broker. The message UUID is the event ID.
func (p *WatermillPublisher) Publish(ctx context.Context, event authDomain.CredentialEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set(metadataEventType, string(event.Type))
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close closes the underlying broker publisher.
func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}

// NewRedisStreamPublisher creates a Watermill publisher backed by Redis streams.
func NewRedisStreamPublisher(client redis.UniversalClient, logger *slog.Logger) (message.Publisher, error) {
	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: client,
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis stream publisher: %w", err)
	}
	return publisher, nil
}
