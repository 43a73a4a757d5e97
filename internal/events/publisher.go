package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/sourcegen/internal/logger"
)

// asyncPublishTimeout bounds fire-and-forget publishes.
const asyncPublishTimeout = 5 * time.Second

// Publisher publishes generation events to Redis Streams. A nil Publisher
// is a valid no-op, so callers never need to branch on whether events are
// enabled.
type Publisher struct {
	client *redis.Client
	log    logger.Logger
}

// NewPublisher creates a publisher backed by client. Returns nil if client
// is nil.
func NewPublisher(client *redis.Client, log logger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Publisher{client: client, log: log}
}

// Publish appends the event to the stream, filling in EventID and
// Timestamp when the caller left them zero.
func (p *Publisher) Publish(ctx context.Context, event GenerationEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		Values: map[string]any{
			"event": string(payload),
		},
	})
	if publishErr := result.Err(); publishErr != nil {
		p.log.Error("failed to publish event",
			logger.String("event_type", string(event.EventType)),
			logger.String("domain", event.Domain),
			logger.Error(publishErr),
		)
		return fmt.Errorf("publish to stream: %w", publishErr)
	}

	p.log.Info("published generation event",
		logger.String("event_type", string(event.EventType)),
		logger.String("domain", event.Domain),
		logger.String("stream_id", result.Val()),
	)
	return nil
}

// PublishAsync publishes without blocking the pipeline. Errors are logged,
// never returned; a slow or absent broker must not fail a generation run.
func (p *Publisher) PublishAsync(event GenerationEvent) {
	if p == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.log.Error("async publish failed",
				logger.String("event_type", string(event.EventType)),
				logger.String("domain", event.Domain),
				logger.Error(err),
			)
		}
	}()
}
