package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/multigame-backend/internal/entity"
)

// Redis publishes game events on "<prefix>:<game type>" channels.
// Emit never blocks the caller: events are queued and published by Run.
type Redis struct {
	logger *slog.Logger
	client *redis.Client
	prefix string
	queue  chan entity.Event
}

func NewRedis(logger *slog.Logger, client *redis.Client, prefix string, buffer int) *Redis {
	return &Redis{
		logger: logger.With("component", "notifier"),
		client: client,
		prefix: prefix,
		queue:  make(chan entity.Event, max(buffer, 1)),
	}
}

func Channel(prefix string, gameType entity.GameType) string {
	return prefix + ":" + string(gameType)
}

// Emit queues the event; a full queue drops it.
func (that *Redis) Emit(_ context.Context, event entity.Event) {
	select {
	case that.queue <- event:
	default:
		that.logger.Warn("event queue is full, dropping event", "kind", event.Kind, "gameID", event.GameID)
	}
}

// Run publishes queued events until the context is done.
func (that *Redis) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-that.queue:
			that.publish(ctx, event)
		}
	}
}

func (that *Redis) publish(ctx context.Context, event entity.Event) {
	log := that.logger.With("method", "publish", "kind", event.Kind, "gameID", event.GameID)

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("failed to marshal event", "error", err)
		return
	}

	if err = that.client.Publish(ctx, Channel(that.prefix, event.GameType), payload).Err(); err != nil {
		log.Error("failed to publish event", "error", err)
		return
	}

	log.Debug("event published")
}

type Subscription struct {
	pubsub *redis.PubSub
	done   chan struct{}
	once   sync.Once
}

// Subscribe delivers every game event to the handler until the subscription is closed or the context is done.
// It returns once redis has confirmed the subscription.
func (that *Redis) Subscribe(ctx context.Context, handler func(event entity.Event)) (*Subscription, error) {
	log := that.logger.With("method", "subscribe")

	pubsub := that.client.PSubscribe(ctx, that.prefix+":*")
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to events: %w", err)
	}

	subscription := &Subscription{pubsub: pubsub, done: make(chan struct{})}
	messages := pubsub.Channel()

	go func() {
		defer subscription.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case <-subscription.done:
				return
			case message, ok := <-messages:
				if !ok {
					return
				}

				var event entity.Event
				if err := json.Unmarshal([]byte(message.Payload), &event); err != nil {
					log.Error("failed to decode event", "channel", message.Channel, "error", err)
					continue
				}
				handler(event)
			}
		}
	}()

	return subscription, nil
}

func (that *Subscription) Close() {
	that.once.Do(func() {
		close(that.done)
		_ = that.pubsub.Close()
	})
}
