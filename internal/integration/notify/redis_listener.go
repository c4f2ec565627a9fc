package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/backoffice/statement/internal/application/adapter"
)

// redisListener implements adapter.ChangeNotifier over a redis pub/sub channel.
type redisListener struct {
	client  *redis.Client
	channel string
}

// NewRedisListener creates a change notifier subscribed to channel.
func NewRedisListener(client *redis.Client, channel string) adapter.ChangeNotifier {
	return &redisListener{
		client:  client,
		channel: channel,
	}
}

// Subscribe starts listening and returns the signal channel.
func (l *redisListener) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	pubsub := l.client.Subscribe(ctx, l.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", l.channel, err)
	}

	signals := make(chan struct{}, 1)
	messages := pubsub.Channel()

	go func() {
		defer close(signals)
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				slog.Debug("Change notification received", "channel", msg.Channel, "payload", msg.Payload)
				signal(signals)
			}
		}
	}()

	return signals, nil
}

// signal coalesces bursts: a pending signal already covers new changes.
func signal(signals chan<- struct{}) {
	select {
	case signals <- struct{}{}:
	default:
	}
}
