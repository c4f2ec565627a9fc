package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/backoffice/statement/internal/application/adapter"
)

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// postgresListener implements adapter.ChangeNotifier with LISTEN/NOTIFY.
// The collaborator tables are expected to NOTIFY channel on writes.
type postgresListener struct {
	dsn     string
	channel string
}

// NewPostgresListener creates a change notifier listening on channel.
func NewPostgresListener(dsn, channel string) adapter.ChangeNotifier {
	return &postgresListener{
		dsn:     dsn,
		channel: channel,
	}
}

// Subscribe opens a dedicated connection and returns the signal channel.
func (l *postgresListener) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	logger := slog.With("channel", l.channel)

	listener := pq.NewListener(l.dsn, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("Postgres listener event", "event", ev, "error", err)
		}
	})
	if err := listener.Listen(l.channel); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", l.channel, err)
	}

	signals := make(chan struct{}, 1)

	go func() {
		defer close(signals)
		defer listener.Close()

		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case n := <-listener.Notify:
				// A nil notification follows a reconnect; changes may have been missed.
				if n != nil {
					logger.Debug("Change notification received", "payload", n.Extra)
				}
				signal(signals)
			case <-ticker.C:
				if err := listener.Ping(); err != nil {
					logger.Warn("Postgres listener ping failed", "error", err)
				}
			}
		}
	}()

	return signals, nil
}
