// Package listener provides a Postgres LISTEN/NOTIFY consumer for refresh
// announcements. It holds a dedicated pgx connection (not from the pool)
// listening on db.RefreshChannel.
//
// A refresh cycle run by another process, such as the ingest CLI, writes to
// the shared database without going through this process's runner. The
// notification lets the API drop cached responses built from the previous
// snapshot.
package listener

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/caps-edge/internal/db"
)

const (
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// RefreshEvent is the payload of a refresh notification.
type RefreshEvent struct {
	UpdatedAt time.Time
}

// ParseEvent decodes a notification payload.
func ParseEvent(payload string) (RefreshEvent, error) {
	t, err := time.Parse(time.RFC3339Nano, payload)
	if err != nil {
		return RefreshEvent{}, fmt.Errorf("parse refresh event %q: %w", payload, err)
	}
	return RefreshEvent{UpdatedAt: t}, nil
}

// Start opens a dedicated connection and listens for refresh events,
// calling onRefresh for each. It reconnects automatically on connection
// loss. Blocks until ctx is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, onRefresh func(RefreshEvent), logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, onRefresh, logger)
		if ctx.Err() != nil {
			logger.Info("Refresh listener stopped (context cancelled)")
			return
		}

		logger.Error("Refresh listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, onRefresh func(RefreshEvent), logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{db.RefreshChannel}.Sanitize()); err != nil {
		return fmt.Errorf("LISTEN %s: %w", db.RefreshChannel, err)
	}
	logger.Info("Refresh listener connected", "channel", db.RefreshChannel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		event, err := ParseEvent(notification.Payload)
		if err != nil {
			logger.Warn("Failed to parse refresh event", "error", err)
			continue
		}

		logger.Info("Refresh event received",
			"updated_at", event.UpdatedAt, "sender_pid", notification.PID)
		onRefresh(event)
	}
}
