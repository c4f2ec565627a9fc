// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/backoffice/statement/internal/domain/entity"
)

// Notifier delivers non-blocking user notices.
type Notifier interface {
	// Notify publishes a notice. It must not block the caller.
	Notify(ctx context.Context, notice *entity.Notice)
}

// NoticeInbox keeps the recent notices for display.
type NoticeInbox interface {
	Notifier

	// Recent returns up to limit notices, newest first.
	Recent(ctx context.Context, limit int) []*entity.Notice
}
