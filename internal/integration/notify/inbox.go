// Package notify delivers change signals and user notices.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/backoffice/statement/internal/domain/entity"
)

// DefaultInboxCapacity is the number of notices kept when none is configured.
const DefaultInboxCapacity = 50

// Inbox keeps the most recent notices in memory. It implements
// adapter.NoticeInbox; Notify never blocks on I/O.
type Inbox struct {
	mu       sync.Mutex
	notices  []*entity.Notice
	capacity int
}

// NewInbox creates a new notice inbox.
func NewInbox(capacity int) *Inbox {
	if capacity <= 0 {
		capacity = DefaultInboxCapacity
	}
	return &Inbox{capacity: capacity}
}

// Notify records a notice, dropping the oldest once full.
func (i *Inbox) Notify(ctx context.Context, notice *entity.Notice) {
	slog.Info("Notice recorded", "level", notice.Level, "message", notice.Message)

	i.mu.Lock()
	defer i.mu.Unlock()

	i.notices = append(i.notices, notice)
	if over := len(i.notices) - i.capacity; over > 0 {
		i.notices = append(i.notices[:0], i.notices[over:]...)
	}
}

// Recent returns up to limit notices, newest first.
func (i *Inbox) Recent(ctx context.Context, limit int) []*entity.Notice {
	i.mu.Lock()
	defer i.mu.Unlock()

	if limit <= 0 || limit > len(i.notices) {
		limit = len(i.notices)
	}
	out := make([]*entity.Notice, 0, limit)
	for n := len(i.notices) - 1; n >= 0 && len(out) < limit; n-- {
		out = append(out, i.notices[n])
	}
	return out
}
