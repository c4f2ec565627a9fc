package entity

import (
	"time"

	"github.com/google/uuid"
)

// NoticeLevel represents the severity of a user notice.
type NoticeLevel string

const (
	NoticeLevelInfo  NoticeLevel = "info"
	NoticeLevelError NoticeLevel = "error"
)

// Notice is a transient message shown to the user, such as a failed feed refresh.
type Notice struct {
	ID        uuid.UUID
	Level     NoticeLevel
	Message   string
	CreatedAt time.Time
}

// NewNotice creates a notice stamped with the current time.
func NewNotice(level NoticeLevel, message string) *Notice {
	return &Notice{
		ID:        uuid.New(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
