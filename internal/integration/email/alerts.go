package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/backoffice/statement/internal/application/adapter"
	"github.com/backoffice/statement/internal/domain/entity"
	"github.com/backoffice/statement/internal/integration/email/templates"
)

// AlertConfig holds configuration for the alert notifier.
type AlertConfig struct {
	Recipient   string
	QueueSize   int
	MaxAttempts int
	RetryDelay  time.Duration
}

// DefaultAlertConfig returns the default alert configuration for a recipient.
func DefaultAlertConfig(recipient string) AlertConfig {
	return AlertConfig{
		Recipient:   recipient,
		QueueSize:   16,
		MaxAttempts: 3,
		RetryDelay:  2 * time.Second,
	}
}

// AlertNotifier records every notice in the wrapped notifier and mails
// error notices to an operator. Notify only enqueues; Start drains the
// queue and performs the sends.
type AlertNotifier struct {
	next     adapter.Notifier
	sender   adapter.EmailSender
	renderer *templates.Renderer
	config   AlertConfig
	queue    chan *entity.Notice
}

// NewAlertNotifier creates a new alert notifier.
func NewAlertNotifier(next adapter.Notifier, sender adapter.EmailSender, renderer *templates.Renderer, config AlertConfig) *AlertNotifier {
	if config.QueueSize <= 0 {
		config.QueueSize = 1
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	return &AlertNotifier{
		next:     next,
		sender:   sender,
		renderer: renderer,
		config:   config,
		queue:    make(chan *entity.Notice, config.QueueSize),
	}
}

// Notify implements adapter.Notifier.
func (a *AlertNotifier) Notify(ctx context.Context, notice *entity.Notice) {
	a.next.Notify(ctx, notice)
	if notice.Level != entity.NoticeLevelError {
		return
	}

	select {
	case a.queue <- notice:
	default:
		slog.Warn("Alert queue full, dropping notice email", "notice_id", notice.ID)
	}
}

// Start sends queued alerts. It blocks until the context is cancelled.
func (a *AlertNotifier) Start(ctx context.Context) {
	slog.Info("Alert notifier started", "recipient", a.config.Recipient)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Alert notifier shutting down", "pending", len(a.queue))
			return
		case notice := <-a.queue:
			a.deliver(ctx, notice)
		}
	}
}

func (a *AlertNotifier) deliver(ctx context.Context, notice *entity.Notice) {
	logger := slog.With("notice_id", notice.ID, "recipient", a.config.Recipient)

	input, err := a.buildEmail(notice)
	if err != nil {
		logger.Error("Failed to render alert email", "error", err)
		return
	}

	for attempt := 1; attempt <= a.config.MaxAttempts; attempt++ {
		result, err := a.sender.Send(ctx, input)
		if err == nil {
			logger.Info("Alert email sent", "resend_id", result.ResendID, "attempt", attempt)
			return
		}
		if errors.Is(err, ErrPermanentFailure) {
			logger.Error("Alert email rejected", "error", err)
			return
		}
		logger.Warn("Alert email failed", "attempt", attempt, "error", err)

		if attempt == a.config.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(a.config.RetryDelay * time.Duration(attempt)):
		}
	}
	logger.Error("Alert email abandoned", "attempts", a.config.MaxAttempts)
}

func (a *AlertNotifier) buildEmail(notice *entity.Notice) (adapter.SendEmailInput, error) {
	html, text, err := a.renderer.Render(templates.NoticeAlert, templates.NoticeAlertData{
		Level:      string(notice.Level),
		Message:    notice.Message,
		OccurredAt: notice.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return adapter.SendEmailInput{}, err
	}
	return adapter.SendEmailInput{
		To:      a.config.Recipient,
		Subject: fmt.Sprintf("[Balanço] %s", notice.Message),
		HTML:    html,
		Text:    text,
	}, nil
}

var _ adapter.Notifier = (*AlertNotifier)(nil)
