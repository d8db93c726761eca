package notifier

import (
	"context"
	"log/slog"
)

// Sender delivers one notification body to a recipient address.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// LogSender writes deliveries to the log instead of an outbound messaging
// API. It stands in wherever no Twilio credentials are configured, and is
// the default sender in development.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, to, body string) error {
	s.logger.Info("Notification delivered",
		slog.String("to", to),
		slog.String("body", body),
	)
	return nil
}
