package notify

import (
	"context"
	"log/slog"
)

// Sender delivers one notification payload. Delivery transports plug in
// here; the default just logs, which is enough for local and test runs.
type Sender interface {
	Send(ctx context.Context, kind, topic string, payload []byte) error
}

type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, kind, topic string, payload []byte) error {
	s.logger.Info("notification sent",
		"kind", kind,
		"topic", topic,
		"payload", string(payload),
	)
	return nil
}
