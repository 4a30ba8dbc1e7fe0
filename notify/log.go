package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of mailing them. It backs
// dry runs.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a LogSender. A nil logger discards everything.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the message at info level and never fails.
func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("dry run: notification not sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
