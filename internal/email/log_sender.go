package email

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes emails to the logger instead of sending them. The
// recipient is masked and the body is omitted.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{
		logger: logger,
	}
}

func (s *LogSender) Send(_ context.Context, from, recipient Address, subject, body string) error {
	s.logger.Info().
		Str("from", string(from)).
		Str("recipient", recipient.Mask()).
		Str("subject", subject).
		Int("bodyBytes", len(body)).
		Msg("send email")
	return nil
}
