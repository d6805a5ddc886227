package idp

import (
	"context"
	"log/slog"
)

// LogMailSender writes verification links to the log instead of sending mail.
// It is the default sender for local development.
type LogMailSender struct {
	logger *slog.Logger
}

func NewLogMailSender(logger *slog.Logger) *LogMailSender {
	return &LogMailSender{logger: logger.With("component", "mail")}
}

func (s *LogMailSender) SendVerification(_ context.Context, email, link string) error {
	s.logger.Info("verification email", "to", email, "link", link)
	return nil
}
