package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Message is a single outgoing email. HTML is optional; Text is the fallback body.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them. It is
// used when no mail provider is configured.
type LogSender struct {
	Logger *logrus.Logger
}

func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{Logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"to":      msg.To,
			"from":    msg.From,
			"subject": msg.Subject,
		}).Info("email logged, no mail provider configured")
		s.Logger.WithField("to", msg.To).Debug(msg.Text)
	}
	return nil
}
