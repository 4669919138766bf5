// Package notification turns user lifecycle events and direct requests into
// localized emails.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-notification/internal/domain/event"
	"github.com/oksasatya/go-user-notification/pkg/i18n"
	"github.com/oksasatya/go-user-notification/pkg/mailer"
	mailtpl "github.com/oksasatya/go-user-notification/pkg/mailer/templates"
	"github.com/oksasatya/go-user-notification/pkg/metrics"
)

const defaultUsername = "User"

// Messages resolves localized message texts.
type Messages interface {
	Message(key, locale string, params ...string) string
}

type Config struct {
	Enabled       bool
	TestMode      bool
	DefaultLocale string
	FromAddress   string
	CompanyName   string

	MaxAttempts     int
	InitialInterval time.Duration
	Multiplier      float64
}

// SendError reports that every delivery attempt for a recipient failed.
type SendError struct {
	To  string
	Err error
}

func (e *SendError) Error() string { return "failed to send email to: " + e.To }
func (e *SendError) Unwrap() error { return e.Err }

type EmailService struct {
	cfg      Config
	messages Messages
	sender   mailer.Sender
	logger   *logrus.Logger
	metrics  *metrics.AppMetrics
}

func NewEmailService(cfg Config, messages Messages, sender mailer.Sender, logger *logrus.Logger, m *metrics.AppMetrics) *EmailService {
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = i18n.DefaultLocale
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	return &EmailService{cfg: cfg, messages: messages, sender: sender, logger: logger, metrics: m}
}

// SendEmail delivers one email, retrying failed attempts with exponential
// backoff. A disabled service or test mode only logs the email.
func (s *EmailService) SendEmail(ctx context.Context, to, subject, text, lang string) error {
	if lang == "" {
		lang = s.cfg.DefaultLocale
	}
	fields := logrus.Fields{"to": to, "subject": subject, "lang": lang}

	if !s.cfg.Enabled {
		s.log().WithFields(fields).Info("email sending is disabled, skipping")
		s.metrics.RecordEmail(metrics.EmailSkipped)
		return nil
	}
	if s.cfg.TestMode {
		s.log().WithFields(fields).Info("[TEST MODE] email would be sent")
		s.log().WithField("to", to).Debugf("[TEST MODE] email content: %s", text)
		s.metrics.RecordEmail(metrics.EmailSkipped)
		return nil
	}

	msg := mailer.Message{From: s.cfg.FromAddress, To: to, Subject: subject, Text: text}
	data := mailtpl.NewEmailData(to, subject, text,
		mailtpl.WithCompany(s.cfg.CompanyName),
		mailtpl.WithLocale(i18n.ResolveLocale(lang)),
	)
	if html, err := mailtpl.RenderHTML(mailtpl.Notification, data); err != nil {
		s.log().WithError(err).WithFields(fields).Warn("render html failed, sending plain text")
	} else {
		msg.HTML = html
	}

	attempt := 0
	op := func() error {
		attempt++
		return s.sender.Send(ctx, msg)
	}
	notify := func(err error, wait time.Duration) {
		s.log().WithError(err).WithFields(fields).WithField("attempt", attempt).
			Warnf("send failed, retrying in %s", wait)
	}
	if err := backoff.RetryNotify(op, s.retryPolicy(ctx), notify); err != nil {
		s.log().WithError(err).WithFields(fields).Error("failed to send email")
		s.metrics.RecordEmail(metrics.EmailFailed)
		return &SendError{To: to, Err: err}
	}

	s.log().WithFields(fields).Info("email sent successfully")
	s.metrics.RecordEmail(metrics.EmailSent)
	return nil
}

// HandleUserEvent sends the notification for a CREATE or DELETE event. Nil
// events and other operations are logged and ignored.
func (s *EmailService) HandleUserEvent(ctx context.Context, ev *event.UserEvent) error {
	if ev == nil {
		s.log().Warn("received nil user event")
		return nil
	}

	locale := s.resolve(ev.Language)
	fields := logrus.Fields{"operation": ev.Operation, "email": ev.Email, "locale": locale}

	var key string
	switch {
	case ev.Is(event.OperationCreate):
		key = i18n.KeyEventCreate
	case ev.Is(event.OperationDelete):
		key = i18n.KeyEventDelete
	default:
		s.log().WithFields(fields).Warn("unsupported event type, no email will be sent")
		return nil
	}
	s.log().WithFields(fields).Info("processing user event")

	subject := s.messages.Message(i18n.KeySubjectNotification, locale)
	text := s.messages.Message(key, locale, username(ev.Username))
	return s.SendEmail(ctx, ev.Email, subject, text, s.lang(ev.Language))
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name, lang string) error {
	locale := s.resolve(lang)
	subject := s.messages.Message(i18n.KeySubjectWelcome, locale)
	text := s.messages.Message(i18n.KeyDirectWelcome, locale, username(name))
	return s.SendEmail(ctx, email, subject, text, s.lang(lang))
}

func (s *EmailService) SendAccountDeletedEmail(ctx context.Context, email, name, lang string) error {
	locale := s.resolve(lang)
	subject := s.messages.Message(i18n.KeySubjectAccountDeleted, locale)
	text := s.messages.Message(i18n.KeyDirectAccountDeleted, locale, username(name))
	return s.SendEmail(ctx, email, subject, text, s.lang(lang))
}

func (s *EmailService) retryPolicy(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.InitialInterval
	b.Multiplier = s.cfg.Multiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.cfg.MaxAttempts-1)), ctx)
}

func (s *EmailService) lang(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return s.cfg.DefaultLocale
	}
	return lang
}

func (s *EmailService) resolve(lang string) string {
	return i18n.ResolveLocale(s.lang(lang))
}

func (s *EmailService) log() *logrus.Logger {
	if s.logger == nil {
		return discard
	}
	return s.logger
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}()

func username(name string) string {
	if strings.TrimSpace(name) == "" {
		return defaultUsername
	}
	return name
}

// String describes the delivery mode for startup logs.
func (c Config) String() string {
	return fmt.Sprintf("enabled=%t test_mode=%t locale=%s attempts=%d", c.Enabled, c.TestMode, c.DefaultLocale, c.MaxAttempts)
}
