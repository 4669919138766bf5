package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithCompany(name string) Option {
	return func(d *EmailData) {
		if s := strings.TrimSpace(name); s != "" {
			d.CompanyName = s
		}
	}
}

func WithLocale(locale string) Option { return func(d *EmailData) { d.Locale = locale } }

func WithTime(t time.Time) Option { return func(d *EmailData) { d.SentAt = t.UTC() } }

// NewEmailData builds the data for a localized notification.
func NewEmailData(to, subject, body string, opts ...Option) EmailData {
	d := EmailData{
		Recipient: to,
		Subject:   subject,
		Body:      body,
		Locale:    "en",
		SentAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
