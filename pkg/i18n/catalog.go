// Package i18n is the localized message catalogue of the notification
// service, built on go-playground/universal-translator.
package i18n

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	"github.com/sirupsen/logrus"
)

// DefaultLocale is used for empty or unsupported languages and as the
// fallback when a message is missing in the requested locale.
const DefaultLocale = "en"

// supported is ordered: English first, then Russian and Spanish.
var supported = []locales.Translator{en.New(), ru.New(), es.New()}

type Catalog struct {
	uni    *ut.UniversalTranslator
	logger *logrus.Logger
}

// NewCatalog loads the built-in messages for every supported locale.
func NewCatalog(logger *logrus.Logger) (*Catalog, error) {
	return newCatalog(builtin, logger)
}

func newCatalog(messages map[string]map[string]string, logger *logrus.Logger) (*Catalog, error) {
	uni := ut.New(supported[0], supported...)
	for locale, entries := range messages {
		trans, found := uni.GetTranslator(locale)
		if !found {
			return nil, fmt.Errorf("i18n: unsupported locale %q", locale)
		}
		for key, text := range entries {
			if err := trans.Add(key, text, true); err != nil {
				return nil, fmt.Errorf("i18n: add %s/%s: %w", locale, key, err)
			}
		}
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Catalog{uni: uni, logger: logger}, nil
}

// Supported returns the supported locale codes in display order.
func Supported() []string {
	out := make([]string, 0, len(supported))
	for _, l := range supported {
		out = append(out, l.Locale())
	}
	return out
}

// IsSupported reports whether lang names a supported locale. Matching is
// case-insensitive and ignores a region suffix such as "ru-RU".
func IsSupported(lang string) bool {
	base := baseLanguage(lang)
	if base == "" {
		return false
	}
	for _, l := range supported {
		if l.Locale() == base {
			return true
		}
	}
	return false
}

// ResolveLocale maps lang to a supported locale code, falling back to English.
func ResolveLocale(lang string) string {
	if IsSupported(lang) {
		return baseLanguage(lang)
	}
	return DefaultLocale
}

// Message returns the text for key in locale with {0}, {1}... replaced by
// params. A key missing in locale falls back to English, then to
// "Message not found: {key}".
func (c *Catalog) Message(key, locale string, params ...string) string {
	if strings.TrimSpace(key) == "" {
		c.log().Error("message key is empty")
		return "Message not configured"
	}

	locale = ResolveLocale(locale)
	if text, err := c.translate(locale, key, params); err == nil {
		return text
	} else if !isUnknown(err) {
		c.log().WithError(err).WithField("key", key).Error("message lookup failed")
		return "Error retrieving message: " + key
	}

	if locale != DefaultLocale {
		c.log().WithFields(logrus.Fields{"key": key, "locale": locale}).Warn("message not found, using default locale")
		if text, err := c.translate(DefaultLocale, key, params); err == nil {
			return text
		}
	}
	c.log().WithField("key", key).Error("message not found in default locale")
	return "Message not found: " + key
}

// DisplayName returns the localized name of the language code, as shown by
// the supported-languages endpoint.
func (c *Catalog) DisplayName(code, locale string) string {
	return c.Message(LanguageKey(code), locale)
}

// maxParams bounds the placeholders a message may use. Missing params are
// filled with their own placeholder text since the translator indexes params
// without a bounds check.
const maxParams = 4

func (c *Catalog) translate(locale, key string, params []string) (string, error) {
	trans, _ := c.uni.GetTranslator(locale)
	padded := make([]string, 0, maxParams)
	padded = append(padded, params...)
	for i := len(padded); i < maxParams; i++ {
		padded = append(padded, fmt.Sprintf("{%d}", i))
	}
	return trans.T(key, padded...)
}

func (c *Catalog) log() *logrus.Logger { return c.logger }

func isUnknown(err error) bool {
	return errors.Is(err, ut.ErrUnknowTranslation)
}

func baseLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	return lang
}
