package render

import (
	"errors"
	"strings"
)

// ErrMissingTranslator is reported to the missing-translation handler when a
// locale is set but no translator is configured.
var ErrMissingTranslator = errors.New("render: no translator configured")

// Translator resolves message keys per locale.
type Translator interface {
	Translate(locale, key string) (string, error)
}

// MissingTranslationHandler decides the text shown when a key cannot be
// translated.
type MissingTranslationHandler func(locale, key, fallback string, err error)

// MapTranslator is an in-memory Translator backed by locale keyed message
// maps. Useful for tests and small embedded message sets.
type MapTranslator map[string]map[string]string

func (m MapTranslator) Translate(locale, key string) (string, error) {
	messages, ok := m[locale]
	if !ok {
		return "", errors.New("render: unknown locale " + locale)
	}
	msg, ok := messages[key]
	if !ok {
		return "", errors.New("render: unknown message key " + key)
	}
	return msg, nil
}

// Hint attribute names carrying translation keys. When a context has a
// locale and translator, these override the literal label, help, and
// placeholder texts.
const (
	labelKeyHint       = "label_key"
	helpKeyHint        = "help_key"
	placeholderKeyHint = "placeholder_key"
)

// translateHint resolves a key hint to its localized text, falling back to
// the literal value when translation is unavailable.
func (c *Context) translateHint(key, fallback string) string {
	key = strings.TrimSpace(key)
	if key == "" || c == nil || c.Locale == "" {
		return fallback
	}
	if c.Translator == nil {
		if c.OnMissing != nil {
			c.OnMissing(c.Locale, key, fallback, ErrMissingTranslator)
		}
		return fallback
	}
	msg, err := c.Translator.Translate(c.Locale, key)
	if err != nil || strings.TrimSpace(msg) == "" {
		if c.OnMissing != nil {
			c.OnMissing(c.Locale, key, fallback, err)
		}
		return fallback
	}
	return msg
}
