// Package i18n localizes report labels with go-i18n message files embedded
// in the binary.
package i18n

import (
	"embed"
	"io/fs"
	"sync"

	logging "github.com/ipfs/go-log/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"localesync/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var log = logging.Logger("i18n")

var _ output.T = (*Translator)(nil)

// Translator renders report messages from a go-i18n bundle. Lookups fall
// back to the default locale, then to the message key.
type Translator struct {
	bundle   *i18n.Bundle
	fallback language.Tag

	mu         sync.Mutex
	localizers map[string]*i18n.Localizer
}

// NewTranslator loads every embedded active.<locale>.toml file. An invalid
// defaultLocale falls back to French.
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		log.Warnw("invalid default locale", "locale", defaultLocale, "error", err)
		tag = language.French
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, "active.*.toml")
	if err != nil {
		log.Errorw("list message files", "error", err)
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Errorw("message file not loaded", "file", file, "error", err)
		}
	}

	return &Translator{
		bundle:     bundle,
		fallback:   tag,
		localizers: make(map[string]*i18n.Localizer),
	}
}

// Languages returns the locales a report can be rendered in.
func (t *Translator) Languages() []language.Tag {
	return t.bundle.LanguageTags()
}

func (t *Translator) localizer(locale string) *i18n.Localizer {
	t.mu.Lock()
	defer t.mu.Unlock()
	if l, ok := t.localizers[locale]; ok {
		return l
	}
	l := i18n.NewLocalizer(t.bundle, locale, t.fallback.String())
	t.localizers[locale] = l
	return l
}

func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	msg, err := t.localizer(locale).Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.Debugw("message not localized", "key", key, "locale", locale, "error", err)
		return key
	}
	return msg
}
