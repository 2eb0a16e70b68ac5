// package i18n resolves user-facing strings from embedded message files
package i18n

import (
	"embed"
	"fmt"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/vidtube/internal/guard"
	"github.com/desertthunder/vidtube/internal/shared"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var locales embed.FS

// DefaultLanguage is used when no requested language is supported.
var DefaultLanguage = language.English

// Catalog holds every embedded message file.
type Catalog struct {
	bundle  *goi18n.Bundle
	matcher language.Matcher
}

// Translator localizes messages for one language.
type Translator struct {
	localizer *goi18n.Localizer
	tag       language.Tag
}

// NewCatalog loads the embedded message files.
func NewCatalog() (*Catalog, error) {
	bundle := goi18n.NewBundle(DefaultLanguage)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}

	for _, entry := range entries {
		if _, err := bundle.LoadMessageFileFS(locales, path.Join("locales", entry.Name())); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", entry.Name(), err)
		}
	}

	return &Catalog{bundle: bundle, matcher: language.NewMatcher(bundle.LanguageTags())}, nil
}

// Languages lists the loaded languages, default first.
func (c *Catalog) Languages() []language.Tag {
	return c.bundle.LanguageTags()
}

// Translator returns a translator for lang, a BCP 47 tag such as "es" or "en-GB".
func (c *Catalog) Translator(lang string) (*Translator, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("%w: language %q: %v", shared.ErrInvalidConfig, lang, err)
	}
	return c.match(tag), nil
}

// ForAcceptLanguage returns a translator for an HTTP Accept-Language header, falling back to fallback.
func (c *Catalog) ForAcceptLanguage(header string, fallback *Translator) *Translator {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	return c.match(tags...)
}

func (c *Catalog) match(tags ...language.Tag) *Translator {
	_, idx, confidence := c.matcher.Match(tags...)
	tag := c.bundle.LanguageTags()[idx]
	if confidence == language.No {
		tag = DefaultLanguage
	}
	return &Translator{
		localizer: goi18n.NewLocalizer(c.bundle, tag.String(), DefaultLanguage.String()),
		tag:       tag,
	}
}

// Language is the language this translator resolves to.
func (t *Translator) Language() language.Tag { return t.tag }

// T returns the message for id, rendered with data. Unknown ids are returned as-is.
func (t *Translator) T(id string, data map[string]any) string {
	msg, err := t.localizer.Localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return id
	}
	return msg
}

// Reason returns the explanation shown for a guard decision.
func (t *Translator) Reason(r guard.Reason) string {
	return t.T("reason_"+r.String(), nil)
}
