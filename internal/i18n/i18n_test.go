package i18n

import (
	"errors"
	"testing"

	"github.com/desertthunder/vidtube/internal/guard"
	"github.com/desertthunder/vidtube/internal/shared"
	"golang.org/x/text/language"
)

func newCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	return c
}

func TestCatalog(t *testing.T) {
	c := newCatalog(t)

	if got := len(c.Languages()); got != 2 {
		t.Fatalf("expected 2 languages, got %d", got)
	}
	if c.Languages()[0] != language.English {
		t.Errorf("expected English first, got %v", c.Languages()[0])
	}

	t.Run("Translator", func(t *testing.T) {
		tc := []struct {
			lang string
			want language.Tag
		}{
			{"en", language.English},
			{"es", language.Spanish},
			{"es-MX", language.Spanish},
			{"fr", language.English},
		}

		for _, tt := range tc {
			t.Run(tt.lang, func(t *testing.T) {
				tr, err := c.Translator(tt.lang)
				if err != nil {
					t.Fatalf("Translator(%q) error: %v", tt.lang, err)
				}
				if tr.Language() != tt.want {
					t.Errorf("Translator(%q) = %v, want %v", tt.lang, tr.Language(), tt.want)
				}
			})
		}
	})

	t.Run("Translator invalid tag", func(t *testing.T) {
		if _, err := c.Translator("not a language!"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ForAcceptLanguage", func(t *testing.T) {
		fallback, _ := c.Translator("en")

		if got := c.ForAcceptLanguage("es-ES,es;q=0.9,en;q=0.8", fallback).Language(); got != language.Spanish {
			t.Errorf("expected Spanish, got %v", got)
		}
		if got := c.ForAcceptLanguage("", fallback); got != fallback {
			t.Error("expected fallback for empty header")
		}
	})
}

func TestTranslator(t *testing.T) {
	c := newCatalog(t)
	en, _ := c.Translator("en")
	es, _ := c.Translator("es")

	t.Run("template data", func(t *testing.T) {
		if got := en.T("status_signed_in", map[string]any{"UID": "abc"}); got != "Signed in as abc" {
			t.Errorf("unexpected message %q", got)
		}
		if got := es.T("placeholder_loading", map[string]any{"Path": "/trending"}); got != "Cargando /trending..." {
			t.Errorf("unexpected message %q", got)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if got := en.T("no_such_message", nil); got != "no_such_message" {
			t.Errorf("expected id back, got %q", got)
		}
	})

	t.Run("every reason is translated", func(t *testing.T) {
		reasons := []guard.Reason{
			guard.ReasonAllowed,
			guard.ReasonPublic,
			guard.ReasonProfileLoading,
			guard.ReasonSignedOut,
			guard.ReasonUnverified,
			guard.ReasonUnderage,
			guard.ReasonProfileFailed,
		}
		for _, tr := range []*Translator{en, es} {
			for _, r := range reasons {
				if got := tr.Reason(r); got == "reason_"+r.String() {
					t.Errorf("%v: missing message for reason %s", tr.Language(), r)
				}
			}
		}
	})
}
