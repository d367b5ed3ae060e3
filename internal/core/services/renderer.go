package services

import (
	"RelayBot/internal/core/ports"
	"fmt"
	"strings"
)

// Renderer turns a template key into text. It never fails: a missing
// language falls back to the fallback language, a missing key to the key.
type Renderer struct {
	loc      ports.Localizer
	fallback string
}

// NewRenderer creates a renderer over loc.
func NewRenderer(loc ports.Localizer, fallbackLanguage string) *Renderer {
	return &Renderer{loc: loc, fallback: fallbackLanguage}
}

// Render looks up key in lang and substitutes {name} placeholders.
func (r *Renderer) Render(lang, key string, params map[string]any) string {
	text, ok := r.loc.Lookup(lang, key)
	if !ok {
		text, ok = r.loc.Lookup(r.fallback, key)
	}
	if !ok {
		text = key
	}
	if len(params) == 0 {
		return text
	}

	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Languages lists the languages the localizer knows.
func (r *Renderer) Languages() []string {
	return r.loc.Languages()
}
