// Package entities contains domain entities used across the application.
package entities

import (
	"fmt"
	"strings"
)

// Media holds asset URLs resolved for a word.
type Media struct {
	AudioURL string // pronunciation audio
	ImageURL string // optional illustration, empty when images are disabled
}

// Word is a single vocabulary entry of a topic.
// Words are compared by pointer: a quiz round identifies the correct option
// by reference, not by text.
type Word struct {
	SourceText   string              `json:"source"`            // term in the language being learned
	Translations map[Language]string `json:"translations"`      // translation per UI language
	Example      string              `json:"example,omitempty"` // optional usage example
	Media        Media               `json:"-"`                 // resolved by the topic store
}

// Translation returns the translation for lang, falling back to English.
func (w *Word) Translation(lang Language) string {
	if t, ok := w.Translations[lang]; ok && t != "" {
		return t
	}
	return w.Translations[LanguageEnglish]
}

// Validate rejects words a flashcard or quiz option cannot show: no source
// text or no non-empty translation.
func (w *Word) Validate() error {
	if strings.TrimSpace(w.SourceText) == "" {
		return fmt.Errorf("%w: word has no source text", ErrMalformedData)
	}
	for _, t := range w.Translations {
		if strings.TrimSpace(t) != "" {
			return nil
		}
	}
	return fmt.Errorf("%w: word %q has no translations", ErrMalformedData, w.SourceText)
}
