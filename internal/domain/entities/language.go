package entities

import "strings"

// Language is a UI language the learner reads translations and labels in.
type Language string

const (
	LanguageEnglish   Language = "english"
	LanguageUkrainian Language = "ukrainian"
)

// DefaultLanguage is used when nothing else is configured.
const DefaultLanguage = LanguageEnglish

// LanguageInfo describes a supported UI language.
type LanguageInfo struct {
	Key     Language // key used in word records, e.g. "english"
	Name    string   // native display name
	Code    string   // ISO 639-1 code
	NameKey string   // topic file key holding the topic name in this language
}

// SupportedLanguages lists the UI languages in display order.
var SupportedLanguages = []LanguageInfo{
	{Key: LanguageEnglish, Name: "English", Code: "en", NameKey: "name"},
	{Key: LanguageUkrainian, Name: "Українська", Code: "uk", NameKey: "name_uk"},
}

// Info returns the language description, falling back to English.
func (l Language) Info() LanguageInfo {
	for _, info := range SupportedLanguages {
		if info.Key == l {
			return info
		}
	}
	return SupportedLanguages[0]
}

// ParseLanguage maps a language key or ISO code to a supported language.
func ParseLanguage(raw string) (Language, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, info := range SupportedLanguages {
		if v == string(info.Key) || v == info.Code {
			return info.Key, true
		}
	}
	return DefaultLanguage, false
}
