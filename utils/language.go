package utils

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build()
	})
	return detector
}

// DetectLanguage returns the lowercase ISO 639-1 code of text's language, or
// "" if it cannot be told.
func DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	language, ok := languageDetector().DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(language.IsoCode639_1().String())
}

// NormalizeLanguage maps a language name ("english") or code ("EN") to a
// lowercase ISO 639-1 code. Unknown values are returned lowercased.
func NormalizeLanguage(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, language := range lingua.AllLanguages() {
		code := language.IsoCode639_1().String()
		if strings.EqualFold(language.String(), value) || strings.EqualFold(code, value) {
			return strings.ToLower(code)
		}
	}
	return strings.ToLower(value)
}

// IsEnglish reports whether lang, in any form NormalizeLanguage accepts, is English.
func IsEnglish(lang string) bool {
	return NormalizeLanguage(lang) == "en"
}
