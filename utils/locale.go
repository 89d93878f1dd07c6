// utils/locale.go
package utils

import (
	"strings"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/language"
)

// Content is authored in Russian with optional Kyrgyz translations.
var supported = []language.Tag{
	language.Russian, // default
	language.Kirghiz, // "ky"
}

var matcher = language.NewMatcher(supported)

// PickLocale negotiates "ru" or "ky" from an Accept-Language header.
func PickLocale(acceptLanguage string) string {
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	if base, _ := tag.Base(); base.String() == "ky" {
		return "ky"
	}
	return "ru"
}

// Localized returns the Kyrgyz variant when requested and present,
// falling back to the Russian text.
func Localized(locale, ru, kg string) string {
	if locale == "ky" && kg != "" {
		return kg
	}
	return ru
}

// SearchTerm lowercases and transliterates a query so Cyrillic input
// matches Latin slugs and vice versa.
func SearchTerm(q string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(q)))
}
