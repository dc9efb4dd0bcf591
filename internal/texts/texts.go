// Package texts holds the bot's user-facing strings.
package texts

import (
	"sort"
	"strings"
)

const DefaultLanguage = "en"

var tables = map[string]map[string]string{
	"en": english,
	"fa": persian,
}

// Languages returns the supported language codes, sorted.
func Languages() []string {
	out := make([]string, 0, len(tables))
	for lang := range tables {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

func IsSupported(lang string) bool {
	_, ok := tables[lang]
	return ok
}

// Get looks key up in lang, then in English. Unknown keys come back as
// "Missing: <key>".
func Get(lang, key string) string {
	if t, ok := tables[lang]; ok {
		if s, ok := t[key]; ok {
			return s
		}
	}
	if s, ok := english[key]; ok {
		return s
	}
	return "Missing: " + key
}

// Format is Get with {name} placeholders filled from args. Placeholders
// without a value are left as they are.
func Format(lang, key string, args map[string]string) string {
	s := Get(lang, key)
	if len(args) == 0 {
		return s
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// LanguageName is the label shown on the language keyboard.
func LanguageName(lang string) string {
	switch lang {
	case "en":
		return "🇬🇧 English"
	case "fa":
		return "🇮🇷 فارسی"
	}
	return lang
}
