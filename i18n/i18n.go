package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	Arabic  = "ar"
	English = "en"
	Chinese = "zh"

	// Default is used when nothing in the request selects a locale.
	Default = Arabic

	// CookieName is the cookie the locale switcher writes.
	CookieName = "NEXT_LOCALE"
)

// Locales lists the supported locales in display order.
var Locales = []string{Arabic, English, Chinese}

var (
	tags     = []language.Tag{language.Arabic, language.English, language.Chinese}
	matcher  = language.NewMatcher(tags)
	printers = map[string]*message.Printer{}
)

func init() {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	load := func(tag language.Tag, msgs map[string]string) {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic("i18n: " + err.Error())
			}
		}
	}
	load(language.English, english)
	load(language.Arabic, arabic)
	load(language.Chinese, chinese)

	for i, tag := range tags {
		printers[Locales[i]] = message.NewPrinter(tag, message.Catalog(b))
	}
}

// Supported normalizes s to a supported locale code.
func Supported(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range Locales {
		if s == l {
			return l, true
		}
	}
	return "", false
}

// Match picks the best supported locale for an Accept-Language header.
func Match(acceptLanguage string) (string, bool) {
	if strings.TrimSpace(acceptLanguage) == "" {
		return "", false
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return "", false
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return "", false
	}
	return Locales[idx], true
}

// Resolve applies the locale precedence: path prefix, query, cookie,
// Accept-Language, then fallback.
func Resolve(pathLocale, queryLocale, cookieLocale, acceptLanguage, fallback string) string {
	for _, candidate := range []string{pathLocale, queryLocale, cookieLocale} {
		if l, ok := Supported(candidate); ok {
			return l
		}
	}
	if l, ok := Match(acceptLanguage); ok {
		return l
	}
	if l, ok := Supported(fallback); ok {
		return l
	}
	return Default
}

// Direction is the text direction of the locale.
func Direction(locale string) string {
	if locale == Arabic {
		return "rtl"
	}
	return "ltr"
}

// T renders the message for key in locale. Unknown locales use the default
// locale; unknown keys are rendered as-is.
func T(locale, key string, args ...any) string {
	p, ok := printers[locale]
	if !ok {
		p = printers[Default]
	}
	return p.Sprintf(key, args...)
}
