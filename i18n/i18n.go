// Package i18n translates shuttle's own user-facing strings.
//
// It wraps gotext with T() and N() helpers. Catalogs are embedded from
// locales/{lang}/LC_MESSAGES/shuttle.po and selected at startup by Init.
package i18n

import (
	"embed"
	"io/fs"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

//go:embed all:locales
var locales embed.FS

const domain = "shuttle"

var po *gotext.Locale

// Init selects a catalog for lang. An empty lang is detected from
// LANGUAGE, LC_ALL, LC_MESSAGES and LANG, in gettext order.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	lang = match(lang)

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T translates msgid, returning it unchanged when no translation exists.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid, []any{}...)
}

// N translates with plural forms.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n, []any{}...)
}

// Available lists the embedded catalog languages.
func Available() []string {
	entries, err := fs.ReadDir(locales, "locales")
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		if e.IsDir() {
			langs = append(langs, e.Name())
		}
	}
	return langs
}

// match maps a requested locale such as "es_MX" onto the closest embedded
// catalog. Unknown languages fall back to "en", which has no catalog and
// so passes msgids through.
func match(lang string) string {
	avail := Available()
	if len(avail) == 0 {
		return "en"
	}
	tags := []language.Tag{language.English}
	for _, a := range avail {
		tags = append(tags, language.Make(strings.ReplaceAll(a, "_", "-")))
	}
	want, _, err := language.ParseAcceptLanguage(strings.ReplaceAll(lang, "_", "-"))
	if err != nil || len(want) == 0 {
		return "en"
	}
	_, idx, conf := language.NewMatcher(tags).Match(want...)
	if conf == language.No || idx == 0 {
		return "en"
	}
	return avail[idx-1]
}

func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE is a colon-separated preference list.
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		if i := strings.IndexByte(val, '.'); i >= 0 {
			val = val[:i]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
