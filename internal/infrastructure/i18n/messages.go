package i18n

import (
	"localesync/internal/domain"
	"localesync/internal/ports/output"
)

// LanguageName returns the localized name of a catalog language, or the
// code itself when no name is known.
func LanguageName(t output.T, locale, code string) string {
	key := "lang_" + code
	if name := t.T(locale, key, nil); name != key {
		return name
	}
	return code
}

// ErrorMessage maps err to a localized, user-facing reason through its
// domain error code.
func ErrorMessage(t output.T, locale string, err error) string {
	if err == nil {
		return ""
	}
	code := domain.Code(err)
	if code == "" {
		code = "unknown"
	}
	return t.T(locale, "error_"+code, nil)
}
