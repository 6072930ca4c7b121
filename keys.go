package configuration

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CamelCaseKey turns a name like "appDefaultName" into the
// lookup key "app.default.name".  Each upper-case rune after
// the first starts a new dotted segment.  The name must not be
// empty; an empty name returns "".
func CamelCaseKey(name string) string {
	if name == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(name)
	var b strings.Builder
	b.Grow(len(name) + 4)
	b.WriteRune(unicode.ToLower(first))
	for _, r := range name[size:] {
		if unicode.IsUpper(r) {
			b.WriteByte('.')
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// UnderscoreKey turns a name like "APP_DEFAULT_NAME" into the
// lookup key "app.default.name".  Empty segments are kept, so
// "_A__B" becomes ".a..b".
func UnderscoreKey(name string) string {
	tokens := strings.Split(name, "_")
	for i, token := range tokens {
		tokens[i] = strings.ToLower(token)
	}
	return strings.Join(tokens, ".")
}

type keyNormalizer func(string) string

var keyNormalizers = map[string]keyNormalizer{
	"camel":      CamelCaseKey,
	"underscore": UnderscoreKey,
}
