package configuration

import (
	"strconv"
	"strings"
)

// GetWithPlaceholders looks up key (falling back to defaultValue)
// and replaces positional tokens {0}, {1}, ... with placeholders.
// Substitution happens only if both the value and placeholders are
// non-empty; otherwise the value is returned as is.
func (r *Registry) GetWithPlaceholders(key string, defaultValue string, placeholders ...string) string {
	return applyPlaceholders(r.GetStringOr(key, defaultValue), placeholders)
}

func applyPlaceholders(s string, placeholders []string) string {
	if s == "" || len(placeholders) == 0 {
		return s
	}
	return formatMessage(s, placeholders)
}

// formatMessage follows message-format quoting: '' is a literal
// quote and text between single quotes is copied without looking
// for tokens.  Tokens whose index is out of range or not a number
// are copied literally.  Anything after a comma inside a token
// (a format type) is ignored.
func formatMessage(pattern string, args []string) string {
	var b strings.Builder
	b.Grow(len(pattern))
	inQuote := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\'':
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				b.WriteByte('\'')
				i++
				continue
			}
			inQuote = !inQuote
		case inQuote:
			b.WriteByte(c)
		case c == '{':
			end := strings.IndexByte(pattern[i+1:], '}')
			if end == -1 {
				b.WriteString(pattern[i:])
				return b.String()
			}
			token := pattern[i+1 : i+1+end]
			index := token
			if comma := strings.IndexByte(token, ','); comma != -1 {
				index = token[:comma]
			}
			n, err := strconv.Atoi(strings.TrimSpace(index))
			if err != nil || n < 0 || n >= len(args) {
				b.WriteString(pattern[i : i+2+end])
			} else {
				b.WriteString(args[n])
			}
			i += end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
