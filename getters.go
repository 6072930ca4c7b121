package configuration

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Each typed getter comes in two forms: GetX(key) falls back to a
// sentinel and GetXOr(key, defaultValue) falls back to the caller's
// value.  The fallback is used when the key is empty or missing and
// when the stored value does not parse.  Parse failures are never
// reported.  Only the character getters return an error.

// GetString returns "" when key is missing.  Use LookupString to
// tell a missing key from an empty value.
func (r *Registry) GetString(key string) string { return r.GetStringOr(key, "") }

func (r *Registry) GetStringOr(key string, defaultValue string) string {
	if s, ok := r.LookupString(key); ok {
		return s
	}
	return defaultValue
}

// GetObject returns the raw stored value: a string, an object or
// a []interface{}.
func (r *Registry) GetObject(key string) interface{} { return r.GetObjectOr(key, nil) }

func (r *Registry) GetObjectOr(key string, defaultValue interface{}) interface{} {
	v, ok := r.Lookup(key)
	if !ok || v.isNull() {
		return defaultValue
	}
	return v.Raw()
}

// GetList returns nil unless key holds a list.
func (r *Registry) GetList(key string) []interface{} { return r.GetListOr(key, nil) }

func (r *Registry) GetListOr(key string, defaultValue []interface{}) []interface{} {
	v, ok := r.Lookup(key)
	if !ok || v.Kind() != ListKind || v.list == nil {
		return defaultValue
	}
	return v.list
}

func (r *Registry) GetByte(key string) int8 { return r.GetByteOr(key, math.MinInt8) }

func (r *Registry) GetByteOr(key string, defaultValue int8) int8 {
	i, ok := r.parseInt(key, 8)
	if !ok {
		return defaultValue
	}
	return int8(i)
}

func (r *Registry) GetShort(key string) int16 { return r.GetShortOr(key, math.MinInt16) }

func (r *Registry) GetShortOr(key string, defaultValue int16) int16 {
	i, ok := r.parseInt(key, 16)
	if !ok {
		return defaultValue
	}
	return int16(i)
}

func (r *Registry) GetInt(key string) int32 { return r.GetIntOr(key, math.MinInt32) }

func (r *Registry) GetIntOr(key string, defaultValue int32) int32 {
	i, ok := r.parseInt(key, 32)
	if !ok {
		return defaultValue
	}
	return int32(i)
}

func (r *Registry) GetLong(key string) int64 { return r.GetLongOr(key, math.MinInt64) }

func (r *Registry) GetLongOr(key string, defaultValue int64) int64 {
	i, ok := r.parseInt(key, 64)
	if !ok {
		return defaultValue
	}
	return i
}

// GetFloat falls back to the smallest positive float32.
func (r *Registry) GetFloat(key string) float32 {
	return r.GetFloatOr(key, math.SmallestNonzeroFloat32)
}

func (r *Registry) GetFloatOr(key string, defaultValue float32) float32 {
	f, ok := r.parseFloat(key, 32)
	if !ok {
		return defaultValue
	}
	return float32(f)
}

// GetDouble falls back to the smallest positive float64.
func (r *Registry) GetDouble(key string) float64 {
	return r.GetDoubleOr(key, math.SmallestNonzeroFloat64)
}

func (r *Registry) GetDoubleOr(key string, defaultValue float64) float64 {
	f, ok := r.parseFloat(key, 64)
	if !ok {
		return defaultValue
	}
	return f
}

func (r *Registry) GetBigDecimal(key string) decimal.Decimal {
	return r.GetBigDecimalOr(key, decimal.Zero)
}

func (r *Registry) GetBigDecimalOr(key string, defaultValue decimal.Decimal) decimal.Decimal {
	s, ok := r.LookupString(key)
	if !ok {
		return defaultValue
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		debug("registry: not a decimal", key, err)
		return defaultValue
	}
	return d
}

// GetBoolean is true only for a case-insensitive "true".  For a
// missing key GetBooleanOr returns defaultValue rather than false.
func (r *Registry) GetBoolean(key string) bool { return r.GetBooleanOr(key, false) }

func (r *Registry) GetBooleanOr(key string, defaultValue bool) bool {
	s, ok := r.LookupString(key)
	if !ok {
		return defaultValue
	}
	return strings.EqualFold(s, "true")
}

// GetChar returns the single character stored under key, or 0 if
// key is missing.  A stored value that is not exactly one character
// is an InvalidPropertyError.
func (r *Registry) GetChar(key string) (rune, error) { return r.GetCharOr(key, 0) }

func (r *Registry) GetCharOr(key string, defaultValue rune) (rune, error) {
	s, ok := r.LookupString(key)
	if !ok {
		return defaultValue, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return defaultValue, InvalidPropertyError(errors.Errorf(
			"the property value '%s' cannot be converted to a character", s))
	}
	c, _ := utf8.DecodeRuneInString(s)
	return c, nil
}

func (r *Registry) parseInt(key string, bitSize int) (int64, bool) {
	s, ok := r.LookupString(key)
	if !ok {
		return 0, false
	}
	i, err := strconv.ParseInt(s, 10, bitSize)
	if err != nil {
		debug("registry: not an int", key, bitSize, err)
		return 0, false
	}
	return i, true
}

func (r *Registry) parseFloat(key string, bitSize int) (float64, bool) {
	s, ok := r.LookupString(key)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, bitSize)
	if err != nil && len(s) > 1 && strings.ContainsRune("fFdD", rune(s[len(s)-1])) {
		// type suffix, as in "1.5f" or "2d"
		f, err = strconv.ParseFloat(s[:len(s)-1], bitSize)
	}
	if err != nil {
		debug("registry: not a float", key, bitSize, err)
		return 0, false
	}
	return f, true
}
