package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetWithPlaceholders(t *testing.T) {
	r := NewRegistry()
	r.Register("greeting", "Hello {0}")
	r.Register("pair", "{1} then {0}, {0} again")
	r.Register("range", "{0} and {2}")
	r.Register("quoted", "it''s '{0}' not {0}")
	r.Register("typed", "{0,number} items")
	r.Register("broken", "open {0")

	assert.Equal(t, "Hello World", r.GetWithPlaceholders("greeting", "", "World"))
	assert.Equal(t, "Hello {0}", r.GetWithPlaceholders("greeting", ""), "no placeholders")
	assert.Equal(t, "b then a, a again", r.GetWithPlaceholders("pair", "", "a", "b"))
	assert.Equal(t, "x and {2}", r.GetWithPlaceholders("range", "", "x"), "out of range is literal")
	assert.Equal(t, "it's {0} not x", r.GetWithPlaceholders("quoted", "", "x"))
	assert.Equal(t, "3 items", r.GetWithPlaceholders("typed", "", "3"))
	assert.Equal(t, "open {0", r.GetWithPlaceholders("broken", "", "x"))
	assert.Equal(t, "Bye you", r.GetWithPlaceholders("missing", "Bye {0}", "you"), "default is a template too")
	assert.Equal(t, "", r.GetWithPlaceholders("missing", "", "you"))
}
