package configuration

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoundTrip(t *testing.T) {
	r := NewRegistry()
	r.Register("app.name", "demo")
	r.RegisterObject("app.port", 8080)
	r.RegisterList("app.hosts", []interface{}{"a", "b"})

	assert.Equal(t, "demo", r.GetString("app.name"), "string")
	assert.Equal(t, "8080", r.GetString("app.port"), "object string form")
	assert.Equal(t, 8080, r.GetObject("app.port"), "object")
	assert.Equal(t, []interface{}{"a", "b"}, r.GetList("app.hosts"), "list")
	assert.Equal(t, "[a b]", r.GetString("app.hosts"), "list string form")
	assert.Equal(t, 3, r.Len(), "len")
	assert.True(t, r.IsNotEmpty(), "not empty")
}

func TestUpdateIsUpsert(t *testing.T) {
	r := NewRegistry()
	r.Update("never.registered", "x")
	assert.Equal(t, "x", r.GetString("never.registered"))
	r.Update("never.registered", "y")
	r.UpdateObject("obj", 1)
	r.UpdateObject("obj", 2)
	r.UpdateList("list", []interface{}{"z"})
	assert.Equal(t, "y", r.GetString("never.registered"))
	assert.Equal(t, 2, r.GetObject("obj"))
	assert.Equal(t, []interface{}{"z"}, r.GetList("list"))
	assert.Equal(t, 3, r.Len())
}

func TestDelete(t *testing.T) {
	r := NewRegistry()
	r.Register("k", "v")
	require.True(t, r.HasKey("k"))
	r.Delete("k")
	assert.False(t, r.HasKey("k"), "deleted")
	assert.Equal(t, "fallback", r.GetStringOr("k", "fallback"), "default after delete")
	r.Delete("k")
	r.Delete("never")
	assert.True(t, r.IsEmpty(), "empty")
}

func TestEmptyKeyIsNeverPresent(t *testing.T) {
	r := NewRegistry()
	r.Register("", "value")
	assert.False(t, r.HasKey(""), "empty key")
	assert.Equal(t, "d", r.GetStringOr("", "d"))
	_, ok := r.Lookup("")
	assert.False(t, ok)
}

func TestNullValuesAreAbsent(t *testing.T) {
	r := NewRegistry()
	r.RegisterObject("nil.object", nil)
	r.RegisterList("nil.list", nil)
	r.Register("empty.string", "")
	assert.False(t, r.HasKey("nil.object"))
	assert.False(t, r.HasKey("nil.list"))
	assert.True(t, r.HasKey("empty.string"), "empty string is still a value")
}

func TestKeysKeepInsertionOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "1")
	r.Register("b", "2")
	r.Register("c", "3")
	r.Delete("b")
	r.Register("b", "4")
	r.Register("a", "5")
	assert.Equal(t, []string{"a", "c", "b"}, r.Keys())
}

func TestReRegisterAfterDelete(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "x")
	r.Register("b", "y")
	r.Delete("a")
	r.Register("a", "x")
	r.RegisterObject("b", "x")
	r.Delete("b")
	r.RegisterList("b", []interface{}{"x"})

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"a", "b"}, r.Keys(), "each key once")
	assert.Equal(t, []string{"a"}, r.KeysForValue("x"))
	assert.Len(t, r.Properties(), 2)
	assert.Len(t, r.AsMap(), 2)
	assert.Len(t, r.Snapshot().Keys(), 2)
}

func TestReverseLookup(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "same")
	r.Register("b", "other")
	r.Register("c", "same")
	r.RegisterObject("d", 42)

	key, err := r.KeyForValue("same")
	require.NoError(t, err)
	assert.Equal(t, "a", key)
	assert.Equal(t, []string{"a", "c"}, r.KeysForValue("same"))
	assert.True(t, r.HasValue("other"))
	assert.True(t, r.HasValue(42), "object value")
	assert.False(t, r.HasValue("42"), "string does not match an int object")

	key, err = r.KeyForValue(42)
	require.NoError(t, err)
	assert.Equal(t, "d", key)

	r.Delete("a")
	key, err = r.KeyForValue("same")
	require.NoError(t, err)
	assert.Equal(t, "c", key, "after delete")

	_, err = r.KeyForValue("missing")
	require.Error(t, err)
	assert.True(t, IsNoSuchElementError(err), "no such element")
	assert.Empty(t, r.KeysForValue("missing"))
}

func TestReverseLookupOfLists(t *testing.T) {
	r := NewRegistry()
	r.RegisterList("l", []interface{}{"x", "y"})
	assert.True(t, r.HasValue([]string{"x", "y"}))
	assert.True(t, r.HasValue([]interface{}{"x", "y"}))
	assert.False(t, r.HasValue([]string{"y", "x"}))
}

func TestAsMapAndProperties(t *testing.T) {
	r := NewRegistry()
	r.Register("s", "v")
	r.RegisterObject("o", 1.5)
	r.RegisterList("l", []interface{}{1, 2})
	assert.Equal(t, map[string]string{"s": "v", "o": "1.5", "l": "[1 2]"}, r.AsMap())
	assert.Equal(t, []ConfigurationProperty{
		{Key: "s", Value: "v", Type: "string"},
		{Key: "o", Value: "1.5", Type: "object"},
		{Key: "l", Value: "[1 2]", Type: "list"},
	}, r.Properties())
	assert.Equal(t, ConfigurationModel{
		ConfigurationKey:   "s",
		ConfigurationValue: "v",
		ConfigurationType:  "string",
	}, r.Properties()[0].Model())
	assert.Equal(t, "k", NewConfigurationModel("k").ConfigurationKey)
}

func TestMergeAndLoadMap(t *testing.T) {
	r := NewRegistry()
	r.Register("keep", "1")
	r.Register("overwrite", "old")

	other := NewRegistry()
	other.Register("overwrite", "new")
	other.RegisterObject("added", true)
	r.Merge(other)
	r.Merge(r)
	r.Merge(nil)

	assert.Equal(t, "1", r.GetString("keep"))
	assert.Equal(t, "new", r.GetString("overwrite"))
	assert.Equal(t, true, r.GetObject("added"))

	r.LoadMap(map[string]interface{}{
		"m.string": "s",
		"m.list":   []string{"a"},
		"m.object": 7,
	})
	v, ok := r.Lookup("m.string")
	require.True(t, ok)
	assert.Equal(t, StringKind, v.Kind())
	v, ok = r.Lookup("m.list")
	require.True(t, ok)
	assert.Equal(t, ListKind, v.Kind())
	assert.Equal(t, []interface{}{"a"}, r.GetList("m.list"))
	v, ok = r.Lookup("m.object")
	require.True(t, ok)
	assert.Equal(t, ObjectKind, v.Kind())
}

func TestSnapshotIsIndependent(t *testing.T) {
	r := NewRegistry()
	m := map[string]int{"x": 1}
	list := []interface{}{"a"}
	r.RegisterObject("m", m)
	r.RegisterList("l", list)
	r.Register("s", "v")

	snap := r.Snapshot()
	m["x"] = 2
	list[0] = "changed"
	r.Register("s", "changed")
	r.Register("new", "only in r")

	assert.Equal(t, map[string]int{"x": 1}, snap.GetObject("m"))
	assert.Equal(t, []interface{}{"a"}, snap.GetList("l"))
	assert.Equal(t, "v", snap.GetString("s"))
	assert.False(t, snap.HasKey("new"))
	assert.Equal(t, []string{"m", "l", "s"}, snap.Keys())
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := "k" + strconv.Itoa(i) + "." + strconv.Itoa(j)
				r.Register(key, strconv.Itoa(j))
				_ = r.GetInt(key)
				_ = r.Keys()
				if j%3 == 0 {
					r.Delete(key)
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 8*66, r.Len())
}
