package configuration

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"testing/iotest"

	"github.com/muir/nflex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProperties = `# a comment
! another comment
app.name = demo
server.port: 8080
greeting Hello {0}
multi = multi \
        line
unicode = caf\u00e9
ref = ${app.name}
`

func TestLoadProperties(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Load(strings.NewReader(sampleProperties)))
	assert.Equal(t, "demo", r.GetString("app.name"))
	assert.Equal(t, int32(8080), r.GetInt("server.port"))
	assert.Equal(t, "Hello World", r.GetWithPlaceholders("greeting", "", "World"))
	assert.Equal(t, "multi line", r.GetString("multi"))
	assert.Equal(t, "café", r.GetString("unicode"))
	assert.Equal(t, "${app.name}", r.GetString("ref"), "references are not expanded")
	assert.Equal(t, 6, r.Len())
}

func TestLoadOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "old")
	r.Register("b", "kept")
	require.NoError(t, r.Load(strings.NewReader("a=new\n")))
	assert.Equal(t, "new", r.GetString("a"))
	assert.Equal(t, "kept", r.GetString("b"))
}

func TestLoadFailures(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "1")

	err := r.Load(iotest.ErrReader(errors.New("disk on fire")))
	require.Error(t, err)
	assert.True(t, IsResourceUnavailableError(err), "read failure")
	assert.Contains(t, err.Error(), "disk on fire")

	err = r.Load(nil)
	assert.True(t, IsResourceUnavailableError(err), "nil reader")

	err = r.Load(strings.NewReader("bad = \\uZZZZ\n"))
	require.Error(t, err)
	assert.True(t, IsResourceUnavailableError(err), "parse failure")

	assert.Equal(t, []string{"a"}, r.Keys(), "failed loads change nothing")
}

var configFS = fstest.MapFS{
	"app.properties": &fstest.MapFile{Data: []byte("app.name=demo\napp.debug=true\n")},
	"app.yaml": &fstest.MapFile{Data: []byte(`
app:
  name: from-yaml
  port: 9090
  ratio: 0.5
  enabled: true
  nothing: ~
hosts:
  - alpha
  - beta
servers:
  - host: one
    port: 1
  - host: two
    port: 2
`)},
	"app.json": &fstest.MapFile{Data: []byte(`{
  "app": {"name": "from-json", "port": 7070, "ratio": 1.25, "enabled": false},
  "hosts": ["gamma", "delta"],
  "servers": [{"host": "three"}]
}`)},
	"app.toml": &fstest.MapFile{Data: []byte(`
title = "from-toml"
ports = [8001, 8002]

[database]
host = "db.local"
timeout = 2.5

[[servers]]
host = "east"

[[servers]]
host = "west"
`)},
	"broken.yaml": &fstest.MapFile{Data: []byte("a: [unclosed\n")},
	"broken.toml": &fstest.MapFile{Data: []byte("a = \n")},
}

func TestLoadFileProperties(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadFile("app.properties", FromFS(configFS)))
	assert.Equal(t, "demo", r.GetString("app.name"))
	assert.True(t, r.GetBoolean("app.debug"))
}

func TestLoadFileYAML(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadFile("app.yaml", FromFS(configFS)))
	assert.Equal(t, "from-yaml", r.GetString("app.name"))
	assert.Equal(t, int32(9090), r.GetInt("app.port"))
	assert.Equal(t, 0.5, r.GetDouble("app.ratio"))
	assert.True(t, r.GetBoolean("app.enabled"))
	assert.False(t, r.HasKey("app.nothing"), "null is not registered")
	assert.Equal(t, []interface{}{"alpha", "beta"}, r.GetList("hosts"))
	assert.Equal(t, "one", r.GetString("servers.0.host"))
	assert.Equal(t, int32(2), r.GetInt("servers.1.port"))
}

func TestLoadFileJSON(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadFile("app.json", FromFS(configFS)))
	assert.Equal(t, "from-json", r.GetString("app.name"))
	assert.Equal(t, "7070", r.GetString("app.port"))
	assert.Equal(t, float32(1.25), r.GetFloat("app.ratio"))
	assert.Equal(t, "false", r.GetString("app.enabled"))
	assert.Equal(t, []interface{}{"gamma", "delta"}, r.GetList("hosts"))
	assert.Equal(t, "three", r.GetString("servers.0.host"))
	assert.Equal(t, []string{"app.name", "app.port", "app.ratio", "app.enabled", "hosts", "servers.0.host"}, r.Keys())
}

func TestLoadFileTOML(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadFile("app.toml", FromFS(configFS)))
	assert.Equal(t, "from-toml", r.GetString("title"))
	assert.Equal(t, []interface{}{"8001", "8002"}, r.GetList("ports"))
	assert.Equal(t, "db.local", r.GetString("database.host"))
	assert.Equal(t, 2.5, r.GetDouble("database.timeout"))
	assert.Equal(t, "east", r.GetString("servers.0.host"))
	assert.Equal(t, "west", r.GetString("servers.1.host"))
}

func TestLoadFileFailures(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"missing.properties", "missing.yaml", "missing.json", "broken.yaml", "broken.toml", "app.ini"} {
		err := r.LoadFile(name, FromFS(configFS))
		if assert.Error(t, err, name) {
			assert.True(t, IsResourceUnavailableError(err), name)
		}
	}
	assert.True(t, r.IsEmpty())
}

func TestLoadSource(t *testing.T) {
	source, err := nflex.UnmarshalJSON([]byte(`{"a": {"b": "c", "n": 3}, "l": [1, 2.5, "x"]}`))
	require.NoError(t, err)
	r := NewRegistry()
	require.NoError(t, r.LoadSource(source))
	assert.Equal(t, "c", r.GetString("a.b"))
	assert.Equal(t, int64(3), r.GetLong("a.n"))
	assert.Equal(t, []interface{}{"1", "2.5", "x"}, r.GetList("l"))
	require.NoError(t, r.LoadSource(nil))
	assert.Equal(t, 3, r.Len())
}
