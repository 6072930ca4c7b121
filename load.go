package configuration

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/magiconair/properties"
	"github.com/muir/nflex"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads property-file formatted data (key=value, key:value or
// "key value" lines, # and ! comments, backslash continuations and
// escapes) and registers every entry as a string.  ${...} references
// are not expanded.  Failure to read or parse is a
// ResourceUnavailableError and leaves r unchanged.
func (r *Registry) Load(input io.Reader) error {
	if input == nil {
		return ResourceUnavailableError(errors.New("cannot load properties from a nil reader"))
	}
	buf, err := io.ReadAll(input)
	if err != nil {
		return ResourceUnavailableError(errors.Wrap(err, "cannot load properties from the given reader"))
	}
	return r.loadProperties(buf)
}

func (r *Registry) loadProperties(buf []byte) error {
	loader := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}
	p, err := loader.LoadBytes(buf)
	if err != nil {
		return ResourceUnavailableError(errors.Wrap(err, "parse properties"))
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, key := range p.Keys() {
		value, _ := p.Get(key)
		r.putLocked(key, StringValue(value))
	}
	debug("registry: loaded properties", len(p.Keys()))
	return nil
}

type loadOpts struct {
	fs fs.FS
}

// LoadOpt is a functional argument for LoadFile
type LoadOpt func(*loadOpts)

// FromFS makes LoadFile read from fsys (an embed.FS for example)
// instead of the operating system.
func FromFS(fsys fs.FS) LoadOpt {
	return func(o *loadOpts) {
		o.fs = fsys
	}
}

// LoadFile loads a file into r.  The extension picks the format:
// ".properties" files are read with Load, ".yaml", ".yml" and ".toml"
// files are decoded and flattened like LoadSource does, and ".json"
// files are read with nflex and passed to LoadSource.
func (r *Registry) LoadFile(path string, opts ...LoadOpt) error {
	var o loadOpts
	for _, f := range opts {
		f(&o)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".properties":
		buf, err := o.readFile(path)
		if err != nil {
			return err
		}
		return errors.Wrap(r.loadProperties(buf), path)
	case ".yaml", ".yml":
		buf, err := o.readFile(path)
		if err != nil {
			return err
		}
		var tree interface{}
		err = yaml.Unmarshal(buf, &tree)
		if err != nil {
			return ResourceUnavailableError(errors.Wrapf(err, "parse %s", path))
		}
		r.loadTree(tree)
		return nil
	case ".toml":
		buf, err := o.readFile(path)
		if err != nil {
			return err
		}
		tree := make(map[string]interface{})
		err = toml.Unmarshal(buf, &tree)
		if err != nil {
			return ResourceUnavailableError(errors.Wrapf(err, "parse %s", path))
		}
		r.loadTree(tree)
		return nil
	default:
		var unmarshalOpts []nflex.UnmarshalFileArg
		if o.fs != nil {
			unmarshalOpts = append(unmarshalOpts, nflex.WithFS(o.fs))
		}
		source, err := nflex.UnmarshalFile(path, unmarshalOpts...)
		if err != nil {
			return ResourceUnavailableError(errors.Wrapf(err, "load %s", path))
		}
		return errors.Wrap(r.LoadSource(source), path)
	}
}

func (o loadOpts) readFile(path string) ([]byte, error) {
	var buf []byte
	var err error
	if o.fs != nil {
		buf, err = fs.ReadFile(o.fs, path)
	} else {
		buf, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, ResourceUnavailableError(errors.Wrapf(err, "read %s", path))
	}
	return buf, nil
}

func (r *Registry) loadTree(tree interface{}) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.loadTreeLocked(tree, "")
}

// loadTreeLocked flattens decoded YAML or TOML the same way
// loadSource flattens an nflex.Source.
func (r *Registry) loadTreeLocked(tree interface{}, prefix string) {
	switch x := tree.(type) {
	case map[string]interface{}:
		for key, value := range x {
			r.loadTreeLocked(value, joinKey(prefix, key))
		}
	case map[interface{}]interface{}:
		for key, value := range x {
			r.loadTreeLocked(value, joinKey(prefix, fmt.Sprint(key)))
		}
	case []map[string]interface{}:
		for i, e := range x {
			r.loadTreeLocked(e, joinKey(prefix, strconv.Itoa(i)))
		}
	case []interface{}:
		for _, e := range x {
			switch e.(type) {
			case map[string]interface{}, map[interface{}]interface{}, []interface{}:
				for i, e := range x {
					r.loadTreeLocked(e, joinKey(prefix, strconv.Itoa(i)))
				}
				return
			}
		}
		list := make([]interface{}, 0, len(x))
		for _, e := range x {
			if e != nil {
				list = append(list, fmt.Sprint(e))
			}
		}
		if keyIsNotEmpty(prefix) {
			r.putLocked(prefix, ListValue(list))
		}
	case nil:
		// null in the file: nothing to register
	default:
		if keyIsNotEmpty(prefix) {
			r.putLocked(prefix, StringValue(fmt.Sprint(x)))
		}
	}
}

// LoadSource flattens a parsed configuration tree into r.  Map keys
// are joined with "."; a list of scalars becomes a list value; a list
// holding maps or lists is flattened with the index as a key segment
// ("servers.0.host").  Scalars are stored as strings.
func (r *Registry) LoadSource(source nflex.Source) error {
	if source == nil {
		return nil
	}
	return r.loadSource(source, "")
}

// loadSource asks for keys and length before the node type because
// not every Source reports a type for containers.
func (r *Registry) loadSource(source nflex.Source, prefix string) error {
	if keys, err := source.Keys(); err == nil {
		for _, key := range keys {
			sub := source.Recurse(key)
			if sub == nil {
				continue
			}
			err := r.loadSource(sub, joinKey(prefix, key))
			if err != nil {
				return err
			}
		}
		return nil
	}
	if length, err := source.Len(); err == nil {
		scalars := true
		for i := 0; i < length; i++ {
			index := strconv.Itoa(i)
			if _, err := source.Keys(index); err == nil {
				scalars = false
			} else if _, err := source.Len(index); err == nil {
				scalars = false
			}
		}
		if !scalars {
			for i := 0; i < length; i++ {
				index := strconv.Itoa(i)
				sub := source.Recurse(index)
				if sub == nil {
					continue
				}
				err := r.loadSource(sub, joinKey(prefix, index))
				if err != nil {
					return err
				}
			}
			return nil
		}
		list := make([]interface{}, 0, length)
		for i := 0; i < length; i++ {
			s, ok, err := scalarString(source, strconv.Itoa(i))
			if err != nil {
				return ResourceUnavailableError(errors.Wrapf(err, "%s[%d]", prefix, i))
			}
			if ok {
				list = append(list, s)
			}
		}
		if keyIsNotEmpty(prefix) {
			r.put(prefix, ListValue(list))
		}
		return nil
	}
	s, ok, err := scalarString(source)
	if err != nil {
		return ResourceUnavailableError(errors.Wrap(err, prefix))
	}
	if ok && keyIsNotEmpty(prefix) {
		r.put(prefix, StringValue(s))
	}
	return nil
}

func scalarString(source nflex.Source, keys ...string) (string, bool, error) {
	switch source.Type(keys...) {
	case nflex.String:
		s, err := source.GetString(keys...)
		return s, err == nil, err
	case nflex.Int:
		i, err := source.GetInt(keys...)
		return strconv.FormatInt(i, 10), err == nil, err
	case nflex.Float:
		f, err := source.GetFloat(keys...)
		return strconv.FormatFloat(f, 'g', -1, 64), err == nil, err
	case nflex.Bool:
		b, err := source.GetBool(keys...)
		return strconv.FormatBool(b), err == nil, err
	default:
		return "", false, nil
	}
}
