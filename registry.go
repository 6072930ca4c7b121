package configuration

import (
	"sync"

	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
)

// Registry is an in-memory key to Value store.  Lookups are by key;
// iteration (Keys, AsMap, reverse lookups) follows insertion order.
//
// A Registry is safe for concurrent use in the sense that every
// read sees prior writes.  Multi-entry operations such as Load and
// Merge are not transactional.
type Registry struct {
	lock  sync.RWMutex
	m     map[string]Value
	order []string
	dirty bool
}

func NewRegistry() *Registry {
	return &Registry{
		m: make(map[string]Value),
	}
}

func (r *Registry) put(key string, v Value) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.putLocked(key, v)
}

func (r *Registry) putLocked(key string, v Value) {
	if _, ok := r.m[key]; !ok {
		// a deleted key may still be in order
		r.clean()
		r.order = append(r.order, key)
	}
	r.m[key] = v
}

// Register stores a string value under key, replacing whatever
// was there.
func (r *Registry) Register(key string, value string) { r.put(key, StringValue(value)) }

// RegisterObject stores an arbitrary object under key.  Strings
// and lists passed here are still stored as objects.
func (r *Registry) RegisterObject(key string, value interface{}) { r.put(key, ObjectValue(value)) }

func (r *Registry) RegisterList(key string, value []interface{}) { r.put(key, ListValue(value)) }

// Update is the same as Register: there is no check that key
// already exists.
func (r *Registry) Update(key string, value string) { r.Register(key, value) }

func (r *Registry) UpdateObject(key string, value interface{}) { r.RegisterObject(key, value) }

func (r *Registry) UpdateList(key string, value []interface{}) { r.RegisterList(key, value) }

// Delete removes key.  Deleting a missing key does nothing.
func (r *Registry) Delete(key string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.m[key]; ok {
		debug("registry: DELETE", key)
		r.dirty = true
		delete(r.m, key)
	}
}

// clean drops deleted keys from the order.  Callers hold the
// write lock.
func (r *Registry) clean() {
	if !r.dirty {
		return
	}
	r.dirty = false
	for i, key := range r.order {
		if _, ok := r.m[key]; ok {
			continue
		}
		n := make([]string, i, len(r.m))
		if i > 0 {
			copy(n, r.order[:i])
		}
		for _, key := range r.order[i+1:] {
			if _, ok := r.m[key]; ok {
				n = append(n, key)
			}
		}
		r.order = n
		break
	}
	debug("registry: after clean, order is", r.order)
}

// each calls f for every entry in order until f returns false.
func (r *Registry) each(f func(key string, v Value) bool) {
	r.lock.Lock()
	r.clean()
	order := make([]string, len(r.order))
	copy(order, r.order)
	r.lock.Unlock()

	for _, key := range order {
		v, ok := r.Lookup(key)
		if !ok {
			continue
		}
		if !f(key, v) {
			return
		}
	}
}

// Lookup returns the stored Value for key.  An empty key is never
// found.
func (r *Registry) Lookup(key string) (Value, bool) {
	if !keyIsNotEmpty(key) {
		return Value{}, false
	}
	r.lock.RLock()
	defer r.lock.RUnlock()
	v, ok := r.m[key]
	return v, ok
}

// LookupString returns the string form of the value stored under
// key.  Nil objects and nil lists count as absent.
func (r *Registry) LookupString(key string) (string, bool) {
	v, ok := r.Lookup(key)
	if !ok || v.isNull() {
		return "", false
	}
	return v.String(), true
}

// HasKey is true when LookupString would find something.
func (r *Registry) HasKey(key string) bool {
	_, ok := r.LookupString(key)
	return ok
}

// HasValue is true if any entry is Equal to value.
func (r *Registry) HasValue(value interface{}) bool {
	var found bool
	r.each(func(_ string, v Value) bool {
		found = v.Equal(value)
		return !found
	})
	return found
}

// KeyForValue returns the first key, in iteration order, whose value
// is Equal to value.  When several keys hold the same value, callers
// should not depend on which one is returned.  If nothing matches,
// the error wraps ErrNoSuchElement.
func (r *Registry) KeyForValue(value interface{}) (string, error) {
	var key string
	var found bool
	r.each(func(k string, v Value) bool {
		if v.Equal(value) {
			key, found = k, true
			return false
		}
		return true
	})
	if !found {
		return "", errors.Wrapf(ErrNoSuchElement, "no key holds value %v", value)
	}
	return key, nil
}

// KeysForValue returns every key whose value is Equal to value.
func (r *Registry) KeysForValue(value interface{}) []string {
	var keys []string
	r.each(func(k string, v Value) bool {
		if v.Equal(value) {
			keys = append(keys, k)
		}
		return true
	})
	return keys
}

func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.m)
}

func (r *Registry) IsEmpty() bool    { return r.Len() == 0 }
func (r *Registry) IsNotEmpty() bool { return !r.IsEmpty() }

// Keys returns all keys in insertion order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, r.Len())
	r.each(func(k string, _ Value) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// AsMap returns a new map from every key to the string form of
// its value.
func (r *Registry) AsMap() map[string]string {
	m := make(map[string]string, r.Len())
	r.each(func(k string, v Value) bool {
		m[k] = v.String()
		return true
	})
	return m
}

// Merge copies every entry of other into r, overwriting on
// collision.
func (r *Registry) Merge(other *Registry) {
	if other == nil || other == r {
		return
	}
	other.each(func(k string, v Value) bool {
		r.put(k, v)
		return true
	})
}

// LoadMap copies m into r.  Value kinds are chosen by ValueOf.
func (r *Registry) LoadMap(m map[string]interface{}) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for k, v := range m {
		r.putLocked(k, ValueOf(v))
	}
}

// Snapshot returns an independent deep copy of r.  Objects and
// lists are copied too, so mutating them does not affect r.
func (r *Registry) Snapshot() *Registry {
	n := NewRegistry()
	r.each(func(k string, v Value) bool {
		switch v.kind {
		case ObjectKind:
			v = ObjectValue(deepcopy.Copy(v.obj))
		case ListKind:
			if v.list != nil {
				v = ListValue(deepcopy.Copy(v.list).([]interface{}))
			}
		}
		n.putLocked(k, v)
		return true
	})
	return n
}

// Properties exports every entry as a ConfigurationProperty.
func (r *Registry) Properties() []ConfigurationProperty {
	props := make([]ConfigurationProperty, 0, r.Len())
	r.each(func(k string, v Value) bool {
		props = append(props, ConfigurationProperty{
			Key:   k,
			Value: v.String(),
			Type:  v.Kind().String(),
		})
		return true
	})
	return props
}
