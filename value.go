package configuration

import (
	"fmt"
	"reflect"
)

// Kind says which of the three shapes a Value holds.
type Kind int

const (
	Undefined Kind = iota // no value
	StringKind
	ObjectKind
	ListKind
)

func (k Kind) String() string {
	switch k {
	case StringKind:
		return "string"
	case ObjectKind:
		return "object"
	case ListKind:
		return "list"
	default:
		return "undefined"
	}
}

// Value is what the Registry stores for each key: a string, an
// arbitrary object, or a list of values.
type Value struct {
	kind Kind
	s    string
	obj  interface{}
	list []interface{}
}

func StringValue(s string) Value { return Value{kind: StringKind, s: s} }

func ObjectValue(o interface{}) Value { return Value{kind: ObjectKind, obj: o} }

func ListValue(l []interface{}) Value { return Value{kind: ListKind, list: l} }

// ValueOf picks the Kind from the dynamic type of v.  Strings
// become StringKind, []interface{} and []string become ListKind,
// and everything else is an object.
func ValueOf(v interface{}) Value {
	switch x := v.(type) {
	case Value:
		return x
	case string:
		return StringValue(x)
	case []interface{}:
		return ListValue(x)
	case []string:
		l := make([]interface{}, len(x))
		for i, s := range x {
			l[i] = s
		}
		return ListValue(l)
	default:
		return ObjectValue(v)
	}
}

func (v Value) Kind() Kind { return v.kind }

// Raw returns the value as an interface{}: a string, the stored
// object, or the []interface{} list.
func (v Value) Raw() interface{} {
	switch v.kind {
	case StringKind:
		return v.s
	case ObjectKind:
		return v.obj
	case ListKind:
		return v.list
	default:
		return nil
	}
}

// isNull is true for values that a lookup treats as absent: nil
// objects and nil lists.
func (v Value) isNull() bool {
	switch v.kind {
	case StringKind:
		return false
	case ObjectKind:
		return v.obj == nil
	case ListKind:
		return v.list == nil
	default:
		return true
	}
}

// String returns the string form of the value.
func (v Value) String() string {
	switch v.kind {
	case StringKind:
		return v.s
	case ObjectKind:
		if v.obj == nil {
			return ""
		}
		if s, ok := v.obj.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprint(v.obj)
	case ListKind:
		return fmt.Sprint(v.list)
	default:
		return ""
	}
}

// Equal compares the stored value with other.  Other may be a
// Value or a raw value.
func (v Value) Equal(other interface{}) bool {
	if o, ok := other.(Value); ok {
		other = o.Raw()
	}
	switch v.kind {
	case StringKind:
		s, ok := other.(string)
		return ok && s == v.s
	case ListKind:
		if l, ok := other.([]string); ok {
			other = ValueOf(l).list
		}
		return reflect.DeepEqual(v.list, other)
	case ObjectKind:
		return reflect.DeepEqual(v.obj, other)
	default:
		return false
	}
}
