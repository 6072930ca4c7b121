package configuration

import (
	"reflect"
	"sort"
	"unsafe"

	"github.com/AlekSi/pointer"
	"github.com/go-logr/logr"
	"github.com/muir/commonerrors"
	"github.com/muir/nject"
	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
)

// DefaultTag is the struct tag read by an Injector unless WithTag
// says otherwise.
const DefaultTag = "prop"

// Validate is a subset of the Validate provided by
// https://github.com/go-playground/validator, allowing
// other implementations to be provided if desired
type Validate interface {
	Struct(s interface{}) error
}

// Any target that implements Reactive will have React invoked upon
// it after injection and after validation.
type Reactive interface {
	React(*Service) error
}

// MethodBinder lets a type bind methods to keys without struct tags.
// PropMethods maps method name to registry key.
type MethodBinder interface {
	PropMethods() map[string]string
}

// Injector fills struct fields and calls setter methods with values
// from a Service.
//
// Fields are marked with a struct tag:
//
//	type Server struct {
//		Name    string   `prop:"app.name"`
//		port    int      `prop:"app.port"`          // unexported is fine
//		Hosts   []string `prop:"app.hosts,split=;"` // list or split string
//		Timeout string   `prop:",naming=camel"`     // key is "timeout"
//		Secret  string   `prop:"app.secret,required"`
//		_       struct{} `prop:"app.mode,method=SetMode"`
//	}
//
// The tag parameters are:
//
//	key (position 0): the registry key, "-" to skip the field
//	split: separator used when filling a slice from a string
//	naming=camel|underscore: derive the key from the field name when it is empty
//	method: bind the key to this method instead of the field
//	required: report a missing key instead of zeroing the field
//
// Tags on embedded structs are followed.  Every member is injected on
// its own: a member that cannot be written or invoked is logged and
// skipped, and never stops the other members from being injected.
type Injector struct {
	service    *Service
	tag        string
	validator  Validate
	onInjected func(*Service, *Report) error
	logger     logr.Logger
	delayedErr error
}

// InjectorOpt is a functional argument for NewInjector
type InjectorOpt func(*Injector) error

// WithTag changes the struct tag the injector reads.
func WithTag(tag string) InjectorOpt {
	return func(i *Injector) error {
		if tag == "" {
			return commonerrors.ProgrammerError(errors.New("injection tag cannot be empty"))
		}
		i.tag = tag
		return nil
	}
}

// WithValidate validates each target after injection.
func WithValidate(v Validate) InjectorOpt {
	return func(i *Injector) error {
		i.validator = v
		return nil
	}
}

// WithInjectorLogger overrides the logger inherited from the Service.
func WithInjectorLogger(logger logr.Logger) InjectorOpt {
	return func(i *Injector) error {
		i.logger = logger
		return nil
	}
}

// OnInjected is called after every injection that did not fail as a
// whole.  The chain can ask for *Service and *Report.
func OnInjected(chain ...interface{}) InjectorOpt {
	return func(i *Injector) error {
		return nject.Sequence("default-error-responder",
			nject.Provide("default-error", func() nject.TerminalError {
				return nil
			})).Append("on-injected", chain...).Bind(&i.onInjected, nil)
	}
}

func NewInjector(service *Service, opts ...InjectorOpt) *Injector {
	i := &Injector{
		service: service,
		tag:     DefaultTag,
		logger:  service.Logger(),
	}
	for _, f := range opts {
		err := f(i)
		if err != nil {
			i.delayedErr = err
			break
		}
	}
	return i
}

// MemberFailure records one field or method that was skipped.
type MemberFailure struct {
	Member string
	Key    string
	Err    error
}

// Report describes one injection pass over a target.
type Report struct {
	Target   interface{}
	Injected []string
	Failures []MemberFailure
}

func (r *Report) fail(member, key string, err error) {
	r.Failures = append(r.Failures, MemberFailure{Member: member, Key: key, Err: err})
}

type propTag struct {
	Key      string `pt:"0"`
	Split    string `pt:"split"`
	Naming   string `pt:"naming"`
	Method   string `pt:"method"`
	Required *bool  `pt:"required"`
}

type methodBinding struct {
	member string
	method string
	key    string
	tag    propTag
}

// InjectFields sets every tagged field of target, which must be a
// non-nil pointer to a struct.  Fields whose key is missing are set
// to their zero value.  The returned error is only for failures of
// the whole pass: a bad target, validation, or a failing callback.
func (i *Injector) InjectFields(target interface{}) error {
	_, err := i.Inject(target, false)
	return err
}

// InjectFieldsAndMethods is InjectFields followed by calling every
// bound method with the value of its key.  Methods are bound with a
// "method=" tag on a blank field or through MethodBinder.  A bound
// method must take exactly one argument; it may return an error.
func (i *Injector) InjectFieldsAndMethods(target interface{}) error {
	_, err := i.Inject(target, true)
	return err
}

// Inject does the work of InjectFields and InjectFieldsAndMethods and
// also returns a Report of what was set and what was skipped.
func (i *Injector) Inject(target interface{}, withMethods bool) (*Report, error) {
	if i.delayedErr != nil {
		return nil, i.delayedErr
	}
	v := reflect.ValueOf(target)
	if !v.IsValid() || v.Type().Kind() != reflect.Ptr || v.IsNil() || v.Type().Elem().Kind() != reflect.Struct {
		return nil, commonerrors.ProgrammerError(errors.Errorf(
			"injection target must be a non-nil pointer to a struct, not %T", target))
	}
	report := &Report{Target: target}
	var methods []methodBinding
	i.injectStruct(v.Elem().Type(), v.Elem(), "", report, &methods, make(map[reflect.Type]bool))
	if withMethods {
		methods = append(methods, boundMethods(target)...)
		for _, b := range methods {
			err := i.invoke(v, b)
			if err != nil {
				i.skip(report, b.member, b.key, err)
				continue
			}
			report.Injected = append(report.Injected, b.member)
		}
	}

	t := v.Elem().Type()
	if i.validator != nil {
		err := i.validator.Struct(target)
		if err != nil {
			return report, commonerrors.ConfigurationError(errors.Wrap(err, t.String()))
		}
	}
	if reactive, ok := target.(Reactive); ok {
		err := reactive.React(i.service)
		if err != nil {
			return report, errors.Wrapf(err, "react %s", t)
		}
	}
	if i.onInjected != nil {
		err := i.onInjected(i.service, report)
		if err != nil {
			return report, errors.Wrapf(err, "on injected %s", t)
		}
	}
	return report, nil
}

func (i *Injector) skip(report *Report, member, key string, err error) {
	report.fail(member, key, err)
	i.logger.V(1).Info("skipping member", "member", member, "key", key, "error", err.Error())
}

// path holds the struct types currently being walked.
func (i *Injector) injectStruct(t reflect.Type, v reflect.Value, prefix string, report *Report, methods *[]methodBinding, path map[reflect.Type]bool) {
	path[t] = true
	defer delete(path, t)
	for n := 0; n < t.NumField(); n++ {
		f := t.Field(n)
		member := prefix + f.Name
		if _, ok := f.Tag.Lookup(i.tag); !ok {
			if f.Anonymous && reflectutils.NonPointer(f.Type).Kind() == reflect.Struct {
				i.injectEmbedded(f, v.Field(n), member, report, methods, path)
			}
			continue
		}
		tag := propTag{
			Required: pointer.ToBool(false),
		}
		err := reflectutils.SplitTag(f.Tag).Set().Get(i.tag).Fill(&tag)
		if err != nil {
			i.skip(report, member, "", commonerrors.ProgrammerError(errors.Wrap(err, member)))
			continue
		}
		if tag.Key == "-" {
			continue
		}
		key, err := i.keyFor(f.Name, tag)
		if err != nil {
			i.skip(report, member, "", err)
			continue
		}
		if tag.Method != "" {
			*methods = append(*methods, methodBinding{
				member: tag.Method + "()",
				method: tag.Method,
				key:    key,
				tag:    tag,
			})
			continue
		}
		if f.Name == "_" {
			continue
		}
		debugf("inject: %s <- %q", member, key)
		err = i.setField(v.Field(n), key, tag)
		if err != nil {
			i.skip(report, member, key, err)
			continue
		}
		report.Injected = append(report.Injected, member)
	}
}

// injectEmbedded follows an untagged embedded struct so that tags
// declared on it apply to the outer type.  A nil embedded pointer is
// allocated.  An embedded type that encloses itself is not followed.
func (i *Injector) injectEmbedded(f reflect.StructField, v reflect.Value, member string, report *Report, methods *[]methodBinding, path map[reflect.Type]bool) {
	if path[reflectutils.NonPointer(f.Type)] {
		i.skip(report, member, "", InaccessibleError(errors.Errorf("%s embeds itself", f.Type)))
		return
	}
	v, err := accessible(v)
	if err != nil {
		i.skip(report, member, "", err)
		return
	}
	if f.Type.Kind() == reflect.Ptr {
		if f.Type.Elem().Kind() != reflect.Struct {
			return
		}
		if v.IsNil() {
			v.Set(reflect.New(f.Type.Elem()))
		}
		v = v.Elem()
	}
	i.injectStruct(v.Type(), v, member+".", report, methods, path)
}

func (i *Injector) keyFor(fieldName string, tag propTag) (string, error) {
	if tag.Key != "" || tag.Naming == "" {
		return tag.Key, nil
	}
	normalize, ok := keyNormalizers[tag.Naming]
	if !ok {
		return "", commonerrors.ProgrammerError(errors.Errorf("unknown key naming %q", tag.Naming))
	}
	if fieldName == "_" {
		return "", commonerrors.ProgrammerError(errors.New("cannot derive a key from a blank field"))
	}
	return normalize(fieldName), nil
}

func (i *Injector) resolve(key string, tag propTag) (Value, bool, error) {
	v, ok := i.service.Lookup(key)
	if ok && !v.isNull() {
		return v, true, nil
	}
	if pointer.GetBool(tag.Required) {
		return Value{}, false, PropertyMissingError(key)
	}
	return Value{}, false, nil
}

func (i *Injector) setField(fv reflect.Value, key string, tag propTag) error {
	fv, err := accessible(fv)
	if err != nil {
		return err
	}
	value, found, err := i.resolve(key, tag)
	if err != nil {
		return err
	}
	if !found {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	return assign(fv, value, tag.Split)
}

// accessible returns a settable view of v, going around the
// restriction on unexported fields.
func accessible(v reflect.Value) (reflect.Value, error) {
	if v.CanSet() {
		return v, nil
	}
	if !v.CanAddr() {
		return v, InaccessibleError(errors.Errorf("%s is not addressable", v.Type()))
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem(), nil
}

// assign puts value into v.  Values of an assignable type are set
// directly; lists fill slices element by element; anything else is
// converted from its string form.
func assign(v reflect.Value, value Value, split string) error {
	if raw := reflect.ValueOf(value.Raw()); raw.IsValid() && raw.Type().AssignableTo(v.Type()) {
		v.Set(raw)
		return nil
	}
	if value.Kind() == ListKind && v.Kind() == reflect.Slice {
		elems := reflect.MakeSlice(v.Type(), len(value.list), len(value.list))
		for n, e := range value.list {
			err := assign(elems.Index(n), ValueOf(e), "")
			if err != nil {
				return errors.Wrapf(err, "element %d", n)
			}
		}
		v.Set(elems)
		return nil
	}
	var ssa []reflectutils.StringSetterArg
	if split != "" {
		ssa = append(ssa, reflectutils.WithSplitOn(split))
	}
	setter, err := reflectutils.MakeStringSetter(v.Type(), ssa...)
	if err != nil {
		return InaccessibleError(errors.Wrapf(err, "cannot set %s", v.Type()))
	}
	err = setter(v, value.String())
	if err != nil {
		return InvalidPropertyError(errors.Wrapf(err, "convert %q to %s", value.String(), v.Type()))
	}
	return nil
}

func boundMethods(target interface{}) []methodBinding {
	binder, ok := target.(MethodBinder)
	if !ok {
		return nil
	}
	table := binder.PropMethods()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	bindings := make([]methodBinding, len(names))
	for n, name := range names {
		bindings[n] = methodBinding{
			member: name + "()",
			method: name,
			key:    table[name],
			tag:    propTag{Required: pointer.ToBool(false)},
		}
	}
	return bindings
}

func (i *Injector) invoke(target reflect.Value, b methodBinding) (err error) {
	m := target.MethodByName(b.method)
	if !m.IsValid() {
		return InaccessibleError(errors.Errorf("method %s does not exist or is not exported", b.method))
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.IsVariadic() {
		return InaccessibleError(errors.Errorf("method %s must take exactly one argument", b.method))
	}
	arg := reflect.New(mt.In(0)).Elem()
	value, found, err := i.resolve(b.key, b.tag)
	if err != nil {
		return err
	}
	if found {
		err := assign(arg, value, b.tag.Split)
		if err != nil {
			return err
		}
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("method %s panicked: %v", b.method, r)
		}
	}()
	debugf("inject: %s(%q)", b.method, b.key)
	out := m.Call([]reflect.Value{arg})
	if len(out) > 0 {
		if e, ok := out[len(out)-1].Interface().(error); ok && e != nil {
			return errors.Wrapf(e, "invoke %s", b.method)
		}
	}
	return nil
}
