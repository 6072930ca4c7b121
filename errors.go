package configuration

import (
	"github.com/pkg/errors"
)

// ErrNoSuchElement is the cause behind a failed reverse lookup.
var ErrNoSuchElement = errors.New("no such element")

type propertyMissingError struct {
	key   string
	cause error
}

// PropertyMissingError annotates a lookup of key that found nothing.
// It is returned by the Require* methods of Service.
func PropertyMissingError(key string) error {
	return propertyMissingError{
		key:   key,
		cause: errors.Errorf("configuration property %s is missing", key),
	}
}

func (p propertyMissingError) Error() string { return p.cause.Error() }
func (p propertyMissingError) Unwrap() error { return p.cause }
func (p propertyMissingError) Cause() error  { return p.cause }
func (p propertyMissingError) Key() string   { return p.key }
func (p propertyMissingError) Is(err error) bool {
	_, ok := err.(propertyMissingError)
	return ok
}

func IsPropertyMissingError(err error) bool {
	var p propertyMissingError
	return errors.Is(err, p)
}

// MissingKey returns the key carried by a PropertyMissingError
// anywhere in the chain of err.
func MissingKey(err error) (string, bool) {
	var p propertyMissingError
	if errors.As(err, &p) {
		return p.key, true
	}
	return "", false
}

type invalidPropertyError struct {
	cause error
}

// InvalidPropertyError annotates a stored value that cannot be
// converted to the requested type.
func InvalidPropertyError(err error) error {
	if err == nil {
		return nil
	}
	return invalidPropertyError{
		cause: errors.WithStack(err),
	}
}

func (i invalidPropertyError) Error() string { return i.cause.Error() }
func (i invalidPropertyError) Unwrap() error { return i.cause }
func (i invalidPropertyError) Cause() error  { return i.cause }
func (i invalidPropertyError) Is(err error) bool {
	_, ok := err.(invalidPropertyError)
	return ok
}

func IsInvalidPropertyError(err error) bool {
	var i invalidPropertyError
	return errors.Is(err, i)
}

type resourceUnavailableError struct {
	cause error
}

// ResourceUnavailableError annotates a property source that could
// not be read or parsed.
func ResourceUnavailableError(err error) error {
	if err == nil {
		return nil
	}
	return resourceUnavailableError{
		cause: errors.WithStack(err),
	}
}

func (r resourceUnavailableError) Error() string { return r.cause.Error() }
func (r resourceUnavailableError) Unwrap() error { return r.cause }
func (r resourceUnavailableError) Cause() error  { return r.cause }
func (r resourceUnavailableError) Is(err error) bool {
	_, ok := err.(resourceUnavailableError)
	return ok
}

func IsResourceUnavailableError(err error) bool {
	var r resourceUnavailableError
	return errors.Is(err, r)
}

type inaccessibleError struct {
	cause error
}

// InaccessibleError annotates a struct field or method that could
// not be written or invoked during injection.
func InaccessibleError(err error) error {
	if err == nil {
		return nil
	}
	return inaccessibleError{
		cause: errors.WithStack(err),
	}
}

func (i inaccessibleError) Error() string { return i.cause.Error() }
func (i inaccessibleError) Unwrap() error { return i.cause }
func (i inaccessibleError) Cause() error  { return i.cause }
func (i inaccessibleError) Is(err error) bool {
	_, ok := err.(inaccessibleError)
	return ok
}

func IsInaccessibleError(err error) bool {
	var i inaccessibleError
	return errors.Is(err, i)
}

func IsNoSuchElementError(err error) bool {
	return errors.Is(err, ErrNoSuchElement)
}
