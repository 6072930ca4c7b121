package configuration

import (
	"sync"

	"github.com/go-logr/logr"
	"github.com/muir/commonerrors"
	"github.com/pkg/errors"
)

// Service is the application-wide configuration: a Registry seeded
// with host properties at construction plus the calls that report a
// missing key as an error.  Every Registry method is available on
// Service directly.
//
// Build one with NewService during start-up and pass it to whatever
// needs configuration.  Default returns a shared instance for code
// that cannot be handed one.
type Service struct {
	*Registry
	logger       logr.Logger
	hostProps    bool
	normalizeEnv bool
	environ      func() []string
	injector     *Injector
}

type ServiceOpt func(*Service)

// WithLogger sets the logger used by the service and by its
// injector.  The default discards everything.
func WithLogger(logger logr.Logger) ServiceOpt {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithoutHostProperties starts the service with an empty registry.
func WithoutHostProperties() ServiceOpt {
	return func(s *Service) {
		s.hostProps = false
	}
}

// WithNormalizedEnvironment also registers every environment variable
// under its dotted form: APP_NAME is available as "app.name".
func WithNormalizedEnvironment() ServiceOpt {
	return func(s *Service) {
		s.normalizeEnv = true
	}
}

// WithEnviron replaces os.Environ as the source of environment
// variables.
func WithEnviron(environ func() []string) ServiceOpt {
	return func(s *Service) {
		s.environ = environ
	}
}

func NewService(options ...ServiceOpt) *Service {
	s := &Service{
		Registry:  NewRegistry(),
		logger:    logr.Discard(),
		hostProps: true,
	}
	for _, f := range options {
		f(s)
	}
	if s.hostProps {
		s.loadHostProperties()
	}
	s.injector = NewInjector(s)
	return s
}

var (
	defaultService *Service
	defaultLock    sync.Mutex
)

// Default returns the shared Service, creating it with NewService()
// on first use.
func Default() *Service {
	defaultLock.Lock()
	defer defaultLock.Unlock()
	if defaultService == nil {
		defaultService = NewService()
	}
	return defaultService
}

// SetDefault installs s as the shared Service.
func SetDefault(s *Service) {
	defaultLock.Lock()
	defer defaultLock.Unlock()
	defaultService = s
}

func (s *Service) Logger() logr.Logger { return s.logger }

// RequireString is GetString that reports a missing key as a
// PropertyMissingError.
func (s *Service) RequireString(key string) (string, error) {
	v, ok := s.LookupString(key)
	if !ok {
		return "", PropertyMissingError(key)
	}
	return v, nil
}

func (s *Service) RequireObject(key string) (interface{}, error) {
	v := s.GetObject(key)
	if v == nil {
		return nil, PropertyMissingError(key)
	}
	return v, nil
}

func (s *Service) RequireList(key string) ([]interface{}, error) {
	v := s.GetList(key)
	if v == nil {
		return nil, PropertyMissingError(key)
	}
	return v, nil
}

// RegisterConstant stores value as an object under key.  The key
// must not be empty.
func (s *Service) RegisterConstant(key string, value interface{}) error {
	if !keyIsNotEmpty(key) {
		return commonerrors.ProgrammerError(errors.New("the given key cannot be empty"))
	}
	s.RegisterObject(key, value)
	return nil
}

// RegisterConstants stores every entry of constants as an object.
// Entries with an empty key are skipped.
func (s *Service) RegisterConstants(constants map[string]interface{}) {
	for key, value := range constants {
		if !keyIsNotEmpty(key) {
			s.logger.V(1).Info("skipping constant with empty key")
			continue
		}
		s.RegisterObject(key, value)
	}
}

// PropsAsMap returns every key mapped to the string form of its
// value.
func (s *Service) PropsAsMap() map[string]string { return s.AsMap() }

func (s *Service) NumberOfProperties() int { return s.Len() }

func (s *Service) ContainsKey(key string) bool { return s.HasKey(key) }

func (s *Service) ContainsValue(value interface{}) bool { return s.HasValue(value) }

// LoadFile is Registry.LoadFile with logging.
func (s *Service) LoadFile(path string, opts ...LoadOpt) error {
	before := s.Len()
	err := s.Registry.LoadFile(path, opts...)
	if err != nil {
		s.logger.Error(err, "could not load configuration file", "path", path)
		return err
	}
	s.logger.V(2).Info("loaded configuration file", "path", path, "added", s.Len()-before)
	return nil
}

// Inject fills the tagged fields of target.  See Injector.InjectFields.
func (s *Service) Inject(target interface{}) error {
	return s.injector.InjectFields(target)
}

// InjectAll fills the tagged fields and bound methods of target.  See
// Injector.InjectFieldsAndMethods.
func (s *Service) InjectAll(target interface{}) error {
	return s.injector.InjectFieldsAndMethods(target)
}
