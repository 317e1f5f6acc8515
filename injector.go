package injection

import (
	"reflect"

	"github.com/rs/zerolog"
)

// Injector resolves a dependency by declared type and parameter name.
//
// Empty strings mean the type or the name is absent. Injectors report
// `found == false` when they have no dependency for the request; an error
// aborts the resolution in progress.
type Injector interface {
	GetDependency(typ, name string) (value any, found bool, err error)
}

// InjectorOpt configures an injector.
type InjectorOpt func(*injectorOptions)

// injectorOptions are shared by the injectors of the package.
type injectorOptions struct {
	hierarchy *Hierarchy
	strict    bool
	logger    zerolog.Logger
	events    Events
}

// newInjectorOptions applies the options over defaults.
func newInjectorOptions(opts []InjectorOpt) injectorOptions {
	options := injectorOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// WithHierarchy sets the type hierarchy used to walk supertypes.
func WithHierarchy(hierarchy *Hierarchy) InjectorOpt {
	return func(options *injectorOptions) {
		options.hierarchy = hierarchy
	}
}

// WithStrictTypes disables structural coercions in type matching.
func WithStrictTypes() InjectorOpt {
	return func(options *injectorOptions) {
		options.strict = true
	}
}

// WithInjectorLogger sets the logger receiving injector warnings.
func WithInjectorLogger(logger zerolog.Logger) InjectorOpt {
	return func(options *injectorOptions) {
		options.logger = logger
	}
}

// WithInjectorEvents sets the broker receiving injector events.
func WithInjectorEvents(events Events) InjectorOpt {
	return func(options *injectorOptions) {
		options.events = events
	}
}

// sameInjector compares injectors by identity.
// Injectors of non-comparable types are never equal.
func sameInjector(a, b Injector) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	typ := reflect.TypeOf(a)
	if typ != reflect.TypeOf(b) || !typ.Comparable() {
		return false
	}
	return a == b
}

// isNilValue returns true for nil and typed nil values.
func isNilValue(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	if isNillableType(rv.Type()) {
		return rv.IsNil()
	}
	return false
}

// isNillableType returns true whether the specified type kind could accept nil.
func isNillableType(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Interface, reflect.Func:
		return true
	default:
		return false
	}
}
