package injection

import (
	"reflect"
	"strings"
)

// TypeMatcher decides whether a value satisfies a declared type.
//
// In lenient mode `string` also accepts Stringable values and `array`
// also accepts IndexedAccess values. Strict mode accepts exact categories only.
type TypeMatcher struct {
	// Hierarchy used to walk supertypes of named types.
	Hierarchy *Hierarchy

	// Strict disables structural coercions.
	Strict bool
}

// Match returns true when the value satisfies the declared type.
// An empty declared type matches only when untyped is true.
func (m TypeMatcher) Match(declared string, untyped bool, value any) bool {
	if declared == "" {
		return untyped
	}

	switch CanonicalType(declared) {
	case TypeString:
		if Category(value) == TypeString {
			return true
		}
		_, ok := value.(Stringable)
		return ok && !m.Strict
	case TypeInt:
		return Category(value) == TypeInt
	case TypeFloat:
		return Category(value) == TypeFloat
	case TypeBool:
		return Category(value) == TypeBool
	case TypeArray:
		if Category(value) == TypeArray {
			return true
		}
		_, ok := value.(IndexedAccess)
		return ok && !m.Strict
	case TypeObject:
		return Category(value) == TypeObject
	case TypeIterable:
		if _, ok := value.(Iterable); ok {
			return true
		}
		return value != nil && (Category(value) == TypeArray || reflect.TypeOf(value).Kind() == reflect.Chan)
	case TypeCallable:
		return Category(value) == TypeCallable
	case TypeNull:
		return value == nil
	}

	// Named types match any name on the value chain.
	if value == nil {
		return false
	}
	for _, name := range TypeChainOf(m.Hierarchy, value) {
		if strings.EqualFold(name, declared) {
			return true
		}
	}
	return false
}
