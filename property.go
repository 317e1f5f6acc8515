package injection

import (
	"reflect"
)

// PropertyInjector resolves dependencies by name from the fields of a target.
//
// The target is a struct, a pointer to a struct or a map with string keys.
// A struct field matches by its name or by its `inject:"name"` tag.
// Only exported fields are accessible, including fields promoted from
// embedded structs. Requested types are ignored.
type PropertyInjector struct {
	target any
}

// NewPropertyInjector creates an injector bound to the target.
func NewPropertyInjector(target any) *PropertyInjector {
	return &PropertyInjector{target: target}
}

// Target returns the bound target.
func (p *PropertyInjector) Target() any {
	return p.target
}

// GetDependency implements Injector interface.
// It fails with ErrInvalidDependencyRequest when both type and name are empty.
func (p *PropertyInjector) GetDependency(typ, name string) (any, bool, error) {
	if typ == "" && name == "" {
		return nil, false, ErrInvalidDependencyRequest
	}
	if name == "" {
		return nil, false, nil
	}

	value := reflect.ValueOf(p.target)
	for value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return nil, false, nil
		}
		value = value.Elem()
	}

	switch value.Kind() {
	case reflect.Struct:
		return lookupField(value, name)
	case reflect.Map:
		if value.Type().Key().Kind() != reflect.String {
			return nil, false, nil
		}
		item := value.MapIndex(reflect.ValueOf(name).Convert(value.Type().Key()))
		if !item.IsValid() {
			return nil, false, nil
		}
		return item.Interface(), true, nil
	default:
		return nil, false, nil
	}
}

// lookupField returns the exported field matching the name or inject tag.
// Fields promoted from embedded structs are included; fields behind a nil
// embedded pointer are absent.
func lookupField(value reflect.Value, name string) (any, bool, error) {
	for _, field := range reflect.VisibleFields(value.Type()) {
		if !field.IsExported() {
			continue
		}
		if tag, ok := field.Tag.Lookup("inject"); !(ok && tag == name) && field.Name != name {
			continue
		}
		item, err := value.FieldByIndexErr(field.Index)
		if err != nil || !item.CanInterface() {
			return nil, false, nil
		}
		return item.Interface(), true, nil
	}
	return nil, false, nil
}
