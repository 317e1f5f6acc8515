package injection

import (
	"sort"
	"strings"
)

// Arg is a named argument of a value bag.
type Arg struct {
	Name  string
	Value any
}

// Named marks the value as a named value bag argument.
func Named(name string, value any) Arg {
	return Arg{Name: name, Value: value}
}

// ValueBag injects a fixed set of values indexed by type and by name.
//
// Every value occupies the slot of its category (`INT`, `STRING`, ...).
// Objects occupy a slot for every name of their type chain and the generic
// `OBJECT` slot. Type names spelling a category (`Double`, `String`, ...)
// share its slot and are indexed only when the object satisfies that
// category. The first value stored in a slot wins.
type ValueBag struct {
	options   injectorOptions
	arguments map[string]any
	names     map[string]any
	warned    map[string]bool
	warnings  []*DuplicateArgumentWarning
}

// Values creates a value bag from positional or named (see Named) arguments.
//
// Example:
//
//	injection.Values(1, "Test", injection.Named("flag", false))
func Values(args ...any) *ValueBag {
	return NewValueBag(args)
}

// NewValueBag creates a value bag from positional or named (see Named) arguments.
func NewValueBag(args []any, opts ...InjectorOpt) *ValueBag {
	bag := &ValueBag{
		options:   newInjectorOptions(opts),
		arguments: map[string]any{},
		names:     map[string]any{},
		warned:    map[string]bool{},
	}
	for _, arg := range args {
		if named, ok := arg.(Arg); ok {
			bag.add(named.Name, named.Value)
		} else {
			bag.add("", arg)
		}
	}
	return bag
}

// NewValueBagFromMap creates a value bag of named arguments.
// Arguments are added in the order of sorted names.
func NewValueBagFromMap(args map[string]any, opts ...InjectorOpt) *ValueBag {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]any, 0, len(args))
	for _, name := range names {
		list = append(list, Named(name, args[name]))
	}
	return NewValueBag(list, opts...)
}

// add indexes the value by its type slots and the optional name.
func (b *ValueBag) add(name string, value any) {
	category := Category(value)
	if category == TypeObject {
		matcher := TypeMatcher{Hierarchy: b.options.hierarchy}
		for _, typeName := range TypeChainOf(b.options.hierarchy, value) {
			// Names spelling a category fill its slot only with matching values.
			if isCategoryName(typeName) && !matcher.Match(typeName, false, value) {
				continue
			}
			b.addSlot(typeName, value)
		}
	}
	b.addSlot(category, value)

	if name != "" {
		b.names[name] = value
	}
}

// addSlot stores the value in an empty slot or reports a duplicate.
func (b *ValueBag) addSlot(typeName string, value any) {
	slot := slotName(typeName)
	kept, exists := b.arguments[slot]
	if !exists {
		b.arguments[slot] = value
		return
	}

	// Every object lands in the generic slot.
	if slot == slotName(TypeObject) || b.warned[slot] {
		return
	}
	b.warned[slot] = true

	warning := &DuplicateArgumentWarning{Slot: slot, Kept: kept, Dropped: value}
	b.warnings = append(b.warnings, warning)
	b.options.logger.Warn().
		Str("slot", slot).
		Str("kept", TypeNameOf(kept)).
		Str("dropped", TypeNameOf(value)).
		Msg(warning.Error())
	if err := triggerEvent(b.options.events, DuplicateArgument, warning); err != nil {
		b.options.logger.Error().Err(err).Msg("failed to trigger duplicate argument event")
	}
}

// GetDependency implements Injector interface.
func (b *ValueBag) GetDependency(typ, name string) (any, bool, error) {
	if name != "" {
		if value, ok := b.names[name]; ok {
			return value, true, nil
		}
	}

	for _, typeName := range b.options.hierarchy.Chain(typ) {
		if value, ok := b.arguments[slotName(typeName)]; ok {
			return value, true, nil
		}
	}

	return nil, false, nil
}

// Arguments returns values indexed by type slot.
func (b *ValueBag) Arguments() map[string]any {
	return copyMap(b.arguments)
}

// Names returns values indexed by name.
func (b *ValueBag) Names() map[string]any {
	return copyMap(b.names)
}

// Warnings returns duplicates reported while the bag was created.
func (b *ValueBag) Warnings() []*DuplicateArgumentWarning {
	return b.warnings
}

// slotName returns case-insensitive slot key of the type name.
func slotName(typeName string) string {
	return strings.ToUpper(CanonicalType(typeName))
}

// isCategoryName returns true when the type name spells a category or its alias.
func isCategoryName(typeName string) bool {
	switch CanonicalType(typeName) {
	case TypeNull, TypeString, TypeInt, TypeFloat, TypeBool, TypeArray, TypeObject, TypeIterable, TypeCallable:
		return true
	default:
		return false
	}
}

func copyMap(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for key, value := range m {
		result[key] = value
	}
	return result
}
