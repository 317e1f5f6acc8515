package injection

import (
	"fmt"
	"reflect"
)

// Entry is a keyed element of an object list.
// The key is an int for positional elements and a string for named ones.
type Entry struct {
	Key   any
	Value any
}

// ObjectList injects values from an ordered list of named or positional values.
//
// A dependency requested by a name present in the list is returned as is.
// Otherwise the first value matching the requested type is returned.
type ObjectList struct {
	options injectorOptions
	entries []Entry
	next    int
}

var (
	_ Injector      = (*ObjectList)(nil)
	_ IndexedAccess = (*ObjectList)(nil)
	_ Iterable      = (*ObjectList)(nil)
)

// NewObjectList creates an object list of positional values.
func NewObjectList(values []any, opts ...InjectorOpt) *ObjectList {
	list := &ObjectList{options: newInjectorOptions(opts)}
	for _, value := range values {
		list.Set(nil, value)
	}
	return list
}

// NewNamedObjectList creates an object list of keyed entries.
func NewNamedObjectList(entries []Entry, opts ...InjectorOpt) *ObjectList {
	list := &ObjectList{options: newInjectorOptions(opts)}
	for _, entry := range entries {
		list.Set(entry.Key, entry.Value)
	}
	return list
}

// AddObject appends an object under the name, or positionally if name is empty.
// Values which are not objects are ignored.
func (l *ObjectList) AddObject(object any, name string) *ObjectList {
	if Category(object) != TypeObject {
		return l
	}
	if name == "" {
		l.Set(nil, object)
	} else {
		l.Set(name, object)
	}
	return l
}

// GetDependency implements Injector interface.
func (l *ObjectList) GetDependency(typ, name string) (any, bool, error) {
	if name != "" {
		if value, ok := l.Get(name); ok {
			return value, true, nil
		}
	}

	if typ != "" {
		matcher := TypeMatcher{Hierarchy: l.options.hierarchy, Strict: l.options.strict}
		for _, entry := range l.entries {
			if matcher.Match(typ, false, entry.Value) {
				return entry.Value, true, nil
			}
		}
	}

	return nil, false, nil
}

// Has returns true when the key exists.
func (l *ObjectList) Has(key any) bool {
	return l.indexOf(key) >= 0
}

// Get returns the value stored under the key.
func (l *ObjectList) Get(key any) (any, bool) {
	index := l.indexOf(key)
	if index < 0 {
		return nil, false
	}
	return l.entries[index].Value, true
}

// Set stores the value under the key. A nil key appends the value positionally.
// It panics on keys which are neither strings nor integers.
func (l *ObjectList) Set(key any, value any) {
	if key == nil {
		l.entries = append(l.entries, Entry{Key: l.next, Value: value})
		l.next++
		return
	}

	normalized, ok := normalizeKey(key)
	if !ok {
		panic(fmt.Sprintf("unexpected object list key type: %T", key))
	}
	if index := l.indexOf(normalized); index >= 0 {
		l.entries[index].Value = value
		return
	}
	l.entries = append(l.entries, Entry{Key: normalized, Value: value})
	if position, ok := normalized.(int); ok && position >= l.next {
		l.next = position + 1
	}
}

// Delete removes the key. Missing keys are ignored.
func (l *ObjectList) Delete(key any) {
	if index := l.indexOf(key); index >= 0 {
		l.entries = append(l.entries[:index], l.entries[index+1:]...)
	}
}

// Range calls fn for every entry in order until fn returns false.
func (l *ObjectList) Range(fn func(key, value any) bool) {
	for _, entry := range l.entries {
		if !fn(entry.Key, entry.Value) {
			return
		}
	}
}

// Entries returns a copy of keyed entries in order.
func (l *ObjectList) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Values returns the stored values in order.
func (l *ObjectList) Values() []any {
	values := make([]any, 0, len(l.entries))
	for _, entry := range l.entries {
		values = append(values, entry.Value)
	}
	return values
}

// Len returns the number of entries.
func (l *ObjectList) Len() int {
	return len(l.entries)
}

// indexOf returns the entry index of the key or -1.
func (l *ObjectList) indexOf(key any) int {
	normalized, ok := normalizeKey(key)
	if !ok {
		return -1
	}
	for index, entry := range l.entries {
		if entry.Key == normalized {
			return index
		}
	}
	return -1
}

// normalizeKey converts string and integer keys to string and int.
func normalizeKey(key any) (any, bool) {
	value := reflect.ValueOf(key)
	switch value.Kind() {
	case reflect.String:
		return value.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(value.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(value.Uint()), true
	default:
		return nil, false
	}
}
