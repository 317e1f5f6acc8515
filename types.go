/*
 * SPDX-FileCopyrightText: Copyright (c) 2003 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package injection

import (
	"reflect"
	"strings"
	"sync"

	"github.com/patrickmn/go-cache"
)

// Primitive category names used by declared types and value bags.
const (
	TypeNull     = "null"
	TypeString   = "string"
	TypeInt      = "int"
	TypeFloat    = "float"
	TypeBool     = "boolean"
	TypeArray    = "array"
	TypeObject   = "object"
	TypeIterable = "iterable"
	TypeCallable = "callable"
)

// Typed is implemented by values reporting their own type chain:
// the most derived type name first, followed by supertypes and capabilities.
type Typed interface {
	TypeChain() []string
}

// NamedType is implemented by values overriding their reflected type name.
type NamedType interface {
	TypeName() string
}

// Stringable marks values convertible to string in lenient type matching.
type Stringable interface {
	String() string
}

// IndexedAccess marks values with associative access in lenient type matching.
type IndexedAccess interface {
	Has(key any) bool
	Get(key any) (any, bool)
	Set(key any, value any)
	Delete(key any)
}

// Iterable marks values which may be traversed as key-value pairs.
// The traversal stops when fn returns false.
type Iterable interface {
	Range(fn func(key, value any) bool)
}

// Hierarchy describes type ancestry as explicit data.
//
// Every declared type name maps to an ordered list of its supertypes and
// implemented capabilities. A nil hierarchy is valid and knows no ancestry.
// The zero value is an empty hierarchy ready to use.
//
// Example:
//
//	h := injection.NewHierarchy().
//		Declare("Animal", "Named").
//		Declare("Dog", "Animal")
//	h.Chain("Dog") // [Dog Animal Named]
type Hierarchy struct {
	mutex   sync.RWMutex
	parents map[string][]string

	// Computed chains, flushed on every declaration.
	chains *cache.Cache
}

// NewHierarchy returns an empty hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		parents: map[string][]string{},
		chains:  cache.New(cache.NoExpiration, 0),
	}
}

// Declare records supertypes of the type name in lookup order.
// Repeated declarations of the same name append new supertypes.
func (h *Hierarchy) Declare(name string, supertypes ...string) *Hierarchy {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.parents == nil {
		h.parents = map[string][]string{}
	}
	if h.chains == nil {
		h.chains = cache.New(cache.NoExpiration, 0)
	}

	known := h.parents[name]
	for _, supertype := range supertypes {
		if supertype != "" && supertype != name && !contains(known, supertype) {
			known = append(known, supertype)
		}
	}
	h.parents[name] = known

	// Every chain passing through the name may have changed.
	h.chains.Flush()
	return h
}

// Known returns true when the name was declared in the hierarchy.
func (h *Hierarchy) Known(name string) bool {
	if h == nil {
		return false
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	_, ok := h.parents[name]
	return ok
}

// Chain returns the name followed by all its supertypes, depth first.
// The result of an empty name is empty.
func (h *Hierarchy) Chain(name string) []string {
	if name == "" {
		return nil
	}
	if h == nil {
		return []string{name}
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if h.chains == nil {
		return h.walk(name, []string{})
	}
	if chain, ok := h.chains.Get(name); ok {
		return chain.([]string)
	}
	chain := h.walk(name, []string{})
	h.chains.SetDefault(name, chain)
	return chain
}

// walk appends name and its supertypes to the chain skipping visited names.
func (h *Hierarchy) walk(name string, chain []string) []string {
	if contains(chain, name) {
		return chain
	}
	chain = append(chain, name)
	for _, parent := range h.parents[name] {
		chain = h.walk(parent, chain)
	}
	return chain
}

// TypeChainOf returns the type chain of the value.
// Values implementing Typed report their own chain.
func TypeChainOf(h *Hierarchy, value any) []string {
	if typed, ok := value.(Typed); ok {
		return typed.TypeChain()
	}
	return h.Chain(TypeNameOf(value))
}

// TypeNameOf returns the type name of the value, or empty string for nil.
func TypeNameOf(value any) string {
	if value == nil {
		return ""
	}
	if named, ok := value.(NamedType); ok {
		return named.TypeName()
	}
	return typeNameOf(reflect.TypeOf(value))
}

// TypeNameFor returns the type name of the static type T.
//
// Example:
//
//	injection.TypeNameFor[io.Closer]() // "io.Closer"
//	injection.TypeNameFor[*MyService]() // "main.MyService"
func TypeNameFor[T any]() string {
	return typeNameOf(reflect.TypeOf((*T)(nil)).Elem())
}

// typeNameOf returns the reflected type name without pointer prefixes.
func typeNameOf(typ reflect.Type) string {
	return strings.TrimLeft(typ.String(), "*")
}

// Category returns the runtime category of the value.
func Category(value any) string {
	if value == nil {
		return TypeNull
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.String:
		return TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return TypeInt
	case reflect.Float32, reflect.Float64:
		return TypeFloat
	case reflect.Bool:
		return TypeBool
	case reflect.Slice, reflect.Array, reflect.Map:
		return TypeArray
	case reflect.Func:
		return TypeCallable
	default:
		return TypeObject
	}
}

// CanonicalType normalizes category aliases to the category vocabulary.
// Other names are returned as is.
func CanonicalType(name string) string {
	switch strings.ToLower(name) {
	case "int", "integer":
		return TypeInt
	case "float", "double":
		return TypeFloat
	case "bool", "boolean":
		return TypeBool
	case TypeString, TypeArray, TypeObject, TypeIterable, TypeCallable, TypeNull:
		return strings.ToLower(name)
	default:
		return name
	}
}

// declaredTypeOf returns declared type name for the Go parameter type.
// Empty interfaces are untyped.
func declaredTypeOf(typ reflect.Type) string {
	switch typ.Kind() {
	case reflect.String:
		return TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return TypeInt
	case reflect.Float32, reflect.Float64:
		return TypeFloat
	case reflect.Bool:
		return "bool"
	case reflect.Slice, reflect.Array, reflect.Map:
		return TypeArray
	case reflect.Func:
		return TypeCallable
	case reflect.Interface:
		if typ.NumMethod() == 0 {
			return ""
		}
	}
	return typeNameOf(typ)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
