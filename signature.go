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
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync"
)

// Origin tells how a signature is invoked.
type Origin int

// A signature describes a free function, a method value or a constructor.
const (
	OriginFunction Origin = iota
	OriginMethod
	OriginConstructor
)

// String implements fmt.Stringer interface.
func (o Origin) String() string {
	switch o {
	case OriginFunction:
		return "function"
	case OriginMethod:
		return "method"
	case OriginConstructor:
		return "constructor"
	default:
		return fmt.Sprintf("Origin(%d)", int(o))
	}
}

// Signature declares the parameters of a callable and how to invoke it.
//
// Go reflection does not expose parameter names, so the parameters are
// declared explicitly, one per function input, in order. Parameter types
// left empty are derived from the Go input types.
//
// Valid example signatures:
//
//	// A free function.
//	injection.Func(greet, injection.Param("name"))
//
//	// A method value.
//	injection.Method("Mailer", mailer.Send, injection.Param("to"), injection.Param("body"))
//
//	// A constructor function of *Client.
//	injection.Constructor[*Client](NewClient, injection.Param("url"))
//
//	// A zero-argument construction of *Client, i.e. `new(Client)`.
//	injection.Constructor[*Client](nil)
type Signature struct {
	// Callable function, nil for zero-argument construction.
	fn any

	// Signature name.
	name string

	// Callable location.
	source string

	// Callable origin.
	origin Origin

	// Owner type name of methods and constructors.
	owner string

	// Constructed type, only for constructors.
	ownerType reflect.Type

	// Declared parameters.
	params []Parameter

	// Callable function type and value.
	fnType  reflect.Type
	fnValue reflect.Value

	// Load status guarded by once.
	loader  sync.Once
	loadErr error
}

// Func declares the signature of a free function.
func Func(fn any, params ...Parameter) *Signature {
	name, source := funcName(fn)
	return &Signature{
		fn:     fn,
		name:   name,
		source: source,
		origin: OriginFunction,
		params: params,
	}
}

// Method declares the signature of a method value of the owner type.
func Method(owner string, fn any, params ...Parameter) *Signature {
	name, source := funcName(fn)
	if index := strings.LastIndexByte(name, '.'); index >= 0 {
		name = name[index+1:]
	}
	return &Signature{
		fn:     fn,
		name:   owner + "." + strings.TrimSuffix(name, "-fm"),
		source: source,
		origin: OriginMethod,
		owner:  owner,
		params: params,
	}
}

// Constructor declares the signature of a constructor of T.
//
// The ctor function must return T, optionally followed by an error.
// A nil ctor constructs a zero T without parameters; pointer types
// are allocated.
func Constructor[T any](ctor any, params ...Parameter) *Signature {
	ownerType := reflect.TypeOf((*T)(nil)).Elem()
	owner := typeNameOf(ownerType)
	_, source := funcName(ctor)
	if ctor == nil {
		source = ownerType.PkgPath()
		if ownerType.Kind() == reflect.Ptr {
			source = ownerType.Elem().PkgPath()
		}
	}
	return &Signature{
		fn:        ctor,
		name:      fmt.Sprintf("Constructor[%s]", owner),
		source:    source,
		origin:    OriginConstructor,
		owner:     owner,
		ownerType: ownerType,
		params:    params,
	}
}

// Name returns the signature name.
func (s *Signature) Name() string {
	return s.name
}

// Source returns the package of the callable.
func (s *Signature) Source() string {
	return s.source
}

// Origin returns the callable origin.
func (s *Signature) Origin() Origin {
	return s.origin
}

// Owner returns the owner type name of methods and constructors.
func (s *Signature) Owner() string {
	return s.owner
}

// Params returns the declared parameters with derived types.
func (s *Signature) Params() []Parameter {
	return append([]Parameter(nil), s.params...)
}

// load validates the signature and derives parameter types once.
func (s *Signature) load() error {
	s.loader.Do(func() {
		s.loadErr = s.validate()
	})
	return s.loadErr
}

// validate checks the callable against the declared parameters.
func (s *Signature) validate() error {
	// Zero-argument construction.
	if s.fn == nil {
		if s.origin != OriginConstructor {
			return errors.New("no func specified")
		}
		if len(s.params) != 0 {
			return fmt.Errorf("zero-argument construction of %s declares %d params", s.owner, len(s.params))
		}
		if s.ownerType.Kind() == reflect.Interface {
			return fmt.Errorf("can not construct interface %s", s.owner)
		}
		return nil
	}

	// Validate callable type.
	s.fnType = reflect.TypeOf(s.fn)
	s.fnValue = reflect.ValueOf(s.fn)
	if s.fnType.Kind() != reflect.Func {
		return fmt.Errorf("not a function: %s", s.fnType)
	}
	if s.fnValue.IsNil() {
		return errors.New("nil function")
	}
	if s.fnType.IsVariadic() {
		return fmt.Errorf("variadic function: %s", s.fnType)
	}
	if s.fnType.NumIn() != len(s.params) {
		return fmt.Errorf("function %s accepts %d params, %d declared",
			s.fnType, s.fnType.NumIn(), len(s.params))
	}

	// Validate constructor results.
	if s.origin == OriginConstructor {
		numOut := s.fnType.NumOut()
		switch {
		case numOut == 1:
		case numOut == 2 && s.fnType.Out(1) == errorType:
		default:
			return fmt.Errorf("constructor %s must return %s and an optional error", s.fnType, s.owner)
		}
		if !s.fnType.Out(0).AssignableTo(s.ownerType) {
			return fmt.Errorf("constructor %s does not return %s", s.fnType, s.owner)
		}
	}

	// Derive missing parameter types.
	for index := range s.params {
		param := &s.params[index]
		if param.Name == "" {
			return fmt.Errorf("param %d has no name", index)
		}
		if param.Type == "" && !param.untyped {
			param.Type = declaredTypeOf(s.fnType.In(index))
		}
	}

	return nil
}

// SignatureService provides signatures of callable symbols.
type SignatureService interface {
	// GetSignature returns the signature of the symbol.
	// Symbols without signature fail with ErrInvalidSymbol.
	GetSignature(symbol any) (*Signature, error)
}

// Describer is implemented by symbols describing their own signature.
type Describer interface {
	Signature() *Signature
}

// SignatureRegistry is the default SignatureService.
//
// It accepts signatures, Describer values and names registered with Register.
type SignatureRegistry struct {
	mutex sync.RWMutex
	names map[string]*Signature
}

// NewSignatureRegistry returns an empty signature registry.
func NewSignatureRegistry() *SignatureRegistry {
	return &SignatureRegistry{names: map[string]*Signature{}}
}

// Register makes the signature callable by name.
func (r *SignatureRegistry) Register(name string, signature *Signature) *SignatureRegistry {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.names[name] = signature
	return r
}

// GetSignature implements SignatureService interface.
func (r *SignatureRegistry) GetSignature(symbol any) (*Signature, error) {
	var signature *Signature
	switch typed := symbol.(type) {
	case *Signature:
		signature = typed
	case Describer:
		signature = typed.Signature()
	case string:
		r.mutex.RLock()
		signature = r.names[typed]
		r.mutex.RUnlock()
	}

	if signature == nil {
		return nil, fmt.Errorf("%w: can not resolve any callable from %T", ErrInvalidSymbol, symbol)
	}
	if err := signature.load(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSignature, signature.name, err)
	}
	return signature, nil
}

// funcName returns the function name and its package.
func funcName(fn any) (string, string) {
	value := reflect.ValueOf(fn)
	if value.Kind() != reflect.Func || value.IsNil() {
		return "", ""
	}
	fullName := runtime.FuncForPC(value.Pointer()).Name()
	funcPackage, name := splitFuncName(fullName)
	return name, funcPackage
}

// splitFuncName splits specified func name to package and a name.
func splitFuncName(funcFullName string) (string, string) {
	// Split the full function name with package by dots.
	chunks := strings.Split(funcFullName, ".")
	if len(chunks) < 2 {
		return "", funcFullName
	}

	// The last chunk containing "/" ends the package path.
	last := len(chunks) - 1
	for ; last >= 0; last-- {
		if strings.Contains(chunks[last], "/") {
			break
		}
	}

	// The name contains no package path.
	if last == -1 {
		return chunks[0], strings.Join(chunks[1:], ".")
	}

	return strings.Join(chunks[:last+1], "."), strings.Join(chunks[last+1:], ".")
}
